package main

import "github.com/itsmostafa/codeslots/cmd"

func main() {
	cmd.Execute()
}
