package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so commands can be executed
// repeatedly in one process
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// isolate points config, logging and the store at a temp dir
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("CODESLOTS_LOGGING_ENABLED", "false")
	return filepath.Join(dir, "slots.json")
}

func TestSetAndShow(t *testing.T) {
	path := isolate(t)

	stdout, _, err := execute(t, "print('hi')\n", "set", "3", "--store", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved")

	stdout, _, err = execute(t, "", "show", "3", "--store", path)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", stdout)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, map[string]string{"3": "print('hi')\n"}, doc)
}

func TestRun_PrintsOutput(t *testing.T) {
	path := isolate(t)
	_, _, err := execute(t, `print("hello")`, "set", "1", "--store", path)
	require.NoError(t, err)

	stdout, stderr, err := execute(t, "", "run", "--store", path)

	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout)
	assert.Contains(t, stderr, "Slot")
}

func TestRun_QuietOmitsFooter(t *testing.T) {
	path := isolate(t)
	_, _, err := execute(t, `print("x")`, "set", "2", "--store", path)
	require.NoError(t, err)

	stdout, stderr, err := execute(t, "", "run", "2", "-q", "--store", path)

	require.NoError(t, err)
	assert.Equal(t, "x\n", stdout)
	assert.Empty(t, stderr)
}

func TestRun_FaultPrintsTraceOnly(t *testing.T) {
	path := isolate(t)
	_, _, err := execute(t, "print('partial')\n1/0\n", "set", "4", "--store", path)
	require.NoError(t, err)

	stdout, stderr, err := execute(t, "", "run", "4", "--store", path)

	require.ErrorIs(t, err, errSnippetFailed)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "division by zero")
	assert.Contains(t, stderr, "slot-4.star")
	assert.NotContains(t, stderr, "partial")
}

func TestRun_JavaScript(t *testing.T) {
	path := isolate(t)
	_, _, err := execute(t, `console.log("from js")`, "set", "5", "--store", path)
	require.NoError(t, err)

	stdout, _, err := execute(t, "", "run", "5", "--lang", "js", "--store", path)

	require.NoError(t, err)
	assert.Equal(t, "from js\n", stdout)
}

func TestRun_Tengo(t *testing.T) {
	path := isolate(t)
	_, _, err := execute(t, `println("from tengo")`, "set", "6", "--store", path)
	require.NoError(t, err)

	stdout, _, err := execute(t, "", "run", "6", "-q", "--lang", "tengo", "--store", path)

	require.NoError(t, err)
	assert.Equal(t, "from tengo\n", stdout)
}

func TestRun_EmptySlotPrintsNothing(t *testing.T) {
	path := isolate(t)

	stdout, _, err := execute(t, "", "run", "9", "-q", "--store", path)

	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestInvalidSlotArgument(t *testing.T) {
	path := isolate(t)

	tests := [][]string{
		{"run", "0"},
		{"run", "101"},
		{"show", "abc"},
		{"clear", "-1"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, _, err := execute(t, "", append(args, "--store", path)...)
			assert.ErrorContains(t, err, "invalid slot")
		})
	}
}

func TestListAndClear(t *testing.T) {
	path := isolate(t)
	_, _, err := execute(t, "a = 1\nprint(a)\n", "set", "10", "--store", path)
	require.NoError(t, err)
	_, _, err = execute(t, "\n# second\n", "set", "2", "--store", path)
	require.NoError(t, err)

	stdout, _, err := execute(t, "", "list", "--store", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2")
	assert.Contains(t, lines[0], "# second")
	assert.Contains(t, lines[1], "10")
	assert.Contains(t, lines[1], "a = 1")

	_, _, err = execute(t, "", "clear", "10", "--store", path)
	require.NoError(t, err)

	stdout, _, err = execute(t, "", "list", "--store", path)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "a = 1")
}

func TestList_Empty(t *testing.T) {
	path := isolate(t)

	stdout, _, err := execute(t, "", "list", "--store", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "No saved slots")
}

func TestInvalidConfiguration(t *testing.T) {
	path := isolate(t)

	_, _, err := execute(t, "", "show", "1", "--lang", "cobol", "--store", path)

	assert.ErrorContains(t, err, "invalid configuration")
	assert.ErrorContains(t, err, "runner.language")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "x = 1", firstLine("\n\n  x = 1\ny", 20))
	assert.Equal(t, "", firstLine("\n \n", 20))
	assert.Equal(t, "abcd…", firstLine("abcdefgh", 5))
}

func TestVersionFlag(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "", "--version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "codeslots "))
}
