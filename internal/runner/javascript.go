package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/dop251/goja"
)

// javaScriptEngine runs snippets in a goja runtime
type javaScriptEngine struct {
	config Config
	logger *slog.Logger
}

func (e *javaScriptEngine) Language() Language {
	return LanguageJavaScript
}

// Run executes code in a new goja runtime. print() and console.log()
// write to the run's output.
func (e *javaScriptEngine) Run(ctx context.Context, name, code string) (res *Result) {
	started := time.Now()
	res = newResult()

	// Create a new goja runtime for each execution (isolation)
	vm := goja.New()

	ctx, cancel := e.config.runContext(ctx)
	defer cancel()

	// Set up interrupt for timeout or context cancellation
	go func() {
		<-ctx.Done()
		vm.Interrupt(context.Cause(ctx).Error())
	}()

	defer func() {
		if r := recover(); r != nil {
			res.Failed = true
			res.Trace = fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
			res = e.config.finish(e.logger, name, res, started)
		}
	}()

	sink := &printSink{}
	if err := e.setupEnvironment(vm, sink); err != nil {
		res.Failed = true
		res.Trace = fmt.Sprintf("failed to setup environment: %v", err)
		return e.config.finish(e.logger, name, res, started)
	}

	if _, err := vm.RunScript(name, code); err != nil {
		res.Failed = true
		res.Trace = javaScriptTrace(err)
	} else {
		res.Output = sink.String()
	}

	return e.config.finish(e.logger, name, res, started)
}

// setupEnvironment installs print and console on the runtime.
func (e *javaScriptEngine) setupEnvironment(vm *goja.Runtime, sink *printSink) error {
	printFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		sink.println(args...)
		return goja.Undefined()
	}
	if err := vm.Set("print", printFunc); err != nil {
		return fmt.Errorf("failed to set print: %w", err)
	}

	// console.log and console.info as aliases for print
	console := vm.NewObject()
	for _, method := range []string{"log", "info"} {
		if err := console.Set(method, printFunc); err != nil {
			return fmt.Errorf("failed to set console.%s: %w", method, err)
		}
	}
	if err := vm.Set("console", console); err != nil {
		return fmt.Errorf("failed to set console: %w", err)
	}

	return nil
}

// javaScriptTrace renders a goja error with its stack when there is one
func javaScriptTrace(err error) string {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Sprintf("execution interrupted: %v", interrupted.Value())
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		return exception.String()
	}

	return err.Error()
}
