package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	starjson "go.starlark.net/lib/json"
	starmath "go.starlark.net/lib/math"
	startime "go.starlark.net/lib/time"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// starlarkFileOptions lets snippets read like ordinary Python scripts:
// top-level loops and ifs, while, set() and rebinding globals.
var starlarkFileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// starlarkEngine runs snippets with go.starlark.net
type starlarkEngine struct {
	config Config
	logger *slog.Logger
}

func (e *starlarkEngine) Language() Language {
	return LanguageStarlark
}

// Run executes code on a new thread with empty globals.
func (e *starlarkEngine) Run(ctx context.Context, name, code string) (res *Result) {
	started := time.Now()
	res = newResult()

	ctx, cancel := e.config.runContext(ctx)
	defer cancel()

	sink := &printSink{}
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			sink.println(msg)
		},
		Load: func(_ *starlark.Thread, _ string) (starlark.StringDict, error) {
			return nil, errors.New("modules are predeclared (json, math, time, struct)")
		},
	}
	if e.config.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(e.config.MaxSteps)
	}

	// Cancel the thread when the run context ends; after a normal finish
	// the deferred cancel releases this goroutine.
	go func() {
		<-ctx.Done()
		thread.Cancel(context.Cause(ctx).Error())
	}()

	defer func() {
		if r := recover(); r != nil {
			res.Failed = true
			res.Trace = fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
			res = e.config.finish(e.logger, name, res, started)
		}
	}()

	_, err := starlark.ExecFileOptions(starlarkFileOptions, thread, name, code, starlarkPredeclared())
	if err != nil {
		res.Failed = true
		res.Trace = starlarkTrace(err)
	} else {
		res.Output = sink.String()
	}

	return e.config.finish(e.logger, name, res, started)
}

// starlarkPredeclared returns the names visible to every snippet besides
// the universe builtins
func starlarkPredeclared() starlark.StringDict {
	return starlark.StringDict{
		"json":   starjson.Module,
		"math":   starmath.Module,
		"time":   startime.Module,
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
}

// starlarkTrace renders err the way a Python traceback reads: the call
// stack for evaluation faults, every position for resolve faults.
func starlarkTrace(err error) string {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Backtrace()
	}

	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) {
		lines := make([]string, len(resolveErrs))
		for i, e := range resolveErrs {
			lines[i] = e.Error()
		}
		return "resolve error:\n  " + strings.Join(lines, "\n  ")
	}

	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return "syntax error: " + syntaxErr.Error()
	}

	return err.Error()
}
