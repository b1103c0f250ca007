package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// tengoModules are importable from snippets. fmt and os are left out: they
// write to the process stdout and touch the host.
var tengoModules = []string{"math", "text", "times", "rand", "json", "base64", "hex", "enum"}

// tengoMainFile is the file name tengo puts in positions
const tengoMainFile = "(main)"

// tengoEngine runs snippets with the Tengo scripting language
type tengoEngine struct {
	config Config
	logger *slog.Logger
}

func (e *tengoEngine) Language() Language {
	return LanguageTengo
}

// Run compiles code as a new script with only the print builtins and the
// allowed modules defined.
func (e *tengoEngine) Run(ctx context.Context, name, code string) (res *Result) {
	started := time.Now()
	res = newResult()

	ctx, cancel := e.config.runContext(ctx)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			res.Failed = true
			res.Trace = fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
			res = e.config.finish(e.logger, name, res, started)
		}
	}()

	sink := &printSink{}
	script := tengo.NewScript([]byte(code))
	script.SetImports(stdlib.GetModuleMap(tengoModules...))
	if e.config.MaxAllocs > 0 {
		script.SetMaxAllocs(e.config.MaxAllocs)
	}
	for _, fn := range tengoBuiltins(sink) {
		if err := script.Add(fn.Name, fn); err != nil {
			res.Failed = true
			res.Trace = fmt.Sprintf("failed to add %s: %v", fn.Name, err)
			return e.config.finish(e.logger, name, res, started)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		res.Failed = true
		res.Trace = tengoTrace(name, err)
		return e.config.finish(e.logger, name, res, started)
	}

	if err := compiled.RunContext(ctx); err != nil {
		res.Failed = true
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			res.Trace = fmt.Sprintf("execution interrupted: %v", context.Cause(ctx))
		} else {
			res.Trace = tengoTrace(name, err)
		}
	} else {
		res.Output = sink.String()
	}

	return e.config.finish(e.logger, name, res, started)
}

// tengoBuiltins returns print (no newline) and println bound to sink
func tengoBuiltins(sink *printSink) []*tengo.UserFunction {
	join := func(args []tengo.Object) string {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = objectToString(arg)
		}
		return strings.Join(parts, " ")
	}

	return []*tengo.UserFunction{
		{
			Name: "println",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				sink.println(join(args))
				return tengo.UndefinedValue, nil
			},
		},
		{
			Name: "print",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				sink.write(join(args))
				return tengo.UndefinedValue, nil
			},
		},
	}
}

// objectToString converts a Tengo object to its printed form
func objectToString(obj tengo.Object) string {
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Undefined:
		return "undefined"
	default:
		return obj.String()
	}
}

// tengoTrace names the snippet in tengo's positions
func tengoTrace(name string, err error) string {
	return strings.ReplaceAll(err.Error(), tengoMainFile, name)
}
