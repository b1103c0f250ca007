package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJavaScript(t *testing.T, cfg Config) Engine {
	t.Helper()
	cfg.Language = LanguageJavaScript
	engine, err := New(cfg, nil)
	require.NoError(t, err)
	return engine
}

func TestJavaScript_PrintFunction(t *testing.T) {
	engine := newJavaScript(t, DefaultConfig())

	res := engine.Run(context.Background(), "slot-1.js", `print("hello")`)

	require.False(t, res.Failed, res.Trace)
	assert.Equal(t, "hello\n", res.Output)
}

func TestJavaScript_ConsoleLog(t *testing.T) {
	engine := newJavaScript(t, DefaultConfig())

	res := engine.Run(context.Background(), "s.js", `console.log("test", 1); console.info("output")`)

	require.False(t, res.Failed, res.Trace)
	assert.Equal(t, "test 1\noutput\n", res.Output)
}

func TestJavaScript_ExpressionValueNotPrinted(t *testing.T) {
	engine := newJavaScript(t, DefaultConfig())

	res := engine.Run(context.Background(), "s.js", "1 + 1")

	require.False(t, res.Failed, res.Trace)
	assert.Empty(t, res.Output)
}

func TestJavaScript_ThrownError(t *testing.T) {
	engine := newJavaScript(t, DefaultConfig())

	res := engine.Run(context.Background(), "slot-3.js", "print('partial'); throw new Error('boom')")

	require.True(t, res.Failed)
	assert.Contains(t, res.Trace, "Error: boom")
	assert.Contains(t, res.Trace, "slot-3.js")
	assert.Empty(t, res.Output)
}

func TestJavaScript_NamespaceDoesNotPersist(t *testing.T) {
	engine := newJavaScript(t, DefaultConfig())

	first := engine.Run(context.Background(), "s.js", "var x = 5")
	require.False(t, first.Failed, first.Trace)

	second := engine.Run(context.Background(), "s.js", "print(x)")
	require.True(t, second.Failed)
	assert.Contains(t, second.Trace, "ReferenceError")
	assert.Contains(t, second.Trace, "x is not defined")
}

func TestJavaScript_SyntaxError(t *testing.T) {
	engine := newJavaScript(t, DefaultConfig())

	res := engine.Run(context.Background(), "s.js", "function (")

	require.True(t, res.Failed)
	assert.Contains(t, res.Trace, "SyntaxError")
}

func TestJavaScript_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	engine := newJavaScript(t, cfg)

	res := engine.Run(context.Background(), "s.js", "while (true) {}")

	require.True(t, res.Failed)
	assert.True(t, strings.HasPrefix(res.Trace, "execution interrupted"), res.Trace)
	assert.Contains(t, res.Trace, "deadline exceeded")
}

func TestJavaScript_OutputTruncation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxOutputChars = 4
	engine := newJavaScript(t, cfg)

	res := engine.Run(context.Background(), "s.js", `print("abcdefgh")`)

	require.False(t, res.Failed, res.Trace)
	assert.True(t, res.Truncated)
	assert.Equal(t, "abcd", res.Output)
}

func TestJavaScriptTrace_PlainError(t *testing.T) {
	assert.Equal(t, "plain", javaScriptTrace(errors.New("plain")))
}
