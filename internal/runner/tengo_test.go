package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTengo(t *testing.T, cfg Config) Engine {
	t.Helper()
	cfg.Language = LanguageTengo
	engine, err := New(cfg, nil)
	require.NoError(t, err)
	return engine
}

func TestTengo_Println(t *testing.T) {
	engine := newTengo(t, DefaultConfig())

	res := engine.Run(context.Background(), "slot-1.tengo", `println("hello", 1, [2])`)

	require.False(t, res.Failed, res.Trace)
	assert.Equal(t, "hello 1 [2]\n", res.Output)
}

func TestTengo_PrintWithoutNewline(t *testing.T) {
	engine := newTengo(t, DefaultConfig())

	res := engine.Run(context.Background(), "s.tengo", `print("a"); print("b")`)

	require.False(t, res.Failed, res.Trace)
	assert.Equal(t, "ab", res.Output)
}

func TestTengo_StdlibModules(t *testing.T) {
	engine := newTengo(t, DefaultConfig())

	code := "text := import(\"text\")\nprintln(text.to_upper(\"hi\"))\n"
	res := engine.Run(context.Background(), "s.tengo", code)

	require.False(t, res.Failed, res.Trace)
	assert.Equal(t, "HI\n", res.Output)
}

func TestTengo_HostModulesUnavailable(t *testing.T) {
	engine := newTengo(t, DefaultConfig())

	for _, module := range []string{"fmt", "os"} {
		res := engine.Run(context.Background(), "s.tengo", module+` := import("`+module+`")`)

		require.True(t, res.Failed, module)
		assert.Contains(t, res.Trace, "module '"+module+"' not found")
	}
}

func TestTengo_RuntimeFaultDiscardsOutput(t *testing.T) {
	engine := newTengo(t, DefaultConfig())

	res := engine.Run(context.Background(), "s.tengo", "println(\"partial\")\nx := 1 / 0\n")

	require.True(t, res.Failed)
	assert.Contains(t, res.Trace, "divide by zero")
	assert.Empty(t, res.Output)
}

func TestTengo_NamespaceDoesNotPersist(t *testing.T) {
	engine := newTengo(t, DefaultConfig())

	first := engine.Run(context.Background(), "s.tengo", "x := 5")
	require.False(t, first.Failed, first.Trace)

	second := engine.Run(context.Background(), "slot-8.tengo", "println(x)")
	require.True(t, second.Failed)
	assert.Contains(t, second.Trace, "unresolved reference 'x'")
	assert.Contains(t, second.Trace, "slot-8.tengo:1:")
	assert.NotContains(t, second.Trace, tengoMainFile)
}

func TestTengo_ParseError(t *testing.T) {
	engine := newTengo(t, DefaultConfig())

	res := engine.Run(context.Background(), "s.tengo", "x := ")

	require.True(t, res.Failed)
	assert.Contains(t, res.Trace, "Parse Error")
}

func TestTengo_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	engine := newTengo(t, cfg)

	res := engine.Run(context.Background(), "s.tengo", "for {}")

	require.True(t, res.Failed)
	assert.Contains(t, res.Trace, "execution interrupted")
	assert.Contains(t, res.Trace, "deadline exceeded")
}

func TestTengo_MaxAllocs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAllocs = 100
	engine := newTengo(t, cfg)

	res := engine.Run(context.Background(), "s.tengo", "a := []\nfor { a = append(a, 1) }\n")

	require.True(t, res.Failed)
	assert.Contains(t, res.Trace, "allocation limit exceeded")
}
