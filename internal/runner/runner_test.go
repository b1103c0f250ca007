package runner

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLanguage(t *testing.T) {
	tests := []struct {
		input   string
		want    Language
		wantErr bool
	}{
		{input: "starlark", want: LanguageStarlark},
		{input: "Python", want: LanguageStarlark},
		{input: " py ", want: LanguageStarlark},
		{input: "javascript", want: LanguageJavaScript},
		{input: "JS", want: LanguageJavaScript},
		{input: "tengo", want: LanguageTengo},
		{input: "lua", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateLanguage(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown language")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_SelectsEngine(t *testing.T) {
	engine, err := New(Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, LanguageStarlark, engine.Language())

	engine, err = New(Config{Language: "js"}, nil)
	require.NoError(t, err)
	assert.Equal(t, LanguageJavaScript, engine.Language())

	engine, err = New(Config{Language: LanguageTengo}, nil)
	require.NoError(t, err)
	assert.Equal(t, LanguageTengo, engine.Language())

	_, err = New(Config{Language: "cobol"}, nil)
	assert.Error(t, err)
}

func TestLanguage_FileName(t *testing.T) {
	assert.Equal(t, "slot-7.star", LanguageStarlark.FileName(7))
	assert.Equal(t, "slot-100.js", LanguageJavaScript.FileName(100))
	assert.Equal(t, "slot-3.tengo", LanguageTengo.FileName(3))
}

func TestResult_Text(t *testing.T) {
	ok := &Result{Output: "out"}
	assert.Equal(t, "out", ok.Text())

	failed := &Result{Output: "ignored", Trace: "trace", Failed: true}
	assert.Equal(t, "trace", failed.Text())
}

func TestRun_FreshRunIDs(t *testing.T) {
	engine, err := New(DefaultConfig(), nil)
	require.NoError(t, err)

	a := engine.Run(context.Background(), "s.star", "")
	b := engine.Run(context.Background(), "s.star", "")

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.False(t, a.Failed)
	assert.Empty(t, a.Output)
}

func TestRun_LogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	engine, err := New(DefaultConfig(), logger)
	require.NoError(t, err)

	res := engine.Run(context.Background(), "slot-4.star", "1/0")
	require.True(t, res.Failed)

	logged := buf.String()
	assert.Contains(t, logged, "snippet failed")
	assert.Contains(t, logged, "run_id="+res.RunID)
	assert.Contains(t, logged, "script=slot-4.star")
	assert.Contains(t, logged, "engine=starlark")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "日本", truncateRunes("日本語", 2))
}
