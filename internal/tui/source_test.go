package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceText_Display(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"x = 1", "x = 1"},
		{"if True:\n\tprint(1)\n", "if True:\n    print(1)\n"},
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\x00b\x7f", "ab"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, newSourceText(tt.code).Display(), "code %q", tt.code)
	}
}

func TestSourceText_Splice(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		edited string
		want   string
	}{
		{"append after tab indent", "if True:\n\tprint(1)\n", "if True:\n    print(1)\n#", "if True:\n\tprint(1)\n#"},
		{"edit on another line keeps tab", "a\n\tb", "ax\n    b", "ax\n\tb"},
		{"partly deleted tab becomes spaces", "\tx", "   x", "   x"},
		{"crlf kept", "a\r\nb", "a\nbc", "a\r\nbc"},
		{"hidden character kept", "a\x00b", "aXb", "a\x00Xb"},
		{"hidden character inside deletion removed", "a\x00b", "", ""},
		{"lone cr before new line break", "a\rb", "a\n\nb", "a\n\nb"},
		{"lone cr kept when untouched", "a\rb", "a\n", "a\r"},
		{"everything replaced", "\tx", "y", "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := newSourceText(tt.code).splice(tt.edited)

			assert.True(t, ok)
			assert.Equal(t, tt.want, next.code)
			assert.Equal(t, tt.edited, next.Display())
		})
	}
}
