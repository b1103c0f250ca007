package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabWidth matches the textarea's own tab expansion
const tabWidth = 4

var tabSpaces = []rune(strings.Repeat(" ", tabWidth))

// sourceText pairs a slot's stored code with the text the editor can show.
// The textarea expands tabs, turns carriage returns into line breaks and
// drops other control characters, so the two can differ. Edits made in the
// editor are spliced into the stored code and bytes the user did not touch
// are kept as they were.
type sourceText struct {
	code    string
	display []rune
	tokens  []sourceToken
}

// sourceToken maps one stored character (or a \r\n pair) to the runes it
// occupies in the display
type sourceToken struct {
	start, end   int // bytes in code
	dStart, dEnd int // runes in display
	loneCR       bool
}

func newSourceText(code string) sourceText {
	s := sourceText{code: code}
	for i := 0; i < len(code); {
		r, size := utf8.DecodeRuneInString(code[i:])
		tok := sourceToken{start: i, end: i + size, dStart: len(s.display)}

		switch {
		case r == '\r' && strings.HasPrefix(code[i+size:], "\n"):
			tok.end++
			s.display = append(s.display, '\n')
		case r == '\r':
			tok.loneCR = true
			s.display = append(s.display, '\n')
		case r == '\n':
			s.display = append(s.display, '\n')
		case r == '\t':
			s.display = append(s.display, tabSpaces...)
		case r == utf8.RuneError, unicode.IsControl(r):
			// not shown
		default:
			s.display = append(s.display, r)
		}

		tok.dEnd = len(s.display)
		s.tokens = append(s.tokens, tok)
		i = tok.end
	}
	return s
}

// Display is the text handed to the editor
func (s sourceText) Display() string {
	return string(s.display)
}

// splice applies an editor change to the stored code. edited is the full
// editor text after one edit. Only the stored characters whose display
// overlaps the changed runes are rewritten. A tab partly edited becomes the
// spaces that were shown. When the result cannot be mapped back, the edited
// text replaces the code and ok is false.
func (s sourceText) splice(edited string) (next sourceText, ok bool) {
	before := s.display
	after := []rune(edited)

	p := 0
	for p < len(before) && p < len(after) && before[p] == after[p] {
		p++
	}
	q := 0
	for q < len(before)-p && q < len(after)-p && before[len(before)-1-q] == after[len(after)-1-q] {
		q++
	}
	a, b := p, len(before)-q
	inserted := after[p : len(after)-q]

	// tokens [i, j) are rewritten
	i := len(s.tokens)
	for k, tok := range s.tokens {
		if tok.dEnd > a {
			i = k
			break
		}
	}
	j := i
	for j < len(s.tokens) && s.tokens[j].dStart < b {
		j++
	}

	right := a
	if j > i {
		right = s.tokens[j-1].dEnd
	}
	codeEnd := len(s.code)
	if j < len(s.tokens) {
		codeEnd = s.tokens[j].start
	}

	mid := string(s.display[s.dispStart(i):a]) + string(inserted) + string(s.display[b:right])

	// a kept \r followed by a new \n would read back as one line break
	if i > 0 && s.tokens[i-1].loneCR && strings.HasPrefix(mid+s.code[codeEnd:], "\n") {
		i--
		mid = "\n" + mid
	}

	code := s.code[:s.codeStart(i)] + mid + s.code[codeEnd:]
	next = newSourceText(code)
	if next.Display() != edited {
		return newSourceText(edited), false
	}
	return next, true
}

func (s sourceText) dispStart(i int) int {
	if i < len(s.tokens) {
		return s.tokens[i].dStart
	}
	return len(s.display)
}

func (s sourceText) codeStart(i int) int {
	if i < len(s.tokens) {
		return s.tokens[i].start
	}
	return len(s.code)
}
