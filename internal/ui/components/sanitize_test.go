package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineStripsOscAndNewlines(t *testing.T) {
	input := "\x1b]8;;https://evil\x07click\x1b]8;;\x07\nline\tmore"
	out := SanitizeOneLine(input)

	assert.False(t, strings.Contains(out, "\x1b"))
	assert.False(t, strings.Contains(out, "\n"))
	assert.False(t, strings.Contains(out, "\t"))
	assert.Contains(t, out, "click")
}

func TestSanitizeTextRemovesBidiControls(t *testing.T) {
	input := "safe\u202eexe.txt"
	out := SanitizeText(input)

	assert.NotContains(t, out, "\u202e")
}

func TestSanitizeInputKeepsAllowedCharacters(t *testing.T) {
	assert.Equal(t, "go lang,rust 2", SanitizeInput("go lang,rust 2"))
	assert.Equal(t, "Überçafé", SanitizeInput("Überçafé"))
}

func TestSanitizeInputDropsPunctuationAndSymbols(t *testing.T) {
	assert.Equal(t, "ab", SanitizeInput("a!@#$%^&*()b"))
	assert.Equal(t, "cpp", SanitizeInput("c++.p;p"))
	assert.Equal(t, "", SanitizeInput("-_/\\"))
	assert.Equal(t, "", SanitizeInput(""))
}

func TestSanitizeInputDropsControlAndEscapeBytes(t *testing.T) {
	out := SanitizeInput("\x1b[31mred")
	assert.NotContains(t, out, "\x1b")
	assert.Equal(t, "31mred", out)
}

func TestSanitizeInputFlattensLineBreaks(t *testing.T) {
	assert.Equal(t, "foo bar", SanitizeInput("foo\nbar"))
	assert.Equal(t, "a  b c", SanitizeInput("a\r\nb\tc"))
	assert.NotContains(t, SanitizeInput("x\u2028y"), "\u2028")
}
