// Package highlight renders configuration text for the terminal: syntax
// colouring and line deltas against the built-in defaults.
package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Line is one source line split into coloured tokens.
type Line struct {
	Tokens []Token
}

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex colour, empty for default
}

// Plain returns the concatenated plain text of all tokens.
func (l Line) Plain() string {
	var b strings.Builder
	for _, t := range l.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Render returns the line with lipgloss foreground colours applied.
func (l Line) Render() string {
	var b strings.Builder
	for _, t := range l.Tokens {
		if t.Color == "" {
			b.WriteString(t.Text)
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render(t.Text))
	}
	return b.String()
}

// Lines highlights source as the language implied by filename.
// Returns one Line per input line.
func Lines(filename, source string) []Line {
	src := strings.Split(strings.TrimRight(source, "\n"), "\n")
	lexer := lexerForFile(filename)
	if lexer == nil {
		return plainLines(src)
	}

	iterator, err := lexer.Tokenise(nil, strings.Join(src, "\n"))
	if err != nil {
		return plainLines(src)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	result := make([]Line, 0, len(src))
	current := Line{}
	for _, token := range iterator.Tokens() {
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = Line{}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(style, token.Type),
				})
			}
		}
	}
	result = append(result, current)

	// The lexer may emit a trailing newline token.
	if len(result) > len(src) {
		result = result[:len(src)]
	}
	for len(result) < len(src) {
		result = append(result, Line{})
	}
	return result
}

// Render highlights source and joins the rendered lines.
func Render(filename, source string) string {
	lines := Lines(filename, source)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Render()
	}
	return strings.Join(out, "\n")
}

func plainLines(lines []string) []Line {
	result := make([]Line, len(lines))
	for i, line := range lines {
		result[i] = Line{Tokens: []Token{{Text: line}}}
	}
	return result
}

func lexerForFile(filename string) chroma.Lexer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
