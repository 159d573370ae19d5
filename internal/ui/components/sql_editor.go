package components

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazydb/internal/ui/theme"
)

// SQLEditor renders the statement being typed with keyword highlighting
type SQLEditor struct {
	Buffer string

	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// View renders the editor
func (e *SQLEditor) View() string {
	if e.Buffer == "" && !e.Focused {
		return lipgloss.NewStyle().Foreground(e.Theme.Muted).Italic(true).
			Render("Press Tab to write SQL")
	}

	content := Highlight(e.Buffer, e.Theme)
	if e.Focused {
		content += lipgloss.NewStyle().Reverse(true).Render(" ")
	}

	style := lipgloss.NewStyle()
	if e.Width > 0 {
		style = style.Width(e.Width)
	}
	if e.Height > 0 {
		style = style.MaxHeight(e.Height)
	}
	return style.Render(content)
}

var sqlKeywords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"INSERT": true, "INTO": true, "VALUES": true, "UPDATE": true, "SET": true,
	"DELETE": true, "CREATE": true, "TABLE": true, "DROP": true, "ALTER": true,
	"INDEX": true, "VIEW": true, "JOIN": true, "LEFT": true, "RIGHT": true,
	"INNER": true, "OUTER": true, "ON": true, "AS": true, "ORDER": true,
	"BY": true, "GROUP": true, "HAVING": true, "LIMIT": true, "OFFSET": true,
	"UNION": true, "DISTINCT": true, "CASE": true, "WHEN": true, "THEN": true,
	"ELSE": true, "END": true, "NULL": true, "NOT": true, "IN": true,
	"EXISTS": true, "BETWEEN": true, "LIKE": true, "IS": true, "TRUE": true,
	"FALSE": true, "ASC": true, "DESC": true, "PRIMARY": true, "KEY": true,
	"DEFAULT": true, "WITH": true, "RETURNING": true, "COUNT": true,
	"SHOW": true, "DESCRIBE": true, "EXPLAIN": true, "PRAGMA": true,
}

// TokenType is the highlighting class of a token
type TokenType int

const (
	TokenText TokenType = iota
	TokenKeyword
	TokenString
	TokenNumber
	TokenComment
	TokenOperator
)

// Token is a run of SQL text of a single class
type Token struct {
	Type  TokenType
	Value string
}

const operatorChars = "=<>!+-*/%&|^~"

// Tokenize splits sql into highlighting tokens. Concatenating the token
// values gives back sql.
func Tokenize(sql string) []Token {
	src := []rune(sql)
	var tokens []Token

	for i := 0; i < len(src); {
		start := i
		r := src[i]

		switch {
		case unicode.IsSpace(r):
			for i < len(src) && unicode.IsSpace(src[i]) {
				i++
			}
			tokens = append(tokens, Token{TokenText, string(src[start:i])})

		case r == '-' && i+1 < len(src) && src[i+1] == '-':
			tokens = append(tokens, Token{TokenComment, string(src[i:])})
			i = len(src)

		case r == '\'':
			i++
			for i < len(src) {
				if src[i] == '\'' {
					// '' is an escaped quote
					if i+1 < len(src) && src[i+1] == '\'' {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
			tokens = append(tokens, Token{TokenString, string(src[start:i])})

		case unicode.IsDigit(r):
			for i < len(src) && (unicode.IsDigit(src[i]) || src[i] == '.') {
				i++
			}
			tokens = append(tokens, Token{TokenNumber, string(src[start:i])})

		case unicode.IsLetter(r) || r == '_':
			for i < len(src) && (unicode.IsLetter(src[i]) || unicode.IsDigit(src[i]) || src[i] == '_') {
				i++
			}
			word := string(src[start:i])
			typ := TokenText
			if sqlKeywords[strings.ToUpper(word)] {
				typ = TokenKeyword
			}
			tokens = append(tokens, Token{typ, word})

		case strings.ContainsRune(operatorChars, r):
			for i < len(src) && strings.ContainsRune(operatorChars, src[i]) {
				i++
			}
			tokens = append(tokens, Token{TokenOperator, string(src[start:i])})

		default:
			i++
			tokens = append(tokens, Token{TokenText, string(r)})
		}
	}
	return tokens
}

// Highlight renders sql with the theme's syntax colors
func Highlight(sql string, th theme.Theme) string {
	var b strings.Builder
	for _, tok := range Tokenize(sql) {
		style := lipgloss.NewStyle()
		switch tok.Type {
		case TokenKeyword:
			style = style.Foreground(th.Keyword).Bold(true)
		case TokenString:
			style = style.Foreground(th.String)
		case TokenNumber:
			style = style.Foreground(th.Number)
		case TokenComment:
			style = style.Foreground(th.Comment).Italic(true)
		case TokenOperator:
			style = style.Foreground(th.Operator)
		default:
			style = style.Foreground(th.Foreground)
		}
		b.WriteString(style.Render(tok.Value))
	}
	return b.String()
}
