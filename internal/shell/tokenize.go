// Package shell splits dashboard command lines into argument vectors.
package shell

import "strings"

// Tokenize splits a command line on unquoted whitespace. A double or single
// quote opens a span in which whitespace and the opposing quote character are
// literal; the quote character itself is consumed. An unterminated quote
// extends to the end of the line rather than failing, so partial input from
// an LLM reply still tokenizes usefully.
func Tokenize(line string) []string {
	var tokens []string
	var current strings.Builder
	inToken := false
	var quote rune // 0 when outside a quoted span

	flush := func() {
		if inToken {
			tokens = append(tokens, current.String())
			current.Reset()
			inToken = false
		}
	}

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			flush()
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	flush()
	return tokens
}
