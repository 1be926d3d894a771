package parser

import "strings"

// Tokenize splits a legacy-style magic line into argv tokens.
//
// Flags (words starting with '-') are standalone tokens and the word right
// after a flag is taken verbatim as its value. Quoted runs, which may span
// several words, become one token with the quotes removed. Any other words
// are buffered and emitted as a single space-joined token when a flag, a
// quote or the end of the line is reached, so free text can trail the flags
// without being quoted.
func Tokenize(line string) []string {
	var (
		tokens    []string
		buffer    []string
		quoted    []string
		quoteChar byte
		wantValue bool
	)

	flush := func() {
		if len(buffer) > 0 {
			tokens = append(tokens, strings.Join(buffer, " "))
			buffer = buffer[:0]
		}
	}

	for _, word := range strings.Fields(line) {
		if quoteChar != 0 {
			if word[len(word)-1] == quoteChar {
				quoted = append(quoted, word[:len(word)-1])
				tokens = append(tokens, strings.Join(quoted, " "))
				quoted = nil
				quoteChar = 0
			} else {
				quoted = append(quoted, word)
			}
			continue
		}

		switch {
		case word[0] == '-':
			flush()
			tokens = append(tokens, word)
			wantValue = true

		case word[0] == '\'' || word[0] == '"':
			flush()
			wantValue = false
			if len(word) > 1 && word[len(word)-1] == word[0] {
				tokens = append(tokens, word[1:len(word)-1])
				continue
			}
			quoteChar = word[0]
			quoted = append(quoted, word[1:])

		case wantValue:
			tokens = append(tokens, word)
			wantValue = false

		default:
			buffer = append(buffer, word)
		}
	}

	// An unterminated quote keeps whatever it collected.
	if quoteChar != 0 {
		tokens = append(tokens, strings.Join(quoted, " "))
	}
	flush()

	return tokens
}
