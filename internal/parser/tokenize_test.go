package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "empty line",
			line:     "   ",
			expected: nil,
		},
		{
			name:     "free text becomes one token",
			line:     "hello   big world",
			expected: []string{"hello big world"},
		},
		{
			name:     "flag value pair before free text",
			line:     "--limit 10 my query text",
			expected: []string{"--limit", "10", "my query text"},
		},
		{
			name:     "single dash flag",
			line:     "-limit 10 query",
			expected: []string{"-limit", "10", "query"},
		},
		{
			name:     "consecutive flags",
			line:     "--verbose --limit 5",
			expected: []string{"--verbose", "--limit", "5"},
		},
		{
			name:     "double quoted run",
			line:     `--query "a b c" rest`,
			expected: []string{"--query", "a b c", "rest"},
		},
		{
			name:     "single quoted word",
			line:     `'single'`,
			expected: []string{"single"},
		},
		{
			name:     "buffer flushed before flag",
			line:     "foo bar --x 1 baz",
			expected: []string{"foo bar", "--x", "1", "baz"},
		},
		{
			name:     "buffer flushed before quote",
			line:     `foo 'bar baz' qux`,
			expected: []string{"foo", "bar baz", "qux"},
		},
		{
			name:     "unterminated quote keeps content",
			line:     `"never closed here`,
			expected: []string{"never closed here"},
		},
		{
			name:     "value after quote is not a flag value",
			line:     `--q 'a b' loose words`,
			expected: []string{"--q", "a b", "loose words"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.line))
		})
	}
}
