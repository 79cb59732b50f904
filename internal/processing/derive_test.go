package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsHelloWorld(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact phrase", "hello world", true},
		{"mixed case", "Hello World", true},
		{"upper case", "HELLO WORLD", true},
		{"embedded in sentence", "well hello world again", true},
		{"hyphenated", "hello-world", false},
		{"no space", "helloworld", false},
		{"words apart", "hello there world", false},
		{"empty", "", false},
		{"multiple spaces between words", "hello  world", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsHelloWorld(tt.input))
		})
	}
}

func TestIsPalindrome(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"even length palindrome", "abba", true},
		{"odd length palindrome", "racecar", true},
		{"case sensitive", "Abba", false},
		{"not a palindrome", "hello", false},
		{"empty string", "", true},
		{"single rune", "x", true},
		{"two different runes", "ab", false},
		{"spaces count", "a b a", true},
		{"space position breaks it", "a bba", false},
		{"multibyte runes", "あはあ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPalindrome(tt.input))
		})
	}
}
