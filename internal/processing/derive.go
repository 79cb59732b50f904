package processing

import "strings"

// ContainsHelloWorld reports whether s contains the phrase "hello world",
// ignoring case. The space is part of the phrase, so "hello-world" or
// "helloworld" do not match.
func ContainsHelloWorld(s string) bool {
	return strings.Contains(strings.ToLower(s), "hello world")
}

// IsPalindrome reports whether s reads the same forwards and backwards.
// The comparison is exact: case, spaces, and punctuation all count.
func IsPalindrome(s string) bool {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}
