package model

import (
	"regexp"
	"strings"
	"unicode"
)

var keySeparators = regexp.MustCompile(`[_\-.\s]+`)

// KeyTitle turns a field key such as "friendly_name" or "stateDate" into a
// column title ("Friendly Name", "State Date"). Builders only use it when a
// Titler is configured.
func KeyTitle(key string) string {
	if strings.TrimSpace(key) == "" {
		return ""
	}

	var words []string
	for _, part := range keySeparators.Split(key, -1) {
		words = append(words, splitWords(part)...)
	}
	for i, word := range words {
		words[i] = capitalise(word)
	}
	return strings.Join(words, " ")
}

func splitWords(part string) []string {
	if part == "" {
		return nil
	}
	runes := []rune(part)
	var (
		words []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		if (unicode.IsLower(prev) && unicode.IsUpper(cur)) || (unicode.IsLetter(prev) && unicode.IsDigit(cur)) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

func capitalise(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
