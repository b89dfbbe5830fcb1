// Package textutil holds small text heuristics shared by the chat flow.
package textutil

import "unicode"

// IsMostlyEnglish reports whether a text contains more latin letters than
// han characters. It decides whether the composed answer is translated and
// whether English display names are resolved for the recommended recipes.
func IsMostlyEnglish(text string) bool {
	latin, han := 0, 0
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			han++
		case r < 128 && unicode.IsLetter(r):
			latin++
		}
	}
	return latin > han
}
