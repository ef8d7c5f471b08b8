package sentiment

import "strings"

const (
	fallbackMinWordLen = 4
	fallbackMaxWords   = 3
)

// FallbackKeywords derives stand-in keywords from the input text: the first
// three distinct words longer than four characters.
func FallbackKeywords(text string) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0, fallbackMaxWords)

	for _, word := range strings.Fields(text) {
		word = strings.ToLower(strings.Trim(word, ".,!?;:'\"()[]"))
		if len([]rune(word)) <= fallbackMinWordLen {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == fallbackMaxWords {
			break
		}
	}

	return keywords
}
