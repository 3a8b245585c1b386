package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// Sentence is a single sentence span within the editor text. StartIndex and
// EndIndex are exact substring bounds of the original string; Text has leading
// whitespace stripped.
type Sentence struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
}

// idHashLen is how many normalized leading characters participate in a
// sentence ID. Growing a sentence past this prefix never changes its ID, so
// UI elements anchored to the ID survive mid-keystroke re-splits.
const idHashLen = 20

// SentenceID derives a stable, content-addressed identifier from a sentence's
// start offset and the normalized leading content of its text. Two identical
// sentences at different offsets get distinct IDs.
func SentenceID(startIndex int, text string) string {
	return "s" + strconv.Itoa(startIndex) + "-" + normalizeForID(text)
}

func normalizeForID(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	var b strings.Builder
	n := 0
	for _, r := range lowered {
		if n >= idHashLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
		n++
	}
	return b.String()
}
