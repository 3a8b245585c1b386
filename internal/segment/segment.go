// Package segment splits raw editor text into sentence spans with stable,
// content-addressed IDs and exact character offsets. Splitting is heuristic:
// terminal punctuation followed by whitespace (or end of input) ends a
// sentence, and a bare newline acts as a soft boundary so line-break-as-
// paragraph writing styles still produce sensible units.
package segment

import (
	"github.com/andreicstoica/refract/internal/domain"
)

// Split segments text into sentences. It is a pure function: the same input
// always yields the same sentences. Empty or whitespace-only input returns nil.
func Split(text string) []domain.Sentence {
	var out []domain.Sentence
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case isTerminator(c) && (i+1 == len(text) || isSpace(text[i+1])):
			out = appendSpan(out, text, start, i+1)
			start = i + 1
		case c == '\n':
			out = appendSpan(out, text, start, i)
			start = i + 1
		case c == '\r':
			out = appendSpan(out, text, start, i)
			// \r\n is a single boundary
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return appendSpan(out, text, start, len(text))
}

// appendSpan trims surrounding whitespace off text[spanStart:spanEnd] while
// keeping StartIndex/EndIndex exact substring bounds of the original string.
// Whitespace-only spans produce nothing.
func appendSpan(out []domain.Sentence, text string, spanStart, spanEnd int) []domain.Sentence {
	for spanStart < spanEnd && isSpace(text[spanStart]) {
		spanStart++
	}
	for spanEnd > spanStart && isSpace(text[spanEnd-1]) {
		spanEnd--
	}
	if spanStart >= spanEnd {
		return out
	}
	body := text[spanStart:spanEnd]
	return append(out, domain.Sentence{
		ID:         domain.SentenceID(spanStart, body),
		Text:       body,
		StartIndex: spanStart,
		EndIndex:   spanEnd,
	})
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
