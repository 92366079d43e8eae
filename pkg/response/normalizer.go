// Package response post-processes model-generated text before it reaches the
// user: citation artifacts are stripped and the reply is bounded to a few
// sentences so the conversational register survives whatever the completion
// provider produces.
package response

import (
	"regexp"
	"strings"
)

// MaxSentences caps how many sentences of a generated reply survive
// normalization.
const MaxSentences = 3

var (
	bracketCitationRe = regexp.MustCompile(`\[\d+\]`)
	parenCitationRe   = regexp.MustCompile(`\(\d+\)`)
	sourceLineRe      = regexp.MustCompile(`(?m)Source:.*$`)
	referenceLineRe   = regexp.MustCompile(`(?m)References?:.*$`)
	accordingToRe     = regexp.MustCompile(`According to.*?,`)
	whitespaceRe      = regexp.MustCompile(`\s+`)
	danglingPunctRe   = regexp.MustCompile(`\s+([.!?,;])`)
)

// Normalize strips citation markers, "Source:"/"Reference:" lines and
// "According to ...," lead-ins, collapses whitespace, caps the result at
// MaxSentences and guarantees terminal punctuation. Pure and idempotent;
// empty or whitespace-only input comes back as the empty string (the caller
// substitutes its fallback message upstream, not here).
func Normalize(raw string) string {
	text := bracketCitationRe.ReplaceAllString(raw, "")
	text = parenCitationRe.ReplaceAllString(text, "")
	text = sourceLineRe.ReplaceAllString(text, "")
	text = referenceLineRe.ReplaceAllString(text, "")
	text = accordingToRe.ReplaceAllString(text, "")

	text = whitespaceRe.ReplaceAllString(text, " ")
	text = danglingPunctRe.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(text)

	if text == "" {
		return ""
	}

	text = ensureTerminalPunctuation(text)

	sentences := splitSentences(text)
	if len(sentences) > MaxSentences {
		text = strings.Join(sentences[:MaxSentences], " ")
		text = ensureTerminalPunctuation(text)
	}

	return text
}

func ensureTerminalPunctuation(text string) string {
	if text == "" {
		return text
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return text
	}
	return text + "."
}

// splitSentences splits after sentence-ending punctuation followed by
// whitespace, keeping the punctuation attached to its sentence. Go's regexp
// has no lookbehind, so the boundary scan is done by hand.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && isSpace(text[i+1]) {
			sentences = append(sentences, strings.TrimSpace(text[start:i+1]))
			start = i + 1
		}
	}

	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}

	return sentences
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
