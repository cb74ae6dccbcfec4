/*
Package moderation sanitizes and filters untrusted text supplied by clients.

It provides two independent concerns: Sanitize, which strips markup-significant
characters and enforces a length cap so a string is safe to render as plain
text, and a profanity filter (IsProfane/Clean) that masks disallowed vocabulary
using case-insensitive, word-boundary matching. The vocabulary is fixed at
construction time; both operations are pure functions over that state.
*/
package moderation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// markupRunes are the characters removed by Sanitize. Stripping (rather than
// entity-escaping) keeps Sanitize idempotent.
const markupRunes = `<>&"'`

// Pipeline holds the compiled profanity vocabulary. Construct it once at
// startup with NewPipeline; it is safe for concurrent use afterwards.
type Pipeline struct {
	vocabulary *regexp.Regexp
}

// NewPipeline builds a Pipeline from the built-in vocabulary adjusted by the
// given overrides: every word in add is included, every word in remove is
// excluded. Matching is case-insensitive, so overrides may be given in any
// case.
func NewPipeline(add, remove []string) *Pipeline {
	words := make(map[string]struct{}, len(defaultVocabulary)+len(add))

	for _, w := range defaultVocabulary {
		words[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range add {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words[w] = struct{}{}
		}
	}
	for _, w := range remove {
		delete(words, strings.ToLower(strings.TrimSpace(w)))
	}

	if len(words) == 0 {
		return &Pipeline{}
	}

	quoted := make([]string, 0, len(words))
	for w := range words {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}

	pattern := `(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`

	return &Pipeline{vocabulary: regexp.MustCompile(pattern)}
}

// Sanitize strips markup-significant characters and non-printable control
// characters from raw, truncates the result to maxLen runes, and trims
// surrounding whitespace. It never fails; an empty result is a valid output
// the caller must check. Sanitize(Sanitize(x)) == Sanitize(x).
func (p *Pipeline) Sanitize(raw string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		if strings.ContainsRune(markupRunes, r) {
			continue
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}

	s := b.String()
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	return strings.TrimSpace(s)
}

// IsProfane reports whether text contains at least one disallowed word.
func (p *Pipeline) IsProfane(text string) bool {
	if p.vocabulary == nil {
		return false
	}
	return p.vocabulary.MatchString(text)
}

// Clean returns text with every disallowed word masked by asterisks of the
// same rune length. Text without disallowed words is returned unchanged.
func (p *Pipeline) Clean(text string) string {
	if p.vocabulary == nil {
		return text
	}
	return p.vocabulary.ReplaceAllStringFunc(text, func(match string) string {
		return strings.Repeat("*", utf8.RuneCountInString(match))
	})
}
