package dictionary

import (
	"regexp"
	"strings"
	"unicode"
)

// Query identifies a single dictionary request. The tuple is also the
// cache and in-flight key, so it must stay comparable.
type Query struct {
	BackendID string
	Source    string
	Target    string
	Text      string
}

// LanguagePair is a (source, target) combination a backend can translate between.
type LanguagePair struct {
	Source string
	Target string
}

// Example is a usage example together with its translation, when the
// service provides one.
type Example struct {
	Text        string
	Translation string
}

// Sense is a single meaning of the looked-up word or phrase.
type Sense struct {
	Headword     string
	PartOfSpeech string
	Gender       string
	Number       string
	Translations []string
	Meanings     []string
	Synonyms     []string
	Examples     []Example
}

// Article is the normalized dictionary entry produced by every backend.
// An article with no senses means the service had no entry for the
// query, which is distinct from a failed request.
type Article struct {
	Senses []Sense
}

func (a Article) IsEmpty() bool {
	return len(a.Senses) == 0
}

// Usage reports the request quota of a backend, for services that expose one.
type Usage struct {
	Quota     int
	Remaining int
	Section   string
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// CleanText strips a raw selection or clipboard string down to letters
// and single spaces. Binary clipboard content collapses to an empty string.
func CleanText(text string) string {
	var builder strings.Builder
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			builder.WriteRune(r)
		}
	}
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(builder.String(), " "))
}

// NewQuery normalizes the raw text and builds the request key.
func NewQuery(backendID, source, target, rawText string) (Query, error) {
	text := CleanText(rawText)
	if text == "" {
		return Query{}, ErrEmptyQuery
	}
	return Query{
		BackendID: backendID,
		Source:    source,
		Target:    target,
		Text:      text,
	}, nil
}
