// pkg/normalizer/normalizer.go

// Package normalizer reduces free-form comment text to a canonical token
// sequence: lowercase, ASCII letters only, stop words removed, each token
// lemmatized to its dictionary base form.
package normalizer

import (
	"errors"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	prose "github.com/jdkato/prose/v2"
)

// Normalizer holds the shared, read-only lexical resources. It is safe for
// concurrent use by multiple goroutines.
type Normalizer struct {
	lemmatizer *golem.Lemmatizer
}

// New creates a Normalizer around an initialized lemmatizer.
func New(lemmatizer *golem.Lemmatizer) (*Normalizer, error) {
	if lemmatizer == nil {
		return nil, errors.New("lemmatizer cannot be nil")
	}
	return &Normalizer{lemmatizer: lemmatizer}, nil
}

// NormalizeValue normalizes an arbitrary value. Anything that is not a
// string normalizes to the empty string; this never fails.
func (n *Normalizer) NormalizeValue(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return n.Normalize(s)
}

// Normalize maps raw text to its canonical form. The result contains only
// lowercase ASCII letters separated by single spaces, with no leading or
// trailing whitespace. Normalization is idempotent.
func (n *Normalizer) Normalize(text string) string {
	stripped := stripToLetters(strings.ToLower(text))
	if strings.TrimSpace(stripped) == "" {
		return ""
	}

	var kept []string
	for _, token := range tokenize(stripped) {
		if IsStopword(token) {
			continue
		}
		kept = append(kept, n.lemmatize(token))
	}

	return strings.Join(kept, " ")
}

// lemmatize reduces a token to its dictionary base form, leaving tokens
// unknown to the dictionary unchanged.
func (n *Normalizer) lemmatize(token string) string {
	if n.lemmatizer.InDict(token) {
		return n.lemmatizer.LemmaLower(token)
	}
	return token
}

// stripToLetters removes every rune that is not an ASCII letter or
// whitespace. Numerals, punctuation, emoji, and accented characters are
// dropped, not transliterated.
func stripToLetters(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		if unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// tokenize splits cleaned text into word tokens. The prose tokenizer also
// handles residual punctuation boundaries; on already-stripped text it
// degrades to whitespace splitting, which keeps normalization idempotent.
func tokenize(s string) []string {
	doc, err := prose.NewDocument(s,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false))
	if err != nil {
		return strings.Fields(s)
	}

	tokens := doc.Tokens()
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Text != "" {
			words = append(words, tok.Text)
		}
	}
	return words
}
