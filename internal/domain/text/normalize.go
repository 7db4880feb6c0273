// Package text turns free-form prose into the normalized token stream the
// scoring components compare: lowercase, punctuation-free, stopword-free and
// lemmatized.
package text

import (
	"strings"
	"sync"
	"unicode"
)

// asciiPunctuation mirrors the classic ASCII punctuation set, which contains
// symbols such as $, + and ~ that unicode.IsPunct does not cover.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalizer is immutable after construction and safe for concurrent use.
type Normalizer struct {
	stopwords  StopwordSet
	lemmatizer Lemmatizer
}

// Option applies a configuration option to a Normalizer.
type Option func(*Normalizer)

// WithStopwords replaces the bundled stopword set.
func WithStopwords(set StopwordSet) Option {
	return func(n *Normalizer) {
		if set != nil {
			n.stopwords = set
		}
	}
}

// WithLemmatizer replaces the lemmatizer.
func WithLemmatizer(l Lemmatizer) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.lemmatizer = l
		}
	}
}

// NewNormalizer builds a normalizer. Without options it uses the bundled
// English stopwords and the rule lemmatizer; Default additionally tries the
// dictionary lemmatizer.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		stopwords:  EnglishStopwords(),
		lemmatizer: RuleLemmatizer(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var (
	defaultOnce       sync.Once
	defaultNormalizer *Normalizer
)

// Default returns the process-wide normalizer. It prefers the dictionary
// lemmatizer and falls back to the rule lemmatizer if the dictionary cannot
// be loaded.
func Default() *Normalizer {
	defaultOnce.Do(func() {
		var opts []Option
		if l, err := DictionaryLemmatizer(); err == nil {
			opts = append(opts, WithLemmatizer(l))
		}
		defaultNormalizer = NewNormalizer(opts...)
	})
	return defaultNormalizer
}

// Normalize is shorthand for Default().Normalize.
func Normalize(s string) string { return Default().Normalize(s) }

// Tokens is shorthand for Default().Tokens.
func Tokens(s string) []string { return Default().Tokens(s) }

// Normalize returns the normalized tokens of s joined by single spaces.
// Empty input yields "".
func (n *Normalizer) Normalize(s string) string {
	return strings.Join(n.Tokens(s), " ")
}

// Tokens returns the normalized token sequence of s in original order.
func (n *Normalizer) Tokens(s string) []string {
	if s == "" {
		return nil
	}
	cleaned := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && strings.ContainsRune(asciiPunctuation, r) {
			return ' '
		}
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, strings.ToLower(s))

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if n.stopwords.Contains(f) {
			continue
		}
		tokens = append(tokens, safeLemma(n.lemmatizer, f))
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
