// Package similarity scores how alike two texts are using a TF-IDF vector
// space built fresh for every pair.
package similarity

import (
	"math"
	"regexp"
	"sort"

	text "github.com/okian/gradient/internal/domain/text"
	types "github.com/okian/gradient/internal/domain/types"
)

// termPattern selects vocabulary terms: runs of at least two word characters.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// TermVector maps a term to its TF-IDF weight within one comparison.
type TermVector map[string]float64

// Scorer compares documents after normalizing them.
type Scorer struct {
	normalizer *text.Normalizer
}

// Option applies a configuration option to a Scorer.
type Option func(*Scorer)

// WithNormalizer sets the normalizer used on both inputs.
func WithNormalizer(n *text.Normalizer) Option {
	return func(s *Scorer) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// NewScorer creates a scorer. The process-wide normalizer is used unless
// WithNormalizer is given.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	if s.normalizer == nil {
		s.normalizer = text.Default()
	}
	return s
}

// Similarity is shorthand for NewScorer().Similarity.
func Similarity(a, b string) float64 {
	return NewScorer().Similarity(a, b)
}

// Similarity returns the cosine similarity of a and b in [0,1]. Empty input,
// input that normalizes to nothing, and any internal failure yield 0.
func (s *Scorer) Similarity(a, b string) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = 0
		}
	}()
	if a == "" || b == "" {
		return 0
	}
	na, nb := s.normalizer.Normalize(a), s.normalizer.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb && termPattern.MatchString(na) {
		return 1
	}
	vectors := Vectorize(na, nb)
	return types.Clamp(Cosine(vectors[0], vectors[1]), 0, 1)
}

// Vectorize fits a vocabulary over docs and returns one L2-normalized
// TF-IDF vector per document. IDF is smoothed: ln((1+n)/(1+df)) + 1.
func Vectorize(docs ...string) []TermVector {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range termPattern.FindAllString(doc, -1) {
			if counts[i][term] == 0 {
				df[term]++
			}
			counts[i][term]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([]TermVector, len(docs))
	for i, tf := range counts {
		v := make(TermVector, len(tf))
		var norm float64
		for _, term := range sortedTerms(tf) {
			w := float64(tf[term]) * idf[term]
			v[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range v {
				v[term] /= norm
			}
		}
		vectors[i] = v
	}
	return vectors
}

// Cosine returns the cosine of the angle between a and b, or 0 when either
// vector has no weight.
func Cosine(a, b TermVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Every sum runs over the sorted union of terms, so swapping a and b
	// performs the same float operations in the same order.
	var dot, na, nb float64
	for _, term := range unionTerms(a, b) {
		wa, wb := a[term], b[term]
		na += wa * wa
		nb += wb * wb
		dot += wa * wb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	c := dot / math.Sqrt(na*nb)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return c
}

func sortedTerms[V any](m map[string]V) []string {
	terms := make([]string, 0, len(m))
	for term := range m {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

func unionTerms(a, b TermVector) []string {
	terms := make([]string, 0, len(a)+len(b))
	for term := range a {
		terms = append(terms, term)
	}
	for term := range b {
		if _, ok := a[term]; !ok {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	return terms
}
