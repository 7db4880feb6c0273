package text

import (
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces a lowercase token to its base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// LemmatizerFunc adapts a function to Lemmatizer.
type LemmatizerFunc func(string) string

// Lemma implements Lemmatizer.
func (f LemmatizerFunc) Lemma(word string) string { return f(word) }

// IdentityLemmatizer returns every token unchanged.
var IdentityLemmatizer = LemmatizerFunc(func(w string) string { return w })

// DictionaryLemmatizer loads the embedded English inflection dictionary.
func DictionaryLemmatizer() (Lemmatizer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}
	return l, nil
}

// safeLemma shields normalization from a misbehaving lemmatizer: a panic or
// an empty answer yields the token itself.
func safeLemma(l Lemmatizer, token string) (lemma string) {
	defer func() {
		if r := recover(); r != nil {
			lemma = token
		}
	}()
	if l == nil {
		return token
	}
	if lemma = strings.ToLower(l.Lemma(token)); lemma == "" {
		return token
	}
	return lemma
}

// irregular forms the suffix rules cannot reach.
var irregularLemmas = map[string]string{
	"children":  "child",
	"men":       "man",
	"women":     "woman",
	"people":    "person",
	"mice":      "mouse",
	"geese":     "goose",
	"feet":      "foot",
	"teeth":     "tooth",
	"went":      "go",
	"gone":      "go",
	"ran":       "run",
	"wrote":     "write",
	"written":   "write",
	"taught":    "teach",
	"thought":   "think",
	"brought":   "bring",
	"better":    "good",
	"best":      "good",
	"analyses":  "analysis",
	"theses":    "thesis",
	"criteria":  "criterion",
	"phenomena": "phenomenon",
}

// RuleLemmatizer is a dictionary-free fallback: a small irregular table plus
// plural and -ing/-ed suffix rules guarded against over-stripping short stems.
func RuleLemmatizer() Lemmatizer {
	return LemmatizerFunc(ruleLemma)
}

func ruleLemma(w string) string {
	if l, ok := irregularLemmas[w]; ok {
		return l
	}
	if len(w) < 4 {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "ied") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"),
		strings.HasSuffix(w, "xes"),
		strings.HasSuffix(w, "zes"),
		strings.HasSuffix(w, "ches"),
		strings.HasSuffix(w, "shes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	case strings.HasSuffix(w, "ing"):
		return verbStem(w, w[:len(w)-3])
	case strings.HasSuffix(w, "eed"):
		return w
	case strings.HasSuffix(w, "ed"):
		return verbStem(w, w[:len(w)-2])
	}
	return w
}

// verbStem repairs a stem left after removing -ing/-ed: "runn" -> "run",
// "mak" -> "make". Stems too short or without a vowel keep the original word.
func verbStem(word, stem string) string {
	if len(stem) < 3 || !hasVowel(stem) {
		return word
	}
	n := len(stem)
	if stem[n-1] == stem[n-2] && !isVowel(stem, n-1) && !strings.ContainsRune("lsz", rune(stem[n-1])) {
		return stem[:n-1]
	}
	if measure(stem) == 1 && endsCVC(stem) {
		return stem + "e"
	}
	return stem
}

func isVowel(s string, i int) bool {
	switch s[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	case 'y':
		return i > 0 && !isVowel(s, i-1)
	}
	return false
}

func hasVowel(s string) bool {
	for i := range s {
		if isVowel(s, i) {
			return true
		}
	}
	return false
}

// measure counts vowel-consonant sequences in s.
func measure(s string) int {
	m := 0
	prevVowel := false
	for i := range s {
		v := isVowel(s, i)
		if prevVowel && !v {
			m++
		}
		prevVowel = v
	}
	return m
}

// endsCVC reports a consonant-vowel-consonant ending whose last letter is
// not w, x or y.
func endsCVC(s string) bool {
	n := len(s)
	if n < 3 {
		return false
	}
	return !isVowel(s, n-3) && isVowel(s, n-2) && !isVowel(s, n-1) && !strings.ContainsRune("wxy", rune(s[n-1]))
}
