package text

import (
	"bufio"
	_ "embed"
	"strings"
)

//go:embed stopwords.txt
var stopwordsData string

// StopwordSet is a read-only set of tokens removed during normalization.
type StopwordSet map[string]struct{}

// Contains reports whether token is a stopword.
func (s StopwordSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// EnglishStopwords returns a fresh copy of the bundled English stopword set.
func EnglishStopwords() StopwordSet {
	return parseStopwords(stopwordsData)
}

// NewStopwordSet builds a set from words, lowercasing each.
func NewStopwordSet(words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func parseStopwords(data string) StopwordSet {
	set := make(StopwordSet, 160)
	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = struct{}{}
	}
	return set
}
