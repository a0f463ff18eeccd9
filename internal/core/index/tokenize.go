package index

import (
	"strings"
	"unicode"
)

// tokenize lowercases the input and splits it into alphanumeric runs,
// dropping single-character tokens and stop words.
func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 24)
	var b strings.Builder
	flush := func() {
		if b.Len() < 2 {
			b.Reset()
			return
		}
		tok := b.String()
		b.Reset()
		if _, stop := stopwords[tok]; stop {
			return
		}
		out = append(out, tok)
	}
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"about", "above", "after", "again", "all", "an", "and", "any", "are",
		"as", "at", "be", "because", "been", "before", "being", "below",
		"between", "both", "but", "by", "can", "did", "do", "does", "doing",
		"down", "during", "each", "few", "for", "from", "further", "had",
		"has", "have", "having", "he", "her", "here", "hers", "him", "his",
		"how", "if", "in", "into", "is", "it", "its", "itself", "just", "me",
		"more", "most", "my", "no", "nor", "not", "now", "of", "off", "on",
		"once", "only", "or", "other", "our", "out", "over", "own", "same",
		"she", "should", "so", "some", "such", "than", "that", "the", "their",
		"theirs", "them", "then", "there", "these", "they", "this", "those",
		"through", "to", "too", "under", "until", "up", "very", "was", "we",
		"were", "what", "when", "where", "which", "while", "who", "whom",
		"why", "will", "with", "you", "your", "yours",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
