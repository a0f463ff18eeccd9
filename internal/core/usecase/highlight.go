package usecase

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

// minHighlightTermLen excludes short query terms (articles, prepositions)
// from highlighting to avoid noisy matches.
const minHighlightTermLen = 3

// findQueryHighlights locates every case-insensitive occurrence of every
// sufficiently long query term in text and merges overlapping or adjacent
// spans. Returns nil when nothing matches.
func findQueryHighlights(text, query string) []domain.HighlightSpan {
	lowerText := strings.ToLower(text)

	var spans []domain.HighlightSpan
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(term) < minHighlightTermLen {
			continue
		}
		for from := 0; from <= len(lowerText)-len(term); {
			i := strings.Index(lowerText[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, domain.HighlightSpan{Start: start, End: start + len(term)})
			from = start + len(term)
		}
	}
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	merged := spans[:1]
	for _, span := range spans[1:] {
		last := &merged[len(merged)-1]
		if span.Start <= last.End {
			if span.End > last.End {
				last.End = span.End
			}
			continue
		}
		merged = append(merged, span)
	}
	return merged
}
