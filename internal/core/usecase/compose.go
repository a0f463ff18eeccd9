package usecase

import (
	"strings"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

const noPassagesAnswer = "No relevant passages found in the uploaded documents."

// ComposePolicy holds the tunables of answer composition. The thresholds
// are calibrated for TF-IDF cosine scores; a different scoring function
// needs different values, which is why they live in configuration.
type ComposePolicy struct {
	HighThreshold   float64
	MediumThreshold float64
	MaxAnswerRunes  int
}

func DefaultComposePolicy() ComposePolicy {
	return ComposePolicy{
		HighThreshold:   0.5,
		MediumThreshold: 0.2,
		MaxAnswerRunes:  4000,
	}
}

func (p ComposePolicy) normalize() ComposePolicy {
	def := DefaultComposePolicy()
	out := p
	if out.HighThreshold <= 0 {
		out.HighThreshold = def.HighThreshold
	}
	if out.MediumThreshold <= 0 || out.MediumThreshold > out.HighThreshold {
		out.MediumThreshold = def.MediumThreshold
	}
	if out.MaxAnswerRunes <= 0 {
		out.MaxAnswerRunes = def.MaxAnswerRunes
	}
	return out
}

// ConfidenceLabel buckets a similarity score for human consumption. The
// threshold comparisons are inclusive lower bounds.
func (p ComposePolicy) ConfidenceLabel(score float64) string {
	switch {
	case score >= p.HighThreshold:
		return "high"
	case score >= p.MediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

// composeAnswer builds the final result from globally ranked passages. An
// empty list yields the fixed no-passages answer with zero confidence, not
// an error.
func composeAnswer(query string, passages []domain.ScoredPassage, policy ComposePolicy) *domain.AnswerResult {
	policy = policy.normalize()

	if len(passages) == 0 {
		return &domain.AnswerResult{
			Answer:     noPassagesAnswer,
			Query:      query,
			Sources:    []domain.AnswerSource{},
			Confidence: 0,
		}
	}

	maxScore := passages[0].Score
	sum := 0.0
	for _, p := range passages {
		if p.Score > maxScore {
			maxScore = p.Score
		}
		sum += p.Score
	}
	mean := sum / float64(len(passages))
	confidence := (maxScore + mean) / 2 * 2
	if confidence > 1 {
		confidence = 1
	}

	// Zero-score passages stay visible as low-confidence sources but never
	// contribute answer text.
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		if p.Score > 0 {
			texts = append(texts, strings.TrimSpace(p.Text))
		}
	}
	answer := noPassagesAnswer
	if len(texts) > 0 {
		answer = truncateAtWord(strings.Join(texts, "\n\n"), policy.MaxAnswerRunes)
	}

	sources := make([]domain.AnswerSource, 0, len(passages))
	for _, p := range passages {
		p.Highlights = findQueryHighlights(p.Text, query)
		sources = append(sources, domain.AnswerSource{
			ScoredPassage: p,
			Confidence:    policy.ConfidenceLabel(p.Score),
		})
	}

	return &domain.AnswerResult{
		Answer:     answer,
		Query:      query,
		Sources:    sources,
		Confidence: confidence,
	}
}

// truncateAtWord cuts s to at most limit runes on the last word boundary
// and appends an ellipsis marker. When the prefix has no space at all the
// cut is hard at the limit.
func truncateAtWord(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := runes[:limit]
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}
	return string(cut) + "..."
}
