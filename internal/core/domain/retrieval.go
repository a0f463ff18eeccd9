package domain

// HighlightSpan marks a byte range of a passage that matched a query term.
type HighlightSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ScoredPassage is one retrieved chunk, produced per query and never stored.
type ScoredPassage struct {
	DocumentID string          `json:"doc_id"`
	ChunkIndex int             `json:"chunk_id"`
	Score      float64         `json:"score"`
	Text       string          `json:"text"`
	Source     string          `json:"source"`
	Highlights []HighlightSpan `json:"highlights,omitempty"`
}

// AnswerSource is a ScoredPassage annotated with a coarse confidence bucket.
type AnswerSource struct {
	ScoredPassage
	Confidence string `json:"confidence"`
}

// AnswerResult is the full response of the answer pipeline.
type AnswerResult struct {
	Answer     string         `json:"answer"`
	Query      string         `json:"query"`
	Sources    []AnswerSource `json:"sources"`
	Confidence float64        `json:"confidence_score"`
}
