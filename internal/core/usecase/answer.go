package usecase

import (
	"context"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

// AnswerUseCase runs retrieval with per-document over-fetch and composes
// the final answer.
type AnswerUseCase struct {
	search    *SearchUseCase
	policy    ComposePolicy
	overfetch int
}

func NewAnswerUseCase(search *SearchUseCase, policy ComposePolicy, overfetch int) *AnswerUseCase {
	if overfetch <= 0 {
		overfetch = 2
	}
	return &AnswerUseCase{
		search:    search,
		policy:    policy.normalize(),
		overfetch: overfetch,
	}
}

// Answer retrieves the globally ranked top-k passages and composes the
// answer text, per-source confidence labels, and highlight spans.
//
// Each document is asked for overfetch*k local hits before the global cut,
// so a single strong document cannot starve the aggregate view of the
// runners-up in other documents.
func (uc *AnswerUseCase) Answer(_ context.Context, query string, topK int, docIDs []string) (*domain.AnswerResult, error) {
	if topK <= 0 {
		topK = uc.search.defaultTopK
	}
	passages, err := uc.search.collect(query, uc.overfetch*topK, topK, docIDs)
	if err != nil {
		return nil, err
	}
	return composeAnswer(query, passages, uc.policy), nil
}
