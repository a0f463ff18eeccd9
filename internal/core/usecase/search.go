package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/deb-sahu/docu-query/internal/core/domain"
	"github.com/deb-sahu/docu-query/internal/core/registry"
)

// SearchUseCase fans a query out across every registered document's index
// and merges the per-document rankings into one global list.
type SearchUseCase struct {
	registry    *registry.Registry
	defaultTopK int
}

func NewSearchUseCase(reg *registry.Registry, defaultTopK int) *SearchUseCase {
	if defaultTopK <= 0 {
		defaultTopK = 4
	}
	return &SearchUseCase{registry: reg, defaultTopK: defaultTopK}
}

// Extract returns the globally ranked top-k passages with highlight spans
// attached. Each document contributes its local top-k before the global cut.
func (uc *SearchUseCase) Extract(_ context.Context, query string, topK int, docIDs []string) ([]domain.ScoredPassage, error) {
	if topK <= 0 {
		topK = uc.defaultTopK
	}
	passages, err := uc.collect(query, topK, topK, docIDs)
	if err != nil {
		return nil, err
	}
	for i := range passages {
		passages[i].Highlights = findQueryHighlights(passages[i].Text, query)
	}
	return passages, nil
}

// collect gathers each candidate document's local top-perDoc hits, merges
// them with a stable descending sort, and truncates to limit. Ties keep the
// order documents were registered in, then ascending chunk index, because
// both the registry snapshot and each index's TopK preserve that order.
func (uc *SearchUseCase) collect(query string, perDoc, limit int, docIDs []string) ([]domain.ScoredPassage, error) {
	if uc.registry.Len() == 0 {
		return nil, domain.WrapError(domain.ErrNotFound, "search",
			errors.New("no documents available, upload documents first"))
	}
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search", errors.New("query cannot be empty"))
	}

	docs, err := uc.registry.Snapshot(docIDs)
	if err != nil {
		return nil, err
	}

	merged := make([]domain.ScoredPassage, 0, perDoc*len(docs))
	for _, doc := range docs {
		if doc.Index == nil {
			// A document without an index contributes nothing rather than
			// failing the whole query.
			continue
		}
		for _, hit := range doc.Index.TopK(query, perDoc) {
			merged = append(merged, domain.ScoredPassage{
				DocumentID: doc.ID,
				ChunkIndex: hit.ChunkIndex,
				Score:      hit.Score,
				Text:       hit.Text,
				Source:     doc.Title,
			})
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}
