package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/deb-sahu/docu-query/internal/core/domain"
	"github.com/deb-sahu/docu-query/internal/core/index"
	"github.com/deb-sahu/docu-query/internal/core/registry"
)

func registryWith(t *testing.T, docs map[string][]string, order []string) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, id := range order {
		chunks := docs[id]
		err := reg.Add(&registry.Document{
			ID:        id,
			Title:     id + ".txt",
			Kind:      domain.KindText,
			Chunks:    chunks,
			Index:     index.New(chunks),
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Add(%s) error = %v", id, err)
		}
	}
	return reg
}

func TestExtractEmptyRegistryNotFound(t *testing.T) {
	uc := NewSearchUseCase(registry.New(), 4)
	if _, err := uc.Extract(context.Background(), "query", 3, nil); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExtractBlankQueryInvalid(t *testing.T) {
	reg := registryWith(t, map[string][]string{"a": {"some chunk"}}, []string{"a"})
	uc := NewSearchUseCase(reg, 4)
	if _, err := uc.Extract(context.Background(), "   ", 3, nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExtractUnknownFilterNotFound(t *testing.T) {
	reg := registryWith(t, map[string][]string{"a": {"some chunk"}}, []string{"a"})
	uc := NewSearchUseCase(reg, 4)
	if _, err := uc.Extract(context.Background(), "chunk", 3, []string{"nope"}); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unmatched filter, got %v", err)
	}
}

func TestExtractRanksAcrossDocuments(t *testing.T) {
	reg := registryWith(t, map[string][]string{
		"weather": {
			"rain forecast tomorrow morning",
			"sunny spells expected afternoon",
		},
		"cooking": {
			"slow roasted vegetables recipe",
			"rain water is not an ingredient",
		},
	}, []string{"weather", "cooking"})
	uc := NewSearchUseCase(reg, 4)

	passages, err := uc.Extract(context.Background(), "rain forecast", 3, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(passages) == 0 || len(passages) > 3 {
		t.Fatalf("expected 1..3 passages, got %d", len(passages))
	}
	if passages[0].DocumentID != "weather" || passages[0].ChunkIndex != 0 {
		t.Fatalf("expected weather chunk 0 first, got %s/%d", passages[0].DocumentID, passages[0].ChunkIndex)
	}
	for i := 1; i < len(passages); i++ {
		if passages[i-1].Score < passages[i].Score {
			t.Fatalf("scores not non-increasing at %d", i)
		}
	}
	if passages[0].Source != "weather.txt" {
		t.Fatalf("unexpected source label %s", passages[0].Source)
	}
}

func TestExtractRespectsDocFilter(t *testing.T) {
	reg := registryWith(t, map[string][]string{
		"a": {"shared term appears here"},
		"b": {"shared term appears here too"},
	}, []string{"a", "b"})
	uc := NewSearchUseCase(reg, 4)

	passages, err := uc.Extract(context.Background(), "shared term", 5, []string{"b"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for _, p := range passages {
		if p.DocumentID != "b" {
			t.Fatalf("filter leaked document %s", p.DocumentID)
		}
	}
}

func TestExtractAttachesHighlights(t *testing.T) {
	reg := registryWith(t, map[string][]string{"a": {"the gopher digs tunnels"}}, []string{"a"})
	uc := NewSearchUseCase(reg, 4)

	passages, err := uc.Extract(context.Background(), "gopher", 1, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	spans := passages[0].Highlights
	if len(spans) != 1 || spans[0].Start != 4 || spans[0].End != 10 {
		t.Fatalf("unexpected spans %+v", spans)
	}
}

func TestExtractSkipsDocumentWithoutIndex(t *testing.T) {
	reg := registryWith(t, map[string][]string{"a": {"alpha content"}}, []string{"a"})
	uc := NewSearchUseCase(reg, 4)

	// Corrupt one document's index; the query must still succeed on the
	// remaining one.
	doc, err := reg.Get("a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	doc.Index = nil
	if err := reg.Add(&registry.Document{
		ID:     "b",
		Title:  "b.txt",
		Kind:   domain.KindText,
		Chunks: []string{"alpha content as well"},
		Index:  index.New([]string{"alpha content as well"}),
	}); err != nil {
		t.Fatalf("Add(b) error = %v", err)
	}

	passages, err := uc.Extract(context.Background(), "alpha", 5, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for _, p := range passages {
		if p.DocumentID == "a" {
			t.Fatalf("indexless document contributed results")
		}
	}
	if len(passages) == 0 {
		t.Fatalf("expected results from healthy document")
	}
}

func TestExtractDefaultTopK(t *testing.T) {
	chunks := make([]string, 8)
	for i := range chunks {
		chunks[i] = "repeated marker phrase plus filler"
	}
	reg := registryWith(t, map[string][]string{"a": chunks}, []string{"a"})
	uc := NewSearchUseCase(reg, 4)

	passages, err := uc.Extract(context.Background(), "marker", 0, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(passages) != 4 {
		t.Fatalf("expected default top-k of 4, got %d", len(passages))
	}
}
