package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/deb-sahu/docu-query/internal/core/domain"
	"github.com/deb-sahu/docu-query/internal/core/registry"
)

func newAnswerUseCase(reg *registry.Registry) *AnswerUseCase {
	return NewAnswerUseCase(NewSearchUseCase(reg, 4), DefaultComposePolicy(), 2)
}

func TestAnswerEmptyRegistryNotFound(t *testing.T) {
	uc := newAnswerUseCase(registry.New())
	if _, err := uc.Answer(context.Background(), "anything", 3, nil); !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnswerNoOverlapReturnsFixedText(t *testing.T) {
	reg := registryWith(t, map[string][]string{
		"doc": {
			"first chapter covers history",
			"second chapter covers geography",
			"third chapter covers economics",
			"fourth chapter covers culture",
			"fifth chapter covers politics",
		},
	}, []string{"doc"})
	uc := newAnswerUseCase(reg)

	result, err := uc.Answer(context.Background(), "zzz", 3, nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if result.Answer != noPassagesAnswer {
		t.Fatalf("answer = %q", result.Answer)
	}
	if result.Confidence != 0 {
		t.Fatalf("confidence = %f, want 0", result.Confidence)
	}
	if len(result.Sources) != 3 {
		t.Fatalf("expected 3 zero-score sources, got %d", len(result.Sources))
	}
}

func TestAnswerAssemblesRankedSources(t *testing.T) {
	reg := registryWith(t, map[string][]string{
		"manual": {
			"restart the gateway after a firmware upgrade",
			"the gateway status light blinks green during boot",
		},
		"faq": {
			"billing questions go to the support portal",
		},
	}, []string{"manual", "faq"})
	uc := newAnswerUseCase(reg)

	result, err := uc.Answer(context.Background(), "gateway firmware upgrade", 2, nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if result.Query != "gateway firmware upgrade" {
		t.Fatalf("query echoed as %q", result.Query)
	}
	if len(result.Sources) == 0 || len(result.Sources) > 2 {
		t.Fatalf("expected 1..2 sources, got %d", len(result.Sources))
	}
	top := result.Sources[0]
	if top.DocumentID != "manual" || top.ChunkIndex != 0 {
		t.Fatalf("expected manual chunk 0 first, got %s/%d", top.DocumentID, top.ChunkIndex)
	}
	if !strings.Contains(result.Answer, "firmware upgrade") {
		t.Fatalf("answer does not carry the matching passage: %q", result.Answer)
	}
	if result.Confidence <= 0 || result.Confidence > 1 {
		t.Fatalf("confidence out of range: %f", result.Confidence)
	}
}

func TestAnswerHonorsDocFilter(t *testing.T) {
	reg := registryWith(t, map[string][]string{
		"a": {"orbital mechanics for beginners"},
		"b": {"orbital mechanics for experts"},
	}, []string{"a", "b"})
	uc := newAnswerUseCase(reg)

	result, err := uc.Answer(context.Background(), "orbital mechanics", 4, []string{"a"})
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	for _, src := range result.Sources {
		if src.DocumentID != "a" {
			t.Fatalf("filter leaked document %s", src.DocumentID)
		}
	}
}

func TestAnswerBlankQueryInvalid(t *testing.T) {
	reg := registryWith(t, map[string][]string{"a": {"content"}}, []string{"a"})
	uc := newAnswerUseCase(reg)
	if _, err := uc.Answer(context.Background(), "", 3, nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
