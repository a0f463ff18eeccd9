package chunking

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitEmpty(t *testing.T) {
	s := NewSplitter(100, 20)
	if got := s.Split(""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}

func TestSplitShorterThanWindow(t *testing.T) {
	s := NewSplitter(100, 20)
	got := s.Split("short text")
	if len(got) != 1 || got[0] != "short text" {
		t.Fatalf("got %v", got)
	}
}

func TestSplitOverlapCarriesTail(t *testing.T) {
	s := NewSplitter(10, 4)
	got := s.Split("abcdefghijklmnop")
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(got), got)
	}
	if got[0] != "abcdefghij" || got[1] != "ghijklmnop" {
		t.Fatalf("unexpected chunks %v", got)
	}
}

func TestSplitStripsCarriageReturns(t *testing.T) {
	s := NewSplitter(100, 0)
	got := s.Split("line one\r\nline two\r\n")
	if len(got) != 1 || strings.Contains(got[0], "\r") {
		t.Fatalf("carriage returns survived: %q", got)
	}
}

func TestSplitDropsWhitespaceOnlyChunks(t *testing.T) {
	s := NewSplitter(4, 0)
	got := s.Split("abcd        wxyz")
	for _, c := range got {
		if strings.TrimSpace(c) == "" {
			t.Fatalf("whitespace-only chunk kept: %q", got)
		}
	}
}

func TestSplitRuneBoundaries(t *testing.T) {
	s := NewSplitter(3, 1)
	text := strings.Repeat("日本語テキスト", 4)
	for _, c := range s.Split(text) {
		if !utf8.ValidString(c) {
			t.Fatalf("chunk %q cut inside a rune", c)
		}
		if n := utf8.RuneCountInString(c); n > 3 {
			t.Fatalf("chunk %q longer than window", c)
		}
	}
}

func TestSplitCoversWholeInput(t *testing.T) {
	s := NewSplitter(50, 10)
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// With overlap smaller than the window, the final characters of the
	// input always land in the last chunk.
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(strings.TrimSpace(text), last) {
		t.Fatalf("tail of input missing from final chunk")
	}
}

func TestNewSplitterClampsArguments(t *testing.T) {
	s := NewSplitter(0, -5)
	if s.ChunkSize != 1000 || s.Overlap != 0 {
		t.Fatalf("defaults not applied: %+v", s)
	}
	s = NewSplitter(100, 150)
	if s.Overlap != 25 {
		t.Fatalf("oversized overlap not clamped: %+v", s)
	}
}
