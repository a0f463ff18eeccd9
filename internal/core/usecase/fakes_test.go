package usecase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

type chunkerFunc func(string) []string

func (f chunkerFunc) Split(text string) []string { return f(text) }

// wholeTextChunker returns the trimmed text as a single chunk.
var wholeTextChunker = chunkerFunc(func(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return []string{trimmed}
})

type storageFake struct {
	files   map[string][]byte
	saveErr error
}

func newStorageFake() *storageFake {
	return &storageFake{files: map[string][]byte{}}
}

func (s *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.files[key] = raw
	return nil
}

func (s *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := s.files[key]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "open file", io.ErrUnexpectedEOF)
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (s *storageFake) Remove(_ context.Context, key string) error {
	if _, ok := s.files[key]; !ok {
		return domain.WrapError(domain.ErrNotFound, "remove file", io.ErrUnexpectedEOF)
	}
	delete(s.files, key)
	return nil
}

type extractorFake struct {
	text string
	err  error
}

func (e *extractorFake) Extract(_ context.Context, _ domain.DocumentKind, body io.Reader) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	if e.text != "" {
		return e.text, nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type metaFake struct {
	saved      []domain.DocumentMeta
	deleted    []string
	deletedAll bool
	err        error
}

func (m *metaFake) Save(_ context.Context, meta domain.DocumentMeta, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, meta)
	return nil
}

func (m *metaFake) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *metaFake) DeleteAll(context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.deletedAll = true
	return nil
}

type eventsFake struct {
	indexed []string
	deleted []string
	cleared int
	err     error
}

func (e *eventsFake) DocumentIndexed(_ context.Context, id string, _ int) error {
	if e.err != nil {
		return e.err
	}
	e.indexed = append(e.indexed, id)
	return nil
}

func (e *eventsFake) DocumentDeleted(_ context.Context, id string) error {
	if e.err != nil {
		return e.err
	}
	e.deleted = append(e.deleted, id)
	return nil
}

func (e *eventsFake) DocumentsCleared(_ context.Context, count int) error {
	if e.err != nil {
		return e.err
	}
	e.cleared += count
	return nil
}

func (e *eventsFake) Close() {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
