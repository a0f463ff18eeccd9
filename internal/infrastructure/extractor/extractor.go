package extractor

import (
	"context"
	"fmt"
	"io"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

// Extractor converts a stored document into plain text, dispatching on the
// document kind.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, kind domain.DocumentKind, body io.Reader) (string, error) {
	switch kind {
	case domain.KindPDF:
		return extractPDF(ctx, body)
	case domain.KindDOCX:
		return extractDOCX(body)
	case domain.KindXLSX:
		return extractXLSX(body)
	case domain.KindText, domain.KindRawText:
		return extractPlainText(body)
	default:
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text",
			fmt.Errorf("no extractor for document kind %q", kind))
	}
}
