package extractor

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

func extractPlainText(body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read text document: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text",
			errors.New("file is not valid utf-8 text"))
	}
	return strings.TrimSpace(string(raw)), nil
}
