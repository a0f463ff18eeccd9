package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/deb-sahu/docu-query/internal/core/domain"
)

func TestExtractPlainText(t *testing.T) {
	e := New()
	got, err := e.Extract(context.Background(), domain.KindText, strings.NewReader("  hello world\n"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractPlainTextRejectsBinary(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), domain.KindText, bytes.NewReader([]byte{0xff, 0xfe, 0x00, 0x80}))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExtractUnknownKind(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), domain.DocumentKind("EPUB"), strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create archive entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write archive entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDOCXParagraphs(t *testing.T) {
	raw := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`)

	e := New()
	got, err := e.Extract(context.Background(), domain.KindDOCX, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := "First paragraph\n\nSecond paragraph"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractDOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("word/styles.xml")
	f.Write([]byte("<styles/>"))
	w.Close()

	e := New()
	_, err := e.Extract(context.Background(), domain.KindDOCX, bytes.NewReader(buf.Bytes()))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExtractDOCXNotAnArchive(t *testing.T) {
	e := New()
	if _, err := e.Extract(context.Background(), domain.KindDOCX, strings.NewReader("plain text")); err == nil {
		t.Fatalf("expected error for non-zip input")
	}
}

func TestExtractPDFGarbageInput(t *testing.T) {
	e := New()
	if _, err := e.Extract(context.Background(), domain.KindPDF, strings.NewReader("not a pdf")); err == nil {
		t.Fatalf("expected error for malformed pdf")
	}
}

func TestExtractXLSXRows(t *testing.T) {
	wb := excelize.NewFile()
	for cell, value := range map[string]any{
		"A1": "part", "B1": "qty",
		"A2": "bolts", "B2": 40,
	} {
		if err := wb.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("SetCellValue(%s): %v", cell, err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer(): %v", err)
	}

	e := New()
	got, err := e.Extract(context.Background(), domain.KindXLSX, buf)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(got, "Sheet: Sheet1") {
		t.Fatalf("sheet name missing from %q", got)
	}
	if !strings.Contains(got, "part\tqty") || !strings.Contains(got, "bolts\t40") {
		t.Fatalf("rows missing from %q", got)
	}
}

func TestExtractXLSXGarbageInput(t *testing.T) {
	e := New()
	if _, err := e.Extract(context.Background(), domain.KindXLSX, strings.NewReader("not a workbook")); err == nil {
		t.Fatalf("expected error for malformed workbook")
	}
}
