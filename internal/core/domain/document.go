package domain

import "time"

// DocumentKind identifies how a document entered the system and how its
// text was extracted.
type DocumentKind string

const (
	KindPDF     DocumentKind = "PDF"
	KindDOCX    DocumentKind = "DOCX"
	KindXLSX    DocumentKind = "XLSX"
	KindText    DocumentKind = "TXT"
	KindRawText DocumentKind = "TEXT"
)

// KindForExtension maps an upload file extension (with leading dot, lower
// case) to a document kind. Unknown extensions are not accepted as uploads.
func KindForExtension(ext string) (DocumentKind, bool) {
	switch ext {
	case ".pdf":
		return KindPDF, true
	case ".docx":
		return KindDOCX, true
	case ".xlsx":
		return KindXLSX, true
	case ".txt":
		return KindText, true
	default:
		return "", false
	}
}

// DocumentMeta is the listing view of a registered document.
type DocumentMeta struct {
	ID         string       `json:"doc_id"`
	Title      string       `json:"filename"`
	ChunkCount int          `json:"chunks"`
	Kind       DocumentKind `json:"file_type"`
	CreatedAt  time.Time    `json:"created_at"`
}
