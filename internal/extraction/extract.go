// Package extraction converts uploaded resume documents to plain text.
package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported upload content types.
const (
	TypePDF   = "application/pdf"
	TypeDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypePlain = "text/plain"
)

// Text extracts best-effort plain text from an uploaded resume document.
// PDF extraction is page-by-page; pages with no extractable text contribute
// nothing rather than failing the whole document.
func Text(contentType string, data []byte) (string, error) {
	switch contentType {
	case TypePlain:
		return string(data), nil
	case TypePDF:
		return pdfText(data)
	case TypeDocx:
		return docxText(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", contentType)
	}
}

// TypeForFilename resolves a content type from a file extension. Used when
// the upload carries no usable Content-Type header.
func TypeForFilename(name string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".pdf"):
		return TypePDF
	case strings.HasSuffix(strings.ToLower(name), ".docx"):
		return TypeDocx
	case strings.HasSuffix(strings.ToLower(name), ".txt"):
		return TypePlain
	default:
		return ""
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		b.WriteString(text)
	}
	return b.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
