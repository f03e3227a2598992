// Package textextract pulls plain text out of uploaded study material.
package textextract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result is the extracted plain text of one uploaded file, cleaned for
// sentence segmentation.
type Result struct {
	Content   string
	Pages     int
	WordCount int
	Kind      string // "pdf", "docx" or "txt"
}

// Extract dispatches on file type. Accepted values are extensions
// (".pdf"), bare names ("pdf") or MIME types.
func Extract(data io.ReaderAt, size int64, fileType string) (*Result, error) {
	switch strings.ToLower(fileType) {
	case ".pdf", "pdf", "application/pdf":
		return extractPDF(data, size)
	case ".docx", "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return extractDOCX(data, size)
	case ".txt", "txt", "text/plain":
		return extractTXT(data, size)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
}

// SupportedTypes lists accepted upload extensions.
func SupportedTypes() []string {
	return []string{".pdf", ".docx", ".txt"}
}

func extractPDF(data io.ReaderAt, size int64) (*Result, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages with broken font maps are skipped, not fatal.
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return newResult(buf.String(), numPages, "pdf"), nil
}

func extractDOCX(data io.ReaderAt, size int64) (*Result, error) {
	reader, err := zip.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open DOCX: %w", err)
	}

	var raw []byte
	for _, f := range reader.File {
		if filepath.Base(f.Name) != "document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		raw, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if raw == nil {
		return nil, fmt.Errorf("no document.xml inside DOCX archive")
	}

	// Paragraph ends become newlines so segmentation sees sentence breaks
	// between paragraphs that lack terminal punctuation.
	text := strings.ReplaceAll(string(raw), "</w:p>", "\n")
	text = stripXMLTags(text)

	return newResult(text, 1, "docx"), nil
}

func extractTXT(data io.ReaderAt, size int64) (*Result, error) {
	buf := make([]byte, size)
	_, err := data.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read TXT: %w", err)
	}
	return newResult(string(bytes.TrimSpace(buf)), 1, "txt"), nil
}

func newResult(content string, pages int, kind string) *Result {
	content = Clean(content)
	return &Result{
		Content:   content,
		Pages:     pages,
		WordCount: len(strings.Fields(content)),
		Kind:      kind,
	}
}

// Clean normalizes line endings, drops control characters and collapses
// runs of blank space while keeping single newlines as soft breaks.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var out strings.Builder
	out.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case r == '\n':
			out.WriteRune('\n')
			lastSpace = false
		case r == '\t' || r == ' ':
			if !lastSpace {
				out.WriteRune(' ')
			}
			lastSpace = true
		case r < 0x20 || r == 0x7f:
			// drop control characters
		default:
			out.WriteRune(r)
			lastSpace = false
		}
	}

	lines := strings.Split(out.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func stripXMLTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return result.String()
}
