package textextract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractTXT(t *testing.T) {
	data := []byte("First line.\r\n\r\nSecond\tline here.\n")
	res, err := Extract(bytes.NewReader(data), int64(len(data)), ".txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Kind != "txt" {
		t.Fatalf("kind = %s, want txt", res.Kind)
	}
	want := "First line.\nSecond line here."
	if res.Content != want {
		t.Fatalf("content = %q, want %q", res.Content, want)
	}
	if res.WordCount != 5 {
		t.Fatalf("word count = %d, want 5", res.WordCount)
	}
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	if _, err := w.Write([]byte(xml)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	data := buf.Bytes()
	res, err := Extract(bytes.NewReader(data), int64(len(data)), ".docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(res.Content, "First paragraph.") || !strings.Contains(res.Content, "Second paragraph.") {
		t.Fatalf("content = %q, want both paragraphs", res.Content)
	}
	// Paragraph boundary must survive as a line break for segmentation.
	if !strings.Contains(res.Content, "First paragraph.\n") {
		t.Fatalf("content = %q, want newline after first paragraph", res.Content)
	}
}

func TestExtractDOCXWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("word/styles.xml"); err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	data := buf.Bytes()
	if _, err := Extract(bytes.NewReader(data), int64(len(data)), "docx"); err == nil {
		t.Fatal("expected error for DOCX without document.xml")
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	data := []byte("x")
	if _, err := Extract(bytes.NewReader(data), 1, ".epub"); err == nil {
		t.Fatal("expected unsupported type error")
	}
}

func TestClean(t *testing.T) {
	in := "a  b\t\tc\r\n\r\n\x00d\n   \ne"
	want := "a b c\nd\ne"
	if got := Clean(in); got != want {
		t.Fatalf("Clean = %q, want %q", got, want)
	}
}
