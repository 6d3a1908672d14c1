package services

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractTextTXT(t *testing.T) {
	svc := NewFileExtractService()

	text, err := svc.ExtractText([]byte("Jane Doe\r\n\r\n\r\nBackend Engineer\r\n"), "resume.txt")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Backend Engineer") {
		t.Errorf("Extracted text missing content: %q", text)
	}
	if strings.Contains(text, "\n\n\n") {
		t.Errorf("Blank lines were not collapsed: %q", text)
	}
}

func TestExtractTextEmptyTXT(t *testing.T) {
	svc := NewFileExtractService()

	if _, err := svc.ExtractText([]byte("   \n\n  "), "resume.txt"); err == nil {
		t.Error("Expected error for empty text file")
	}
}

func TestExtractTextUnsupportedType(t *testing.T) {
	svc := NewFileExtractService()

	tests := []string{"resume.exe", "resume.png", "resume"}
	for _, name := range tests {
		if _, err := svc.ExtractText([]byte("data"), name); err == nil {
			t.Errorf("Expected error for %q", name)
		}
	}
}

func TestExtractTextDOCX(t *testing.T) {
	documentXML := `<?xml version="1.0"?>
<w:document><w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>5 years of Go &amp; Postgres</w:t></w:r></w:p>
</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("Failed to build test archive: %v", err)
	}
	f.Write([]byte(documentXML))
	zw.Close()

	svc := NewFileExtractService()
	text, err := svc.ExtractText(buf.Bytes(), "resume.docx")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") {
		t.Errorf("Expected name in extracted text, got %q", text)
	}
	if !strings.Contains(text, "Go & Postgres") {
		t.Errorf("Expected entity-decoded text, got %q", text)
	}
}

func TestExtractTextDOCXWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("word/styles.xml")
	f.Write([]byte("<w:styles/>"))
	zw.Close()

	svc := NewFileExtractService()
	if _, err := svc.ExtractText(buf.Bytes(), "resume.docx"); err == nil {
		t.Error("Expected error when document.xml is missing")
	}
}

func TestStripDOCXMLBreaks(t *testing.T) {
	got := stripDOCXML([]byte(`<w:p><w:t>line one</w:t></w:p><w:p><w:t>line</w:t><w:tab/><w:t>two</w:t></w:p>`))
	if !strings.Contains(got, "line one\n") {
		t.Errorf("Paragraph close should become newline, got %q", got)
	}
	if !strings.Contains(got, "line\ttwo") {
		t.Errorf("Tab element should become tab, got %q", got)
	}
}
