package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"intervia-backend/internal/services"
)

func multipartUpload(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("Failed to build multipart body: %v", err)
	}
	fw.Write(content)
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestResumeUpload_MissingFileField(t *testing.T) {
	h := NewResumeHandler(nil, services.NewFileExtractService(), nil, 1<<20)

	body, contentType := multipartUpload(t, "attachment", "resume.txt", []byte("Jane Doe"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Upload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %q", code)
	}
}

func TestResumeUpload_UnsupportedFileType(t *testing.T) {
	h := NewResumeHandler(nil, services.NewFileExtractService(), nil, 1<<20)

	body, contentType := multipartUpload(t, "file", "resume.exe", []byte{0x4d, 0x5a})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	h.Upload(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", rr.Code)
	}
	if code := decodeErrorCode(t, rr); code != "EXTRACTION_ERROR" {
		t.Errorf("Expected code EXTRACTION_ERROR, got %q", code)
	}
}
