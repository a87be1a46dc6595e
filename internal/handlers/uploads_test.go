package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func doMultipart(t *testing.T, engine *gin.Engine, token, field, filename string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(payload); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func pngBytes() []byte {
	return append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0x00}, 64)...)
}

func TestUploadImage(t *testing.T) {
	engine := newTestRouter(t)
	token := registerUser(t, engine, uniqueEmail("uploader"))

	rec := doMultipart(t, engine, token, "image", "photo.png", pngBytes())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	if body["message"] != "Image uploaded successfully" {
		t.Fatalf("message = %v", body["message"])
	}
	data := body["data"].(map[string]any)
	url, _ := data["url"].(string)
	if !strings.HasPrefix(url, "https://cdn.test/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}
	if data["format"] != "png" {
		t.Fatalf("format = %v", data["format"])
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	engine := newTestRouter(t)
	token := registerUser(t, engine, uniqueEmail("texter"))

	rec := doMultipart(t, engine, token, "image", "note.txt", []byte("plain text, not an image"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	errs := decodeEnvelope(t, rec)["errors"].(map[string]any)
	if _, ok := errs["image"]; !ok {
		t.Fatalf("expected image error, got %v", errs)
	}
}

func TestUploadRequiresFile(t *testing.T) {
	engine := newTestRouter(t)
	token := registerUser(t, engine, uniqueEmail("empty"))

	rec := doMultipart(t, engine, token, "", "", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	engine := newTestRouter(t)

	rec := doMultipart(t, engine, "", "image", "photo.png", pngBytes())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
