package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"donatehub/api/internal/apperr"
	"donatehub/api/internal/config"
)

type memBlobStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memBlobStore) Put(_ context.Context, objectKey string, data []byte, contentType string) error {
	m.objects[objectKey] = data
	m.types[objectKey] = contentType
	return nil
}

func (m *memBlobStore) PublicURL(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

type fakeFile struct {
	*bytes.Reader
}

func (fakeFile) Close() error { return nil }

func newFakeUpload(data []byte) (multipart.File, *multipart.FileHeader) {
	return fakeFile{bytes.NewReader(data)}, &multipart.FileHeader{
		Filename: "photo",
		Size:     int64(len(data)),
	}
}

func newTestUploadService(maxBytes int64) (*UploadService, *memBlobStore) {
	store := newMemBlobStore()
	cfg := &config.AppConfig{Storage: config.StorageConfig{MaxUploadBytes: maxBytes}}
	return NewUploadService(store, cfg, zerolog.Nop()), store
}

var pngPayload = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 64)...)

func TestUploadStoresImage(t *testing.T) {
	svc, store := newTestUploadService(1 << 20)

	file, header := newFakeUpload(pngPayload)
	result, err := svc.Upload(context.Background(), testUser("u1"), file, header)
	if err != nil {
		t.Fatalf("Upload() err = %v", err)
	}

	if result.Format != "png" {
		t.Fatalf("format = %q, want png", result.Format)
	}
	if !strings.HasPrefix(result.URL, "https://cdn.test/") {
		t.Fatalf("url = %q", result.URL)
	}
	if len(store.objects) != 1 {
		t.Fatalf("stored objects = %d, want 1", len(store.objects))
	}
	for key, contentType := range store.types {
		if contentType != "image/png" {
			t.Fatalf("content type for %s = %q", key, contentType)
		}
		if !strings.Contains(key, "u1") {
			t.Fatalf("object key %q does not scope to the uploader", key)
		}
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc, store := newTestUploadService(1 << 20)

	file, header := newFakeUpload([]byte("#!/bin/sh\necho hi\n"))
	_, err := svc.Upload(context.Background(), testUser("u1"), file, header)

	var validationErr *apperr.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(validationErr.Fields["image"]) == 0 {
		t.Fatalf("missing image field error")
	}
	if len(store.objects) != 0 {
		t.Fatalf("rejected payload was stored")
	}
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	svc, store := newTestUploadService(32)

	file, header := newFakeUpload(pngPayload)
	_, err := svc.Upload(context.Background(), testUser("u1"), file, header)

	var validationErr *apperr.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("oversized payload was stored")
	}
}
