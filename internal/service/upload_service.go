package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/rs/zerolog"

	"donatehub/api/internal/apperr"
	"donatehub/api/internal/config"
	"donatehub/api/internal/ids"
	"donatehub/api/internal/media/sniffer"
	"donatehub/api/internal/models"
)

type BlobStore interface {
	Put(ctx context.Context, objectKey string, data []byte, contentType string) error
	PublicURL(objectKey string) string
}

type UploadService struct {
	store BlobStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewUploadService(store BlobStore, cfg *config.AppConfig, log zerolog.Logger) *UploadService {
	return &UploadService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

type UploadResult struct {
	URL       string
	Format    string
	SizeBytes int64
}

// Upload stores a donation photo and returns its public URL, for use
// in a donation's image field.
func (s *UploadService) Upload(ctx context.Context, user models.User, file multipart.File, header *multipart.FileHeader) (UploadResult, error) {
	if file == nil || header == nil {
		return UploadResult{}, invalidImage("image file is required")
	}

	maxBytes := s.cfg.Storage.MaxUploadBytes
	if header.Size > maxBytes {
		return UploadResult{}, invalidImage(fmt.Sprintf("image must be at most %d bytes", maxBytes))
	}

	// +1 so an understated header size still trips the cap.
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return UploadResult{}, invalidImage(fmt.Sprintf("image must be at most %d bytes", maxBytes))
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	result, err := sniffer.DetectHead(head)
	if err != nil {
		return UploadResult{}, invalidImage("image must be a jpeg, png, gif or webp file")
	}

	objectKey := buildObjectKey(user.ID, string(result.Type))
	if err := s.store.Put(ctx, objectKey, data, result.MIME); err != nil {
		return UploadResult{}, err
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("object_key", objectKey).
		Int("size_bytes", len(data)).
		Msg("donation image uploaded")

	return UploadResult{
		URL:       s.store.PublicURL(objectKey),
		Format:    string(result.Type),
		SizeBytes: int64(len(data)),
	}, nil
}

func buildObjectKey(userID string, ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, userID, fmt.Sprintf("%s.%s", ids.New(), ext))
}

func invalidImage(message string) *apperr.ValidationError {
	fields := apperr.FieldErrors{}
	fields.Add("image", message)
	return apperr.Validation(fields)
}
