package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donatehub/api/internal/apperr"
)

type uploadData struct {
	URL       string `json:"url"`
	Format    string `json:"format"`
	SizeBytes int64  `json:"size_bytes"`
}

// UploadImage stores a donation photo; the returned URL goes into a
// donation's image field.
func (h HandlerSet) UploadImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortMissingContext(c)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		fields := apperr.FieldErrors{}
		fields.Add("image", "image file is required")
		h.respondError(c, apperr.Validation(fields))
		return
	}
	defer file.Close()

	result, err := h.uploads.Upload(c.Request.Context(), user, file, header)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "Image uploaded successfully", uploadData{
		URL:       result.URL,
		Format:    result.Format,
		SizeBytes: result.SizeBytes,
	})
}
