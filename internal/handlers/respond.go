package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"donatehub/api/internal/apperr"
	"donatehub/api/internal/middleware"
	"donatehub/api/internal/models"
)

// envelope is the uniform response body for every endpoint.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  apperr.FieldErrors `json:"errors,omitempty"`
}

func respondSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h HandlerSet) respondError(c *gin.Context, err error) {
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusUnprocessableEntity, envelope{
			Success: false,
			Message: "Validation error",
			Errors:  validationErr.Fields,
		})
		return
	}

	var authErr *apperr.AuthError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusUnauthorized, envelope{
			Success: false,
			Message: authErr.Message,
		})
		return
	}

	var forbiddenErr *apperr.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		c.JSON(http.StatusForbidden, envelope{
			Success: false,
			Message: forbiddenErr.Message,
		})
		return
	}

	var notFoundErr *apperr.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, envelope{
			Success: false,
			Message: notFoundErr.Message,
		})
		return
	}

	h.log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Msg("request failed")

	c.JSON(http.StatusInternalServerError, envelope{
		Success: false,
		Message: err.Error(),
	})
}

func respondBadRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Message: "Invalid request body",
	})
}

func currentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

func currentSession(c *gin.Context) (models.Session, bool) {
	val, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := val.(models.Session)
	return session, ok
}

type userResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Role  string  `json:"role"`
	Phone *string `json:"phone"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
		Phone: user.Phone,
	}
}

type donorResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type donationResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Quantity    int            `json:"quantity"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Image       *string        `json:"image"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Donor       *donorResponse `json:"donor,omitempty"`
}

func newDonationResponse(donation models.Donation) donationResponse {
	resp := donationResponse{
		ID:          donation.ID,
		UserID:      donation.UserID,
		Name:        donation.Name,
		Category:    string(donation.Category),
		Quantity:    donation.Quantity,
		Description: donation.Description,
		Location:    donation.Location,
		Image:       donation.Image,
		Status:      string(donation.Status),
		CreatedAt:   donation.CreatedAt,
		UpdatedAt:   donation.UpdatedAt,
	}
	if donation.Donor != nil {
		resp.Donor = &donorResponse{
			ID:    donation.Donor.ID,
			Name:  donation.Donor.Name,
			Email: donation.Donor.Email,
			Phone: donation.Donor.Phone,
		}
	}
	return resp
}

func newDonationResponses(donations []models.Donation) []donationResponse {
	responses := make([]donationResponse, 0, len(donations))
	for _, donation := range donations {
		responses = append(responses, newDonationResponse(donation))
	}
	return responses
}
