package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"donatehub/api/internal/apperr"
	"donatehub/api/internal/ids"
	"donatehub/api/internal/models"
	"donatehub/api/internal/repository"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100

	statsCacheKey = "donations:stats"
	statsCacheTTL = 10 * time.Minute
)

type DonationStore interface {
	Create(ctx context.Context, donation models.Donation) error
	GetByID(ctx context.Context, id string) (models.Donation, error)
	List(ctx context.Context, filter repository.DonationFilter, limit, offset int) ([]models.Donation, error)
	Count(ctx context.Context, filter repository.DonationFilter) (int, error)
	Update(ctx context.Context, donation models.Donation) error
	UpdateStatus(ctx context.Context, id string, status models.DonationStatus) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (repository.StatusCounts, error)
}

type UserCounter interface {
	CountAll(ctx context.Context) (int, error)
}

type DonationService struct {
	store DonationStore
	users UserCounter
	cache *redis.Client
	log   zerolog.Logger
}

func NewDonationService(store DonationStore, users UserCounter, cache *redis.Client, log zerolog.Logger) *DonationService {
	return &DonationService{
		store: store,
		users: users,
		cache: cache,
		log:   log,
	}
}

type ListInput struct {
	Status   string
	Category string
	Search   string
	Page     int
	PerPage  int
}

// PageMeta mirrors the listing paginator: from/to are 1-based item
// indexes and null on an empty page.
type PageMeta struct {
	Total       int  `json:"total"`
	PerPage     int  `json:"per_page"`
	CurrentPage int  `json:"current_page"`
	LastPage    int  `json:"last_page"`
	From        *int `json:"from"`
	To          *int `json:"to"`
}

type DonationPage struct {
	Items []models.Donation
	Meta  PageMeta
}

func (s *DonationService) List(ctx context.Context, input ListInput) (DonationPage, error) {
	return s.list(ctx, "", input)
}

// ListMine is List scoped to the caller's own records.
func (s *DonationService) ListMine(ctx context.Context, user models.User, input ListInput) (DonationPage, error) {
	return s.list(ctx, user.ID, input)
}

func (s *DonationService) list(ctx context.Context, userID string, input ListInput) (DonationPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	filter := repository.DonationFilter{
		UserID:   userID,
		Status:   models.DonationStatus(strings.TrimSpace(input.Status)),
		Category: models.DonationCategory(strings.TrimSpace(input.Category)),
		Search:   strings.TrimSpace(input.Search),
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return DonationPage{}, err
	}

	items, err := s.store.List(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		return DonationPage{}, err
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	meta := PageMeta{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
	}
	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		meta.From = &from
		meta.To = &to
	}

	return DonationPage{Items: items, Meta: meta}, nil
}

func (s *DonationService) Get(ctx context.Context, id string) (models.Donation, error) {
	donation, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDonationNotFound) {
			return models.Donation{}, apperr.NotFound("Donation not found")
		}
		return models.Donation{}, err
	}
	return donation, nil
}

type CreateDonationInput struct {
	Name        string
	Category    string
	Quantity    int
	Description string
	Location    string
	Image       string
}

// Create inserts a listing owned by the caller. Status is always
// active on creation, whatever the client sent.
func (s *DonationService) Create(ctx context.Context, user models.User, input CreateDonationInput) (models.Donation, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)

	fields := apperr.FieldErrors{}
	validateName(fields, input.Name)
	validateCategory(fields, input.Category)
	validateQuantity(fields, input.Quantity)
	validateDescription(fields, input.Description)
	validateLocation(fields, input.Location)
	if len(fields) > 0 {
		return models.Donation{}, apperr.Validation(fields)
	}

	var image *string
	if trimmed := strings.TrimSpace(input.Image); trimmed != "" {
		image = &trimmed
	}

	now := time.Now().UTC()
	donation := models.Donation{
		ID:          ids.New(),
		UserID:      user.ID,
		Name:        input.Name,
		Category:    models.DonationCategory(input.Category),
		Quantity:    input.Quantity,
		Description: input.Description,
		Location:    input.Location,
		Image:       image,
		Status:      models.DonationStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
		Donor: &models.DonorProfile{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
		},
	}

	if err := s.store.Create(ctx, donation); err != nil {
		return models.Donation{}, err
	}

	s.invalidateStats(ctx)
	s.log.Info().Str("donation_id", donation.ID).Str("user_id", user.ID).Msg("donation created")
	return donation, nil
}

type UpdateDonationInput struct {
	Name        *string
	Category    *string
	Quantity    *int
	Description *string
	Location    *string
	Image       *string
	Status      *string
}

// Update applies a partial edit. Ownership is checked before any field
// validation; a present field is validated with the create rules. An
// image set to the empty string clears the stored reference.
func (s *DonationService) Update(ctx context.Context, user models.User, id string, input UpdateDonationInput) (models.Donation, error) {
	donation, err := s.ownedDonation(ctx, user, id, "Unauthorized to update this donation")
	if err != nil {
		return models.Donation{}, err
	}

	fields := apperr.FieldErrors{}
	if input.Name != nil {
		*input.Name = strings.TrimSpace(*input.Name)
		validateName(fields, *input.Name)
	}
	if input.Category != nil {
		validateCategory(fields, *input.Category)
	}
	if input.Quantity != nil {
		validateQuantity(fields, *input.Quantity)
	}
	if input.Description != nil {
		*input.Description = strings.TrimSpace(*input.Description)
		validateDescription(fields, *input.Description)
	}
	if input.Location != nil {
		*input.Location = strings.TrimSpace(*input.Location)
		validateLocation(fields, *input.Location)
	}
	if input.Status != nil && !models.DonationStatus(*input.Status).Valid() {
		fields.Add("status", "status must be either active or completed")
	}
	if len(fields) > 0 {
		return models.Donation{}, apperr.Validation(fields)
	}

	if input.Name != nil {
		donation.Name = *input.Name
	}
	if input.Category != nil {
		donation.Category = models.DonationCategory(*input.Category)
	}
	if input.Quantity != nil {
		donation.Quantity = *input.Quantity
	}
	if input.Description != nil {
		donation.Description = *input.Description
	}
	if input.Location != nil {
		donation.Location = *input.Location
	}
	if input.Image != nil {
		if trimmed := strings.TrimSpace(*input.Image); trimmed != "" {
			donation.Image = &trimmed
		} else {
			donation.Image = nil
		}
	}
	if input.Status != nil {
		donation.Status = models.DonationStatus(*input.Status)
	}
	donation.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, donation); err != nil {
		return models.Donation{}, err
	}

	s.invalidateStats(ctx)
	return donation, nil
}

func (s *DonationService) UpdateStatus(ctx context.Context, user models.User, id string, status string) (models.Donation, error) {
	donation, err := s.ownedDonation(ctx, user, id, "Unauthorized to update this donation")
	if err != nil {
		return models.Donation{}, err
	}

	if !models.DonationStatus(status).Valid() {
		fields := apperr.FieldErrors{}
		fields.Add("status", "status must be either active or completed")
		return models.Donation{}, apperr.Validation(fields)
	}

	if err := s.store.UpdateStatus(ctx, id, models.DonationStatus(status)); err != nil {
		return models.Donation{}, err
	}

	donation.Status = models.DonationStatus(status)
	donation.UpdatedAt = time.Now().UTC()

	s.invalidateStats(ctx)
	return donation, nil
}

func (s *DonationService) Delete(ctx context.Context, user models.User, id string) error {
	if _, err := s.ownedDonation(ctx, user, id, "Unauthorized to delete this donation"); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateStats(ctx)
	s.log.Info().Str("donation_id", id).Str("user_id", user.ID).Msg("donation deleted")
	return nil
}

func (s *DonationService) ownedDonation(ctx context.Context, user models.User, id string, forbiddenMsg string) (models.Donation, error) {
	donation, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDonationNotFound) {
			return models.Donation{}, apperr.NotFound("Donation not found")
		}
		return models.Donation{}, err
	}
	if donation.UserID != user.ID {
		return models.Donation{}, apperr.Forbidden(forbiddenMsg)
	}
	return donation, nil
}

type Stats struct {
	TotalDonations     int `json:"total_donations"`
	ActiveDonations    int `json:"active_donations"`
	CompletedDonations int `json:"completed_donations"`
	RegisteredUsers    int `json:"registered_users"`
}

// Stats serves the public aggregate, from cache when possible.
func (s *DonationService) Stats(ctx context.Context) (Stats, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var stats Stats
			if err := json.Unmarshal(raw, &stats); err == nil {
				return stats, nil
			}
		}
	}
	return s.WarmStats(ctx)
}

// WarmStats recomputes the aggregate and refreshes the cache entry.
func (s *DonationService) WarmStats(ctx context.Context) (Stats, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	userCount, err := s.users.CountAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalDonations:     counts.Total,
		ActiveDonations:    counts.Active,
		CompletedDonations: counts.Completed,
		RegisteredUsers:    userCount,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("stats cache write failed")
			}
		}
	}
	return stats, nil
}

func (s *DonationService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}

func validateName(fields apperr.FieldErrors, name string) {
	if name == "" {
		fields.Add("name", "name is required")
	} else if len(name) > 255 {
		fields.Add("name", "name must be at most 255 characters")
	}
}

func validateCategory(fields apperr.FieldErrors, category string) {
	if category == "" {
		fields.Add("category", "category is required")
		return
	}
	if !models.DonationCategory(category).Valid() {
		fields.Add("category", "category must be one of: food, clothing, electronics, furniture, books, other")
	}
}

func validateQuantity(fields apperr.FieldErrors, quantity int) {
	if quantity < 1 {
		fields.Add("quantity", "quantity must be at least 1")
	}
}

func validateDescription(fields apperr.FieldErrors, description string) {
	if description == "" {
		fields.Add("description", "description is required")
	}
}

func validateLocation(fields apperr.FieldErrors, location string) {
	if location == "" {
		fields.Add("location", "location is required")
	} else if len(location) > 255 {
		fields.Add("location", "location must be at most 255 characters")
	}
}
