package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"donatehub/api/internal/config"
	"donatehub/api/internal/models"
	"donatehub/api/internal/repository"
	"donatehub/api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// In-memory stores satisfying the service-side interfaces; no database
// needed for contract tests.

type memUserStore struct {
	users map[string]models.User
}

func (m *memUserStore) Create(_ context.Context, user models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStore) CountAll(_ context.Context) (int, error) {
	return len(m.users), nil
}

type memSessionStore struct {
	sessions map[string]models.Session
}

func (m *memSessionStore) Create(_ context.Context, session models.Session) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *memSessionStore) FindByTokenHash(_ context.Context, tokenHash []byte) (models.Session, error) {
	for _, session := range m.sessions {
		if string(session.TokenHash) == string(tokenHash) {
			return session, nil
		}
	}
	return models.Session{}, repository.ErrSessionNotFound
}

func (m *memSessionStore) DeleteByID(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memSessionStore) DeleteByUser(_ context.Context, userID string) error {
	for id, session := range m.sessions {
		if session.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memSessionStore) Touch(_ context.Context, _ string, _ string, _ string) error {
	return nil
}

type memDonationStore struct {
	donations map[string]models.Donation
	users     *memUserStore
}

func (m *memDonationStore) withDonor(donation models.Donation) models.Donation {
	if user, err := m.users.GetByID(context.Background(), donation.UserID); err == nil {
		donation.Donor = &models.DonorProfile{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
		}
	}
	return donation
}

func (m *memDonationStore) Create(_ context.Context, donation models.Donation) error {
	m.donations[donation.ID] = donation
	return nil
}

func (m *memDonationStore) GetByID(_ context.Context, id string) (models.Donation, error) {
	donation, ok := m.donations[id]
	if !ok {
		return models.Donation{}, repository.ErrDonationNotFound
	}
	return m.withDonor(donation), nil
}

func (m *memDonationStore) matches(donation models.Donation, filter repository.DonationFilter) bool {
	if filter.UserID != "" && donation.UserID != filter.UserID {
		return false
	}
	if filter.Status != "" && donation.Status != filter.Status {
		return false
	}
	if filter.Category != "" && donation.Category != filter.Category {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(donation.Name), needle) &&
			!strings.Contains(strings.ToLower(donation.Description), needle) {
			return false
		}
	}
	return true
}

func (m *memDonationStore) List(_ context.Context, filter repository.DonationFilter, limit, offset int) ([]models.Donation, error) {
	var matched []models.Donation
	for _, donation := range m.donations {
		if m.matches(donation, filter) {
			matched = append(matched, m.withDonor(donation))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *memDonationStore) Count(_ context.Context, filter repository.DonationFilter) (int, error) {
	count := 0
	for _, donation := range m.donations {
		if m.matches(donation, filter) {
			count++
		}
	}
	return count, nil
}

func (m *memDonationStore) Update(_ context.Context, donation models.Donation) error {
	if _, ok := m.donations[donation.ID]; !ok {
		return repository.ErrDonationNotFound
	}
	donation.Donor = nil
	m.donations[donation.ID] = donation
	return nil
}

func (m *memDonationStore) UpdateStatus(_ context.Context, id string, status models.DonationStatus) error {
	donation, ok := m.donations[id]
	if !ok {
		return repository.ErrDonationNotFound
	}
	donation.Status = status
	m.donations[id] = donation
	return nil
}

func (m *memDonationStore) Delete(_ context.Context, id string) error {
	if _, ok := m.donations[id]; !ok {
		return repository.ErrDonationNotFound
	}
	delete(m.donations, id)
	return nil
}

func (m *memDonationStore) CountByStatus(_ context.Context) (repository.StatusCounts, error) {
	var counts repository.StatusCounts
	for _, donation := range m.donations {
		counts.Total++
		switch donation.Status {
		case models.DonationStatusActive:
			counts.Active++
		case models.DonationStatusCompleted:
			counts.Completed++
		}
	}
	return counts, nil
}

type memBlobStore struct {
	objects map[string][]byte
}

func (m *memBlobStore) Put(_ context.Context, objectKey string, data []byte, _ string) error {
	m.objects[objectKey] = data
	return nil
}

func (m *memBlobStore) PublicURL(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.AppConfig{
		Environment: "test",
		Auth:        config.AuthConfig{SessionTTL: time.Hour},
		Storage:     config.StorageConfig{MaxUploadBytes: 1 << 20},
	}
	logger := zerolog.Nop()

	users := &memUserStore{users: map[string]models.User{}}
	sessions := &memSessionStore{sessions: map[string]models.Session{}}
	donations := &memDonationStore{donations: map[string]models.Donation{}, users: users}
	blobs := &memBlobStore{objects: map[string][]byte{}}

	h := HandlerSet{
		log:       logger,
		cfg:       cfg,
		auth:      service.NewAuthService(users, sessions, cfg, logger),
		donations: service.NewDonationService(donations, users, nil, logger),
		uploads:   service.NewUploadService(blobs, cfg, logger),
	}

	engine := gin.New()
	h.Register(engine.Group("/api"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func registerUser(t *testing.T, engine *gin.Engine, email string) string {
	t.Helper()

	rec := doJSON(t, engine, http.MethodPost, "/api/register", "", map[string]any{
		"name":     "Test User",
		"email":    email,
		"password": "secret99",
		"role":     "donor",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("no token in register response: %s", rec.Body.String())
	}
	return token
}

func createDonation(t *testing.T, engine *gin.Engine, token string, fields map[string]any) string {
	t.Helper()

	payload := map[string]any{
		"name":        "Box of books",
		"category":    "books",
		"quantity":    2,
		"description": "assorted paperbacks",
		"location":    "Main depot",
	}
	for k, v := range fields {
		payload[k] = v
	}

	rec := doJSON(t, engine, http.MethodPost, "/api/donations", token, payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create donation status = %d, body = %s", rec.Code, rec.Body.String())
	}

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("no id in create response: %s", rec.Body.String())
	}
	return id
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
