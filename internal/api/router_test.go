package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/transitlog/transitlog/internal/api"
	"github.com/transitlog/transitlog/internal/api/models"
	"github.com/transitlog/transitlog/internal/auth"
	"github.com/transitlog/transitlog/internal/commute"
	"github.com/transitlog/transitlog/internal/transport"
	"github.com/transitlog/transitlog/internal/user"
)

var testStops = []transport.Stop{
	{ID: 1, Name: "Châtelet", Latitude: 48.8586, Longitude: 2.3470},
	{ID: 2, Name: "République", Latitude: 48.8675, Longitude: 2.3639},
	{ID: 3, Name: "Nation", Latitude: 48.8483, Longitude: 2.3962},
}

// newTestRouter wires the full router against in-memory repositories.
// The user store is pre-seeded so the first registered account (ID 1)
// also resolves through the profile endpoints.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zerolog.New(io.Discard)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.transitlog.fr",
		Audience:   "transitlog-api",
	})
	authService := auth.NewService(jwtService, auth.NewInMemoryUserRepository())

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	require.NoError(t, err)
	userService := user.NewService(user.NewInMemoryRepository(user.User{
		ID:           1,
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}))

	transportService := transport.NewService(transport.ServiceConfig{
		Repository: transport.NewInMemoryRepository(testStops...),
		Logger:     logger,
	})

	stopNames := make(map[int64]string, len(testStops))
	for _, s := range testStops {
		stopNames[s.ID] = s.Name
	}
	commuteService := commute.NewService(commute.NewInMemoryRepository(stopNames), transportService)

	return api.NewRouter(api.RouterConfig{
		Version:          "test",
		BuildTime:        "2024-01-01T00:00:00Z",
		Logger:           logger,
		AuthService:      authService,
		UserService:      userService,
		TransportService: transportService,
		CommuteService:   commuteService,
		AvatarDir:        t.TempDir(),
	})
}

// registerTestUser registers a user over HTTP and returns the bearer token.
func registerTestUser(t *testing.T, router http.Handler) string {
	t.Helper()

	body, _ := json.Marshal(models.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse-battery",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_RegisterLoginVerify(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	// Verify with the returned token
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/verify", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var verify models.VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verify))
	assert.Equal(t, "alice@example.com", verify.User.Email)

	// Login with the same credentials
	body, _ := json.Marshal(models.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	})
	req = httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var login models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, verify.User.ID, login.User.ID)
}

func TestRouter_Login_WrongPassword(t *testing.T) {
	router := newTestRouter(t)
	registerTestUser(t, router)

	body, _ := json.Marshal(models.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_ListStops(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/transport/stops", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stops []models.Stop
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stops))
	assert.Len(t, stops, 3)
	// The list is sorted by name.
	assert.Equal(t, "Châtelet", stops[0].Name)
}

func TestRouter_ListStops_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/transport/stops", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_GetStop_NotFound(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/transport/stops/999", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_CommuteFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	// Calculate and log a commute
	body, _ := json.Marshal(models.CalculateRequest{
		StartStopID:   1,
		EndStopID:     2,
		DepartureTime: "08:30",
		SelectedDate:  "2025-03-12",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/commute/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Location"))

	var result models.CalculationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotZero(t, result.ID)
	assert.GreaterOrEqual(t, result.DailyMinutes, 1)
	assert.Equal(t, result.DailyMinutes*5, result.WeeklyMinutes)

	// Stats reflect the logged record
	req = httptest.NewRequest(http.MethodGet, "/v1/commute/stats", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats models.UserStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalCommutes)
	assert.Equal(t, "Châtelet", stats.MostFrequentRoute.StartStop)

	// Records list has one entry
	req = httptest.NewRequest(http.MethodGet, "/v1/commute/records", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var records []models.CommuteRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)

	// Detailed stats have a single daily bucket
	req = httptest.NewRequest(http.MethodGet, "/v1/commute/detailed-stats", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var detailed models.DetailedStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detailed))
	assert.Len(t, detailed.Daily, 1)

	// Delete the record
	req = httptest.NewRequest(http.MethodDelete, "/v1/commute/records/1", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	// Stats are back to the empty sentinel
	req = httptest.NewRequest(http.MethodGet, "/v1/commute/stats", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalCommutes)
	assert.Equal(t, models.FrequentRoute{}, stats.MostFrequentRoute)
}

func TestRouter_Calculate_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(models.CalculateRequest{
		StartStopID:   1,
		EndStopID:     2,
		DepartureTime: "08:30",
		SelectedDate:  "2025-03-12",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/commute/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Calculate_ValidationError(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	// Identical start and end stops
	body, _ := json.Marshal(models.CalculateRequest{
		StartStopID:   1,
		EndStopID:     1,
		DepartureTime: "08:30",
		SelectedDate:  "2025-03-12",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/commute/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
	assert.NotEmpty(t, problem.Errors)
}

func TestRouter_Calculate_RateLimited(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	// Same-stop bodies are rejected by validation, so nothing is
	// persisted, but each request still counts against the limiter.
	body, _ := json.Marshal(models.CalculateRequest{
		StartStopID:   1,
		EndStopID:     1,
		DepartureTime: "08:30",
		SelectedDate:  "2025-03-12",
	})

	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/commute/calculate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/commute/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_UpdateMe(t *testing.T) {
	router := newTestRouter(t)
	token := registerTestUser(t, router)

	body, _ := json.Marshal(models.UpdateUserRequest{Username: "alice-renamed"})
	req := httptest.NewRequest(http.MethodPut, "/v1/me", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.UpdateUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice-renamed", resp.User.Username)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
