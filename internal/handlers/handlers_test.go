package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/application-tracker/internal/auth"
	"github.com/justsurfingit/application-tracker/internal/database"
	"github.com/justsurfingit/application-tracker/internal/database/dbtest"
	"github.com/justsurfingit/application-tracker/internal/handlers"
	"github.com/justsurfingit/application-tracker/internal/logging"
	"github.com/justsurfingit/application-tracker/internal/metrics"
	"github.com/justsurfingit/application-tracker/internal/ratelimit"
	"github.com/justsurfingit/application-tracker/internal/services"
	"github.com/justsurfingit/application-tracker/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	t      *testing.T
	engine *gin.Engine
}

func newServer(t *testing.T, ping handlers.Pinger) *server {
	t.Helper()
	db := dbtest.New(t)
	log := logging.Discard()
	m := metrics.New(prometheus.NewRegistry())

	store, err := storage.New(afero.NewMemMapFs(), "/uploads")
	require.NoError(t, err)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	authSvc := services.NewAuthService(db, tokens)
	if ping == nil {
		ping = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}

	h := handlers.Handlers{
		Jobs: handlers.NewJobHandler(
			services.NewParserService(nil, "", log, m),
			services.NewJobService(db),
			log,
		),
		Applications: handlers.NewApplicationHandler(services.NewApplicationService(db, log, m), log),
		Offers:       handlers.NewOfferHandler(services.NewOfferService(db, log, m), log),
		Resumes:      handlers.NewResumeHandler(services.NewResumeService(db, store, log, 1<<20), log),
		Schedule: handlers.NewScheduleHandler(
			services.NewInterviewService(db),
			services.NewDeadlineService(db),
			log,
		),
		Account: handlers.NewAccountHandler(
			authSvc,
			services.NewProfileService(db, store, log),
			services.NewActivityService(db),
			log,
		),
		Health: handlers.NewHealthHandler("JobAppTracker API", "test", ping),
	}
	engine := handlers.NewRouter(handlers.RouterConfig{
		Log:           log,
		Metrics:       m,
		CORSOrigins:   []string{"*"},
		AuthLimiter:   ratelimit.New(100, 100, time.Minute),
		Authenticator: authSvc,
	}, h)
	return &server{t: t, engine: engine}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) signup(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": email, "password": "hunter22"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(s.t, w, &tok)
	require.Equal(s.t, "bearer", tok.TokenType)
	require.NotEmpty(s.t, tok.AccessToken)
	return tok.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestApplicationToOfferFlow(t *testing.T) {
	s := newServer(t, nil)
	token := s.signup("dev@example.com")

	w := s.do(http.MethodPost, "/api/jobs/create", token, gin.H{"title": "Engineer", "company": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var job struct {
		ID uint `json:"id"`
	}
	decode(t, w, &job)

	w = s.do(http.MethodPost, "/api/applications/create", token, gin.H{"job_id": job.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var app struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &app)
	assert.Equal(t, "saved", app.Status)

	w = s.do(http.MethodPatch, "/api/applications/update/"+itoa(app.ID), token, gin.H{
		"status":         "offer",
		"offer_salary":   150000,
		"offer_currency": "USD",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &app)
	assert.Equal(t, "offer", app.Status)

	w = s.do(http.MethodGet, "/api/offers/list", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var offers []struct {
		ApplicationID uint   `json:"application_id"`
		CompanyName   string `json:"company_name"`
		Position      string `json:"position"`
		Currency      string `json:"currency"`
		Status        string `json:"status"`
	}
	decode(t, w, &offers)
	require.Len(t, offers, 1)
	assert.Equal(t, app.ID, offers[0].ApplicationID)
	assert.Equal(t, "Acme", offers[0].CompanyName)
	assert.Equal(t, "Engineer", offers[0].Position)
	assert.Equal(t, "USD", offers[0].Currency)
	assert.Equal(t, "pending", offers[0].Status)

	w = s.do(http.MethodGet, "/api/applications/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		Total    int64            `json:"total"`
		ByStatus map[string]int64 `json:"by_status"`
	}
	decode(t, w, &stats)
	assert.EqualValues(t, 1, stats.Total)
	assert.EqualValues(t, 1, stats.ByStatus["offer"])

	w = s.do(http.MethodGet, "/api/activity/list", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var activity []map[string]any
	decode(t, w, &activity)
	assert.NotEmpty(t, activity)
}

func TestErrorShapes(t *testing.T) {
	s := newServer(t, nil)
	token := s.signup("dev@example.com")

	t.Run("missing token", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/jobs/list", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown application", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/applications/get/999", token, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		var body map[string]string
		decode(t, w, &body)
		assert.Equal(t, "Application not found", body["error"])
		assert.Equal(t, "application", body["entity"])
	})

	t.Run("bad id", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/jobs/get/abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/create", bytes.NewBufferString("{"))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid JSON format")
	})

	t.Run("unknown status", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/jobs/create", token, gin.H{"title": "SRE", "company": "Initech"})
		require.Equal(t, http.StatusCreated, w.Code)
		var job struct {
			ID uint `json:"id"`
		}
		decode(t, w, &job)

		w = s.do(http.MethodPost, "/api/applications/create", token, gin.H{"job_id": job.ID, "status": "ghosted"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]string
		decode(t, w, &body)
		assert.Equal(t, "status", body["field"])
	})

	t.Run("duplicate signup", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{"email": "DEV@example.com", "password": "hunter22"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad login", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "dev@example.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOwnershipIsolation(t *testing.T) {
	s := newServer(t, nil)
	alice := s.signup("alice@example.com")
	bob := s.signup("bob@example.com")

	w := s.do(http.MethodPost, "/api/jobs/create", alice, gin.H{"title": "Engineer", "company": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code)
	var job struct {
		ID uint `json:"id"`
	}
	decode(t, w, &job)

	w = s.do(http.MethodGet, "/api/jobs/get/"+itoa(job.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/applications/create", bob, gin.H{"job_id": job.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/jobs/list", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var jobs []map[string]any
	decode(t, w, &jobs)
	assert.Empty(t, jobs)
}

func TestResumeUpload(t *testing.T) {
	s := newServer(t, nil)
	token := s.signup("dev@example.com")

	upload := func(filename string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("tags", "backend"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/resumes/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		return w
	}

	w := upload("cv.pdf", []byte("not really a pdf"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resume struct {
		ID       uint    `json:"id"`
		Filename string  `json:"filename"`
		Tags     *string `json:"tags"`
	}
	decode(t, w, &resume)
	assert.Equal(t, "cv.pdf", resume.Filename)
	require.NotNil(t, resume.Tags)
	assert.Equal(t, "backend", *resume.Tags)

	w = upload("cv.txt", []byte("plain"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Only PDF and DOCX supported")

	req := httptest.NewRequest(http.MethodPost, "/api/resumes/upload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")

	w = s.do(http.MethodPatch, "/api/resumes/update/"+itoa(resume.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resume)
	assert.Nil(t, resume.Tags)

	w = s.do(http.MethodDelete, "/api/resumes/delete/"+itoa(resume.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestParseEndpoint(t *testing.T) {
	s := newServer(t, nil)
	token := s.signup("dev@example.com")

	w := s.do(http.MethodPost, "/api/parse/jd", token, gin.H{
		"raw_jd": "Senior Go Engineer\nCompany: Acme\nWe use Go, Docker and Kubernetes.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var parsed struct {
		Title   string `json:"title"`
		Company string `json:"company"`
	}
	decode(t, w, &parsed)
	assert.Equal(t, "Senior Go Engineer", parsed.Title)
	assert.Equal(t, "Acme", parsed.Company)

	w = s.do(http.MethodGet, "/api/parse/health", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	decode(t, w, &health)
	assert.Equal(t, false, health["ai_available"])
	assert.Equal(t, true, health["fallback_available"])
}

func TestHealthAndRoot(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])

	w = s.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "/health", body["health"])
	assert.Equal(t, "test", body["version"])

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newServer(t, func(context.Context) error { return errors.New("connection refused") })
	w = down.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "degraded", body["status"])
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
