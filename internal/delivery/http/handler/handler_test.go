package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/delivery/http/response"
	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/repository"
	"github.com/user/notice-crawler/internal/usecase"
)

type fakeManager struct {
	submitted []usecase.ScrapeRequest
	submitErr error
	statuses  map[string]*entity.ScrapeJobStatus
	getErr    error
}

func (f *fakeManager) Submit(_ context.Context, req usecase.ScrapeRequest) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, req)
	return "job-1", nil
}

func (f *fakeManager) GetStatus(_ context.Context, jobID string) (*entity.ScrapeJobStatus, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.statuses[jobID]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return s, nil
}

func (f *fakeManager) Shutdown(context.Context) error { return nil }

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/health", h.HandleHealthCheck)
	r.Post("/api/scrape", h.HandleSubmitScrape)
	r.Get("/api/scrape/{jobID}", h.HandleGetScrapeStatus)
	return r
}

func TestHandleSubmitScrape(t *testing.T) {
	mgr := &fakeManager{}
	srv := newTestRouter(NewHandler(mgr, nil, zap.NewNop()))

	body := `{"url":"https://city.gov.in/notices","max_depth":1,"max_pages":5,"allowed_domains":["city.gov.in"],"delay_ms":0}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(body)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp response.SubmitScrapeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "job-1", resp.JobID)

	require.Len(t, mgr.submitted, 1)
	req := mgr.submitted[0]
	assert.Equal(t, "https://city.gov.in/notices", req.URL)
	require.NotNil(t, req.MaxDepth)
	assert.Equal(t, 1, *req.MaxDepth)
	require.NotNil(t, req.MaxPages)
	assert.Equal(t, 5, *req.MaxPages)
	assert.Equal(t, []string{"city.gov.in"}, req.AllowedDomains)
	require.NotNil(t, req.Delay)
	assert.Equal(t, time.Duration(0), *req.Delay)
}

func TestHandleSubmitScrape_Defaults(t *testing.T) {
	mgr := &fakeManager{}
	srv := newTestRouter(NewHandler(mgr, nil, zap.NewNop()))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(`{"url":"https://example.com"}`)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, mgr.submitted, 1)
	assert.Nil(t, mgr.submitted[0].MaxDepth)
	assert.Nil(t, mgr.submitted[0].MaxPages)
	assert.Nil(t, mgr.submitted[0].Delay)
}

func TestHandleSubmitScrape_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		submitErr error
		want      int
	}{
		{name: "malformed body", body: `{"url":`, want: http.StatusBadRequest},
		{name: "negative depth", body: `{"url":"https://example.com","max_depth":-1}`, want: http.StatusBadRequest},
		{name: "zero pages", body: `{"url":"https://example.com","max_pages":0}`, want: http.StatusBadRequest},
		{name: "invalid url", body: `{"url":"ftp://example.com"}`, submitErr: usecase.ErrInvalidStartURL, want: http.StatusBadRequest},
		{name: "too many jobs", body: `{"url":"https://example.com"}`, submitErr: usecase.ErrTooManyJobs, want: http.StatusTooManyRequests},
		{name: "shutting down", body: `{"url":"https://example.com"}`, submitErr: usecase.ErrShuttingDown, want: http.StatusServiceUnavailable},
		{name: "store failure", body: `{"url":"https://example.com"}`, submitErr: errors.New("redis down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestRouter(NewHandler(&fakeManager{submitErr: tt.submitErr}, nil, zap.NewNop()))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(tt.body)))

			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestHandleGetScrapeStatus(t *testing.T) {
	finished := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mgr := &fakeManager{statuses: map[string]*entity.ScrapeJobStatus{
		"job-1": {
			JobID:        "job-1",
			URL:          "https://city.gov.in",
			State:        entity.JobCompleted,
			ScrapedCount: 7,
			NewCount:     3,
			FinishedAt:   &finished,
		},
	}}
	srv := newTestRouter(NewHandler(mgr, nil, zap.NewNop()))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape/job-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response.ScrapeStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 7, resp.ScrapedCount)
	assert.Equal(t, 3, resp.NewCount)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetScrapeStatus_StoreError(t *testing.T) {
	srv := newTestRouter(NewHandler(&fakeManager{getErr: errors.New("redis down")}, nil, zap.NewNop()))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scrape/job-1", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleHealthCheck(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("healthy", func(t *testing.T) {
		srv := newTestRouter(NewHandler(&fakeManager{}, map[string]HealthCheck{"postgres": ok, "redis": ok}, zap.NewNop()))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"postgres":"healthy","redis":"healthy"}`, rec.Body.String())
	})

	t.Run("redis down", func(t *testing.T) {
		srv := newTestRouter(NewHandler(&fakeManager{}, map[string]HealthCheck{"postgres": ok, "redis": down}, zap.NewNop()))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"postgres":"healthy","redis":"unhealthy"}`, rec.Body.String())
	})
}
