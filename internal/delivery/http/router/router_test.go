package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/delivery/http/handler"
	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/repository"
	"github.com/user/notice-crawler/internal/usecase"
	"github.com/user/notice-crawler/pkg/metrics"
)

type noJobs struct{}

func (noJobs) Submit(context.Context, usecase.ScrapeRequest) (string, error) { return "", nil }
func (noJobs) GetStatus(context.Context, string) (*entity.ScrapeJobStatus, error) {
	return nil, repository.ErrJobNotFound
}
func (noJobs) Shutdown(context.Context) error { return nil }

func TestRouter_MetricsUseRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := handler.NewHandler(noJobs{}, nil, zap.NewNop())
	srv := httptest.NewServer(New(h, zap.NewNop(), m, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/scrape/0c6f3b7e")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["path"] == "/api/scrape/{jobID}" && labels["status"] == "404" {
				found = true
			}
		}
	}
	assert.True(t, found, "request not recorded under its route pattern")
}

func TestRouter_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := httptest.NewServer(New(handler.NewHandler(noJobs{}, nil, nil), zap.NewNop(), m, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
