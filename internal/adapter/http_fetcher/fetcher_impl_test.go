package http_fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/repository"
)

const testUA = "CivicSphereBot/1.0 (Government Transparency Tool; contact: admin@civicsphere.com)"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/notice", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUA, r.Header.Get("User-Agent"))
		assert.Equal(t, "en-US,en;q=0.5", r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Public notice</h1><a href="next">Next</a></body></html>`))
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/notice", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := newServer(t)
	f := NewHTTPFetcher(srv.Client(), Config{UserAgent: testUA, PageLoadTimeout: time.Second}, zap.NewNop())

	session, err := f.Open(context.Background())
	require.NoError(t, err)
	defer session.Close()

	page, err := session.Fetch(context.Background(), srv.URL+"/notice")
	require.NoError(t, err)
	defer page.Close()

	assert.Equal(t, "Public notice", page.Document.Find("h1").Text())
	assert.Equal(t, srv.URL+"/notice", page.URL.String())
}

func TestHTTPFetcher_FollowsRedirects(t *testing.T) {
	srv := newServer(t)
	f := NewHTTPFetcher(srv.Client(), Config{UserAgent: testUA}, nil)

	page, err := f.Fetch(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, "/notice", page.URL.Path)
}

func TestHTTPFetcher_Errors(t *testing.T) {
	srv := newServer(t)
	f := NewHTTPFetcher(srv.Client(), Config{UserAgent: testUA, PageLoadTimeout: 100 * time.Millisecond}, zap.NewNop())

	tests := []struct {
		name string
		url  string
		want error
	}{
		{name: "not found", url: srv.URL + "/missing", want: repository.ErrFetchFailed},
		{name: "timeout", url: srv.URL + "/slow", want: repository.ErrNavigationTimeout},
		{name: "bad url", url: "http://[::1", want: repository.ErrFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.url)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
