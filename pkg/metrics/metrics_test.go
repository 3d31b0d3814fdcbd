package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value returns the value of the counter or gauge named name whose labels include want.
func value(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue next
				}
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest(http.MethodGet, "/api/health", http.StatusOK, time.Millisecond)
		m.IncPage("success")
		m.ObserveCrawl("example.com", time.Second)
		m.AddItems("generic", 3)
		m.IncRobotsCheck(true)
		m.IncSummary("fallback")
		m.IncNotificationSaved()
		m.JobStarted()
		m.JobFinished("completed")
	})
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncPage("success")
	m.IncPage("success")
	m.IncPage("disallowed")
	m.AddItems("books", 4)
	m.AddItems("books", 0)
	m.IncRobotsCheck(false)
	m.IncSummary("ai")
	m.JobStarted()
	m.JobStarted()
	m.JobFinished("failed")

	assert.Equal(t, 2.0, value(t, reg, "crawler_pages_total", map[string]string{"status": "success"}))
	assert.Equal(t, 1.0, value(t, reg, "crawler_pages_total", map[string]string{"status": "disallowed"}))
	assert.Equal(t, 4.0, value(t, reg, "crawler_items_extracted_total", map[string]string{"strategy": "books"}))
	assert.Equal(t, 1.0, value(t, reg, "crawler_robots_checks_total", map[string]string{"allowed": "false"}))
	assert.Equal(t, 1.0, value(t, reg, "summaries_total", map[string]string{"source": "ai"}))
	assert.Equal(t, 1.0, value(t, reg, "scrape_jobs_running", nil))
	assert.Equal(t, 1.0, value(t, reg, "scrape_jobs_total", map[string]string{"state": "failed"}))
}
