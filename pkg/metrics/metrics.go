package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PagesTotal          *prometheus.CounterVec
	CrawlDuration       *prometheus.HistogramVec
	ItemsExtracted      *prometheus.CounterVec
	RobotsChecks        *prometheus.CounterVec
	SummariesTotal      *prometheus.CounterVec
	NotificationsSaved  prometheus.Counter
	JobsTotal           *prometheus.CounterVec
	JobsRunning         prometheus.Gauge
}

// New registers the application metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		PagesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crawler_pages_total",
			Help: "Total number of page fetch attempts.",
		}, []string{"status"}), // success, failure, disallowed
		CrawlDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crawl_duration_seconds",
			Help:    "Duration of whole crawl invocations.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"domain"}),
		ItemsExtracted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crawler_items_extracted_total",
			Help: "Total number of items extracted from pages.",
		}, []string{"strategy"}),
		RobotsChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crawler_robots_checks_total",
			Help: "Total number of robots.txt evaluations.",
		}, []string{"allowed"}),
		SummariesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "summaries_total",
			Help: "Total number of summaries produced.",
		}, []string{"source"}), // ai, fallback
		NotificationsSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "notifications_saved_total",
			Help: "Total number of new notifications stored.",
		}),
		JobsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scrape_jobs_total",
			Help: "Total number of finished scrape jobs.",
		}, []string{"state"}),
		JobsRunning: f.NewGauge(prometheus.GaugeOpts{
			Name: "scrape_jobs_running",
			Help: "Current number of running scrape jobs.",
		}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
}

func (m *Metrics) IncPage(status string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveCrawl(domain string, d time.Duration) {
	if m == nil {
		return
	}
	m.CrawlDuration.WithLabelValues(domain).Observe(d.Seconds())
}

func (m *Metrics) AddItems(strategy string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ItemsExtracted.WithLabelValues(strategy).Add(float64(n))
}

func (m *Metrics) IncRobotsCheck(allowed bool) {
	if m == nil {
		return
	}
	m.RobotsChecks.WithLabelValues(strconv.FormatBool(allowed)).Inc()
}

func (m *Metrics) IncSummary(source string) {
	if m == nil {
		return
	}
	m.SummariesTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) IncNotificationSaved() {
	if m == nil {
		return
	}
	m.NotificationsSaved.Inc()
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.JobsRunning.Inc()
}

func (m *Metrics) JobFinished(state string) {
	if m == nil {
		return
	}
	m.JobsRunning.Dec()
	m.JobsTotal.WithLabelValues(state).Inc()
}
