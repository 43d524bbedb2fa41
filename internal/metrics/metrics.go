// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records authentication and HTTP metrics.
type Collector struct {
	registry *prometheus.Registry

	registrations prometheus.Counter
	loginSuccess  prometheus.Counter
	loginFailure  prometheus.Counter
	lockouts      prometheus.Counter
	postsCreated  prometheus.Counter
	httpDuration  *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hungerhelp_registrations_total",
			Help: "Total number of accounts registered.",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hungerhelp_login_success_total",
			Help: "Total number of successful logins.",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hungerhelp_login_failure_total",
			Help: "Total number of failed login attempts.",
		}),
		lockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hungerhelp_login_lockouts_total",
			Help: "Total number of sessions locked out by the login throttle.",
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hungerhelp_posts_created_total",
			Help: "Total number of recipe posts created.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hungerhelp_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}

	reg.MustRegister(c.registrations, c.loginSuccess, c.loginFailure,
		c.lockouts, c.postsCreated, c.httpDuration)

	return c
}

func (c *Collector) RecordRegistration() { c.registrations.Inc() }
func (c *Collector) RecordLoginSuccess() { c.loginSuccess.Inc() }
func (c *Collector) RecordLoginFailure() { c.loginFailure.Inc() }
func (c *Collector) RecordLockout()      { c.lockouts.Inc() }
func (c *Collector) RecordPostCreated()  { c.postsCreated.Inc() }

// Handler exposes the registry for scraping at /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware records request latency per method and status.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rec, r)

		c.httpDuration.WithLabelValues(r.Method, strconv.Itoa(rec.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}
