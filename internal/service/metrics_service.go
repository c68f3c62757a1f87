// Package service sits between the HTTP handlers and the scheduling core,
// adding response caching, export rendering and metrics.
package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the prometheus registry and the application metrics.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	plansTotal        *prometheus.CounterVec
	planDuration      prometheus.Histogram
	planCacheHits     prometheus.Counter
	planCacheMisses   prometheus.Counter
	resourcesAssigned prometheus.Counter
	catalogTopics     prometheus.Gauge
}

// NewMetricsService registers the application collectors on a fresh registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &MetricsService{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plan_api_http_requests_total",
			Help: "HTTP requests served, by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plan_api_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		plansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "plan_api_plans_generated_total",
			Help: "Plan generation attempts, by outcome.",
		}, []string{"outcome"}),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "plan_api_plan_generation_seconds",
			Help:    "End-to-end plan generation latency.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		planCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_api_plan_cache_hits_total",
			Help: "Plan responses served from the redis cache.",
		}),
		planCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_api_plan_cache_misses_total",
			Help: "Plan cache lookups that fell through to generation.",
		}),
		resourcesAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plan_api_resources_assigned_total",
			Help: "Study resources assigned across generated plans.",
		}),
		catalogTopics: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "plan_api_catalog_topics",
			Help: "Topics in the loaded catalog.",
		}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.plansTotal,
		m.planDuration,
		m.planCacheHits,
		m.planCacheMisses,
		m.resourcesAssigned,
		m.catalogTopics,
	)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *MetricsService) ObserveRequest(method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveGeneration records one plan generation attempt.
func (m *MetricsService) ObserveGeneration(outcome string, duration time.Duration) {
	m.plansTotal.WithLabelValues(outcome).Inc()
	m.planDuration.Observe(duration.Seconds())
}

// ObserveCacheHit records a plan served from the response cache.
func (m *MetricsService) ObserveCacheHit() {
	m.planCacheHits.Inc()
}

// ObserveCacheMiss records a cache lookup that fell through to generation.
func (m *MetricsService) ObserveCacheMiss() {
	m.planCacheMisses.Inc()
}

// AddResourcesAssigned accumulates the resource count of a generated plan.
func (m *MetricsService) AddResourcesAssigned(n int) {
	m.resourcesAssigned.Add(float64(n))
}

// SetCatalogSize records the loaded catalog size.
func (m *MetricsService) SetCatalogSize(n int) {
	m.catalogTopics.Set(float64(n))
}
