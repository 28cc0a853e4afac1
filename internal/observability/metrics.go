package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	adminRequestsTotal       *prometheus.CounterVec
	adminLatencySeconds      *prometheus.HistogramVec
	adminErrorsTotal         *prometheus.CounterVec
	moderationDecisionsTotal *prometheus.CounterVec
	auditEntriesTotal        *prometheus.CounterVec
	albumViewsTotal          *prometheus.CounterVec
	albumLikesTotal          *prometheus.CounterVec
	engagementCacheTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yearbook_admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "yearbook_admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yearbook_admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		moderationDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yearbook_moderation_decisions_total",
			Help: "Moderation decisions applied, by action and outcome.",
		}, []string{"action", "outcome"})

		auditEntriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yearbook_audit_entries_total",
			Help: "Audit log entries written, by entry status.",
		}, []string{"status"})

		albumViewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yearbook_album_views_total",
			Help: "Album view events, by dedup outcome.",
		}, []string{"outcome"})

		albumLikesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yearbook_album_likes_total",
			Help: "Album like toggles, by resulting state.",
		}, []string{"state"})

		engagementCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yearbook_engagement_cache_total",
			Help: "Engagement stats cache lookups, by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			moderationDecisionsTotal,
			auditEntriesTotal,
			albumViewsTotal,
			albumLikesTotal,
			engagementCacheTotal,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// ModerationDecisions exposes the moderation decision counter.
func ModerationDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return moderationDecisionsTotal
}

// AuditEntries exposes the audit entry counter.
func AuditEntries() *prometheus.CounterVec {
	RegisterMetrics()
	return auditEntriesTotal
}

// AlbumViews exposes the album view counter.
func AlbumViews() *prometheus.CounterVec {
	RegisterMetrics()
	return albumViewsTotal
}

// AlbumLikes exposes the album like counter.
func AlbumLikes() *prometheus.CounterVec {
	RegisterMetrics()
	return albumLikesTotal
}

// EngagementCache exposes the engagement cache lookup counter.
func EngagementCache() *prometheus.CounterVec {
	RegisterMetrics()
	return engagementCacheTotal
}
