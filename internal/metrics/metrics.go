package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// PostsCreated counts created posts.
	PostsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "social_posts_created_total",
			Help: "Total number of posts created",
		},
	)

	// FollowToggles counts follow toggles by direction (follow, unfollow).
	FollowToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_follow_toggles_total",
			Help: "Total number of follow toggles by direction",
		},
		[]string{"direction"},
	)

	// LikeToggles counts like toggles by direction (like, unlike).
	LikeToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_like_toggles_total",
			Help: "Total number of like toggles by direction",
		},
		[]string{"direction"},
	)

	// NotificationsSwept counts notifications removed by the retention job.
	NotificationsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "social_notifications_swept_total",
			Help: "Total number of notifications removed by retention",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal,
			PostsCreated, FollowToggles, LikeToggles, NotificationsSwept)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /post/like/123 -> /post/like/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordFollowToggle increments the follow toggle counter.
func RecordFollowToggle(followed bool) {
	if followed {
		FollowToggles.WithLabelValues("follow").Inc()
	} else {
		FollowToggles.WithLabelValues("unfollow").Inc()
	}
}

// RecordLikeToggle increments the like toggle counter.
func RecordLikeToggle(liked bool) {
	if liked {
		LikeToggles.WithLabelValues("like").Inc()
	} else {
		LikeToggles.WithLabelValues("unlike").Inc()
	}
}
