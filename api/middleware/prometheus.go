package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status", "service"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "service"},
	)

	feedPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_pages_total",
			Help: "Total number of feed pages served",
		},
		[]string{"view", "status"},
	)

	likeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "like_toggles_total",
			Help: "Total number of like toggle operations",
		},
		[]string{"result"},
	)
)

func PrometheusMiddleware(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
			serviceName,
		).Inc()

		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			serviceName,
		).Observe(duration)
	}
}

// RecordFeedPage учитывает отданную (или не отданную) страницу ленты
func RecordFeedPage(view, status string) {
	feedPagesTotal.WithLabelValues(view, status).Inc()
}

// RecordLikeToggle учитывает результат toggle: liked / unliked / conflict / error
func RecordLikeToggle(result string) {
	likeTogglesTotal.WithLabelValues(result).Inc()
}
