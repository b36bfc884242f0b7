package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// SheetsProcessed 按结果（graded/failed/approved）统计答题卡流转
	SheetsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_sheets_processed_total",
			Help: "Answer sheets processed by outcome",
		},
		[]string{"outcome"},
	)

	// ExtractorDuration 外部评阅能力单次调用耗时
	ExtractorDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grading_extractor_duration_seconds",
			Help:    "Duration of extractor-scorer invocations",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 180},
		},
	)

	// PartialWrites 巡检或写后检查发现的明细/状态分歧次数
	PartialWrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "grading_partial_writes_total",
			Help: "Detected divergences between sheet status and evaluation rows",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SheetsProcessed)
	prometheus.MustRegister(ExtractorDuration)
	prometheus.MustRegister(PartialWrites)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
