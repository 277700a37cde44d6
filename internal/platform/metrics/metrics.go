package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "instituto", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "status"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "instituto", Name: "handler_errors_total", Help: "Handler errors (status >= 500)",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "instituto", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HandlerErrors, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// Middleware counts every handled request by method and status class.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		status := c.Writer.Status()
		HTTPRequests.WithLabelValues(c.Request.Method, strconv.Itoa(status)).Inc()
		if status >= http.StatusInternalServerError {
			HandlerErrors.Inc()
		}
	}
}
