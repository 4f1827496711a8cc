package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal)
	})
}

// Middleware records latency and status per matched route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			RequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
