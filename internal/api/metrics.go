package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // prometheus collectors are package-level by convention
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authcore",
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests by method and route.",
	}, []string{"method", "path"})

	authErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "authcore",
		Name:      "auth_errors_total",
		Help:      "Authentication and authorization rejections by reason.",
	}, []string{"reason"})
)

func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestsTotal.WithLabelValues(c.Request().Method, c.Path()).Inc()
			return next(c)
		}
	}
}

func observeAuthError(reason string) {
	authErrorsTotal.WithLabelValues(reason).Inc()
}
