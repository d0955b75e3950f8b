package middleware

import (
	"Markit-Pantry/pkg/jwt"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SessionCookie = "markit_session"
	LoginPath     = "/login"
	UsernameKey   = "username"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "markit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "markit_http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		PrometheusMiddleware() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

// AuthMiddleware lets a request through only with a valid session token,
// taken from the session cookie or a bearer header. A stale cookie does not
// hide a valid header. Anything else is sent to the login page.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, token := range SessionTokens(c) {
			username, err := jwtService.GetUsernameByToken(token)
			if err != nil {
				continue
			}
			c.Locals(UsernameKey, username)
			return c.Next()
		}

		return c.Redirect(LoginPath, fiber.StatusFound)
	}
}

// SessionTokens returns the cookie token and then the bearer token, skipping
// whichever is absent.
func SessionTokens(c *fiber.Ctx) []string {
	tokens := make([]string, 0, 2)
	if token := c.Cookies(SessionCookie); token != "" {
		tokens = append(tokens, token)
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func (m *middleware) PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start).Seconds()
		statusCode := c.Response().StatusCode()

		if err != nil {
			var e *fiber.Error
			if errors.As(err, &e) {
				statusCode = e.Code
			} else {
				statusCode = fiber.StatusInternalServerError
			}
		}

		// route pattern keeps the label set bounded
		path := c.Route().Path
		status := strconv.Itoa(statusCode)

		httpRequestTotal.WithLabelValues(c.Method(), path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path, status).Observe(duration)

		return err
	}
}
