// Package middleware holds the gin middleware shared by every route: request
// ids and access logs, panic recovery, metrics, CORS, bearer authentication
// and per-client rate limiting.
package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/justsurfingit/application-tracker/internal/apperr"
	"github.com/justsurfingit/application-tracker/internal/logging"
	"github.com/justsurfingit/application-tracker/internal/metrics"
	"github.com/justsurfingit/application-tracker/internal/ratelimit"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
	UserIDKey       = "user_id"
)

// RequestLogger assigns a request id (reusing a sane incoming one), puts it on
// the request context for logging and writes one access log line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), requestID))

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		log.Log(c.Request.Context(), level, "HTTP request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"size", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"duration", time.Since(start),
		)
	}
}

// Recovery turns a panic into a JSON 500 and logs it with the request id.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.ErrorContext(c.Request.Context(), "HTTP request panicked",
					"path", c.Request.URL.Path,
					"panic", rec,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "internal server error",
					"request_id": c.GetString(RequestIDKey),
				})
			}
		}()
		c.Next()
	}
}

// Metrics records request counts and latency by route template, so
// /api/jobs/get/1 and /api/jobs/get/2 share a series.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// CORS allows the configured origins; "*" allows any.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", RequestIDHeader}
	cfg.ExposeHeaders = []string{RequestIDHeader, "Retry-After"}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// Authenticator resolves a bearer token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uint, error)
}

// Auth rejects requests without a valid bearer token and stores the user id
// on both the gin context and the request context.
func Auth(a Authenticator, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		userID, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !apperr.IsUnauthorized(err) {
				log.ErrorContext(c.Request.Context(), "authentication failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(logging.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserID returns the id stored by Auth. Handlers behind Auth can rely on it.
func UserID(c *gin.Context) uint {
	return c.GetUint(UserIDKey)
}

// RateLimit throttles by client IP.
func RateLimit(l *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := l.Allow(c.ClientIP())
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Burst()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			retry := int(math.Ceil(res.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": retry,
			})
			return
		}
		c.Next()
	}
}
