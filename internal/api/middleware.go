package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"video-rental-service/config"
	"video-rental-service/internal/util"

	"github.com/gin-gonic/gin"
)

const maxRequestSize = 1 << 20 // 1MB

// apiKeyMiddleware validates the opaque identity inputs issued by the
// auth collaborator: either an X-API-Key header or a bearer token.
// Enforcement is off unless configured, so local runs work without
// credentials.
func apiKeyMiddleware(auth config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.RequireAPIKey {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" {
			if bearer := c.GetHeader("Authorization"); strings.HasPrefix(bearer, "Bearer ") {
				key = strings.TrimPrefix(bearer, "Bearer ")
			}
		}

		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}
		if key != auth.APIKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		c.Next()
	}
}

// requestSizeMiddleware caps request bodies
func requestSizeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)
		c.Next()
	}
}

// corsMiddleware sets CORS headers and answers preflight requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
