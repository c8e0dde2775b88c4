package rest

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// requestID reuses the caller's X-Request-Id or generates one.
func (s *RESTServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog logs one line per request. Bodies and headers are left out so
// passwords and tokens never reach the log.
func (s *RESTServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start).String(),
			"request_id", c.GetString(requestIDKey),
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error(ctx, "Request completed", args...)
		case status >= http.StatusBadRequest:
			s.logger.Warn(ctx, "Request completed", args...)
		default:
			s.logger.Info(ctx, "Request completed", args...)
		}
	}
}

// recovery turns a panic into the generic 500.
func (s *RESTServer) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error(c.Request.Context(), "Panic recovered",
					"error", fmt.Sprint(r), "stack", string(debug.Stack()),
					"path", c.Request.URL.Path, "request_id", c.GetString(requestIDKey))
				c.Abort()
				c.String(http.StatusInternalServerError, msgServerError)
			}
		}()
		c.Next()
	}
}

// requireAuth rejects the request unless the gate yields an identity, which
// is then stored in the request context.
func (s *RESTServer) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := s.gate.Authenticate(c.Request)
		if err != nil {
			msg := msgInvalidToken
			if errors.Is(err, common.ErrMissingToken) {
				msg = msgNoToken
			}
			s.logger.Debug(c.Request.Context(), "authentication failed", "reason", err, "request_id", c.GetString(requestIDKey))
			abortWithMessage(c, http.StatusUnauthorized, msg)
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
