package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserKey  = "user"
	ctxTokenKey = "token"
)

// requestLogger logs every request once it is finished; 5xx at error level,
// 4xx at warn, the rest at info.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"ip", c.ClientIP(),
			"latency", time.Since(start).String(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			args = append(args, "errors", errs)
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error(ctx, "request", args...)
		case status >= http.StatusBadRequest:
			s.logger.Warn(ctx, "request", args...)
		default:
			s.logger.Info(ctx, "request", args...)
		}
	}
}

// recovery turns a handler panic into a 500 with the usual error body.
func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		s.renderError(c, common.NewInternalError(fmt.Errorf("panic: %v", rec)))
		c.Abort()
	})
}

// observe feeds request counters and latency into Prometheus, labelled by the
// matched route.
func (s *HTTPServer) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// requireAuth resolves the session token and stores the user in the gin
// context. Requests without a usable token are rejected before the handler.
func (s *HTTPServer) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)

		user, err := s.users.ResolveSession(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTokenRevoked):
				s.metrics.ObserveAuth(metrics.AuthRevokedToken)
			case common.KindOf(err) == common.KindUnauthenticated:
				s.metrics.ObserveAuth(metrics.AuthRejected)
			}
			s.renderError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

// tokenFromRequest reads the session token from the cookie, falling back to
// an Authorization: Bearer header.
func tokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(common.TokenCookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if len(h) > len(common.BearerPrefix) && strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
		return strings.TrimSpace(h[len(common.BearerPrefix):])
	}
	return ""
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func currentToken(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}
