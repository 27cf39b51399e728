package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleRegister(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.renderError(c, bindError(err))
		return
	}

	user, token, err := s.users.Register(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.metrics.ObserveAuth(metrics.AuthRegister)
	s.logger.Info(c.Request.Context(), "user registered", "user_id", user.ID)

	s.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": user})
}

func (s *HTTPServer) handleLogin(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.renderError(c, bindError(err))
		return
	}

	user, token, err := s.users.Login(c.Request.Context(), req)
	if err != nil {
		if common.KindOf(err) == common.KindInvalidCredentials {
			s.metrics.ObserveAuth(metrics.AuthLoginFailed)
		}
		s.renderError(c, err)
		return
	}

	s.metrics.ObserveAuth(metrics.AuthLogin)
	s.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"status": "login success", "data": user})
}

func (s *HTTPServer) handleProfile(c *gin.Context) {
	user, err := s.users.GetProfile(currentUser(c))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "User Profile", "data": user})
}

func (s *HTTPServer) handleLogout(c *gin.Context) {
	if err := s.users.Logout(c.Request.Context(), currentToken(c)); err != nil {
		s.renderError(c, err)
		return
	}

	s.metrics.ObserveAuth(metrics.AuthLogout)
	s.clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logout success"})
}
