package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/nextmac/internal/api/middleware"
	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/providers/auth"
)

// LoginRequest carries the login secret
type LoginRequest struct {
	Password string `json:"password"`
}

// ChangePasswordRequest carries a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Login verifies the password and issues a session token
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.auth.Login(h.store.State().Password, req.Password)
	if err != nil {
		h.log.Info("Login rejected", zap.String("ip", c.ClientIP()))
		fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
	})
}

// Logout ends the bearer token's session
func (h *Handlers) Logout(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Token != "" {
		h.auth.Logout(req.Token)
	}
	c.JSON(http.StatusOK, gin.H{"loggedOut": true})
}

// ChangePassword validates the request and stores the new secret
func (h *Handlers) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	hash, err := h.auth.ChangePassword(h.store.State().Password, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	switch {
	case errors.Is(err, auth.ErrInvalidPassword):
		fail(c, http.StatusUnauthorized, err.Error())
		return
	case err != nil && (errors.Is(err, auth.ErrPasswordMismatch) || errors.Is(err, auth.ErrPasswordTooShort)):
		fail(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Error("Password change failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to change password")
		return
	}

	h.store.Dispatch(desktop.ChangePassword{Secret: hash})
	h.log.Info("Password changed", zap.String("token", redact(c.GetString(middleware.TokenKey))))
	c.JSON(http.StatusOK, gin.H{"changed": true})
}

func redact(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:6] + "***"
}
