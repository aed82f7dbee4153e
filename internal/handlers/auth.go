package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	authCfg     config.AuthConfig
}

func NewAuthHandler(authService services.AuthService, authCfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{authService: authService, authCfg: authCfg}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No data provided")
		return
	}

	user, token, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.SetCookie(ah.authCfg.CookieName, token,
		int(ah.authCfg.SessionTTL/time.Second), "/", "", ah.authCfg.SecureClose, true)

	respondOK(c, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"profile_image": user.ProfileImage,
		},
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if _, err := c.Cookie(ah.authCfg.CookieName); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No active session found")
		return
	}
	c.SetCookie(ah.authCfg.CookieName, "", -1, "/", "", ah.authCfg.SecureClose, true)
	respondOK(c, gin.H{"message": "Logout successful"})
}

func (ah *AuthHandler) GetProfile(c *gin.Context) {
	user, err := ah.authService.Profile(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var lastLogin *string
	if user.LastLogin != nil {
		s := user.LastLogin.Format(time.RFC3339)
		lastLogin = &s
	}
	respondOK(c, gin.H{
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"profile_image": user.ProfileImage,
			"last_login":    lastLogin,
		},
	})
}

func (ah *AuthHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name         *string `json:"name"`
		ProfileImage *string `json:"profile_image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No data provided")
		return
	}

	user, err := ah.authService.UpdateProfile(c.Request.Context(), req.Name, req.ProfileImage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message": "Profile updated successfully",
		"user": gin.H{
			"id":            user.ID,
			"name":          user.Name,
			"email":         user.Email,
			"role":          user.Role,
			"profile_image": user.ProfileImage,
		},
	})
}
