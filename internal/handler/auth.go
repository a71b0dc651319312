package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goaltrack/backend/internal/model"
	"github.com/goaltrack/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.setSessionCookies(c, res.Tokens)
	c.JSON(http.StatusOK, res)
}

// Signup godoc
// @Summary Create an account and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Email, password and optional name"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	res, err := h.svc.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.setSessionCookies(c, res.Tokens)
	c.JSON(http.StatusOK, res)
}

// GoogleLogin godoc
// @Summary Login with a Google ID token
// @Description Creates an account on first federated login, or links the
// @Description google id onto an existing account with the same email.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.GoogleLoginRequest true "Google ID token credential"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req model.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	res, err := h.svc.LoginWithGoogle(c.Request.Context(), req.Credential)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.setSessionCookies(c, res.Tokens)
	c.JSON(http.StatusOK, res)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Description The refresh token is read from the refreshToken cookie or,
// @Description for mobile clients, from the Authorization bearer header.
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	res, err := h.svc.Refresh(c.Request.Context(), h.refreshTokenFrom(c))
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.setSessionCookies(c, res.Tokens)
	c.JSON(http.StatusOK, res)
}

// Logout godoc
// @Summary Logout
// @Description Deletes the refresh token row if present and clears the
// @Description session cookies. Always succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} model.LogoutResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context(), h.refreshTokenFrom(c))
	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, model.LogoutResponse{Message: "Logged out successfully"})
}

// Me godoc
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// refreshTokenFrom prefers the cookie; mobile clients send the refresh
// token as a bearer header instead. The literal "null" counts as absent.
func (h *AuthHandler) refreshTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(service.RefreshCookieName); err == nil && cookie != "" {
		return cookie
	}
	return bearerToken(c)
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, tokens model.TokenPair) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(service.AccessCookieName, tokens.AccessToken, cfg.AccessMaxAge, "/", cfg.Domain, cfg.Secure, true)
	c.SetCookie(service.RefreshCookieName, tokens.RefreshToken, cfg.RefreshMaxAge, "/", cfg.Domain, cfg.Secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(service.AccessCookieName, "", -1, "/", cfg.Domain, cfg.Secure, true)
	c.SetCookie(service.RefreshCookieName, "", -1, "/", cfg.Domain, cfg.Secure, true)
}

func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid input"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, service.ErrInvalidGoogleToken):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "invalid google credentials"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, service.ErrEmailExists):
		c.JSON(http.StatusConflict, model.ErrorResponse{Error: "email already exists"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not found"})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
	}
}
