package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cacao/internal/service/auth"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "cacao_session"
	// CtxSessionKey holds the verified *auth.SessionClaims of the request.
	CtxSessionKey = "session"
)

// Authenticator issues and verifies dashboard sessions.
type Authenticator interface {
	Login(code string) (string, error)
	Verify(token string) (*auth.SessionClaims, error)
	Revoke(token string) error
}

// AuthHandler serves the login and logout endpoints and guards the rest.
type AuthHandler struct {
	gate   Authenticator
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(gate Authenticator, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{gate: gate, logger: logger}
}

// LoginPage renders the access form, or redirects when already signed in.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		if _, err := h.gate.Verify(token); err == nil {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login checks the submitted access code and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	token, err := h.gate.Login(c.PostForm("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			h.logger.Info("rejected access code", zap.String("client_ip", c.ClientIP()))
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Incorrect access code"})
			return
		}
		h.logger.Error("failed issuing session", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Unable to sign in"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, 0, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout revokes the session and clears its cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		if err := h.gate.Revoke(token); err != nil && !errors.Is(err, auth.ErrInvalidSession) {
			h.logger.Warn("failed revoking session", zap.Error(err))
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// RequireSession rejects requests without a valid session. Browser pages are
// redirected to the login form; API and chart requests get a 401.
func (h *AuthHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		claims, err := h.gate.Verify(token)
		if err != nil {
			if isPage(c) {
				c.Redirect(http.StatusSeeOther, "/login")
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			}
			c.Abort()
			return
		}

		c.Set(CtxSessionKey, claims)
		c.Next()
	}
}

func isPage(c *gin.Context) bool {
	path := c.Request.URL.Path
	return !strings.HasPrefix(path, "/api/") && !strings.HasPrefix(path, "/charts/")
}
