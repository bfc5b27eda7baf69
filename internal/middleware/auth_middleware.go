package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopline/shop-backend/internal/app/model"
	"github.com/shopline/shop-backend/internal/errors"
	"github.com/shopline/shop-backend/pkg/util"
)

// Context keys for session information
const (
	UserIDKey       = "user_id"
	UsernameKey     = "username"
	SessionTokenKey = "session_token"
)

// LoginPath is where pages send anonymous visitors.
const LoginPath = "/login"

// TokenBlacklist reports tokens revoked by logout.
type TokenBlacklist interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// UserLookup resolves the account a session token was issued for.
type UserLookup interface {
	GetUserByID(id uint) (*model.User, error)
}

type AuthMiddleware struct {
	jwtSecret string
	cookie    SessionCookie
	users     UserLookup
	blacklist TokenBlacklist
}

// NewAuthMiddleware builds the session middleware. blacklist may be nil.
func NewAuthMiddleware(jwtSecret string, cookie SessionCookie, users UserLookup, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		cookie:    cookie,
		users:     users,
		blacklist: blacklist,
	}
}

// LoadSession attaches the caller's identity to the context when a valid
// session token is present. Requests without one continue as anonymous.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token := m.extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			code := errors.AuthTokenInvalid
			if stderrors.Is(err, util.ErrExpiredToken) {
				code = errors.AuthTokenExpired
			}
			log.Debug("Session token rejected - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"code":  code,
				"error": err.Error(),
			})
			c.Next()
			return
		}
		if !claims.IsSessionToken() {
			log.Debug("Non-session token presented - continuing as guest", map[string]interface{}{
				"path":    c.Request.URL.Path,
				"code":    errors.AuthTokenInvalid,
				"subject": claims.Subject,
			})
			c.Next()
			return
		}

		if m.blacklist != nil {
			revoked, err := m.blacklist.IsTokenBlacklisted(c.Request.Context(), token)
			if err != nil {
				log.Error("Failed to check session revocation - continuing as guest", err, map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				c.Next()
				return
			}
			if revoked {
				log.Debug("Revoked session token - continuing as guest", map[string]interface{}{
					"path":    c.Request.URL.Path,
					"code":    errors.AuthTokenRevoked,
					"user_id": claims.UserID,
				})
				c.Next()
				return
			}
		}

		// Tokens outlive deleted accounts.
		user, err := m.users.GetUserByID(claims.UserID)
		if err != nil {
			log.Warn("Session user unavailable - continuing as guest", map[string]interface{}{
				"path":    c.Request.URL.Path,
				"user_id": claims.UserID,
				"code":    errors.AuthTokenInvalid,
				"error":   err.Error(),
			})
			c.Next()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UsernameKey, user.Username)
		c.Set(SessionTokenKey, token)

		log.Debug("Session loaded", map[string]interface{}{
			"user_id": claims.UserID,
		})

		c.Next()
	}
}

// RequireLogin rejects anonymous AJAX calls with 401 {"status": "Login to continue"}.
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			GetLoggerFromContext(c).Warn("Anonymous request to protected endpoint", map[string]interface{}{
				"path": c.Request.URL.Path,
				"code": errors.AuthUnauthorized,
			})
			errors.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectAnonymous sends anonymous page visitors to the login page.
func (m *AuthMiddleware) RedirectAnonymous() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return m.cookie.Read(c)
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok && id != 0
}

func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	name, ok := username.(string)
	return name, ok
}

// GetSessionToken returns the raw token the session was loaded from.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}
