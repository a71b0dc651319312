package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goaltrack/backend/internal/db"
	"github.com/goaltrack/backend/internal/model"
	"github.com/goaltrack/backend/internal/token"
	"github.com/google/uuid"
)

const authUserKey = "auth_user"

type userLoader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Identity resolves the caller for every request. The access token is
// read from the accessToken cookie first, then from the Authorization
// bearer header; a bearer value that is the literal string "null" is
// treated as no token (clients serialize an unset token that way).
//
// No token yields an anonymous context and the request continues;
// per-operation checks (RequireUser) decide whether that is acceptable.
// A present but invalid, expired, or orphaned token always fails 401.
func Identity(issuer *token.Issuer, users userLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		accessToken := extractAccessToken(c)
		if accessToken == "" {
			c.Next()
			return
		}

		claims, err := issuer.Verify(accessToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "invalid or expired access token"})
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "invalid or expired access token"})
			c.Abort()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if db.IsNoRows(err) {
				c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "user not found"})
			} else {
				c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
			}
			c.Abort()
			return
		}

		// Only the public view reaches handlers; the hash stays here.
		public := user.Public()
		c.Set(authUserKey, &public)
		c.Next()
	}
}

func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}
	return bearerToken(c)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	value := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if value == "null" {
		return ""
	}
	return value
}

// RequireUser gates protected routes: anonymous callers fail 401.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *model.PublicUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.PublicUser); ok {
			return user
		}
	}
	return nil
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
