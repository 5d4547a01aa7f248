// Package auth provides bearer-token authentication for the bridge API.
// Tokens are HS256 JWTs signed with a shared secret issued by the hospital
// information system; the bridge only verifies them.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserNameKey  contextKey = "user_name"
	UserRolesKey contextKey = "user_roles"
)

// Claims is the token payload the hospital information system issues.
type Claims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// Config controls the JWT middleware.
type Config struct {
	Secret  []byte
	Skipper func(c echo.Context) bool
}

// Middleware returns echo middleware that verifies the Authorization bearer
// token and stores the authenticated user on the request context.
func Middleware(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "malformed authorization header")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return cfg.Secret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(string(UserIDKey), claims.Subject)
			c.Set(string(UserNameKey), claims.Name)
			c.Set(string(UserRolesKey), claims.Roles)
			return next(c)
		}
	}
}

// DevMiddleware stamps a fixed development identity on every request. It is
// wired instead of Middleware when no JWT secret is configured in development.
func DevMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(string(UserIDKey), "dev-user")
			c.Set(string(UserNameKey), "Development User")
			c.Set(string(UserRolesKey), []string{"admin"})
			return next(c)
		}
	}
}

// UserID returns the authenticated user ID from the request context, or ""
// when the request was not authenticated.
func UserID(c echo.Context) string {
	id, _ := c.Get(string(UserIDKey)).(string)
	return id
}

// Roles returns the authenticated user's roles from the request context.
func Roles(c echo.Context) []string {
	roles, _ := c.Get(string(UserRolesKey)).([]string)
	return roles
}
