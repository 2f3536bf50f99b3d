package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Auth.
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
)

// Auth requires a bearer HS256 token with an expiry and a user_id claim,
// and exposes that user ID to handlers under UserIDKey.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	key := []byte(jwtSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			claims, err := parseClaims(raw, key)
			if err != nil {
				return err
			}

			c.Set(UserIDKey, claims.userID)
			c.Set(EmailKey, claims.email)
			return next(c)
		}
	}
}

type identity struct {
	userID string
	email  string
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return token, nil
}

func parseClaims(raw string, key []byte) (identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}
	email, _ := claims["email"].(string)
	return identity{userID: userID, email: email}, nil
}
