package middlewares

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/okanbasoglu/outreach-dispatch-service/pkg/response"
)

const ownerIDContextKey = "ownerID"

// OptionalIdentity resolves the caller's identity from a bearer token when
// one is present. Requests without a token proceed anonymously: the service
// works unauthenticated, it just skips remote persistence. A token that is
// present but invalid is rejected so a caller never silently loses their
// remote history to a typo.
func OptionalIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			if secret == "" {
				// Tokens cannot be verified without a configured secret.
				return response.InternalServerError(
					c,
					fmt.Errorf("bearer tokens are not supported: JWT secret is not configured"),
				)
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return response.Unauthorized(c)
			}

			ownerID, err := parseOwnerID(raw, secret)
			if err != nil {
				return response.Unauthorized(c)
			}

			c.Set(ownerIDContextKey, ownerID)

			return next(c)
		}
	}
}

func parseOwnerID(raw, secret string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return subject, nil
}

// OwnerID returns the authenticated caller's identity, or "" for anonymous
// requests.
func OwnerID(c echo.Context) string {
	ownerID, _ := c.Get(ownerIDContextKey).(string)
	return ownerID
}
