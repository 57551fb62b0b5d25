package middlewares

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, subject, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestOptionalIdentity_NoTokenPassesThroughAnonymous(t *testing.T) {
	mw := OptionalIdentity(testSecret)

	c, rec := newEchoContext(http.MethodGet, "/test")
	handler := mw(func(c echo.Context) error {
		if OwnerID(c) != "" {
			t.Errorf("expected anonymous request, got owner %q", OwnerID(c))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestOptionalIdentity_ValidTokenSetsOwner(t *testing.T) {
	mw := OptionalIdentity(testSecret)

	c, rec := newEchoContext(http.MethodGet, "/test")
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+signedToken(t, "user-42", testSecret))

	handler := mw(func(c echo.Context) error {
		if OwnerID(c) != "user-42" {
			t.Errorf("expected owner user-42, got %q", OwnerID(c))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestOptionalIdentity_BadTokenReturns401(t *testing.T) {
	mw := OptionalIdentity(testSecret)

	cases := map[string]string{
		"not bearer":   "Basic abc",
		"garbage":      "Bearer not-a-jwt",
		"wrong secret": "Bearer " + signedToken(t, "user-42", "other-secret"),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := newEchoContext(http.MethodGet, "/test")
			c.Request().Header.Set(echo.HeaderAuthorization, header)

			handler := mw(func(c echo.Context) error {
				t.Errorf("next handler should not run")
				return nil
			})

			if err := handler(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rec.Code)
			}
		})
	}
}

func TestOptionalIdentity_TokenWithoutConfiguredSecret(t *testing.T) {
	mw := OptionalIdentity("")

	c, rec := newEchoContext(http.MethodGet, "/test")
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+signedToken(t, "user-42", testSecret))

	handler := mw(func(c echo.Context) error {
		t.Errorf("next handler should not run")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
