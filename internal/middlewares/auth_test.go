package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/okanbasoglu/outreach-dispatch-service/pkg/response"
)

func newEchoContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// A route group whose key was never configured must fail closed, as a server
// error rather than a 401 the caller could mistake for a bad client key.
func TestAPIKeyAuth_MissingServerKeyReturns500(t *testing.T) {
	mw := APIKeyAuth("")

	c, rec := newEchoContext(http.MethodPost, "/api/v1/dispatch/start")
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

	var body response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Success {
		t.Errorf("expected Success=false, got true")
	}
	if body.Error == "" {
		t.Errorf("expected error message, got empty string")
	}
}

func TestAPIKeyAuth_RejectsBadClientKeys(t *testing.T) {
	const serverKey = "dispatch-key"
	mw := APIKeyAuth(serverKey)

	cases := map[string]string{
		"missing header": "",
		"wrong key":      "attempts-key",
		"prefix of key":  "dispatch",
		"key with junk":  "dispatch-key ",
	}

	for name, clientKey := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := newEchoContext(http.MethodGet, "/api/v1/dispatch/status")
			if clientKey != "" {
				c.Request().Header.Set(APIKeyHeader, clientKey)
			}

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

			var body response.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if body.Success {
				t.Errorf("expected Success=false, got true")
			}
		})
	}
}

func TestAPIKeyAuth_ValidKeyPassesThrough(t *testing.T) {
	const serverKey = "dispatch-key"
	mw := APIKeyAuth(serverKey)

	c, rec := newEchoContext(http.MethodGet, "/api/v1/dispatch/status")
	c.Request().Header.Set(APIKeyHeader, serverKey)

	handlerCalled := false
	handler := mw(func(c echo.Context) error {
		handlerCalled = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !handlerCalled {
		t.Fatalf("expected next handler to be called")
	}
}
