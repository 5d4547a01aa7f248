package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insurance/hello", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c
}

func TestMiddleware_ValidToken(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name:  "Siti Rahma",
		Roles: []string{"kasir"},
	}
	token := signToken(t, testSecret, claims)

	rec, c := doRequest(t, Middleware(Config{Secret: testSecret}), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := UserID(c); got != "user-42" {
		t.Errorf("UserID = %q, want user-42", got)
	}
	if roles := Roles(c); len(roles) != 1 || roles[0] != "kasir" {
		t.Errorf("Roles = %v, want [kasir]", roles)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	rec, _ := doRequest(t, Middleware(Config{Secret: testSecret}), "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	rec, _ := doRequest(t, Middleware(Config{Secret: testSecret}), "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMiddleware_WrongSecret(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := signToken(t, []byte("other-secret"), claims)

	rec, _ := doRequest(t, Middleware(Config{Secret: testSecret}), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := signToken(t, testSecret, claims)

	rec, _ := doRequest(t, Middleware(Config{Secret: testSecret}), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMiddleware_SkipperBypasses(t *testing.T) {
	mw := Middleware(Config{
		Secret:  testSecret,
		Skipper: func(echo.Context) bool { return true },
	})
	rec, _ := doRequest(t, mw, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when skipped", rec.Code)
	}
}

func TestDevMiddleware_SetsFixedIdentity(t *testing.T) {
	rec, c := doRequest(t, DevMiddleware(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := UserID(c); got != "dev-user" {
		t.Errorf("UserID = %q, want dev-user", got)
	}
}
