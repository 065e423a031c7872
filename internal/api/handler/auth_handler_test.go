package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/guardpost/access-api/internal/api/middleware"
	"github.com/guardpost/access-api/internal/core/domain"
)

type stubAuthService struct {
	principal *domain.Principal
	err       error
}

func (s *stubAuthService) Authenticate(_ context.Context, username, secret string) (*domain.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

func newLoginContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	principal := &domain.Principal{
		Username:    "gissy",
		Authorities: domain.NewAuthorities("ROLE_INVITED", "READ"),
	}
	h := NewAuthHandler(&stubAuthService{principal: principal})

	c, rec := newLoginContext(t, `{"username":"gissy","password":"101010"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Username    string   `json:"username"`
		Authorities []string `json:"authorities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Username != "gissy" {
		t.Fatalf("unexpected username %q", resp.Username)
	}
	if len(resp.Authorities) != 2 || resp.Authorities[0] != "READ" || resp.Authorities[1] != "ROLE_INVITED" {
		t.Fatalf("unexpected authorities %v", resp.Authorities)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newLoginContext(t, `{"username":"gissy"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("validation failures render directly: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentialsPropagates(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials})

	c, _ := newLoginContext(t, `{"username":"gissy","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), rec)
	c.Set(middleware.PrincipalKey, &domain.Principal{
		Username:    "brian",
		Authorities: domain.NewAuthorities("ROLE_DEVELOPER", "REFACTOR"),
	})

	if err := h.Me(c); err != nil {
		t.Fatalf("me returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "brian") {
		t.Fatalf("response missing username: %s", rec.Body.String())
	}
}

func TestAuthHandler_Me_WithoutPrincipal(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), httptest.NewRecorder())

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
