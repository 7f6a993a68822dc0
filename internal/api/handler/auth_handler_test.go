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

	"github.com/inkpost/blog-api/internal/api/middleware"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn    func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn       func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	refreshFn     func(ctx context.Context, token string) (*domain.TokenPair, error)
	logoutFn      func(ctx context.Context, token string) error
	logoutAllFn   func(ctx context.Context, userID string) error
	currentUserFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (*domain.TokenPair, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.logoutAllFn(ctx, userID)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentUserFn(ctx, userID)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "success" {
		t.Fatalf("unexpected status: %v", resp["status"])
	}
	data, _ := resp["data"].(map[string]any)
	return data
}

func aliceResult() *ports.AuthResult {
	return &ports.AuthResult{
		User:   &domain.User{ID: "u1", Username: "alice", Email: "alice@x.com", PasswordHash: "$2a$hash"},
		Tokens: &domain.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"},
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Username != "alice" || in.Email != "alice@x.com" || in.Password != "secret1" {
				t.Fatalf("unexpected args: %+v", in)
			}
			return aliceResult(), nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"username":"alice","email":"alice@x.com","password":"secret1"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	data := decodeData(t, rec)
	if data["accessToken"] != "access-1" || data["refreshToken"] != "refresh-1" {
		t.Fatalf("unexpected tokens: %+v", data)
	}
	user, ok := data["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["id"] != "u1" || user["username"] != "alice" || user["email"] != "alice@x.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_ServiceError(t *testing.T) {
	e := newTestEcho()
	dup := domain.NewValidationError("email", "email is already registered")
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, dup
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"username":"bob","email":"b@x.com","password":"secret1"}`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, dup) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Register_TooLong(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	body := `{"username":"` + strings.Repeat("a", 51) + `","email":"a@x.com","password":"secret1"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", body), httptest.NewRecorder())

	err := handler.Register(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := ve.Fields["username"]; !ok {
		t.Fatalf("expected username field, got %+v", ve.Fields)
	}
}

func TestAuthHandler_Register_BadPayload(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", `{"username":`), httptest.NewRecorder())

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
			if password != "secret1" {
				return nil, domain.ErrInvalidCredentials
			}
			return aliceResult(), nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@x.com","password":"secret1"}`), rec)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if data := decodeData(t, rec); data["accessToken"] != "access-1" {
		t.Fatalf("unexpected payload: %+v", data)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/auth/login", `{"email":"alice@x.com","password":"wrong"}`), httptest.NewRecorder())
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		refreshFn: func(_ context.Context, token string) (*domain.TokenPair, error) {
			if token != "refresh-1" {
				return nil, domain.ErrInvalidRefreshToken
			}
			return &domain.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/refresh-token", `{"refreshToken":"refresh-1"}`), rec)
	if err := handler.RefreshToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeData(t, rec)
	if data["accessToken"] != "access-2" || data["refreshToken"] != "refresh-2" {
		t.Fatalf("unexpected payload: %+v", data)
	}
	if _, ok := data["user"]; ok {
		t.Fatalf("refresh response should not carry a user")
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/auth/refresh-token", `{"refreshToken":"forged"}`), httptest.NewRecorder())
	if err := handler.RefreshToken(c); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var got []string
	handler := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, token string) error {
			got = append(got, token)
			return nil
		},
	})

	for _, body := range []string{`{"refreshToken":"refresh-1"}`, `{}`} {
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/auth/logout", body), rec)
		if err := handler.Logout(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error without body: %v", err)
	}

	if len(got) != 3 || got[0] != "refresh-1" || got[1] != "" || got[2] != "" {
		t.Fatalf("unexpected logout calls: %q", got)
	}
}

func TestAuthHandler_Logout_StoreError(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		logoutFn: func(context.Context, string) error { return domain.ErrStoreUnavailable },
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/logout", `{"refreshToken":"x"}`), httptest.NewRecorder())
	if err := handler.Logout(c); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestAuthHandler_LogoutAll(t *testing.T) {
	e := newTestEcho()
	var gotUser string
	handler := NewAuthHandler(&stubAuthService{
		logoutAllFn: func(_ context.Context, userID string) error {
			gotUser = userID
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout-all", nil), rec)
	c.Set(middleware.ContextUserID, "u1")

	if err := handler.LogoutAll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotUser != "u1" || rec.Code != http.StatusOK {
		t.Fatalf("unexpected result: user=%q code=%d", gotUser, rec.Code)
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		currentUserFn: func(_ context.Context, userID string) (*domain.User, error) {
			if userID != "u1" {
				return nil, domain.ErrUserNotFound
			}
			return aliceResult().User, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/verify", nil), rec)
	c.Set(middleware.ContextUserID, "u1")
	if err := handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	user, _ := decodeData(t, rec)["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if _, ok := user["password"]; ok {
		t.Fatalf("password must not be serialized")
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/verify", nil), httptest.NewRecorder())
	c.Set(middleware.ContextUserID, "gone")
	if err := handler.Verify(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthHandler_Verify_NoIdentity(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/verify", nil), httptest.NewRecorder())
	if err := handler.Verify(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected missing token, got %v", err)
	}
}
