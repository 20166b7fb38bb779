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

	"github.com/inventory-system/inventory-api/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, role string) (*domain.Account, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.Account, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, role string) (*domain.Account, error) {
	return s.registerFn(ctx, username, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	return s.loginFn(ctx, username, password)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Account, error) {
			if username != "admin" || password != "admin123" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "signed-token", &domain.Account{ID: 1, Username: "admin", PasswordHash: "hash", Role: domain.RoleAdmin}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/login", `{"username":"admin","password":"admin123"}`)

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("unexpected token: %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["id"] != float64(1) || user["username"] != "admin" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Account, error) {
			t.Fatalf("service must not be called")
			return "", nil, nil
		},
	}

	for _, body := range []string{`{}`, `{"username":"admin"}`, `{"password":"x"}`} {
		c, _ := newJSONContext(http.MethodPost, "/login", body)
		err := NewAuthHandler(stub).Login(c)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("body %s: expected validation error, got %v", body, err)
		}
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Account, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/login", `{"username":"admin","password":"nope"}`)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/login", `{"username":`)

	err := NewAuthHandler(&stubAuthService{}).Login(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, role string) (*domain.Account, error) {
			if username != "alice" || password != "secret" || role != domain.RoleStaff {
				t.Fatalf("unexpected args: %s %s %s", username, password, role)
			}
			return &domain.Account{ID: 3, Username: username, Role: role, PasswordHash: "hash"}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/register", `{"username":"alice","password":"secret","role":"staff"}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(3) || resp["username"] != "alice" || resp["role"] != "staff" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password must not be returned")
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, role string) (*domain.Account, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/register", `{"username":"bob","password":"x","role":"staff"}`)

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthHandler_Register_UsernameTooLong(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, role string) (*domain.Account, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	body := `{"username":"` + strings.Repeat("a", 256) + `","password":"x","role":"staff"}`
	c, _ := newJSONContext(http.MethodPost, "/register", body)

	err := NewAuthHandler(stub).Register(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "username must be at most 255 characters" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
