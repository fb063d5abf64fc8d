package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dwight/internal/auth"
	"dwight/internal/config"
	apperrors "dwight/internal/errors"
	"dwight/internal/models"
	"dwight/internal/schemas"
	"dwight/internal/services"
)

// --- mock user service ---

type mockUserService struct {
	registerFn       func(ctx context.Context, in schemas.UserCreate) (*models.User, error)
	authenticateFn   func(ctx context.Context, email, password string) (*models.User, error)
	getUserByIDFn    func(ctx context.Context, id string) (*models.User, error)
	updateUserFn     func(ctx context.Context, user *models.User, in schemas.UserUpdate) (*models.User, error)
	forgotPasswordFn func(ctx context.Context, email string) error
	resetPasswordFn  func(ctx context.Context, token, password string) (*models.User, error)
}

func (m *mockUserService) Register(ctx context.Context, in schemas.UserCreate) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return testUser(), nil
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, email, password)
	}
	return testUser(), nil
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(ctx, id)
	}
	return testUser(), nil
}

func (m *mockUserService) UpdateUser(ctx context.Context, user *models.User, in schemas.UserUpdate) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(ctx, user, in)
	}
	return user, nil
}

func (m *mockUserService) ForgotPassword(ctx context.Context, email string) error {
	if m.forgotPasswordFn != nil {
		return m.forgotPasswordFn(ctx, email)
	}
	return nil
}

func (m *mockUserService) ResetPassword(ctx context.Context, token, password string) (*models.User, error) {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(ctx, token, password)
	}
	return testUser(), nil
}

// verify interface compliance
var _ services.UserServicer = (*mockUserService)(nil)

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(config.JWT{Secret: "test-secret", Lifetime: time.Hour, ResetTokenLifetime: time.Hour})
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/jwt/login", handler.Login)
	r.POST("/auth/jwt/logout", injectUser(testUser()), handler.Logout)
	r.POST("/auth/forgot-password", handler.ForgotPassword)
	r.POST("/auth/reset-password", handler.ResetPassword)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with the user", func(t *testing.T) {
		svc := &mockUserService{
			registerFn: func(_ context.Context, in schemas.UserCreate) (*models.User, error) {
				u := testUser()
				u.Email = in.Email
				return u, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc, testTokenManager(), &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"email":"new@example.com","password":"password123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		body := parseJSON(t, rec)
		if body["email"] != "new@example.com" {
			t.Errorf("unexpected email %v", body["email"])
		}
		if _, leaked := body["hashed_password"]; leaked {
			t.Error("password hash must not be returned")
		}
	})

	t.Run("returns 400 on duplicate email", func(t *testing.T) {
		svc := &mockUserService{
			registerFn: func(context.Context, schemas.UserCreate) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc, testTokenManager(), &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"email":"dup@example.com","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "REGISTER_USER_ALREADY_EXISTS")
	})

	t.Run("returns 422 on bad email", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, testTokenManager(), &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"email":"nope","password":"password123"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	tokens := testTokenManager()

	t.Run("accepts form credentials", func(t *testing.T) {
		var gotEmail string
		svc := &mockUserService{
			authenticateFn: func(_ context.Context, email, _ string) (*models.User, error) {
				gotEmail = email
				return testUser(), nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc, tokens, &mockAuditService{}))

		form := url.Values{"username": {"me@example.com"}, "password": {"password123"}}
		req := httptest.NewRequest(http.MethodPost, "/auth/jwt/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotEmail != "me@example.com" {
			t.Errorf("expected username to be used as email, got %q", gotEmail)
		}
		body := parseJSON(t, rec)
		if body["token_type"] != "bearer" {
			t.Errorf("expected bearer token type, got %v", body["token_type"])
		}
		sub, err := tokens.ParseAccessToken(body["access_token"].(string))
		if err != nil || sub != testUserID {
			t.Errorf("expected a valid token for %s, got sub=%q err=%v", testUserID, sub, err)
		}
	})

	t.Run("accepts json credentials", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, tokens, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/jwt/login", `{"username":"me@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on bad credentials", func(t *testing.T) {
		svc := &mockUserService{
			authenticateFn: func(context.Context, string, string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc, tokens, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/jwt/login", `{"username":"me@example.com","password":"wrong"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "LOGIN_BAD_CREDENTIALS")
	})

	t.Run("returns 422 on missing password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, tokens, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/jwt/login", `{"username":"me@example.com"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	r := setupAuthRouter(NewAuthHandler(&mockUserService{}, testTokenManager(), &mockAuditService{}))

	rec := doRequest(r, http.MethodPost, "/auth/jwt/logout", "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	t.Run("forgot always returns 202", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, testTokenManager(), &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/forgot-password", `{"email":"ghost@example.com"}`)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
	})

	t.Run("reset returns 400 on bad token", func(t *testing.T) {
		svc := &mockUserService{
			resetPasswordFn: func(context.Context, string, string) (*models.User, error) {
				return nil, apperrors.ErrInvalidResetToken
			},
		}
		r := setupAuthRouter(NewAuthHandler(svc, testTokenManager(), &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/reset-password", `{"token":"bad","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RESET_PASSWORD_BAD_TOKEN")
	})

	t.Run("reset returns 200", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, testTokenManager(), audit))

		rec := doRequest(r, http.MethodPost, "/auth/reset-password", `{"token":"good","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "RESET_PASSWORD" {
			t.Errorf("expected RESET_PASSWORD audit, got %v", actions)
		}
	})
}
