package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/salamchy/furniture/internal/auth"
	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/internal/service"
	apperrors "github.com/salamchy/furniture/pkg/errors"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("handler-test-secret", time.Hour)
}

func setupUserRouter(t *testing.T, repo *mockUserRepository) *chi.Mux {
	t.Helper()
	logger := testLogger()
	manager := testJWTManager()
	svc := service.NewUserService(repo, manager, testEventProducer(), logger)
	handler := NewUserHandler(svc, time.Hour, false, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/logout", handler.Logout)

		r.With(auth.Authenticate(manager, logger), auth.RequireRole(auth.RoleAdmin, logger)).
			Delete("/{id}", handler.Delete)
	})
	return r
}

func authCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestRegister_SetsAuthCookie(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(t, repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	body, _ := json.Marshal(RegisterRequest{Username: "salam", Email: "salam@example.com", Password: "correct horse"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	cookie := authCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	claims, err := testJWTManager().Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "salam@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)

	// The response never leaks the password hash.
	assert.NotContains(t, rec.Body.String(), "password")
	repo.AssertExpectations(t)
}

func TestRegister_ShortPassword(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(t, repo)

	body, _ := json.Marshal(RegisterRequest{Username: "salam", Email: "salam@example.com", Password: "short"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(t, repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "salam@example.com"))

	body, _ := json.Marshal(RegisterRequest{Username: "salam", Email: "salam@example.com", Password: "correct horse"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Nil(t, authCookie(rec))
}

func TestLogin_Success(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(t, repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetByEmail", mock.Anything, "salam@example.com").Return(&domain.User{
		ID:           "user-1",
		Username:     "salam",
		Email:        "salam@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}, nil)

	body, _ := json.Marshal(LoginRequest{Email: "salam@example.com", Password: "correct horse"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, authCookie(rec))
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(t, repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetByEmail", mock.Anything, "salam@example.com").Return(&domain.User{
		ID:           "user-1",
		Email:        "salam@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}, nil)

	body, _ := json.Marshal(LoginRequest{Email: "salam@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, authCookie(rec))
}

func TestLogout_ClearsCookie(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := authCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestDeleteUser_RequiresAdmin(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(t, repo)

	token, err := testJWTManager().Generate("user-1", "salam", "salam@example.com", domain.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/user-2", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUser_AsAdmin(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(t, repo)

	repo.On("Delete", mock.Anything, "user-2").Return(nil)

	token, err := testJWTManager().Generate("admin-1", "admin", "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/user-2", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestDeleteUser_Unauthenticated(t *testing.T) {
	repo := new(mockUserRepository)
	router := setupUserRouter(t, repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/user-2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
