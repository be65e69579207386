package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
)

const testSecret = "test-secret"

// =====================
// UserRepository モック（middleware専用）
// =====================

type MockUserRepoForMiddleware struct {
	mock.Mock
}

func (m *MockUserRepoForMiddleware) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepoForMiddleware) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepoForMiddleware) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepoForMiddleware) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepoForMiddleware) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =====================
// Helper
// =====================

func signToken(t *testing.T, userID int64, role string, tv int) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"tv":   tv,
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return signed
}

// AuthJWT通過後のcontext値をそのまま返すハンドラ
func echoCtxHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":       c.Get(middleware.CtxUserIDKey),
		"role":          c.Get(middleware.CtxUserRoleKey),
		"token_version": c.Get(middleware.CtxTokenVersionKey),
	})
}

func doRequest(authorization string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/protected", echoCtxHandler, mws...)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_Success(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	token := signToken(t, 1, "USER", 0)
	rec := doRequest("Bearer "+token, middleware.AuthJWT(cfg))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":1`)
	assert.Contains(t, rec.Body.String(), `"role":"USER"`)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec := doRequest("", middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec := doRequest("Basic abc123", middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	cfg := config.Config{JWTSecret: "other-secret"}

	token := signToken(t, 1, "USER", 0)
	rec := doRequest("Bearer "+token, middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  int64(1),
		"role": "USER",
		"tv":   0,
		"iat":  now.Add(-time.Hour).Unix(),
		"exp":  now.Add(-30 * time.Minute).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	assert.NoError(t, err)

	rec := doRequest("Bearer "+signed, middleware.AuthJWT(cfg))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =====================
// TokenVersionGuard
// =====================

func TestTokenVersionGuard_Match(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	users := new(MockUserRepoForMiddleware)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{
		ID:           1,
		TokenVersion: 2,
		IsActive:     true,
	}, nil)

	token := signToken(t, 1, "USER", 2)
	rec := doRequest("Bearer "+token, middleware.AuthJWT(cfg), middleware.TokenVersionGuard(users))

	assert.Equal(t, http.StatusOK, rec.Code)
}

// 強制ログアウト後の古いJWTは弾かれる
func TestTokenVersionGuard_StaleToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	users := new(MockUserRepoForMiddleware)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{
		ID:           1,
		TokenVersion: 3,
		IsActive:     true,
	}, nil)

	token := signToken(t, 1, "USER", 2)
	rec := doRequest("Bearer "+token, middleware.AuthJWT(cfg), middleware.TokenVersionGuard(users))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =====================
// AdminRoleGuard
// =====================

func TestAdminRoleGuard_UserForbidden(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	token := signToken(t, 1, "USER", 0)
	rec := doRequest("Bearer "+token, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleGuard_AdminAllowed(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	token := signToken(t, 9, "ADMIN", 0)
	rec := doRequest("Bearer "+token, middleware.AuthJWT(cfg), middleware.AdminRoleGuard())

	assert.Equal(t, http.StatusOK, rec.Code)
}
