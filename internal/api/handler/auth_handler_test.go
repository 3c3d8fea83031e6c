package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pybank/internal/api/handler"
	"pybank/internal/config"
	"pybank/internal/domain/user"
	"pybank/internal/pkg/apperrors"
)

type MockUserService struct {
	mock.Mock
}

func (_m *MockUserService) Register(ctx context.Context, name, username, email, password, phone string) (*user.User, error) {
	ret := _m.Called(ctx, name, username, email, password, phone)

	var r0 *user.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*user.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockUserService) Authenticate(ctx context.Context, identifier, password string) (*user.User, error) {
	ret := _m.Called(ctx, identifier, password)

	var r0 *user.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*user.User)
	}
	return r0, ret.Error(1)
}

func testUser() *user.User {
	return &user.User{
		UserID:   "USER_00001",
		Name:     "Ada Lovelace",
		Username: "ada",
		Email:    "ada@example.com",
		Phone:    "01012345678",
	}
}

func authTestConfig() config.Config {
	var cfg config.Config
	cfg.Server.Auth.JWTSecret = "testsecret"
	return cfg
}

func TestRegister(t *testing.T) {
	mockService := new(MockUserService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := handler.NewAuthHandler(mockService, authTestConfig(), logger)

	t.Run("success", func(t *testing.T) {
		reqBody := `{"name":"Ada Lovelace","username":"ada","email":"ada@example.com","phone":"01012345678","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		mockService.On("Register", mock.Anything, "Ada Lovelace", "ada", "ada@example.com", "hunter22", "01012345678").
			Return(testUser(), nil)

		h.Register(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp map[string]string
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.Equal(t, "USER_00001", resp["userId"])
		assert.NotContains(t, rec.Body.String(), "password")
		mockService.AssertExpectations(t)
	})

	t.Run("missing password", func(t *testing.T) {
		reqBody := `{"name":"Ada Lovelace","username":"ada"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Register")
	})

	t.Run("duplicate username", func(t *testing.T) {
		reqBody := `{"name":"Ada Lovelace","username":"taken","email":"ada@example.com","phone":"01012345678","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		mockService.On("Register", mock.Anything, "Ada Lovelace", "taken", "ada@example.com", "hunter22", "01012345678").
			Return(nil, apperrors.ErrAlreadyExists)

		h.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGenerateBearerToken(t *testing.T) {
	mockService := new(MockUserService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := handler.NewAuthHandler(mockService, authTestConfig(), logger)

	t.Run("success", func(t *testing.T) {
		reqBody := `{"identifier":"ada","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		mockService.On("Authenticate", mock.Anything, "ada", "hunter22").Return(testUser(), nil)

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		err := json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.NoError(t, err)
		require.True(t, strings.HasPrefix(resp["token"], "Bearer "))

		tokenString := strings.TrimPrefix(resp["token"], "Bearer ")
		parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte("testsecret"), nil
		})
		require.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, "ada", claims["username"])
		assert.Equal(t, "USER_00001", claims["user_id"])
		mockService.AssertExpectations(t)
	})

	t.Run("bad credentials", func(t *testing.T) {
		reqBody := `{"identifier":"ada","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		mockService.On("Authenticate", mock.Anything, "ada", "wrong").Return(nil, apperrors.ErrUnauthorized)

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty identifier", func(t *testing.T) {
		reqBody := `{"identifier":"","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
