package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-task-tracker/auth-service/internal/config"
	apierrors "github.com/pribylovaa/go-task-tracker/auth-service/internal/errors"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/models"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/service"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/transport/http/middleware"
	"github.com/pribylovaa/go-task-tracker/auth-service/mocks"
)

// Файл unit-тестов транспортного слоя (HTTP). Happy-path проходит через
// реальный сервис токенов; ошибки внутренних сбоев — через gomock.

func testCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:         "unit-secret",
		AccessTokenTTL:    2 * time.Second,
		RefreshWindowDays: 14,
		RefreshTimeZone:   "UTC",
		TokenHeader:       "Authorization",
		TokenPrefix:       "Bearer",
		CookieName:        "jwt",
	}
}

// newRealHandlers — хендлеры поверх настоящего сервиса.
func newRealHandlers(t *testing.T) (*Handlers, *service.Service) {
	t.Helper()
	svc, err := service.New(testCfg())
	require.NoError(t, err)
	return New(svc, testCfg()), svc
}

// newMockHandlers — хендлеры поверх gomock-сервиса.
func newMockHandlers(t *testing.T) (*Handlers, *mocks.MockTokenService, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ms := mocks.NewMockTokenService(ctrl)
	return New(ms, testCfg()), ms, ctrl
}

// do — прогоняет запрос через TokenExtractor и указанный хендлер.
func do(h *Handlers, hf http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.TokenExtractor(h.Cfg)(hf).ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeBody[apierrors.ErrorResponse](t, rec)
	return resp.Error.Code
}

func TestIssueTokens_OK(t *testing.T) {
	t.Parallel()

	h, svc := newRealHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/tokens", strings.NewReader(`{"username":"john"}`))
	rec := do(h, h.IssueTokens, req)

	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody[tokenPairResponse](t, rec)
	require.NotEmpty(t, out.JWT)
	require.NotEmpty(t, out.RefreshToken)

	identity, err := svc.ParseIdentity(out.JWT)
	require.NoError(t, err)
	require.Equal(t, "john", identity.Username())
}

func TestIssueTokens_BadInput(t *testing.T) {
	t.Parallel()

	h, _ := newRealHandlers(t)

	t.Run("broken body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/tokens", strings.NewReader(`{"user`))
		rec := do(h, h.IssueTokens, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_argument", errorCode(t, rec))
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/tokens", strings.NewReader(`{"login":"john"}`))
		rec := do(h, h.IssueTokens, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty username", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/tokens", strings.NewReader(`{"username":"   "}`))
		rec := do(h, h.IssueTokens, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_argument", errorCode(t, rec))
	})
}

func TestRefreshTokens_OK(t *testing.T) {
	t.Parallel()

	h, svc := newRealHandlers(t)

	pair, err := svc.IssueTokenPair(context.Background(), models.Principal{Name: "john"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/tokens/refresh",
		strings.NewReader(`{"refresh_token":"`+pair.RefreshToken+`"}`))
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)

	rec := do(h, h.RefreshTokens, req)

	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody[tokenPairResponse](t, rec)
	require.NotEmpty(t, out.JWT)
	// Refresh-токен не ротируется: возвращается предъявленный.
	require.Equal(t, pair.RefreshToken, out.RefreshToken)

	identity, err := svc.ParseIdentity(out.JWT)
	require.NoError(t, err)
	require.Equal(t, "john", identity.Username())
}

// Access-токен может прийти и через cookie — второй поддерживаемый транспорт.
func TestRefreshTokens_CookieToken(t *testing.T) {
	t.Parallel()

	h, svc := newRealHandlers(t)

	pair, err := svc.IssueTokenPair(context.Background(), models.Principal{Name: "john"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/tokens/refresh",
		strings.NewReader(`{"refresh_token":"`+pair.RefreshToken+`"}`))
	req.AddCookie(&http.Cookie{Name: "jwt", Value: pair.AccessToken})

	rec := do(h, h.RefreshTokens, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshTokens_Unauthenticated(t *testing.T) {
	t.Parallel()

	h, svc := newRealHandlers(t)

	pair, err := svc.IssueTokenPair(context.Background(), models.Principal{Name: "alice"})
	require.NoError(t, err)

	t.Run("missing access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/tokens/refresh",
			strings.NewReader(`{"refresh_token":"`+pair.RefreshToken+`"}`))
		rec := do(h, h.RefreshTokens, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "missing_token", errorCode(t, rec))
	})

	t.Run("subject mismatch", func(t *testing.T) {
		other, err := svc.IssueTokenPair(context.Background(), models.Principal{Name: "bob"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/auth/tokens/refresh",
			strings.NewReader(`{"refresh_token":"`+other.RefreshToken+`"}`))
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := do(h, h.RefreshTokens, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "token_mismatch", errorCode(t, rec))
	})

	t.Run("garbage refresh token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/tokens/refresh",
			strings.NewReader(`{"refresh_token":"garbage"}`))
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := do(h, h.RefreshTokens, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid_token", errorCode(t, rec))
	})
}

func TestRefreshTokens_InternalError(t *testing.T) {
	t.Parallel()

	h, ms, ctrl := newMockHandlers(t)
	defer ctrl.Finish()

	ms.EXPECT().
		Refresh(gomock.Any(), gomock.Any()).
		Return("", errors.New("boom"))

	req := httptest.NewRequest(http.MethodPost, "/auth/tokens/refresh",
		strings.NewReader(`{"refresh_token":"some"}`))
	req.Header.Set("Authorization", "Bearer some-access")
	rec := do(h, h.RefreshTokens, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "internal", errorCode(t, rec))
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	h, svc := newRealHandlers(t)

	t.Run("valid", func(t *testing.T) {
		pair, err := svc.IssueTokenPair(context.Background(), models.Principal{Name: "john"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/auth/tokens/validate",
			strings.NewReader(`{"access_token":"`+pair.AccessToken+`"}`))
		rec := do(h, h.ValidateToken, req)

		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody[validateResponse](t, rec)
		require.True(t, out.Valid)
		require.Equal(t, "john", out.Username)
	})

	t.Run("garbage is valid=false, not error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/tokens/validate",
			strings.NewReader(`{"access_token":"garbage"}`))
		rec := do(h, h.ValidateToken, req)

		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody[validateResponse](t, rec)
		require.False(t, out.Valid)
		require.Empty(t, out.Username)
	})

	t.Run("expired is valid=false", func(t *testing.T) {
		pair, err := svc.IssueTokenPair(context.Background(), models.Principal{Name: "john"})
		require.NoError(t, err)

		// TTL в testCfg — 2 секунды.
		time.Sleep(2100 * time.Millisecond)

		req := httptest.NewRequest(http.MethodPost, "/auth/tokens/validate",
			strings.NewReader(`{"access_token":"`+pair.AccessToken+`"}`))
		rec := do(h, h.ValidateToken, req)

		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody[validateResponse](t, rec)
		require.False(t, out.Valid)
	})
}

func TestMe(t *testing.T) {
	t.Parallel()

	h, svc := newRealHandlers(t)

	t.Run("ok via header", func(t *testing.T) {
		pair, err := svc.IssueTokenPair(context.Background(), models.Principal{Name: "john"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := do(h, h.Me, req)

		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody[meResponse](t, rec)
		require.Equal(t, "john", out.Username)
	})

	t.Run("ok via cookie", func(t *testing.T) {
		pair, err := svc.IssueTokenPair(context.Background(), models.Principal{Name: "john"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: pair.AccessToken})
		rec := do(h, h.Me, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rec := do(h, h.Me, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "missing_token", errorCode(t, rec))
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := do(h, h.Me, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid_token", errorCode(t, rec))
	})

	t.Run("expired token", func(t *testing.T) {
		pair, err := svc.IssueTokenPair(context.Background(), models.Principal{Name: "john"})
		require.NoError(t, err)

		time.Sleep(2100 * time.Millisecond)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := do(h, h.Me, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "token_expired", errorCode(t, rec))
	})
}
