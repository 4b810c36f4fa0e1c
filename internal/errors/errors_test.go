package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-task-tracker/auth-service/internal/service"
)

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"nil is internal", nil, http.StatusInternalServerError, "internal"},
		{"invalid argument", ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"empty username", service.ErrEmptyUsername, http.StatusBadRequest, "invalid_argument"},
		{"missing token", service.ErrMissingToken, http.StatusUnauthorized, "missing_token"},
		{"token mismatch", service.ErrTokenMismatch, http.StatusUnauthorized, "token_mismatch"},
		{"refresh expired", service.ErrRefreshExpired, http.StatusUnauthorized, "refresh_expired"},
		{"token expired", ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{"malformed maps like invalid", service.ErrMalformedToken, http.StatusUnauthorized, "invalid_token"},
		{"bad signature maps like invalid", service.ErrInvalidSignature, http.StatusUnauthorized, "invalid_token"},
		{"unknown is internal", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

// Обёрнутые ошибки доменного слоя маппятся так же, как их sentinel.
func TestToHTTP_WrappedSentinel(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("service.refresh.Refresh: %w", service.ErrRefreshExpired)

	status, resp := ToHTTP(err)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "refresh_expired", resp.Error.Code)
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/auth/tokens/refresh", nil)
	req.Header.Set("X-Request-Id", "rid-42")

	rec := httptest.NewRecorder()
	WriteError(rec, req, service.ErrMissingToken)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "missing_token", resp.Error.Code)
	require.Equal(t, "rid-42", resp.Error.RequestID)
}
