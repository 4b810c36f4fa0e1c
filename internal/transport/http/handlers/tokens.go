package handlers

import (
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/go-task-tracker/auth-service/internal/errors"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/models"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/service"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/transport/http/middleware"
)

// Входные/выходные модели REST-слоя. Имена полей jwt/refresh_token —
// контракт исходной системы, менять нельзя.
type issueTokensRequest struct {
	Username string `json:"username"`
}

type tokenPairResponse struct {
	JWT          string `json:"jwt"`
	RefreshToken string `json:"refresh_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type validateRequest struct {
	AccessToken string `json:"access_token"`
}

type validateResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
}

type meResponse struct {
	Username string `json:"username"`
}

// IssueTokens выпускает пару токенов для уже аутентифицированной идентичности.
// Проверка учётных данных выполняется вызывающим сервисом до обращения сюда;
// этот эндпоинт доступен только доверенным внутренним клиентам.
// Маппинг ошибок:
//   - ErrEmptyUsername -> 400;
//   - прочее -> 500 (без раскрытия деталей).
func (h *Handlers) IssueTokens(w http.ResponseWriter, r *http.Request) {
	var in issueTokensRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	pair, err := h.Service.IssueTokenPair(r.Context(), models.Principal{Name: strings.TrimSpace(in.Username)})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		JWT:          pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// RefreshTokens обменивает пару токенов на новый access-токен.
// Access-токен предъявляется транспортом (заголовок или cookie),
// refresh-токен — в теле запроса. Refresh-токен не ротируется:
// в ответе возвращается тот же, что был предъявлен.
// Маппинг ошибок:
//   - ErrMissingToken/ErrInvalidToken/ErrTokenMismatch/ErrRefreshExpired -> 401;
//   - прочее -> 500.
func (h *Handlers) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	pair := models.TokenPair{
		AccessToken:  middleware.RawTokenFromContext(r.Context()),
		RefreshToken: in.RefreshToken,
	}

	accessToken, err := h.Service.Refresh(r.Context(), pair)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		JWT:          accessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// ValidateToken проверяет access-токен.
// Контракт эндпоинта: невалидный/просроченный токен — НЕ ошибка HTTP,
// а {valid:false}; ошибкой считаются только внутренние сбои.
func (h *Handlers) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var in validateRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	identity, err := h.Service.ParseIdentity(in.AccessToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeJSON(w, http.StatusOK, validateResponse{Valid: false})
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	expired, err := h.Service.IsTokenExpired(in.AccessToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if expired {
		writeJSON(w, http.StatusOK, validateResponse{Valid: false})
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:    true,
		Username: identity.Username(),
	})
}

// Me возвращает идентичность, которую утверждает предъявленный токен.
// Токен берётся из заголовка/cookie (TokenExtractor); здесь, в отличие от
// ParseIdentity, свежесть проверяется явно — просроченный токен отклоняется.
// Маппинг ошибок:
//   - токен отсутствует -> 401 (missing_token);
//   - невалиден -> 401 (invalid_token);
//   - истёк -> 401 (token_expired).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.RawTokenFromContext(r.Context())
	if token == "" {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	identity, err := h.Service.ParseIdentity(token)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	expired, err := h.Service.IsTokenExpired(token)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if expired {
		apierrors.WriteError(w, r, apierrors.ErrTokenExpired)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{Username: identity.Username()})
}
