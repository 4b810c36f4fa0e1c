// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает ошибку доменного слоя (sentinel из пакета service),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Маппинг:
//   - ErrEmptyUsername -> 400 (invalid_argument);
//   - ErrMissingToken -> 401 (missing_token);
//   - ErrTokenMismatch -> 401 (token_mismatch);
//   - ErrRefreshExpired -> 401 (refresh_expired);
//   - ErrInvalidToken (включая malformed/signature) -> 401 (invalid_token);
//   - прочее -> 500/internal (детали остаются в логах).
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-task-tracker/auth-service/internal/service"
)

var (
	// ErrInvalidArgument — локальная ошибка HTTP-слоя: битое тело запроса
	// или отсутствующее обязательное поле. Маппится в 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTokenExpired — локальная ошибка HTTP-слоя: предъявленный access-токен
	// истёк там, где требуется «свежий» (например, GET /auth/me). Маппится в 401.
	ErrTokenExpired = errors.New("token expired")
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// err == nil — программная ошибка вызова: возвращаем 500/internal,
// чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{
				Code:    "internal",
				Message: "internal error",
			},
		}
	}

	httpStatus, code, msg := base(err)

	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — маппинг sentinel-ошибок сервиса в HTTP/FE-код/сообщение.
// Порядок проверок важен: ErrMalformedToken/ErrInvalidSignature оборачивают
// ErrInvalidToken, но для фронта различие не раскрывается — единый
// invalid_token без уточнения, что именно не так с токеном.
func base(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, service.ErrEmptyUsername):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", "token expired"
	case errors.Is(err, service.ErrMissingToken):
		return http.StatusUnauthorized, "missing_token", "token is required"
	case errors.Is(err, service.ErrTokenMismatch):
		return http.StatusUnauthorized, "token_mismatch", "access and refresh token mismatch"
	case errors.Is(err, service.ErrRefreshExpired):
		return http.StatusUnauthorized, "refresh_expired", "refresh token expired"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token", "invalid token"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
