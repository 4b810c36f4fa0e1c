package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-task-tracker/auth-service/internal/config"
)

type ctxKeyRawToken struct{}

// TokenFromRequest извлекает access-токен из запроса.
//
// Поддерживаются два места (в порядке приоритета):
//  1. заголовок cfg.TokenHeader; фиксированный префикс cfg.TokenPrefix
//     срезается, если присутствует (его отсутствие не ошибка — клиенты
//     исходной системы передают и "голый" токен);
//  2. cookie с именем cfg.CookieName.
//
// Отсутствие токена — не ошибка: возвращается пустая строка, трактовать её
// как "неаутентифицирован" обязан вызывающий.
func TokenFromRequest(r *http.Request, cfg config.AuthConfig) string {
	if v := r.Header.Get(cfg.TokenHeader); v != "" {
		token := strings.TrimSpace(strings.TrimPrefix(v, cfg.TokenPrefix))
		if token != "" {
			return token
		}
	}

	if c, err := r.Cookie(cfg.CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	return ""
}

// TokenExtractor вынимает "сырой" access-токен (заголовок или cookie)
// и кладёт его в контекст запроса для хендлеров ниже по цепочке.
func TokenExtractor(cfg config.AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := TokenFromRequest(r, cfg); token != "" {
				ctx := context.WithValue(r.Context(), ctxKeyRawToken{}, token)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RawTokenFromContext возвращает токен, извлечённый TokenExtractor (или "").
func RawTokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRawToken{}).(string); ok {
		return v
	}

	return ""
}
