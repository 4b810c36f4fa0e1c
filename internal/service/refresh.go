package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-task-tracker/auth-service/internal/models"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/pkg/log"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/pkg/redact"
)

// Refresh обменивает пару токенов на новый access-токен.
//
// Протокол (каждый шаг — терминальная проверка, без ретраев и частичного успеха):
//  1. оба токена обязаны присутствовать — иначе ErrMissingToken;
//  2. декодирование access-токена (подпись/формат) — иначе ErrInvalidToken;
//  3. декодирование refresh-токена — тот же режим отказа;
//  4. subject'ы обязаны совпадать — иначе ErrTokenMismatch;
//  5. refresh-токен не должен быть истёкшим — иначе ErrRefreshExpired.
//
// Срок действия access-токена намеренно НЕ проверяется: смысл обмена — замена
// возможно уже истёкшего access-токена; обмен ограничивает только валидность
// самого refresh-токена.
//
// Refresh-токен при обмене не ротируется: та же пара пригодна для последующих
// обменов, пока refresh-токен не истечёт сам.
func (s *Service) Refresh(ctx context.Context, pair models.TokenPair) (string, error) {
	const op = "service.refresh.Refresh"

	lg := log.From(ctx)

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		lg.Warn("refresh_missing_token",
			slog.String("op", op),
		)
		return "", fmt.Errorf("%s: %w", op, ErrMissingToken)
	}

	accessClaims, err := s.parseClaims(pair.AccessToken)
	if err != nil {
		lg.Warn("refresh_access_parse_failed",
			slog.String("op", op),
			slog.String("token", redact.Token()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	refreshClaims, err := s.parseClaims(pair.RefreshToken)
	if err != nil {
		lg.Warn("refresh_refresh_parse_failed",
			slog.String("op", op),
			slog.String("token", redact.Token()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// Защита от смешивания refresh-токена одной сессии с access-токеном другой.
	if accessClaims.Subject != refreshClaims.Subject {
		lg.Warn("refresh_subject_mismatch",
			slog.String("op", op),
			slog.String("access_sub", redact.Username(accessClaims.Subject)),
			slog.String("refresh_sub", redact.Username(refreshClaims.Subject)),
		)
		return "", fmt.Errorf("%s: %w", op, ErrTokenMismatch)
	}

	if isExpired(refreshClaims) {
		lg.Warn("refresh_token_expired",
			slog.String("op", op),
			slog.String("username", redact.Username(refreshClaims.Subject)),
		)
		return "", fmt.Errorf("%s: %w", op, ErrRefreshExpired)
	}

	accessToken, err := s.IssueAccessToken(ctx, models.Principal{Name: accessClaims.Subject})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("access_token_refreshed",
		slog.String("op", op),
		slog.String("username", redact.Username(accessClaims.Subject)),
	)

	return accessToken, nil
}
