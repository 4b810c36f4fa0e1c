package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pribylovaa/go-task-tracker/auth-service/internal/models"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/pkg/log"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/pkg/redact"
)

// IssueAccessToken выпускает access-токен для аутентифицированной идентичности:
// subject = username, exp = now + AccessTokenTTL. Побочных эффектов, кроме
// подписи, нет — токен нигде не сохраняется.
func (s *Service) IssueAccessToken(ctx context.Context, identity models.Identity) (string, error) {
	const op = "service.tokenpair.IssueAccessToken"

	lg := log.From(ctx)

	username := identity.Username()
	if strings.TrimSpace(username) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyUsername)
	}

	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(s.cfg.AccessTokenTTL)),
	}

	signed, err := s.signClaims(claims)
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// DeriveRefreshToken производит refresh-токен из access-токена:
// subject сохраняется, exp сдвигается на RefreshWindowDays календарных дней
// относительно exp access-токена (не относительно "сейчас" — давно выданный
// access-токен даёт refresh, истекающий через окно после СВОЕГО exp).
//
// Это чистая функция от claims access-токена: срок действия входного токена
// не проверяется, поскольку пара обычно выпускается целиком в момент логина.
func (s *Service) DeriveRefreshToken(ctx context.Context, accessToken string) (string, error) {
	const op = "service.tokenpair.DeriveRefreshToken"

	lg := log.From(ctx)

	claims, err := s.parseClaims(accessToken)
	if err != nil {
		lg.Warn("refresh_derive_parse_failed",
			slog.String("op", op),
			slog.String("token", redact.Token()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// Календарная арифметика в фиксированной зоне: +N дней по настенным часам
	// с нормализацией DST, затем обратно в абсолютный момент.
	exp := claims.ExpiresAt.Time.In(s.loc).AddDate(0, 0, s.cfg.RefreshWindowDays)

	refreshClaims := jwt.RegisteredClaims{
		Subject:   claims.Subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := s.signClaims(refreshClaims)
	if err != nil {
		lg.Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// IssueTokenPair выпускает пару access+refresh для идентичности.
// Инвариант пары: оба токена несут один и тот же subject.
func (s *Service) IssueTokenPair(ctx context.Context, identity models.Identity) (*models.TokenPair, error) {
	const op = "service.tokenpair.IssueTokenPair"

	accessToken, err := s.IssueAccessToken(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.DeriveRefreshToken(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("token_pair_issued",
		slog.String("op", op),
		slog.String("username", redact.Username(identity.Username())),
	)

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
