package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pribylovaa/go-task-tracker/auth-service/internal/models"
)

// Единственный алгоритм подписи — HMAC-SHA512 с общим секретом процесса.
// Ключ никогда не выводится из самого токена (нет поверхности для
// algorithm-confusion: парсер принимает только HS512).
var signingMethod = jwt.SigningMethodHS512

// signClaims подписывает claims секретом процесса и возвращает compact-строку.
func (s *Service) signClaims(claims jwt.RegisteredClaims) (string, error) {
	const op = "service.token.signClaims"

	token := jwt.NewWithClaims(signingMethod, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// parseClaims проверяет подпись и возвращает claims токена.
//
// Срок действия здесь НЕ проверяется: exp — отдельная явная проверка
// на стороне вызывающих (протокол refresh обязан принимать просроченный
// access-токен). Ошибки декодирования различаются:
//   - ErrMalformedToken — строка не является JWT;
//   - ErrInvalidSignature — подпись не совпадает;
//   - ErrInvalidToken — прочие дефекты (чужой алгоритм, пустой subject,
//     отсутствующий exp).
func (s *Service) parseClaims(tokenStr string) (*jwt.RegisteredClaims, error) {
	const op = "service.token.parseClaims"

	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != signingMethod {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
		default:
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
	}

	if !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// isExpired сравнивает exp с текущим временем; exp <= now считается истёкшим.
func isExpired(claims *jwt.RegisteredClaims) bool {
	return !claims.ExpiresAt.Time.After(time.Now())
}

// IsTokenExpired парсит токен и сообщает, истёк ли его срок действия.
// Невалидный токен — ошибка, а не "истёк": вызывающий обязан различать
// эти случаи.
func (s *Service) IsTokenExpired(tokenStr string) (bool, error) {
	const op = "service.token.IsTokenExpired"

	claims, err := s.parseClaims(tokenStr)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return isExpired(claims), nil
}

// ParseIdentity возвращает идентичность, которую утверждает токен.
// Срок действия не проверяется — вызывающим, которым нужна «свежесть»,
// следует явно вызвать IsTokenExpired.
func (s *Service) ParseIdentity(tokenStr string) (models.Identity, error) {
	const op = "service.token.ParseIdentity"

	claims, err := s.parseClaims(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return models.Principal{Name: claims.Subject}, nil
}
