// service содержит ядро жизненного цикла сессионных токенов:
// выпуск пары access+refresh, проверку подписи, производный refresh-токен
// и протокол обмена (refresh) с проверками согласованности пары.
//
// Основные аспекты:
//   - Сервис полностью stateless: единственное разделяемое значение —
//     неизменяемая конфигурация (секрет подписи, TTL, зона календарной
//     арифметики), заданная один раз при старте процесса. Экземпляр Service
//     безопасен для конкурентного использования из разных горутин.
//   - Внутри ядра нет блокирующего I/O: подпись и проверка — чистые
//     вычисления в памяти; таймауты — ответственность вызывающего слоя.
//   - Ошибки возвращаются именованными sentinel-значениями и далее маппятся
//     транспортом на HTTP-коды (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/go-task-tracker/auth-service/internal/config"
)

var (
	// ErrInvalidToken — зонтичная ошибка: токен не прошёл декодирование
	// по любой причине (формат или подпись). ErrMalformedToken и
	// ErrInvalidSignature оборачивают её, поэтому errors.Is(err, ErrInvalidToken)
	// срабатывает для обеих. Транспорт: 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMalformedToken — строка не декодируется как JWT
	// (не compact-формат, битый base64, нечитаемые claims). Транспорт: 401.
	ErrMalformedToken = fmt.Errorf("%w: malformed", ErrInvalidToken)

	// ErrInvalidSignature — токен структурно корректен, но подпись
	// не совпадает с секретом процесса. Транспорт: 401.
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)

	// ErrMissingToken — отсутствует обязательный access- или refresh-токен
	// там, где нужны оба (обмен refresh). Транспорт: 401.
	ErrMissingToken = errors.New("missing token")

	// ErrTokenMismatch — subject access-токена не совпадает с subject
	// refresh-токена: попытка смешать токены разных сессий. Транспорт: 401.
	ErrTokenMismatch = errors.New("access and refresh token mismatch")

	// ErrRefreshExpired — срок действия refresh-токена истёк; обмен невозможен,
	// требуется повторная аутентификация. Транспорт: 401.
	ErrRefreshExpired = errors.New("refresh token expired")

	// ErrEmptyUsername — идентичность с пустым именем пользователя;
	// токен с пустым subject не выпускается. Транспорт: 400.
	ErrEmptyUsername = errors.New("empty username")
)

// Service реализует операции над токенами поверх неизменяемой конфигурации.
type Service struct {
	cfg config.AuthConfig
	loc *time.Location
}

// New создаёт новый экземпляр Service.
// Зона RefreshTimeZone резолвится один раз здесь; неизвестное имя зоны —
// ошибка конфигурации, а не отложенный сбой при выпуске токена.
func New(cfg config.AuthConfig) (*Service, error) {
	const op = "service.New"

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%s: empty jwt secret", op)
	}

	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("%s: non-positive access token ttl", op)
	}

	if cfg.RefreshWindowDays <= 0 {
		return nil, fmt.Errorf("%s: non-positive refresh window", op)
	}

	loc := time.Local
	if cfg.RefreshTimeZone != "" && cfg.RefreshTimeZone != "Local" {
		l, err := time.LoadLocation(cfg.RefreshTimeZone)
		if err != nil {
			return nil, fmt.Errorf("%s: unknown refresh time zone %q: %w", op, cfg.RefreshTimeZone, err)
		}
		loc = l
	}

	return &Service{
		cfg: cfg,
		loc: loc,
	}, nil
}
