// handlers содержит реализацию HTTP-эндпоинтов сервиса токенов.
// Здесь выполняется только маппинг данных и ошибок доменного слоя (service) в HTTP.
// Вся валидация пары и протокол обмена находятся в пакете service.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-task-tracker/auth-service/internal/config"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/models"
	"github.com/pribylovaa/go-task-tracker/auth-service/internal/service"
)

// TokenService — операции доменного слоя, нужные транспорту.
// Реализуется *service.Service; в тестах подменяется gomock-моком.
type TokenService interface {
	IssueTokenPair(ctx context.Context, identity models.Identity) (*models.TokenPair, error)
	Refresh(ctx context.Context, pair models.TokenPair) (string, error)
	ParseIdentity(tokenStr string) (models.Identity, error)
	IsTokenExpired(tokenStr string) (bool, error)
}

var _ TokenService = (*service.Service)(nil)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Service TokenService
	Cfg     config.AuthConfig
}

func New(svc TokenService, cfg config.AuthConfig) *Handlers {
	return &Handlers{
		Service: svc,
		Cfg:     cfg,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
