package models

// Identity — минимальная способность "субъект с именем пользователя".
//
// Ядро токенов зависит только от этого интерфейса и никогда от конкретных
// типов принципалов, которые производит внешний слой аутентификации
// (проверка учётных данных — вне этого сервиса).
type Identity interface {
	Username() string
}

// Principal — простейшая реализация Identity: имя пользователя без
// дополнительных атрибутов. Используется ядром при перевыпуске access-токена
// по subject, извлечённому из уже подписанного токена.
type Principal struct {
	Name string
}

// Username возвращает имя пользователя.
func (p Principal) Username() string { return p.Name }
