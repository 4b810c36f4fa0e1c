package models

// TokenPair — пара токенов, выдаваемая при успешной аутентификации.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT, производный от access-токена:
//     тот же subject, срок действия сдвинут на окно обновления.
//
// Оба токена хранятся только на стороне клиента: сервер не ведёт
// никаких записей о выданных токенах (полностью stateless).
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — JWT для выпуска нового access-токена.
	RefreshToken string
}
