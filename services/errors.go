package services

import "errors"

// Ошибки ядра ленты. Хендлеры маппят их на HTTP-статусы,
// клиентский контроллер - на решение "трогать кеш или нет".
var (
	// ErrInvalidCursor - курсор не декодируется, запрос отклоняется сразу
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrQueryFailure - ошибка хранилища при выборке, страница не отдается частично
	ErrQueryFailure = errors.New("feed query failed")

	// ErrUnauthenticated - действие требует авторизованного пользователя
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConflictRetry - гонка на вставке лайка: второй конкурентный toggle
	// уперся в уникальный ключ. Вызывающий должен перечитать состояние,
	// а не повторять toggle вслепую (повтор перевернул бы состояние дважды).
	ErrConflictRetry = errors.New("like conflict, re-read current state")
)
