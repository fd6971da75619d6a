package models

// ViewKind - тип представления ленты
type ViewKind string

const (
	ViewGlobal    ViewKind = "global"    // все твиты
	ViewFollowing ViewKind = "following" // только авторы, на которых подписан viewer
	ViewAuthor    ViewKind = "author"    // твиты одного автора
)

// ViewSelector однозначно определяет отфильтрованное представление ленты.
// Структура сравнимая (comparable), поэтому используется напрямую как ключ
// кеша представлений - без строковых ключей и коллизий между вариантами.
type ViewSelector struct {
	Kind   ViewKind `json:"kind"`
	UserID int64    `json:"user_id,omitempty"`
}

// GlobalView - селектор общей ленты
func GlobalView() ViewSelector {
	return ViewSelector{Kind: ViewGlobal}
}

// FollowingView - селектор ленты подписок для конкретного viewer
func FollowingView(viewerID int64) ViewSelector {
	return ViewSelector{Kind: ViewFollowing, UserID: viewerID}
}

// AuthorView - селектор ленты профиля автора
func AuthorView(authorID int64) ViewSelector {
	return ViewSelector{Kind: ViewAuthor, UserID: authorID}
}
