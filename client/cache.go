package client

import (
	"sync"

	"timeline/models"
)

// viewState - закешированное состояние одного представления ленты:
// список уже загруженных страниц и флаг "есть еще"
type viewState struct {
	pages   [][]models.FeedTweet
	hasMore bool
}

// MultiViewCache - клиентский кеш представлений ленты в рамках одной сессии.
// Один и тот же твит может одновременно находиться в общей ленте, ленте
// подписок и ленте профиля автора; ProjectMutation переписывает все его
// вхождения без сетевых запросов.
//
// Кеш владеет твитами по значению внутри каждого представления - страницы
// копируются при добавлении, поэтому между представлениями нет разделяемых
// ссылок и случайного алиасинга.
type MultiViewCache struct {
	mu    sync.RWMutex
	views map[models.ViewSelector]*viewState
}

func NewMultiViewCache() *MultiViewCache {
	return &MultiViewCache{
		views: make(map[models.ViewSelector]*viewState),
	}
}

// AppendPage добавляет страницу в конец представления и обновляет флаг
// "есть еще" по наличию курсора. Вызывается ровно один раз на каждую
// успешную загрузку - повторный вызов с той же страницей задублирует твиты.
func (c *MultiViewCache) AppendPage(sel models.ViewSelector, page *models.FeedPage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.views[sel]
	if !ok {
		st = &viewState{}
		c.views[sel] = st
	}

	items := make([]models.FeedTweet, len(page.Tweets))
	copy(items, page.Tweets)
	st.pages = append(st.pages, items)
	st.hasMore = page.NextCursor != ""
}

// ProjectMutation переписывает каждое вхождение твита tweetID во всех
// закешированных представлениях через apply. Представления без этого твита
// не меняются. Возвращает число переписанных вхождений.
//
// Сложность O(всех закешированных твитов) - приемлемо, кеш ограничен тем,
// что реально доскроллено в рамках сессии.
func (c *MultiViewCache) ProjectMutation(tweetID int64, apply func(models.FeedTweet) models.FeedTweet) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated := 0
	for _, st := range c.views {
		for _, page := range st.pages {
			for i := range page {
				if page[i].ID == tweetID {
					page[i] = apply(page[i])
					updated++
				}
			}
		}
	}
	return updated
}

// Tweets возвращает плоскую копию всех загруженных твитов представления
// в порядке страниц
func (c *MultiViewCache) Tweets(sel models.ViewSelector) []models.FeedTweet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st, ok := c.views[sel]
	if !ok {
		return nil
	}
	var tweets []models.FeedTweet
	for _, page := range st.pages {
		tweets = append(tweets, page...)
	}
	return tweets
}

// HasMore сообщает, остались ли незагруженные твиты; ok=false, если
// представление еще не загружалось
func (c *MultiViewCache) HasMore(sel models.ViewSelector) (hasMore bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st, found := c.views[sel]
	if !found {
		return false, false
	}
	return st.hasMore, true
}

// Drop удаляет состояние представления (потребляющий контекст закончился)
func (c *MultiViewCache) Drop(sel models.ViewSelector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, sel)
}
