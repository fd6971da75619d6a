package client

import (
	"context"
	"sync"

	"timeline/models"
	"timeline/services"
)

// Fetcher - граница движка выборки ленты (*services.FeedService)
type Fetcher interface {
	FetchPage(ctx context.Context, sel models.ViewSelector, cursor *services.Cursor, limit int, viewerID *int64) (*models.FeedPage, error)
}

// Toggler - граница переключателя лайков (*services.LikeService)
type Toggler interface {
	Toggle(ctx context.Context, userID, tweetID int64) (bool, error)
}

// viewTracker - служебное состояние контроллера по одному представлению
type viewTracker struct {
	inFlight bool
	loaded   bool
	cursor   *services.Cursor
	gen      uint64
}

// FeedController связывает движок выборки, переключатель лайков и кеш
// представлений одной пользовательской сессии.
type FeedController struct {
	fetcher  Fetcher
	toggler  Toggler
	cache    *MultiViewCache
	viewerID *int64
	pageSize int

	mu       sync.Mutex
	trackers map[models.ViewSelector]*viewTracker
}

// NewFeedController создает контроллер сессии. viewerID == nil - анонимная
// сессия: лента читается, toggle запрещен.
func NewFeedController(fetcher Fetcher, toggler Toggler, viewerID *int64, pageSize int) *FeedController {
	if pageSize <= 0 {
		pageSize = services.DEFAULT_PAGE_SIZE
	}
	return &FeedController{
		fetcher:  fetcher,
		toggler:  toggler,
		cache:    NewMultiViewCache(),
		viewerID: viewerID,
		pageSize: pageSize,
		trackers: make(map[models.ViewSelector]*viewTracker),
	}
}

// Cache отдает кеш представлений сессии (для отображения)
func (fc *FeedController) Cache() *MultiViewCache {
	return fc.cache
}

func (fc *FeedController) tracker(sel models.ViewSelector) *viewTracker {
	tr, ok := fc.trackers[sel]
	if !ok {
		tr = &viewTracker{}
		fc.trackers[sel] = tr
	}
	return tr
}

// LoadMore догружает следующую страницу представления по сигналу
// "нужны еще данные". Пока запрос по представлению в полете, повторные
// сигналы схлопываются в no-op; конец ленты - тоже no-op.
// Возвращает true, если страница была реально загружена и добавлена.
func (fc *FeedController) LoadMore(ctx context.Context, sel models.ViewSelector) (bool, error) {
	fc.mu.Lock()
	tr := fc.tracker(sel)
	if tr.inFlight {
		fc.mu.Unlock()
		return false, nil
	}
	if tr.loaded {
		if hasMore, ok := fc.cache.HasMore(sel); ok && !hasMore {
			fc.mu.Unlock()
			return false, nil
		}
	}
	tr.inFlight = true
	cursor := tr.cursor
	gen := tr.gen
	fc.mu.Unlock()

	page, err := fc.fetcher.FetchPage(ctx, sel, cursor, fc.pageSize, fc.viewerID)

	fc.mu.Lock()
	defer fc.mu.Unlock()
	tr.inFlight = false
	if err != nil {
		// Кеш остается в последнем валидном состоянии, частичных добавлений нет
		return false, err
	}
	if tr.gen != gen {
		// Представление сбросили, пока запрос был в полете - результат
		// относится к уже несуществующему состоянию и игнорируется
		return false, nil
	}

	fc.cache.AppendPage(sel, page)
	tr.loaded = true
	tr.cursor = nil
	if page.NextCursor != "" {
		cur, err := services.DecodeCursor(page.NextCursor)
		if err != nil {
			return false, err
		}
		tr.cursor = &cur
	}
	return true, nil
}

// Toggle переключает лайк твита и после подтверждения сервером проецирует
// дельту на все закешированные представления. До ответа сервера кеш не
// трогается - оптимистичных обновлений нет, неподтвержденное состояние
// никогда не показывается.
func (fc *FeedController) Toggle(ctx context.Context, tweetID int64) (bool, error) {
	if fc.viewerID == nil {
		return false, services.ErrUnauthenticated
	}

	addedLike, err := fc.toggler.Toggle(ctx, *fc.viewerID, tweetID)
	if err != nil {
		// В том числе ErrConflictRetry: состояние надо перечитать,
		// кеш остается как был
		return false, err
	}

	delta := int64(1)
	if !addedLike {
		delta = -1
	}
	fc.cache.ProjectMutation(tweetID, func(t models.FeedTweet) models.FeedTweet {
		t.LikeCount += delta
		t.LikedByMe = addedLike
		return t
	})
	return addedLike, nil
}

// DiscardView сбрасывает представление: кеш очищается, запрос в полете
// (если есть) будет проигнорирован по приходу
func (fc *FeedController) DiscardView(sel models.ViewSelector) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	tr := fc.tracker(sel)
	tr.gen++
	tr.loaded = false
	tr.cursor = nil
	fc.cache.Drop(sel)
}
