package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"timeline/models"
	"timeline/services"

	"github.com/stretchr/testify/require"
)

// stubFetcher отдает заранее подготовленные страницы: без курсора - первую,
// с курсором - вторую. Каналы enter/release позволяют детерминированно
// подержать запрос "в полете".
type stubFetcher struct {
	mu      sync.Mutex
	calls   int
	pages   map[string]*models.FeedPage // ключ - encoded cursor, "" для первой страницы
	err     error
	enter   chan struct{}
	release chan struct{}
}

func (f *stubFetcher) FetchPage(ctx context.Context, sel models.ViewSelector, cursor *services.Cursor, limit int, viewerID *int64) (*models.FeedPage, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.enter != nil {
		f.enter <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}

	key := ""
	if cursor != nil {
		key = services.EncodeCursor(*cursor)
	}
	page, ok := f.pages[key]
	if !ok {
		return &models.FeedPage{Tweets: []models.FeedTweet{}}, nil
	}
	return page, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type stubToggler struct {
	calls  int
	result bool
	err    error
}

func (tg *stubToggler) Toggle(ctx context.Context, userID, tweetID int64) (bool, error) {
	tg.calls++
	return tg.result, tg.err
}

func twoPageFetcher() *stubFetcher {
	first := []models.FeedTweet{feedTweet(5, 1, 0), feedTweet(4, 1, 0)}
	lastOfFirst := first[len(first)-1]
	cursor := services.EncodeCursor(services.CursorFromTweet(lastOfFirst))

	return &stubFetcher{
		pages: map[string]*models.FeedPage{
			"":     {Tweets: first, NextCursor: cursor, HasMore: true},
			cursor: {Tweets: []models.FeedTweet{feedTweet(3, 1, 0)}},
		},
	}
}

func intPtr(v int64) *int64 { return &v }

func TestLoadMorePagination(t *testing.T) {
	fetcher := twoPageFetcher()
	fc := NewFeedController(fetcher, &stubToggler{}, intPtr(7), 2)
	sel := models.GlobalView()
	ctx := context.Background()

	loaded, err := fc.LoadMore(ctx, sel)
	require.NoError(t, err)
	require.True(t, loaded)
	require.Equal(t, []int64{5, 4}, tweetIDs(fc.Cache().Tweets(sel)))

	loaded, err = fc.LoadMore(ctx, sel)
	require.NoError(t, err)
	require.True(t, loaded)
	require.Equal(t, []int64{5, 4, 3}, tweetIDs(fc.Cache().Tweets(sel)))

	// Конец ленты: больше ни одного обращения к движку
	loaded, err = fc.LoadMore(ctx, sel)
	require.NoError(t, err)
	require.False(t, loaded)
	require.Equal(t, 2, fetcher.callCount())
}

// TestLoadMoreCoalescing - пока запрос по представлению в полете, повторные
// сигналы "нужны еще данные" схлопываются, второй параллельный fetch не уходит
func TestLoadMoreCoalescing(t *testing.T) {
	fetcher := twoPageFetcher()
	fetcher.enter = make(chan struct{}, 1)
	fetcher.release = make(chan struct{})
	fc := NewFeedController(fetcher, &stubToggler{}, intPtr(7), 2)
	sel := models.GlobalView()
	ctx := context.Background()

	type result struct {
		loaded bool
		err    error
	}
	done := make(chan result, 1)
	go func() {
		loaded, err := fc.LoadMore(ctx, sel)
		done <- result{loaded, err}
	}()

	// Дожидаемся входа первого запроса в fetch
	<-fetcher.enter

	// Повторный сигнал во время полета - no-op без обращения к движку
	loaded, err := fc.LoadMore(ctx, sel)
	require.NoError(t, err)
	require.False(t, loaded)
	require.Equal(t, 1, fetcher.callCount())

	close(fetcher.release)
	first := <-done
	require.NoError(t, first.err)
	require.True(t, first.loaded)
	require.Equal(t, []int64{5, 4}, tweetIDs(fc.Cache().Tweets(sel)))
}

func TestLoadMoreFailureLeavesCache(t *testing.T) {
	fetcher := twoPageFetcher()
	fc := NewFeedController(fetcher, &stubToggler{}, intPtr(7), 2)
	sel := models.GlobalView()
	ctx := context.Background()

	_, err := fc.LoadMore(ctx, sel)
	require.NoError(t, err)
	before := fc.Cache().Tweets(sel)

	fetcher.err = services.ErrQueryFailure
	loaded, err := fc.LoadMore(ctx, sel)
	require.ErrorIs(t, err, services.ErrQueryFailure)
	require.False(t, loaded)

	// Уже загруженные твиты сохранены, частичного добавления нет
	require.Equal(t, before, fc.Cache().Tweets(sel))

	// После восстановления движка пагинация продолжается с того же курсора
	fetcher.err = nil
	loaded, err = fc.LoadMore(ctx, sel)
	require.NoError(t, err)
	require.True(t, loaded)
	require.Equal(t, []int64{5, 4, 3}, tweetIDs(fc.Cache().Tweets(sel)))
}

// TestDiscardViewIgnoresInFlight - результат запроса, пришедший после сброса
// представления, не применяется к уже несуществующему состоянию
func TestDiscardViewIgnoresInFlight(t *testing.T) {
	fetcher := twoPageFetcher()
	fetcher.enter = make(chan struct{}, 1)
	fetcher.release = make(chan struct{})
	fc := NewFeedController(fetcher, &stubToggler{}, intPtr(7), 2)
	sel := models.GlobalView()

	type result struct {
		loaded bool
		err    error
	}
	done := make(chan result, 1)
	go func() {
		loaded, err := fc.LoadMore(context.Background(), sel)
		done <- result{loaded, err}
	}()

	<-fetcher.enter
	fc.DiscardView(sel)
	close(fetcher.release)

	res := <-done
	require.NoError(t, res.err)
	require.False(t, res.loaded)
	require.Nil(t, fc.Cache().Tweets(sel))
}

func TestToggleUnauthenticated(t *testing.T) {
	toggler := &stubToggler{}
	fc := NewFeedController(twoPageFetcher(), toggler, nil, 2)

	_, err := fc.Toggle(context.Background(), 5)
	require.ErrorIs(t, err, services.ErrUnauthenticated)
	require.Equal(t, 0, toggler.calls)
}

// TestToggleProjectsDelta - подтвержденный сервером toggle проецируется
// на каждое представление, содержащее твит
func TestToggleProjectsDelta(t *testing.T) {
	shared := feedTweet(10, 1, 3)
	fetcher := &stubFetcher{pages: map[string]*models.FeedPage{
		"": {Tweets: []models.FeedTweet{shared}},
	}}
	toggler := &stubToggler{result: true}
	fc := NewFeedController(fetcher, toggler, intPtr(7), 2)
	ctx := context.Background()

	global := models.GlobalView()
	profile := models.AuthorView(1)
	_, err := fc.LoadMore(ctx, global)
	require.NoError(t, err)
	_, err = fc.LoadMore(ctx, profile)
	require.NoError(t, err)

	added, err := fc.Toggle(ctx, 10)
	require.NoError(t, err)
	require.True(t, added)

	for _, sel := range []models.ViewSelector{global, profile} {
		tweets := fc.Cache().Tweets(sel)
		require.Equal(t, int64(4), tweets[0].LikeCount, "view %v", sel)
		require.True(t, tweets[0].LikedByMe, "view %v", sel)
	}

	// Снятие лайка: дельта -1, liked_by_me=false
	toggler.result = false
	added, err = fc.Toggle(ctx, 10)
	require.NoError(t, err)
	require.False(t, added)
	for _, sel := range []models.ViewSelector{global, profile} {
		tweets := fc.Cache().Tweets(sel)
		require.Equal(t, int64(3), tweets[0].LikeCount, "view %v", sel)
		require.False(t, tweets[0].LikedByMe, "view %v", sel)
	}
}

// TestToggleFailureLeavesCache - на любой ошибке toggle, включая проигранную
// гонку ConflictRetry, отображаемое состояние остается ровно как до действия
func TestToggleFailureLeavesCache(t *testing.T) {
	shared := feedTweet(10, 1, 3)
	fetcher := &stubFetcher{pages: map[string]*models.FeedPage{
		"": {Tweets: []models.FeedTweet{shared}},
	}}
	toggler := &stubToggler{err: services.ErrConflictRetry}
	fc := NewFeedController(fetcher, toggler, intPtr(7), 2)
	ctx := context.Background()

	sel := models.GlobalView()
	_, err := fc.LoadMore(ctx, sel)
	require.NoError(t, err)
	before := fc.Cache().Tweets(sel)

	_, err = fc.Toggle(ctx, 10)
	require.ErrorIs(t, err, services.ErrConflictRetry)
	require.Equal(t, before, fc.Cache().Tweets(sel))

	toggler.err = errors.New("storage timeout")
	_, err = fc.Toggle(ctx, 10)
	require.Error(t, err)
	require.Equal(t, before, fc.Cache().Tweets(sel))
}
