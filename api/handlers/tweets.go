package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"timeline/api/middleware"
	"timeline/models"
	"timeline/services"

	"github.com/gin-gonic/gin"
)

var (
	tweetService = services.NewTweetService()
	feedService  = services.NewFeedService()
	likeService  = services.NewLikeService()
)

func viewerFromContext(c *gin.Context) *int64 {
	if v, exists := c.Get("user_id"); exists {
		userID := v.(int64)
		return &userID
	}
	return nil
}

// CreateTweet создает новый твит
func CreateTweet(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
		return
	}

	tweet, err := tweetService.CreateTweet(c.Request.Context(), userID.(int64), req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tweet"})
		return
	}

	c.JSON(http.StatusCreated, tweet)
}

// GetFeed отдает одну страницу ленты. Представление выбирается параметрами:
// author_id - лента профиля, only_following=true - лента подписок,
// иначе - общая лента. Работает и для анонимного запроса.
func GetFeed(c *gin.Context) {
	viewerID := viewerFromContext(c)

	sel := models.GlobalView()
	if authorIDStr := c.Query("author_id"); authorIDStr != "" {
		authorID, err := strconv.ParseInt(authorIDStr, 10, 64)
		if err != nil || authorID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author ID"})
			return
		}
		sel = models.AuthorView(authorID)
	} else if c.Query("only_following") == "true" {
		// Для анонимного запроса селектор остается без viewer -
		// движок вернет пустую страницу, а не всю ленту
		var viewer int64
		if viewerID != nil {
			viewer = *viewerID
		}
		sel = models.FollowingView(viewer)
	}

	var cursor *services.Cursor
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		decoded, err := services.DecodeCursor(cursorStr)
		if err != nil {
			middleware.RecordFeedPage(string(sel.Kind), "invalid_cursor")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
			return
		}
		cursor = &decoded
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	page, err := feedService.FetchPage(c.Request.Context(), sel, cursor, limit, viewerID)
	if err != nil {
		middleware.RecordFeedPage(string(sel.Kind), "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feed"})
		return
	}

	middleware.RecordFeedPage(string(sel.Kind), "ok")
	c.JSON(http.StatusOK, page)
}

// ToggleLike переключает лайк твита текущим пользователем
func ToggleLike(c *gin.Context) {
	tweetIDStr := c.Param("tweet_id")
	tweetID, err := strconv.ParseInt(tweetIDStr, 10, 64)
	if err != nil || tweetID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tweet ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
		return
	}

	addedLike, err := likeService.Toggle(c.Request.Context(), userID.(int64), tweetID)
	if errors.Is(err, services.ErrConflictRetry) {
		// Гонка с конкурентным toggle: клиент должен перечитать состояние,
		// а не повторять запрос
		middleware.RecordLikeToggle("conflict")
		c.JSON(http.StatusConflict, gin.H{"error": "Conflicting like toggle, re-read state"})
		return
	}
	if err != nil {
		middleware.RecordLikeToggle("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	if addedLike {
		middleware.RecordLikeToggle("liked")
	} else {
		middleware.RecordLikeToggle("unliked")
	}
	c.JSON(http.StatusOK, gin.H{"added_like": addedLike})
}
