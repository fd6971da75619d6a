package handlers

import (
	"net/http"
	"strconv"

	"timeline/services"

	"github.com/gin-gonic/gin"
)

var followService = services.NewFollowService()

func followTarget(c *gin.Context) (userID, targetID int64, ok bool) {
	targetStr := c.Param("user_id")
	targetID, err := strconv.ParseInt(targetStr, 10, 64)
	if err != nil || targetID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, 0, false
	}

	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
		return 0, 0, false
	}
	return v.(int64), targetID, true
}

// FollowUser подписывает текущего пользователя на автора
func FollowUser(c *gin.Context) {
	userID, targetID, ok := followTarget(c)
	if !ok {
		return
	}

	if err := followService.Follow(c.Request.Context(), userID, targetID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": true})
}

// UnfollowUser отписывает текущего пользователя от автора
func UnfollowUser(c *gin.Context) {
	userID, targetID, ok := followTarget(c)
	if !ok {
		return
	}

	if err := followService.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": false})
}
