package routes

import (
	"timeline/api/handlers"
	"timeline/api/middleware"

	"github.com/gin-gonic/gin"
)

func PublicApi(router *gin.Engine) *gin.RouterGroup {
	api := router.Group("/api/v1/")
	{
		api.POST("auth/register", handlers.Register)
		api.POST("auth/login", handlers.Login)
		api.POST("auth/logout", handlers.Logout)

		// Лента читается и анонимно - liked_by_me тогда всегда false
		api.GET("feed", middleware.OptionalAuth(), handlers.GetFeed)

		authorized := api.Group("", middleware.AuthRequired())
		{
			authorized.POST("tweets", handlers.CreateTweet)
			authorized.POST("tweets/:tweet_id/like", handlers.ToggleLike)
			authorized.POST("users/:user_id/follow", handlers.FollowUser)
			authorized.DELETE("users/:user_id/follow", handlers.UnfollowUser)
			authorized.GET("ws/feed", handlers.WSFeedHandler)
		}
	}
	return api
}
