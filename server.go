package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"timeline/api/middleware"
	"timeline/api/routes"
	"timeline/config"
	"timeline/db"
	"timeline/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	// Redis и RabbitMQ опциональны: без них не работают только хук
	// инвалидации профилей и push-лента
	if err := services.InitRedis(); err != nil {
		log.Printf("WARN: Redis unavailable, profile revalidation disabled: %v", err)
	}
	if err := services.InitRabbitMQ(); err != nil {
		log.Printf("WARN: RabbitMQ unavailable, ws fallback will be used: %v", err)
	} else {
		if err := services.StartTweetEventConsumer(context.Background(), "tweet_events_ws"); err != nil {
			log.Printf("WARN: failed to start tweet event consumer: %v", err)
		}
	}

	router := gin.Default()
	router.Use(middleware.PrometheusMiddleware("timeline"))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.PublicApi(router)

	addr := ":8080"
	if config.AppConfig.Backend.Port != 0 {
		addr = fmt.Sprintf("%s:%d", config.AppConfig.Backend.Host, config.AppConfig.Backend.Port)
	}
	if err := router.Run(addr); err != nil {
		panic(err)
	}
}
