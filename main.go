package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messenger-service/internal/auth"
	"messenger-service/internal/db"
	"messenger-service/internal/handlers"
	"messenger-service/internal/middleware"
	"messenger-service/internal/observability"
	"messenger-service/internal/presence"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
	"messenger-service/internal/ws"
)

func main() {
	ctx := context.Background()

	shutdownTracing, err := telemetry.Init(ctx, "messenger-service", getEnv("OTLP_ENDPOINT", ""))
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	presenceStore, err := presence.NewRedisStore(getEnv("REDIS_ADDR", "localhost:6379"), getEnv("REDIS_PASSWORD", ""), 0)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer presenceStore.Close()

	if amqpURL := getEnv("AMQP_URL", ""); amqpURL != "" {
		publisher, err := observability.NewAMQPPublisher(amqpURL, getEnv("AMQP_EXCHANGE", "messenger.events"))
		if err != nil {
			log.Printf("amqp disabled: %v", err)
		} else {
			observability.SetPublisher(publisher)
			defer publisher.Close()
		}
	}

	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	contactRepo := repositories.NewContactRepo(database)

	hub := ws.NewHub()
	pipeline := ws.NewPipeline(hub, messageRepo, chatRepo)
	broadcaster := ws.NewBroadcaster(hub, presenceStore, contactRepo)
	receipts := ws.NewReadReceipts(hub, messageRepo)

	tokens := auth.NewValidator(getEnv("JWT_SECRET", "dev-secret"))
	socket := ws.NewSocketHandler(hub, pipeline, broadcaster, receipts, tokens)

	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, contactRepo, presenceStore)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("messenger-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(tokens)

	router.GET("/chats", authMiddleware, chatHandler.ListChats)
	router.POST("/chats/start", authMiddleware, chatHandler.StartChat)
	router.GET("/chats/:chat_id/messages", authMiddleware, chatHandler.GetChatMessages)

	router.GET("/ws", socket.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	port := getEnv("PORT", "8083")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
