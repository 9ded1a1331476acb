package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"adventure-server/internal/config"
	"adventure-server/internal/game"
	"adventure-server/internal/handler"
	"adventure-server/internal/image"
	"adventure-server/internal/logger"
	"adventure-server/internal/story"
	"adventure-server/internal/ws"
)

func main() {
	_ = godotenv.Load()
	log.Println("Запуск Adventure Server...")

	// Конфиг загружаем ДО инициализации логгера
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// Конфигурационный сигнал: без бэкенда генерации сессия стартует в
	// деградированном режиме и не восстанавливается до перезапуска процесса.
	available := cfg.AIConfigured() && cfg.ImageServerBaseURL != ""

	var storySvc game.StoryService
	var imageSvc game.ImageService
	if available {
		aiClient, err := story.NewAIClient(cfg, zapLogger)
		if err != nil {
			zapLogger.Fatal("Не удалось создать AI клиент", zap.Error(err))
		}
		storySvc = story.NewService(aiClient, cfg, zapLogger)

		imageSvc, err = image.NewService(cfg, zapLogger)
		if err != nil {
			zapLogger.Fatal("Не удалось создать сервис изображений", zap.Error(err))
		}
	} else {
		zapLogger.Error("Generative backend is not configured, session will run degraded")
	}

	controller := game.NewController(storySvc, imageSvc, available, zapLogger)

	// WebSocket push: каждое зафиксированное изменение состояния уходит
	// всем подключенным клиентам презентации.
	wsManager := ws.NewConnectionManager(zapLogger)
	controller.OnChange(func(s game.SessionState) {
		payload, err := json.Marshal(handler.NewStateResponse(s))
		if err != nil {
			zapLogger.Error("Failed to marshal state snapshot", zap.Error(err))
			return
		}
		wsManager.Broadcast(payload)
	})
	wsHandler := ws.NewHandler(wsManager, zapLogger, func() []byte {
		payload, err := json.Marshal(handler.NewStateResponse(controller.Snapshot()))
		if err != nil {
			return nil
		}
		return payload
	})

	// Настройка Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(handler.EchoZapLogger(zapLogger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	gameHandler := handler.NewGameHandler(controller, zapLogger)
	gameHandler.RegisterRoutes(e)
	e.GET("/ws", wsHandler.ServeWS)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Начальный фетч истории; в деградированном режиме операция лишь
	// зафиксирует критическую ошибку.
	controller.Start(context.Background())

	go func() {
		zapLogger.Info("Adventure server listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Ошибка запуска HTTP сервера", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Остановка Adventure Server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Ошибка при остановке HTTP сервера", zap.Error(err))
	}
	zapLogger.Info("Adventure Server остановлен")
}
