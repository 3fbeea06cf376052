// main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/milleralan1/sales-prediction-api/config"
	_ "github.com/milleralan1/sales-prediction-api/docs"
	"github.com/milleralan1/sales-prediction-api/internal/database"
	"github.com/milleralan1/sales-prediction-api/internal/handlers"
	"github.com/milleralan1/sales-prediction-api/internal/middleware"
	"github.com/milleralan1/sales-prediction-api/internal/mqtt_client"
	"github.com/milleralan1/sales-prediction-api/internal/services"
)

// @title Sales Prediction API
// @version 1.0
// @description Сервис прогноза продаж магазинов по категориальным атрибутам и дате
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitLogger()
	slog.Info("Starting sales prediction service", "version", "1.0.0")

	cfg := config.Load()
	slog.Info("Configuration loaded successfully",
		"server_port", cfg.Server.Port,
		"db_host", cfg.Database.Host,
		"model_path", cfg.Model.ArtifactPath,
	)

	// Подключение к БД
	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Ошибка подключения к БД", "error", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(db); err != nil {
		slog.Error("Ошибка миграций", "error", err)
		os.Exit(1)
	}

	// Инициализация сервисов
	dataService := services.NewDataService(db)
	predictionService := services.NewPredictionService(cfg.Model.ArtifactPath, dataService)

	// Модель загружается один раз при старте; без модели сервис запускается,
	// но на каждый прогноз отвечает 503
	if err := predictionService.LoadModel(); err != nil {
		slog.Error("Модель не загружена, прогнозы будут недоступны", "error", err)
	}

	// MQTT-прием наблюдений для следующего переобучения
	if cfg.MQTT.Enabled {
		ingestHandler := handlers.NewSalesIngestHandler(dataService)
		mqttClient, err := mqtt_client.InitClient(cfg.MQTT, ingestHandler.Handle)
		if err != nil {
			slog.Error("Ошибка подключения к MQTT, прием наблюдений отключен", "error", err)
		} else {
			defer mqttClient.Disconnect(250)
			slog.Info("MQTT клиент подключен", "broker", cfg.MQTT.Broker)
		}
	}

	// Настройка роутера
	gin.SetMode(cfg.Server.Mode)
	predictHandler := handlers.NewPredictHandler(predictionService, dataService)
	jwtMiddleware := middleware.NewJWTMiddleware(cfg.JWT.Secret)
	router := handlers.SetupRoutes(predictHandler, jwtMiddleware)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server gracefully stopped")
}
