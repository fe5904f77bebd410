package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"plantcare-service/internal/config"
	"plantcare-service/internal/database/postgres"
	redisdb "plantcare-service/internal/database/redis"
	"plantcare-service/internal/event"
	"plantcare-service/internal/handlers"
	"plantcare-service/internal/repository"
	"plantcare-service/internal/services"

	"github.com/gin-gonic/gin"
)

func setupLogging() (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	logDir := filepath.Join("/plantcare", "log", "plantcare_service")
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Error setting up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	defer db.Close()

	redisClient, err := redisdb.NewRedisClient(
		cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	defer rabbitConn.Close()

	clock := services.SystemClock()

	// repositories
	plantRepository := repository.NewPlantRepository(db)
	notificationRepository := repository.NewNotificationRepository(db)
	seasonalTaskRepository := repository.NewSeasonalTaskRepository(db)
	seenCacheRepository := repository.NewSeenCacheRepository(redisClient.GetClient())
	weatherCacheRepository := repository.NewWeatherCacheRepository(redisClient.GetClient())
	snapshotRepository := repository.NewSnapshotRepository(redisClient.GetClient())

	// events
	publisher := event.NewCarePublisher(rabbitConn)

	// services
	weatherService := services.NewWeatherService(cfg.WeatherCfg, weatherCacheRepository, clock)
	adjustmentService := services.NewAdjustmentService(notificationRepository, publisher, clock)
	seasonService := services.NewSeasonService(seasonalTaskRepository, notificationRepository, publisher, clock)
	routingClient := services.NewRoutingClient(cfg.RoutingCfg)
	routeService := services.NewRouteService(routingClient, clock)
	notificationCenter := services.NewNotificationCenter(
		notificationRepository, seenCacheRepository, publisher, clock, services.DefaultPollInterval)
	careService := services.NewCareService(
		plantRepository, snapshotRepository, weatherService, adjustmentService,
		routeService, notificationCenter, clock)

	// handlers
	careHandler := handlers.NewCareHandler(careService, seasonService, weatherService, adjustmentService)
	notificationHandler := handlers.NewNotificationHandler(notificationCenter, snapshotRepository)
	healthHandler := handlers.NewHealthHandler(publisher)

	r := gin.Default()
	careHandler.RegisterRoutes(r)
	notificationHandler.RegisterRoutes(r)
	healthHandler.RegisterRoutes(r)

	log.Printf("Starting plantcare-service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
