package main

import (
	"context"
	"os"
	"strconv"
	"time"

	_ "github.com/WandevPB/brisagenda-backend/api/swagger" // swagger docs
	"github.com/WandevPB/brisagenda-backend/internal/database"
	"github.com/WandevPB/brisagenda-backend/internal/handler"
	"github.com/WandevPB/brisagenda-backend/internal/middleware"
	"github.com/WandevPB/brisagenda-backend/internal/repository"
	"github.com/WandevPB/brisagenda-backend/internal/service"
	"github.com/WandevPB/brisagenda-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultRetentionDays = 90

// @title           Brisagenda API
// @version         1.0
// @description     Delivery-appointment scheduling API for distribution centers.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := godotenv.Load("configs/.env"); err != nil {
		zlog.Info().Msg("no configs/.env file found")
	}

	dsn := buildDSN()
	db, err := database.NewConnection(dsn)
	if err != nil {
		zlog.Fatal().Err(err).Msg("database connection failed")
	}
	zlog.Info().Msg("connected to PostgreSQL")

	if err := database.EnsureAdmin(context.Background(),
		db,
		envOr("ADMIN_USERNAME", "admin"),
		envOr("ADMIN_PASSWORD", "admin"),
	); err != nil {
		zlog.Fatal().Err(err).Msg("failed to seed admin account")
	}

	retentionDays := defaultRetentionDays
	if v, err := strconv.Atoi(os.Getenv("RETENTION_DAYS")); err == nil && v > 0 {
		retentionDays = v
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	windowRepo := repository.NewBlockedWindowRepository(db)

	appointmentService := service.NewAppointmentService(appointmentRepo, windowRepo, txManager, wsHub, retentionDays)
	deliveryService := service.NewDeliveryService(appointmentRepo, wsHub)
	windowService := service.NewBlockedWindowService(windowRepo, appointmentRepo, txManager)
	authService := service.NewAuthService(userRepo)

	appointmentHandler := handler.NewAppointmentHandler(appointmentService, windowService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	authHandler := handler.NewAuthHandler(authService)

	// Daily retention cleanup outside the request path
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create scheduler")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			if _, err := appointmentService.PurgeOld(context.Background()); err != nil {
				zlog.Error().Err(err).Msg("retention cleanup failed")
			}
		}),
	)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to schedule retention cleanup")
	}
	scheduler.Start()

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origins)
	}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	appointmentHandler.RegisterRoutes(router.Group(""))
	deliveryHandler.RegisterRoutes(router.Group(""))
	authHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")
	zlog.Info().Str("port", port).Msg("server listening")
	if err := router.Run(":" + port); err != nil {
		zlog.Fatal().Err(err).Msg("server failed")
	}
}

func buildDSN() string {
	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := envOr("DB_PASSWORD", "postgres")
	name := envOr("DB_NAME", "brisagenda")
	sslMode := envOr("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
