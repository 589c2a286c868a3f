package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "election-tool-backend/docs"
	"election-tool-backend/internal/common/cache"
	"election-tool-backend/internal/common/config"
	"election-tool-backend/internal/common/logger"
	"election-tool-backend/internal/common/middleware"
	electionhttp "election-tool-backend/internal/features/election/delivery/http"
	"election-tool-backend/internal/features/election/repository"
	pgrepo "election-tool-backend/internal/features/election/repository/postgres"
	redisrepo "election-tool-backend/internal/features/election/repository/redis"
	"election-tool-backend/internal/features/election/service"
	"election-tool-backend/internal/platform/payment"
	"election-tool-backend/internal/platform/postgres"
	"election-tool-backend/internal/platform/redis"
)

// @title           Election Tool API
// @version         1.0
// @description     API server for paid and gamified elections: eligibility, fees, votes and lottery draws.

// @host      localhost:8080
// @BasePath  /api/v1

// @tag.name elections
// @tag.description Election management, fees, eligibility and voting

// @tag.name draws
// @tag.description Lottery draw state and triggers

func main() {
	cfg := config.Load()

	logger.Init("election-tool-backend", cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("starting election tool backend")

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer startupCancel()

	redisClient, err := redis.Open(
		startupCtx,
		fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	var (
		elections repository.ElectionRepository
		votes     repository.VoteRepository
		progress  repository.ProgressRepository
		draws     repository.DrawRepository

		postgresClient *postgres.Client
	)

	if cfg.Postgres.DSN != "" {
		postgresClient, err = postgres.NewClient(cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer postgresClient.Close()

		elections = pgrepo.NewElectionRepository(postgresClient.DB())
		votes = pgrepo.NewVoteRepository(postgresClient.DB())
		progress = pgrepo.NewProgressRepository(postgresClient.DB())
		draws = pgrepo.NewDrawRepository(postgresClient.DB())
		logger.Info().Msg("using postgres storage")
	} else {
		elections = redisrepo.NewElectionRepository(redisClient.Client)
		votes = redisrepo.NewVoteRepository(redisClient.Client)
		progress = redisrepo.NewProgressRepository(redisClient.Client)
		draws = redisrepo.NewDrawRepository(redisClient.Client)
		logger.Info().Msg("using redis storage")
	}

	cacheService := cache.NewCacheService(redisClient.Client)
	paymentClient := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.Token)

	electionSvc := service.NewElectionService(elections, votes, progress, draws, paymentClient, cacheService)
	drawSvc := service.NewDrawService(elections, votes, draws, service.NewTicketPicker(), cfg.Draw.SweepInterval)

	drawSvc.Start()
	defer drawSvc.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Identity())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-Request-ID", "X-User-ID", "X-User-Country", "X-User-City"}
	router.Use(cors.New(corsConfig))

	handler := electionhttp.NewElectionHandler(electionSvc, drawSvc)

	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1)

	if cfg.Debug {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	setupProbes(router, postgresClient, redisClient)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}

func setupProbes(router *gin.Engine, postgresClient *postgres.Client, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "election-tool-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if postgresClient != nil {
			if err := postgresClient.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   "postgres unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "election-tool-backend",
		})
	})
}
