// @title                       CRM API
// @version                     1.0
// @description                 Role-based CRM: users, leads and tasks behind bearer-token auth.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/relaycrm/crm-api/docs"
	"github.com/relaycrm/crm-api/internal/api"
	"github.com/relaycrm/crm-api/internal/api/handler"
	"github.com/relaycrm/crm-api/internal/core/ports"
	"github.com/relaycrm/crm-api/internal/core/service"
	"github.com/relaycrm/crm-api/internal/infrastructure/config"
	"github.com/relaycrm/crm-api/internal/infrastructure/db/mongo"
	"github.com/relaycrm/crm-api/internal/infrastructure/db/redis"
	"github.com/relaycrm/crm-api/internal/infrastructure/security"
	"github.com/relaycrm/crm-api/pkg/logger"
)

const (
	serviceName     = "crm-api"
	shutdownTimeout = 15 * time.Second
	probeTimeout    = 2 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Service: serviceName})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	probes := []handler.Probe{{
		Name: "mongo",
		Check: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}}

	// The analytics cache is optional: without Redis every summary request
	// goes to Mongo.
	var cache ports.AnalyticsCache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, analytics cache disabled")
		} else {
			defer rdb.Close()
			cache = redis.NewAnalyticsCache(rdb, cfg.Analytics.CacheTTL)
			probes = append(probes, handler.Probe{
				Name: "redis",
				Check: func(ctx context.Context) error {
					return redis.Ping(ctx, rdb, probeTimeout)
				},
			})
		}
	}

	hasher, err := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid bcrypt cost")
	}
	tokens, err := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token settings")
	}

	userRepo := mongo.NewUserRepository(db)
	leadRepo := mongo.NewLeadRepository(db)
	taskRepo := mongo.NewTaskRepository(db)
	analyticsRepo := mongo.NewAnalyticsRepository(db)

	svcLog := logger.Component("service")
	e := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(userRepo, hasher, tokens, svcLog),
		Users:       service.NewUserService(userRepo, hasher, svcLog),
		Leads:       service.NewLeadService(leadRepo, userRepo, svcLog),
		Tasks:       service.NewTaskService(taskRepo, userRepo, svcLog),
		Analytics:   service.NewAnalyticsService(analyticsRepo, cache, svcLog),
		Probes:      probes,
		Logger:      logger.Component("http"),
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
