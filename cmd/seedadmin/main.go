// Command seedadmin creates the first admin account. It is idempotent: when
// the email already belongs to an account nothing is changed.
//
// Usage:
//
//	SEED_ADMIN_EMAIL=root@crm.local SEED_ADMIN_PASSWORD=changeme BCRYPT_COST=12 go run ./cmd/seedadmin
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/relaycrm/crm-api/internal/core/service"
	"github.com/relaycrm/crm-api/internal/infrastructure/config"
	"github.com/relaycrm/crm-api/internal/infrastructure/db/mongo"
	"github.com/relaycrm/crm-api/internal/infrastructure/security"
	"github.com/relaycrm/crm-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	log := logger.Init(logger.Options{Pretty: true, Service: "seedadmin"})

	cfg, err := config.LoadSeed(ctx, envconfig.OsLookuper())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "seedadmin",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	hasher, err := security.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid bcrypt cost")
	}

	users := service.NewUserService(mongo.NewUserRepository(db), hasher, log)
	admin, created, err := users.EnsureAdmin(ctx, cfg.Name, cfg.Email, cfg.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	if !created {
		log.Info().Str("email", admin.Email).Str("role", string(admin.Role)).Msg("account already exists, nothing to do")
		return
	}
	log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("admin created")
}
