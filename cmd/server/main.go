// Command server runs the subscription billing HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shieldstack/billing/modules/api"
	"github.com/shieldstack/billing/pkg/config"
	"github.com/shieldstack/billing/pkg/httpserver"
	"github.com/shieldstack/billing/pkg/logger"
	mongoconn "github.com/shieldstack/billing/pkg/mongo"
	redisconn "github.com/shieldstack/billing/pkg/redis"
	"github.com/shieldstack/billing/svc/billing"
	"github.com/shieldstack/billing/svc/invoice"
	"github.com/shieldstack/billing/svc/plan"
	"github.com/shieldstack/billing/svc/subscription"
	"github.com/shieldstack/billing/svc/user"
)

type appConfig struct {
	// PlanSeedFile seeds the plan catalog at startup when set. Seeding
	// is idempotent, so restarts with the same file are safe.
	PlanSeedFile string        `env:"PLAN_SEED_FILE"`
	PlanCacheTTL time.Duration `env:"PLAN_CACHE_TTL" envDefault:"5m"`
}

func main() {
	var (
		appCfg   appConfig
		logCfg   logger.Config
		httpCfg  httpserver.Config
		mongoCfg mongoconn.Config
		redisCfg redisconn.Config
		authCfg  user.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&authCfg)

	log := logger.NewFromConfig(logCfg, logger.WithAttr(slog.String("app", "billing-api")))
	logger.SetAsDefault(log)

	ctx := context.Background()

	db, err := mongoconn.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		log.Error("mongo connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	health := map[string]func(context.Context) error{
		"mongo": mongoconn.Healthcheck(db.Client()),
	}

	planRepo, err := plan.NewMongoRepository(ctx, db)
	if err != nil {
		log.Error("plan repository init failed", logger.Error(err))
		os.Exit(1)
	}

	// The plan cache is an optimization; the service runs without it
	// when redis is unreachable.
	if cache, err := redisconn.Connect(ctx, redisCfg); err != nil {
		log.Warn("redis unavailable, plan cache disabled", logger.Error(err))
	} else {
		defer func() { _ = cache.Close() }()
		planRepo = plan.NewCachedRepository(planRepo, cache, appCfg.PlanCacheTTL)
		health["redis"] = redisconn.Healthcheck(cache)
	}

	subStore, err := subscription.NewMongoStore(ctx, db)
	if err != nil {
		log.Error("subscription store init failed", logger.Error(err))
		os.Exit(1)
	}
	invoiceStore, err := invoice.NewMongoStore(ctx, db)
	if err != nil {
		log.Error("invoice store init failed", logger.Error(err))
		os.Exit(1)
	}
	userRepo, err := user.NewMongoRepository(ctx, db)
	if err != nil {
		log.Error("user repository init failed", logger.Error(err))
		os.Exit(1)
	}

	plans := plan.NewService(planRepo, log)
	users := user.NewService(userRepo, authCfg.BcryptCost, log)
	tokens, err := user.NewTokenIssuer(authCfg.TokenSecret, authCfg.TokenIssuer, authCfg.TokenTTL)
	if err != nil {
		log.Error("token issuer init failed", logger.Error(err))
		os.Exit(1)
	}
	orchestrator := billing.NewService(plans, subStore, invoiceStore, users, billing.WithLogger(log))

	if appCfg.PlanSeedFile != "" {
		params, err := plan.LoadSeedFile(appCfg.PlanSeedFile)
		if err != nil {
			log.Error("plan seed file unreadable", logger.Error(err), slog.String("path", appCfg.PlanSeedFile))
			os.Exit(1)
		}
		if err := plans.Seed(ctx, params); err != nil {
			log.Error("plan seeding failed", logger.Error(err))
			os.Exit(1)
		}
		log.Info("plan catalog seeded", slog.Int("plans", len(params)))
	}

	router := api.NewRouter(api.Deps{
		Users:   users,
		Tokens:  tokens,
		Plans:   plans,
		Billing: orchestrator,
		Health:  health,
		Logger:  log,
	})

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, router); err != nil {
		log.Error("http server exited", logger.Error(err))
		os.Exit(1)
	}
}
