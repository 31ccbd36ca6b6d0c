package main

import (
	"context"
	"github.com/partycurrency/payment-service/internal/app"
	"github.com/partycurrency/payment-service/internal/config"
	"github.com/partycurrency/payment-service/internal/di"
	"github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/infrastructure/api/routers"
	"github.com/partycurrency/payment-service/internal/infrastructure/database/db_client"
	"github.com/partycurrency/payment-service/pkg/log"
)

const (
	appName = "party-currency-payments"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	log.Init(appName, log.WithConsoleLogger())
	logger := log.GetLogger()

	pgClient := db_client.NewPGClient(cfg.PostgreSQL)
	db, err := pgClient.Connect(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg(errors.ErrorFailedToConnectToTheDatabase)
	}

	container := di.NewContainer(db, cfg)

	sweeper := app.NewPendingSweeper(container.ReconcileInteractor, cfg.Sweep)
	go sweeper.Run(ctx)

	router := routers.NewRouter(container)
	service := app.NewService(cfg)
	service.Run(ctx, router)
}
