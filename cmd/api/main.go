package main

import (
	"context"
	"log"

	"github.com/flowforge-labs/flowforge-backend/config"
	"github.com/flowforge-labs/flowforge-backend/internal/bootstrap"
	"github.com/stripe/stripe-go/v79"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	stripe.Key = cfg.Stripe.SecretKey

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "flowforge-backend",
		Version:     cfg.App.Version,
		Cfg:         cfg,
		DB:          db,
		Redis:       rdb,
	})

	addr := ":" + cfg.Server.Port
	log.Printf("flowforge api listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
