package main

import (
	"context"
	"log"

	"jobmatch-backend/internal/bootstrap"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	app.Manager.StartSweeper(context.Background(), cfg.SweepInterval)

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
