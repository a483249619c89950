package main

import (
	"context"
	"fmt"

	"nearbyserve/config"
	"nearbyserve/pkg/logger"
	"nearbyserve/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	defer pg.Close()

	// Development helper: wipe all collections. Requests are truncated
	// alongside recipients since historical snapshots are meaningless in
	// an empty dev database.
	_, err = pg.Pool().Exec(context.Background(), "TRUNCATE TABLE users, volunteers, requests, recipients")
	if err != nil {
		log.Error(fmt.Sprintf("Failed to truncate tables: %v", err))
	} else {
		log.Info("Successfully truncated all tables.")
	}
}
