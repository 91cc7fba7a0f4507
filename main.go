package main

import (
	"context"

	"github.com/cppla/aiblog/config"
	"github.com/cppla/aiblog/routes"
	"github.com/cppla/aiblog/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	rdb := utils.NewRedis(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	r := routes.SetupRouter(cfg, db, rdb)

	utils.Sugar.Infof("Starting server on port %s (driver=%s)", cfg.AppPort, cfg.DBDriver)
	if err := utils.GraceServer(context.Background(), ":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
