package main

import (
	"log"

	"go.uber.org/zap"

	"todoapi/internal/config"
	"todoapi/internal/logger"
	"todoapi/internal/server"
)

// @title           Task API
// @version         1.0
// @description     API for managing tasks grouped into categories.

// @host      localhost:5000
// @BasePath  /

// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("❌ Logger: %v", err)
	}
	defer zl.Sync()

	s, err := server.Init(cfg, zl)
	if err != nil {
		zl.Fatal("❌ Server initialization failed", zap.Error(err))
	}

	s.Run()
}
