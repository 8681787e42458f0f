package main

import (
	log "github.com/sirupsen/logrus"

	"taskboard/internal/config"
	"taskboard/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("configure logging: %v", err)
	}

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.Fatalf("server initialization failed: %v", err)
	}

	if err := s.Run(); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
