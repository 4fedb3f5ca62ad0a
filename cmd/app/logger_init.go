package main

import (
	"github.com/greenlake-league/ledgerbot/internal/config"
	"github.com/greenlake-league/ledgerbot/internal/logger"
)

// loggerConfig derives logger settings from the app configuration.
func loggerConfig(cfg *config.Config) logger.Config {
	base := logger.ProductionConfig()
	if cfg.LogFormat == "text" {
		base = logger.DevelopmentConfig()
	}
	base.Level = cfg.LogLevel
	base.Format = cfg.LogFormat
	return base
}
