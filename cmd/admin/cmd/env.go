package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vaibhavguptahere/smacad-test/internal/app"
	"github.com/vaibhavguptahere/smacad-test/internal/config"
	"github.com/vaibhavguptahere/smacad-test/internal/db"
	"github.com/vaibhavguptahere/smacad-test/internal/logger"
)

// loadConfig reads the same environment as the server and installs a text
// logger so command output stays readable.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Options{Development: true})
	return cfg
}

// openDB connects without migrating; commands that need the schema run
// migrations themselves.
func openDB(cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// openApp builds the full application, storage included.
func openApp() (*app.App, error) {
	return app.New(loadConfig())
}
