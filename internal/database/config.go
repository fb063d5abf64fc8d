package database

import (
	"fmt"
	"net/url"

	"dwight/internal/config"
)

// postgresDSN returns the key/value connection string used by GORM.
func postgresDSN(cfg config.Database) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// MigrateURL returns the postgres:// URL golang-migrate expects.
func MigrateURL(cfg config.Database) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// MigrationsSource returns the file:// source URL for the migrations directory.
func MigrationsSource(cfg config.Database) string {
	return "file://" + cfg.MigrationsDir
}
