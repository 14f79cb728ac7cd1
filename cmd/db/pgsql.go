package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/internal/config"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

var DB *gorm.DB

// Connect opens the PostgreSQL connection and assigns the package-wide DB
// handle. Tests replace DB with their own handle instead of calling Connect.
func Connect(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return logger.WrapError(err, "unable to open postgres connection")
	}

	return nil
}
