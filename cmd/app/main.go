package main

import (
	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/app"
	"github.com/JoelCaquene/davenport-downs/internal/config"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := db.Connect(cfg); err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	app.Start(cfg)
}
