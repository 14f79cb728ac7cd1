package main

import (
	"github.com/shopspring/decimal"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/config"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

func main() {
	cfg := config.Load()
	if err := db.Connect(cfg); err != nil {
		logger.Fatal("%v", err)
	}

	createTables()
	seedLevels()
	seedSettings()

	logger.Info("Migrated.")
}

func createTables() {
	err := db.DB.AutoMigrate(
		&models.User{},
		&models.Level{},
		&models.UserLevel{},
		&models.Deposit{},
		&models.Withdrawal{},
		&models.Task{},
		&models.Roulette{},
		&models.BankDetails{},
		&models.PlatformSettings{},
		&models.PlatformBankDetails{},
		&models.RouletteSettings{},
	)
	if err != nil {
		logger.Fatal("%v", err)
	}
}

func kz(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// seedLevels installs the launch catalog. Staff manages it afterwards.
func seedLevels() {
	var count int64
	db.DB.Model(&models.Level{}).Count(&count)
	if count > 0 {
		return
	}

	levels := []models.Level{
		{Name: "Nível 1", DepositValue: kz(5000), DailyGain: kz(250)},
		{Name: "Nível 2", DepositValue: kz(10000), DailyGain: kz(550)},
		{Name: "Nível 3", DepositValue: kz(25000), DailyGain: kz(1450)},
		{Name: "Nível 4", DepositValue: kz(50000), DailyGain: kz(3000)},
		{Name: "Nível 5", DepositValue: kz(100000), DailyGain: kz(6500)},
		{Name: "Nível 6", DepositValue: kz(200000), DailyGain: kz(14000)},
	}

	for i := range levels {
		if err := db.DB.Create(&levels[i]).Error; err != nil {
			logger.Fatal("%v", err)
		}
	}
}

func seedSettings() {
	var count int64
	db.DB.Model(&models.RouletteSettings{}).Count(&count)
	if count == 0 {
		if err := db.DB.Create(&models.RouletteSettings{
			Prizes: "100, 200, 300, 500, 1000, 2000",
		}).Error; err != nil {
			logger.Fatal("%v", err)
		}
	}

	db.DB.Model(&models.PlatformSettings{}).Count(&count)
	if count == 0 {
		if err := db.DB.Create(&models.PlatformSettings{}).Error; err != nil {
			logger.Fatal("%v", err)
		}
	}
}
