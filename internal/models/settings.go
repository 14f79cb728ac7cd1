package models

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// PlatformSettings is the staff-maintained copy shown across the app. A
// single row is expected; readers take the first and fall back to zero
// values when it is missing.
type PlatformSettings struct {
	ID                    int64 `gorm:"primaryKey,autoIncrement"`
	DepositInstruction    string
	WithdrawalInstruction string
	WhatsappLink          string
	HistoryText           string
}

// PlatformBankDetails are the platform accounts users pay deposits into.
type PlatformBankDetails struct {
	ID            int64 `gorm:"primaryKey,autoIncrement"`
	BankName      string
	AccountHolder string
	IBAN          string
}

// RouletteSettings holds the staff-configured prize list as comma-separated
// decimal values.
type RouletteSettings struct {
	ID     int64 `gorm:"primaryKey,autoIncrement"`
	Prizes string
}

func GetPlatformSettings(tx *gorm.DB) (PlatformSettings, error) {
	if tx == nil {
		tx = db.DB
	}

	var settings PlatformSettings
	err := tx.First(&settings).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return PlatformSettings{}, nil
	} else if err != nil {
		return PlatformSettings{}, logger.WrapError(err, "")
	}

	return settings, nil
}

func GetPlatformBankDetails(tx *gorm.DB) ([]PlatformBankDetails, error) {
	if tx == nil {
		tx = db.DB
	}

	var details []PlatformBankDetails
	err := tx.Find(&details).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return details, nil
}

// GetRoulettePrizes resolves the active prize list: the staff-configured CSV
// when a row exists, the default pool otherwise.
func GetRoulettePrizes(tx *gorm.DB) ([]decimal.Decimal, error) {
	if tx == nil {
		tx = db.DB
	}

	var settings RouletteSettings
	err := tx.First(&settings).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultRoulettePrizes, nil
	} else if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return ParsePrizeList(settings.Prizes), nil
}
