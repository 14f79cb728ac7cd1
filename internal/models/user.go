package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

var validate = validator.New()

// Every account starts with 1000 KZ of welcome balance.
var StartingBalance = decimal.NewFromInt(1000)

// Fixed subsidy paid to the referrer each time a referred user completes a
// daily task. Independent of the task's own earnings.
var TaskReferralSubsidy = decimal.NewFromInt(100)

type User struct {
	ID               int64  `gorm:"primaryKey,autoIncrement"`
	PhoneNumber      string `gorm:"unique"`
	Password         string `json:"-"`
	InviteCode       string `gorm:"unique"`
	InvitedByID      *int64 `gorm:"index"`
	InvitedBy        *User  `gorm:"foreignKey:InvitedByID"`
	AvailableBalance decimal.Decimal `gorm:"type:decimal(12,2)"`
	SubsidyBalance   decimal.Decimal `gorm:"type:decimal(12,2)"`
	RouletteSpins    int
	LevelActive      bool
	IsStaff          bool
	CreatedAt        time.Time
}

func (u *User) Validate() error {
	return validate.Struct(u)
}

func CheckIfUserExistsByID(userID int64) (bool, error) {
	var exists bool
	err := db.DB.Model(&User{}).
		Select("count(*) > 0").
		Where("id = ?", userID).
		Scan(&exists).Error
	if err != nil {
		return true, logger.WrapError(err, "")
	}

	return exists, nil
}

func GetUserWithPassword(phoneNumber string) (*User, error) {
	var user User

	err := db.DB.
		Where("phone_number = ?", phoneNumber).
		First(&user).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	return &user, nil
}

func CheckIfUserExistsByPhoneNumber(pn string) (bool, error) {
	var exists bool

	err := db.DB.Model(&User{}).
		Select("count(*) > 0").
		Where("phone_number = ?", pn).
		Scan(&exists).Error
	if err != nil {
		return true, logger.WrapError(err, "")
	}

	return exists, nil
}

func GetUserByInviteCode(tx *gorm.DB, inviteCode string) (*User, error) {
	if tx == nil {
		tx = db.DB
	}

	var user User
	err := tx.Where("invite_code = ?", inviteCode).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CreditBalance adds amount to the user's available balance without reading
// the row first, so concurrent credits cannot lose updates.
func CreditBalance(tx *gorm.DB, userID int64, amount decimal.Decimal) error {
	if tx == nil {
		tx = db.DB
	}

	err := tx.Model(&User{}).
		Where("id = ?", userID).
		Update("available_balance",
			gorm.Expr("available_balance + ?", amount)).Error
	if err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}

// CreditBalanceAndSubsidy adds amount to both the available balance and the
// cumulative subsidy balance. Commission and prize payouts go through here.
func CreditBalanceAndSubsidy(tx *gorm.DB, userID int64, amount decimal.Decimal) error {
	if tx == nil {
		tx = db.DB
	}

	err := tx.Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"available_balance": gorm.Expr("available_balance + ?", amount),
			"subsidy_balance":   gorm.Expr("subsidy_balance + ?", amount),
		}).Error
	if err != nil {
		return logger.WrapError(err, "")
	}

	return nil
}
