package service

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// Withdrawal window, platform-local time (Luanda).
const (
	withdrawalWindowStartSec = 9 * 3600
	withdrawalWindowEndSec   = 17 * 3600
)

func withinWithdrawalWindow() bool {
	now := nowFunc().In(platformLocation)
	sec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	return sec >= withdrawalWindowStartSec && sec <= withdrawalWindowEndSec
}

// GetWithdrawals returns the user's withdrawal history together with the
// gating context the page shows (window, minimum, daily limit state).
func GetWithdrawals(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	withdrawals, err := models.GetUserWithdrawals(nil, userID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	hasBankDetails, err := models.UserHasBankDetails(nil, userID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	withdrewToday, err := models.HasWithdrawalToday(nil, userID, today())
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	settings, err := models.GetPlatformSettings(nil)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{
		"withdrawals":            withdrawals,
		"withdrawal_instruction": settings.WithdrawalInstruction,
		"has_bank_details":       hasBankDetails,
		"is_time_to_withdraw":    withinWithdrawalWindow(),
		"can_withdraw_today":     !withdrewToday,
		"min_withdrawal_amount":  models.MinWithdrawalAmount,
	})
}

type withdrawalInput struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

func (i *withdrawalInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

// CreateWithdrawal runs the five gates in their fixed order and, when all
// pass, debits the balance and records the Pendente request in one
// transaction. The partial unique index backs up the daily-limit check
// against concurrent requests.
func CreateWithdrawal(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var input withdrawalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	errDailyLimit := errors.New("daily withdrawal limit reached")
	errOutsideWindow := errors.New("outside withdrawal window")
	errMissingBankDetails := errors.New("missing bank details")
	errBelowMinimum := errors.New("below minimum withdrawal amount")
	errInsufficientBalance := errors.New("insufficient balance")

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		withdrewToday, err := models.HasWithdrawalToday(tx, userID, today())
		if err != nil {
			return logger.WrapError(err, "")
		}
		if withdrewToday {
			return errDailyLimit
		}

		if !withinWithdrawalWindow() {
			return errOutsideWindow
		}

		hasBankDetails, err := models.UserHasBankDetails(tx, userID)
		if err != nil {
			return logger.WrapError(err, "")
		}
		if !hasBankDetails {
			return errMissingBankDetails
		}

		if input.Amount.LessThan(models.MinWithdrawalAmount) {
			return errBelowMinimum
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return logger.WrapError(err, "")
		}

		if user.AvailableBalance.LessThan(input.Amount) {
			return errInsufficientBalance
		}

		user.AvailableBalance = user.AvailableBalance.Sub(input.Amount)
		if err := tx.Save(&user).Error; err != nil {
			return logger.WrapError(err, "")
		}

		withdrawal := models.Withdrawal{
			UserID:      userID,
			Amount:      input.Amount,
			Status:      models.WithdrawalStatusPending,
			RequestDate: today(),
			CreatedAt:   nowFunc(),
		}

		if err := tx.Create(&withdrawal).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDailyLimit
			}
			return logger.WrapError(err, "")
		}

		return nil
	})

	switch {
	case err == nil:
		c.JSON(200, gin.H{"message": "Withdrawal requested. You can request again tomorrow"})
	case errors.Is(err, errDailyLimit):
		c.JSON(409, gin.H{"error": "You already requested a withdrawal today. Only 1 withdrawal per day is allowed", "code": "DailyWithdrawalLimitReached"})
	case errors.Is(err, errOutsideWindow):
		c.JSON(403, gin.H{"error": "Withdrawals are open from 09:00 to 17:00 (Luanda time)", "code": "OutsideWithdrawalWindow"})
	case errors.Is(err, errMissingBankDetails):
		c.JSON(412, gin.H{"error": "Please add your bank details before requesting a withdrawal", "code": "MissingBankDetails"})
	case errors.Is(err, errBelowMinimum):
		c.JSON(400, gin.H{"error": "The minimum withdrawal amount is " + models.MinWithdrawalAmount.StringFixed(2) + " KZ", "code": "BelowMinimum"})
	case errors.Is(err, errInsufficientBalance):
		c.JSON(402, gin.H{"error": "Insufficient balance", "code": "InsufficientBalance"})
	default:
		logger.Error("%v", err)
		c.Status(500)
	}
}

// ApproveWithdrawal marks a Pendente withdrawal Aprovado. The money already
// left the balance at request time, so approval is status-only.
func ApproveWithdrawal(c *gin.Context) {
	withdrawalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid withdrawal id"})
		return
	}

	errNotPending := errors.New("withdrawal is not pending")

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var withdrawal models.Withdrawal
		if err := tx.First(&withdrawal, withdrawalID).Error; err != nil {
			return err
		}

		if withdrawal.Status != models.WithdrawalStatusPending {
			return errNotPending
		}

		withdrawal.Status = models.WithdrawalStatusApproved
		if err := tx.Save(&withdrawal).Error; err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(404, gin.H{"error": "Withdrawal not found"})
		return
	} else if err != nil && errors.Is(err, errNotPending) {
		c.JSON(409, gin.H{"error": "Withdrawal already resolved"})
		return
	} else if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.Status(200)
}

// RejectWithdrawal marks a Pendente withdrawal Rejeitado and refunds the
// amount debited at request time. A rejected request frees the user's daily
// slot again.
func RejectWithdrawal(c *gin.Context) {
	withdrawalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid withdrawal id"})
		return
	}

	errNotPending := errors.New("withdrawal is not pending")

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var withdrawal models.Withdrawal
		if err := tx.First(&withdrawal, withdrawalID).Error; err != nil {
			return err
		}

		if withdrawal.Status != models.WithdrawalStatusPending {
			return errNotPending
		}

		if err := withdrawal.Refund(tx); err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(404, gin.H{"error": "Withdrawal not found"})
		return
	} else if err != nil && errors.Is(err, errNotPending) {
		c.JSON(409, gin.H{"error": "Withdrawal already resolved"})
		return
	} else if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.Status(200)
}
