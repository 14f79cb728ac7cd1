package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

func GetLevels(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	levels, err := models.GetAllLevels(nil)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	ownedIDs, err := models.GetActiveLevelIDs(nil, userID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{"levels": levels, "owned_level_ids": ownedIDs})
}

type buyLevelInput struct {
	LevelID int64 `json:"level_id" validate:"required"`
}

func (i *buyLevelInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

// BuyLevel debits the level price, activates the tier and pays the 15%
// commission to the buyer's referrer when that referrer holds an active
// level. The commission is computed on the purchased level's price.
func BuyLevel(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var input buyLevelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	errAlreadyOwned := errors.New("level already owned")
	errInsufficientBalance := errors.New("insufficient balance")
	errLevelNotFound := errors.New("level not found")
	referrerWithoutLevel := false

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var level models.Level
		err := tx.First(&level, input.LevelID).Error
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			return errLevelNotFound
		} else if err != nil {
			return logger.WrapError(err, "")
		}

		owned, err := models.UserHoldsLevel(tx, userID, level.ID)
		if err != nil {
			return logger.WrapError(err, "")
		}
		if owned {
			return errAlreadyOwned
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return logger.WrapError(err, "")
		}

		if user.AvailableBalance.LessThan(level.DepositValue) {
			return errInsufficientBalance
		}

		// Commission first, as the original does: the referrer is paid on
		// the purchased level's price, not the buyer's deposits.
		if user.InvitedByID != nil {
			referrerActive, err := models.UserHasActiveLevel(tx, *user.InvitedByID)
			if err != nil {
				return logger.WrapError(err, "")
			}

			if referrerActive {
				commission := level.DepositValue.Mul(models.LevelCommissionRate)
				if err := models.CreditBalanceAndSubsidy(
					tx, *user.InvitedByID, commission); err != nil {
					return logger.WrapError(err, "")
				}
			} else {
				referrerWithoutLevel = true
			}
		}

		user.AvailableBalance = user.AvailableBalance.Sub(level.DepositValue)
		user.LevelActive = true
		if err := tx.Save(&user).Error; err != nil {
			return logger.WrapError(err, "")
		}

		userLevel := models.UserLevel{
			UserID:   userID,
			LevelID:  level.ID,
			IsActive: true,
		}
		if err := tx.Create(&userLevel).Error; err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil && errors.Is(err, errLevelNotFound) {
		c.JSON(404, gin.H{"error": "Level not found"})
		return
	} else if err != nil && errors.Is(err, errAlreadyOwned) {
		c.JSON(409, gin.H{"error": "You already own this level", "code": "AlreadyOwned"})
		return
	} else if err != nil && errors.Is(err, errInsufficientBalance) {
		c.JSON(402, gin.H{"error": "Insufficient balance. Please make a deposit", "code": "InsufficientBalance"})
		return
	} else if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	resp := gin.H{"message": "Level purchased successfully"}
	if referrerWithoutLevel {
		resp["referrer_notice"] = "Your referrer received no commission (no active level)"
	}

	c.JSON(200, resp)
}
