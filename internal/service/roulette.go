package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

const rouletteWinTTL = 1 * time.Hour

// RouletteWinData is one prize draw pushed to the recent wins feed.
type RouletteWinData struct {
	PhoneNumber string
	Prize       decimal.Decimal
	Timestamp   int64
}

// GetRouletteInfo returns the spins the user holds and the active prize list.
func GetRouletteInfo(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	prizes, err := models.GetRoulettePrizes(nil)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, gin.H{
		"roulette_spins": user.RouletteSpins,
		"prizes":         prizes,
	})
}

// SpinRoulette consumes one spin credit and pays a weighted random prize to
// both balances. The decrement is conditional on roulette_spins > 0, so two
// concurrent spins cannot share one credit.
func SpinRoulette(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	errNoSpinsAvailable := errors.New("no spins available")
	var prize decimal.Decimal

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND roulette_spins > 0", userID).
			Update("roulette_spins", gorm.Expr("roulette_spins - 1"))
		if res.Error != nil {
			return logger.WrapError(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return errNoSpinsAvailable
		}

		prizes, err := models.GetRoulettePrizes(tx)
		if err != nil {
			return logger.WrapError(err, "")
		}

		prize, err = models.DrawPrize(prizes)
		if err != nil {
			return logger.WrapError(err, "")
		}

		roulette := models.Roulette{
			UserID:     userID,
			Prize:      prize,
			IsApproved: true,
		}
		if err := tx.Create(&roulette).Error; err != nil {
			return logger.WrapError(err, "")
		}

		if err := models.CreditBalanceAndSubsidy(tx, userID, prize); err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil && errors.Is(err, errNoSpinsAvailable) {
		c.JSON(403, gin.H{"error": "No spins available", "code": "NoSpinsAvailable"})
		return
	} else if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	publishRouletteWin(user.PhoneNumber, prize)

	c.JSON(200, gin.H{"prize": prize, "message": fmt.Sprintf("Congratulations! You won %s KZ", prize.StringFixed(2))})
}

// publishRouletteWin pushes a win to the expiring Redis feed. Best effort:
// the draw already happened, a feed failure only costs visibility.
func publishRouletteWin(phoneNumber string, prize decimal.Decimal) {
	if redisService == nil {
		return
	}

	winData := RouletteWinData{
		PhoneNumber: phoneNumber,
		Prize:       prize,
		Timestamp:   time.Now().UnixNano() / int64(time.Millisecond),
	}

	winDataJSON, err := json.Marshal(winData)
	if err != nil {
		logger.Error("Failed to marshal win data: %v", err)
		return
	}

	winKey := fmt.Sprintf("roulette:win:%d", winData.Timestamp)
	if err := redisService.SetKey(context.Background(), winKey, string(winDataJSON), rouletteWinTTL); err != nil {
		logger.Error("%v", err)
	}
}

// GetRecentWins lists the wins still alive in the Redis feed.
func GetRecentWins(c *gin.Context) {
	if redisService == nil {
		c.JSON(200, []RouletteWinData{})
		return
	}

	raw, err := redisService.GetByPattern(c.Request.Context(), "roulette:win:*")
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	wins := make([]RouletteWinData, 0, len(raw))
	for _, item := range raw {
		var win RouletteWinData
		if err := json.Unmarshal([]byte(item), &win); err != nil {
			logger.Error("Failed to unmarshal win data: %v", err)
			continue
		}
		wins = append(wins, win)
	}

	c.JSON(200, wins)
}
