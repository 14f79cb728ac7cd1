package models

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoelCaquene/davenport-downs/pkg/logger"
)

// Prizes at or below this value enter the draw pool three times, tripling
// their odds relative to larger prizes.
var smallPrizeThreshold = decimal.NewFromInt(1000)

// Fallback pool used when staff configured no prize list.
var DefaultRoulettePrizes = []decimal.Decimal{
	decimal.NewFromInt(100),
	decimal.NewFromInt(200),
	decimal.NewFromInt(300),
	decimal.NewFromInt(500),
	decimal.NewFromInt(1000),
	decimal.NewFromInt(2000),
}

// Roulette records one prize draw. Prizes are credited immediately, so the
// record is always approved on creation.
type Roulette struct {
	ID         int64           `gorm:"primaryKey,autoIncrement"`
	UserID     int64           `gorm:"index;not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Prize      decimal.Decimal `gorm:"type:decimal(12,2)"`
	IsApproved bool
	CreatedAt  time.Time
}

// ParsePrizeList parses the staff-configured comma-separated prize values.
// An empty or unparsable list falls back to DefaultRoulettePrizes.
func ParsePrizeList(csv string) []decimal.Decimal {
	if strings.TrimSpace(csv) == "" {
		return DefaultRoulettePrizes
	}

	var prizes []decimal.Decimal
	for _, part := range strings.Split(csv, ",") {
		prize, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			logger.Warn("Skipping unparsable roulette prize %q", part)
			continue
		}
		prizes = append(prizes, prize)
	}

	if len(prizes) == 0 {
		return DefaultRoulettePrizes
	}

	return prizes
}

// BuildWeightedPool expands the prize list into the draw pool, repeating
// small prizes three times.
func BuildWeightedPool(prizes []decimal.Decimal) []decimal.Decimal {
	var pool []decimal.Decimal
	for _, prize := range prizes {
		if prize.LessThanOrEqual(smallPrizeThreshold) {
			pool = append(pool, prize, prize, prize)
		} else {
			pool = append(pool, prize)
		}
	}
	return pool
}

// DrawPrize picks one prize uniformly from the weighted pool.
func DrawPrize(prizes []decimal.Decimal) (decimal.Decimal, error) {
	pool := BuildWeightedPool(prizes)
	if len(pool) == 0 {
		return decimal.Zero, errors.New("empty roulette prize pool")
	}

	return pool[rand.Intn(len(pool))], nil
}
