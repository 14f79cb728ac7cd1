package service

import (
	"time"

	"github.com/JoelCaquene/davenport-downs/internal/config"
	"github.com/JoelCaquene/davenport-downs/internal/models"
	"github.com/JoelCaquene/davenport-downs/pkg/redis"
)

var (
	platformLocation = time.UTC
	inviteBaseURL    = ""
	redisService     *redis.RedisService

	// Swapped out by withdrawal window tests.
	nowFunc = time.Now
)

// Init wires the per-process dependencies the handlers need: the platform
// operating timezone, the invite link base and the Redis service for the
// roulette wins feed.
func Init(cfg *config.Config, rs *redis.RedisService) {
	platformLocation = cfg.Location()
	inviteBaseURL = cfg.InviteBaseURL
	redisService = rs
}

// today returns the current calendar day in the platform's timezone. All
// daily limits key off this value.
func today() string {
	return nowFunc().In(platformLocation).Format(models.DayFormat)
}
