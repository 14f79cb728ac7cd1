package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoelCaquene/davenport-downs/internal/config"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/service"
	"github.com/JoelCaquene/davenport-downs/pkg/logger"
	"github.com/JoelCaquene/davenport-downs/pkg/redis"
)

const apiPrefix = "api/"

func Start(cfg *config.Config) {
	gin.DisableConsoleColor()

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.BlockBadActorsMiddleware())

	redisService := redis.NewRedisService(cfg.RedisAddr, cfg.RedisPassword)
	service.Init(cfg, redisService)

	authorized := router.Group("/", middleware.AuthMiddleware())
	staff := authorized.Group("/", middleware.StaffOnlyMiddleware())

	// public
	{
		router.POST(apiPrefix+"users/signup", service.SignUp)
		router.POST(apiPrefix+"users/login", service.AuthLogin)
	}

	// authorized
	{
		// users
		authorized.GET(apiPrefix+"users", service.GetUser)
		authorized.GET(apiPrefix+"users/income", service.GetIncomeSummary)
		authorized.GET(apiPrefix+"users/bank", service.GetBankDetails)
		authorized.POST(apiPrefix+"users/bank", service.UpdateBankDetails)

		// tasks
		authorized.GET(apiPrefix+"tasks", service.GetTaskStatus)
		authorized.POST(apiPrefix+"tasks/complete", service.CompleteTask)

		// levels
		authorized.GET(apiPrefix+"levels", service.GetLevels)
		authorized.POST(apiPrefix+"levels/buy", service.BuyLevel)

		// deposits
		authorized.GET(apiPrefix+"deposits/info", service.GetDepositInfo)
		authorized.POST(apiPrefix+"deposits", service.CreateDeposit)
		authorized.GET(apiPrefix+"deposits", service.GetUserDeposits)

		// withdrawals
		authorized.GET(apiPrefix+"withdrawals", service.GetWithdrawals)
		authorized.POST(apiPrefix+"withdrawals", service.CreateWithdrawal)

		// roulette
		authorized.GET(apiPrefix+"roulette", service.GetRouletteInfo)
		authorized.POST(apiPrefix+"roulette/spin", service.SpinRoulette)
		authorized.GET(apiPrefix+"roulette/wins", service.GetRecentWins)

		// team
		authorized.GET(apiPrefix+"team", service.GetTeam)

		// about
		authorized.GET(apiPrefix+"about", service.About)
	}

	// staff
	{
		staff.POST(apiPrefix+"staff/deposits/:id/approve", service.ApproveDeposit)
		staff.POST(apiPrefix+"staff/withdrawals/:id/approve", service.ApproveWithdrawal)
		staff.POST(apiPrefix+"staff/withdrawals/:id/reject", service.RejectWithdrawal)
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router.Handler(),
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server Shutdown: %v", err)
	}

	logger.Info("Server exiting")
}
