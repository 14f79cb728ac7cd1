package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/models"
)

func TestGetIncomeSummary(t *testing.T) {
	setupTestDB(t)
	setNow(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	user := createTestUser(t, "923000001")
	level := createTestLevel(t, "Nível 1", 5000, 250)
	activateLevel(t, user.ID, level.ID)

	require.NoError(t, db.DB.Create(&models.Deposit{
		UserID:     user.ID,
		Amount:     decimal.NewFromInt(5000),
		IsApproved: true,
	}).Error)
	require.NoError(t, db.DB.Create(&models.Deposit{
		UserID: user.ID,
		Amount: decimal.NewFromInt(9999),
	}).Error)

	require.NoError(t, db.DB.Create(&models.Task{
		UserID:   user.ID,
		Earnings: decimal.NewFromInt(250),
		TaskDate: "2026-03-02",
	}).Error)
	require.NoError(t, db.DB.Create(&models.Task{
		UserID:   user.ID,
		Earnings: decimal.NewFromInt(250),
		TaskDate: "2026-03-01",
	}).Error)

	require.NoError(t, db.DB.Create(&models.Withdrawal{
		UserID:      user.ID,
		Amount:      decimal.NewFromInt(2500),
		Status:      models.WithdrawalStatusApproved,
		RequestDate: "2026-03-01",
	}).Error)

	require.NoError(t, db.DB.Model(user).Update("subsidy_balance", decimal.NewFromInt(100)).Error)

	w := perform(GetIncomeSummary, user.ID, "")
	require.Equal(t, 200, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "5000", body["approved_deposit_total"], "pending deposits excluded")
	assert.Equal(t, "250", body["daily_income"], "only today's tasks")
	assert.Equal(t, "2500", body["total_withdrawals"])
	assert.Equal(t, "600", body["total_income"], "all task earnings plus subsidy")
	assert.NotNil(t, body["active_level"])
}

func TestAbout(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, db.DB.Create(&models.PlatformSettings{
		HistoryText: "Fundada em 2023.",
	}).Error)

	w := perform(About, 0, "")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "Fundada em 2023.", decodeBody(t, w)["history_text"])
}
