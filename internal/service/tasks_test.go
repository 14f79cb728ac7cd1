package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/models"
)

func TestCompleteTaskPaysDailyGain(t *testing.T) {
	setupTestDB(t)
	setNow(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	user := createTestUser(t, "923000001")
	level := createTestLevel(t, "Nível 1", 5000, 250)
	activateLevel(t, user.ID, level.ID)

	w := perform(CompleteTask, user.ID, "")
	require.Equal(t, 200, w.Code)

	requireDecimal(t, "1250", reloadUser(t, user.ID).AvailableBalance)

	count, err := models.CountTasksCompletedOn(nil, user.ID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCompleteTaskRequiresActiveLevel(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "923000001")

	w := perform(CompleteTask, user.ID, "")
	require.Equal(t, 403, w.Code)
	assert.Equal(t, "NoActiveLevel", decodeBody(t, w)["code"])

	requireDecimal(t, "1000", reloadUser(t, user.ID).AvailableBalance)
}

func TestCompleteTaskDailyLimit(t *testing.T) {
	setupTestDB(t)
	setNow(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	user := createTestUser(t, "923000001")
	level := createTestLevel(t, "Nível 1", 5000, 250)
	activateLevel(t, user.ID, level.ID)

	w := perform(CompleteTask, user.ID, "")
	require.Equal(t, 200, w.Code)

	w = perform(CompleteTask, user.ID, "")
	require.Equal(t, 409, w.Code)
	assert.Equal(t, "DailyLimitReached", decodeBody(t, w)["code"])

	// Only the first completion paid out.
	requireDecimal(t, "1250", reloadUser(t, user.ID).AvailableBalance)
}

func TestCompleteTaskResetsNextDay(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "923000001")
	level := createTestLevel(t, "Nível 1", 5000, 250)
	activateLevel(t, user.ID, level.ID)

	setNow(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	w := perform(CompleteTask, user.ID, "")
	require.Equal(t, 200, w.Code)

	setNow(t, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))
	w = perform(CompleteTask, user.ID, "")
	require.Equal(t, 200, w.Code)

	requireDecimal(t, "1500", reloadUser(t, user.ID).AvailableBalance)
}

func TestCompleteTaskPaysReferrerSubsidy(t *testing.T) {
	setupTestDB(t)
	setNow(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	level := createTestLevel(t, "Nível 1", 5000, 250)

	referrer := createTestUser(t, "923000001")
	activateLevel(t, referrer.ID, level.ID)

	worker := createTestUser(t, "923000002")
	require.NoError(t, db.DB.Model(worker).Update("invited_by_id", referrer.ID).Error)
	activateLevel(t, worker.ID, level.ID)

	w := perform(CompleteTask, worker.ID, "")
	require.Equal(t, 200, w.Code)

	got := reloadUser(t, referrer.ID)
	requireDecimal(t, "1100", got.AvailableBalance)
	requireDecimal(t, "100", got.SubsidyBalance)
}

func TestCompleteTaskSkipsInactiveReferrer(t *testing.T) {
	setupTestDB(t)
	setNow(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	level := createTestLevel(t, "Nível 1", 5000, 250)

	referrer := createTestUser(t, "923000001")

	worker := createTestUser(t, "923000002")
	require.NoError(t, db.DB.Model(worker).Update("invited_by_id", referrer.ID).Error)
	activateLevel(t, worker.ID, level.ID)

	w := perform(CompleteTask, worker.ID, "")
	require.Equal(t, 200, w.Code)

	// The worker is paid, the level-less referrer is not.
	requireDecimal(t, "1250", reloadUser(t, worker.ID).AvailableBalance)

	got := reloadUser(t, referrer.ID)
	requireDecimal(t, "1000", got.AvailableBalance)
	requireDecimal(t, "0", got.SubsidyBalance)
}

func TestGetTaskStatus(t *testing.T) {
	setupTestDB(t)
	setNow(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	user := createTestUser(t, "923000001")

	w := perform(GetTaskStatus, user.ID, "")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["has_active_level"])

	level := createTestLevel(t, "Nível 1", 5000, 250)
	activateLevel(t, user.ID, level.ID)
	perform(CompleteTask, user.ID, "")

	w = perform(GetTaskStatus, user.ID, "")
	require.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["has_active_level"])
	assert.Equal(t, float64(1), body["tasks_completed_today"])
}
