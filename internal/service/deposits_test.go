package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/models"
)

func TestCreateDepositStaysPending(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "923000001")

	w := perform(CreateDeposit, user.ID, `{"amount":"5000","proof_of_payment":"comprovativo.jpg"}`)
	require.Equal(t, 200, w.Code)

	var deposit models.Deposit
	require.NoError(t, db.DB.Where("user_id = ?", user.ID).First(&deposit).Error)
	assert.False(t, deposit.IsApproved)
	requireDecimal(t, "5000", deposit.Amount)

	// Nothing credited until staff approves.
	requireDecimal(t, "1000", reloadUser(t, user.ID).AvailableBalance)
}

func TestCreateDepositValidation(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "923000001")

	tests := []struct {
		name string
		body string
	}{
		{name: "negative amount", body: `{"amount":"-100","proof_of_payment":"x.jpg"}`},
		{name: "zero amount", body: `{"amount":"0","proof_of_payment":"x.jpg"}`},
		{name: "missing proof", body: `{"amount":"5000"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(CreateDeposit, user.ID, tt.body)
			assert.Equal(t, 400, w.Code)
		})
	}
}

func TestApproveDepositCreditsOnce(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "923000001")

	deposit := models.Deposit{
		UserID:         user.ID,
		Amount:         decimal.NewFromInt(5000),
		ProofOfPayment: "comprovativo.jpg",
	}
	require.NoError(t, db.DB.Create(&deposit).Error)

	w := perform(ApproveDeposit, user.ID, "", pathID(deposit.ID))
	require.Equal(t, 200, w.Code)
	requireDecimal(t, "6000", reloadUser(t, user.ID).AvailableBalance)

	// A repeated approval is acknowledged but never credits twice.
	w = perform(ApproveDeposit, user.ID, "", pathID(deposit.ID))
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "Deposit already approved", decodeBody(t, w)["message"])
	requireDecimal(t, "6000", reloadUser(t, user.ID).AvailableBalance)
}

func TestApproveDepositNotFound(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "923000001")

	w := perform(ApproveDeposit, user.ID, "", pathID(999))
	assert.Equal(t, 404, w.Code)
}

func TestGetDepositInfo(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "923000001")
	createTestLevel(t, "Nível 1", 5000, 250)
	createTestLevel(t, "Nível 2", 10000, 550)

	require.NoError(t, db.DB.Create(&models.PlatformBankDetails{
		BankName:      "BAI",
		AccountHolder: "Davenport Downs",
		IBAN:          "AO06000000000000000000001",
	}).Error)
	require.NoError(t, db.DB.Create(&models.PlatformSettings{
		DepositInstruction: "Envie o comprovativo",
	}).Error)

	w := perform(GetDepositInfo, user.ID, "")
	require.Equal(t, 200, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Envie o comprovativo", body["deposit_instruction"])
	assert.Len(t, body["platform_bank_details"].([]interface{}), 1)
	assert.Len(t, body["level_prices"].([]interface{}), 2)
}
