package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
	"github.com/JoelCaquene/davenport-downs/internal/middleware"
	"github.com/JoelCaquene/davenport-downs/internal/models"
)

func TestSignUpGrantsStartingBalance(t *testing.T) {
	setupTestDB(t)

	w := perform(SignUp, 0, `{"phone_number":"923000001","password":"secret1"}`)
	require.Equal(t, 200, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["access_token"])

	user, err := models.GetUserWithPassword("923000001")
	require.NoError(t, err)
	requireDecimal(t, "1000", user.AvailableBalance)
	requireDecimal(t, "0", user.SubsidyBalance)
	assert.Len(t, user.InviteCode, inviteCodeLength)
	assert.Nil(t, user.InvitedByID)
}

func TestSignUpLinksReferral(t *testing.T) {
	setupTestDB(t)

	referrer := createTestUser(t, "923000001")

	body := fmt.Sprintf(`{"phone_number":"923000002","password":"secret1","invite_code":"%s"}`,
		referrer.InviteCode)
	w := perform(SignUp, 0, body)
	require.Equal(t, 200, w.Code)

	user, err := models.GetUserWithPassword("923000002")
	require.NoError(t, err)
	require.NotNil(t, user.InvitedByID)
	assert.Equal(t, referrer.ID, *user.InvitedByID)
}

func TestSignUpRejectsUnknownInviteCode(t *testing.T) {
	setupTestDB(t)

	w := perform(SignUp, 0, `{"phone_number":"923000001","password":"secret1","invite_code":"nosuch00"}`)
	require.Equal(t, 400, w.Code)

	exists, err := models.CheckIfUserExistsByPhoneNumber("923000001")
	require.NoError(t, err)
	assert.False(t, exists, "rejected signup must not create the user")
}

func TestSignUpRejectsDuplicatePhoneNumber(t *testing.T) {
	setupTestDB(t)

	createTestUser(t, "923000001")

	w := perform(SignUp, 0, `{"phone_number":"923000001","password":"secret1"}`)
	assert.Equal(t, 409, w.Code)
}

func TestSignUpValidatesInput(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "short password", body: `{"phone_number":"923000001","password":"abc"}`},
		{name: "short phone number", body: `{"phone_number":"12345","password":"secret1"}`},
		{name: "missing password", body: `{"phone_number":"923000001"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(SignUp, 0, tt.body)
			assert.Equal(t, 400, w.Code)
		})
	}
}

func TestAuthLogin(t *testing.T) {
	setupTestDB(t)

	hashed, err := middleware.HashPassword("secret1")
	require.NoError(t, err)

	user := createTestUser(t, "923000001")
	require.NoError(t, db.DB.Model(user).Update("password", hashed).Error)

	w := perform(AuthLogin, 0, `{"phone_number":"923000001","password":"secret1"}`)
	require.Equal(t, 200, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["access_token"])

	w = perform(AuthLogin, 0, `{"phone_number":"923000001","password":"wrong-pass"}`)
	assert.Equal(t, 400, w.Code)

	w = perform(AuthLogin, 0, `{"phone_number":"900000000","password":"secret1"}`)
	assert.Equal(t, 400, w.Code)
}

func TestUpdateBankDetailsCreatesAndReplaces(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "923000001")

	w := perform(GetBankDetails, user.ID, "")
	assert.Equal(t, 404, w.Code)

	w = perform(UpdateBankDetails, user.ID,
		`{"bank_name":"BAI","account_holder":"Maria","iban":"AO0600001"}`)
	require.Equal(t, 200, w.Code)

	w = perform(UpdateBankDetails, user.ID,
		`{"bank_name":"BFA","account_holder":"Maria","iban":"AO0600002"}`)
	require.Equal(t, 200, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.BankDetails{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "update must replace, not accumulate")

	w = perform(GetBankDetails, user.ID, "")
	require.Equal(t, 200, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "BFA", body["BankName"])
	assert.Equal(t, "AO0600002", body["IBAN"])
}
