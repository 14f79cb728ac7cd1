package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoelCaquene/davenport-downs/cmd/db"
)

func TestGetTeamGroupsByLevel(t *testing.T) {
	setupTestDB(t)

	level := createTestLevel(t, "Nível 1", 5000, 250)

	owner := createTestUser(t, "923000001")

	investor := createTestUser(t, "923000002")
	require.NoError(t, db.DB.Model(investor).Update("invited_by_id", owner.ID).Error)
	activateLevel(t, investor.ID, level.ID)

	idle := createTestUser(t, "923000003")
	require.NoError(t, db.DB.Model(idle).Update("invited_by_id", owner.ID).Error)

	// Referred by someone else; must not show up in owner's team.
	stranger := createTestUser(t, "923000004")
	require.NoError(t, db.DB.Model(stranger).Update("invited_by_id", investor.ID).Error)

	w := perform(GetTeam, owner.ID, "")
	require.Equal(t, 200, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["team_count"])
	assert.Equal(t, float64(1), body["total_investors"])
	assert.Equal(t, float64(1), body["total_non_investors"])
	assert.Contains(t, body["invite_link"], owner.InviteCode)

	groups := body["levels_data"].([]interface{})
	require.Len(t, groups, 2)

	// Non-investors lead, then one group per catalog level.
	first := groups[0].(map[string]interface{})
	assert.Equal(t, "Não Investido", first["name"])
	assert.Equal(t, float64(1), first["count"])
	firstMembers := first["members"].([]interface{})
	require.Len(t, firstMembers, 1)
	assert.Equal(t, "923000003", firstMembers[0].(map[string]interface{})["phone_number"])

	second := groups[1].(map[string]interface{})
	assert.Equal(t, "Nível 1", second["name"])
	assert.Equal(t, float64(1), second["count"])
}

func TestGetTeamEmpty(t *testing.T) {
	setupTestDB(t)

	createTestLevel(t, "Nível 1", 5000, 250)
	owner := createTestUser(t, "923000001")

	w := perform(GetTeam, owner.ID, "")
	require.Equal(t, 200, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["team_count"])
	assert.Equal(t, float64(0), body["total_investors"])
	assert.Equal(t, float64(0), body["total_non_investors"])
}
