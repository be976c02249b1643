package tcr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDIsKeccakOfData(t *testing.T) {
	// keccak256("") is a well-known constant.
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		FormatItemID(ItemID("")))
	assert.NotEqual(t, ItemID("/ipfs/a"), ItemID("/ipfs/b"))
}

func TestParseItemID(t *testing.T) {
	id := ItemID("/ipfs/QmItem")
	parsed, err := ParseItemID(FormatItemID(id))
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseItemID("0x1234")
	assert.Error(t, err)
	_, err = ParseItemID("0x" + string(make([]byte, 64)))
	assert.Error(t, err)
}

func TestFormatEvidenceURI(t *testing.T) {
	assert.Equal(t, "/ipfs/QmHash/evidence.json", FormatEvidenceURI("QmHash/evidence.json"))
	assert.Equal(t, "/ipfs/QmHash", FormatEvidenceURI("/ipfs/QmHash"))
	assert.Equal(t, "/ipfs/QmHash", FormatEvidenceURI(FormatEvidenceURI("QmHash")), "applied twice adds one prefix")
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Registered", Registered.Label())
	assert.Equal(t, "Registration Pending", RegistrationRequested.Label())
	assert.Equal(t, "Removal Pending", ClearingRequested.Label())
	assert.Equal(t, "Not Registered", Absent.Label())
	assert.Equal(t, "Status(9)", Status(9).String())
}

func TestStatusAction(t *testing.T) {
	assert.Equal(t, ActionRemove, Registered.Action(false))
	assert.Equal(t, ActionChallenge, RegistrationRequested.Action(false))
	assert.Equal(t, ActionChallenge, ClearingRequested.Action(false))
	assert.Equal(t, ActionNone, ClearingRequested.Action(true))
	assert.Equal(t, ActionNone, Absent.Action(false))

	assert.Equal(t, "Suggest Removal", ActionRemove.Label())
	assert.Equal(t, "Challenge Request", ActionChallenge.Label())
	assert.Equal(t, "", ActionNone.Label())
}

func TestStatusJSON(t *testing.T) {
	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"ClearingRequested"`), &s))
	assert.Equal(t, ClearingRequested, s)

	require.NoError(t, json.Unmarshal([]byte(`"registered"`), &s))
	assert.Equal(t, Registered, s)

	assert.Error(t, json.Unmarshal([]byte(`"Pending"`), &s))

	out, err := json.Marshal(RegistrationRequested)
	require.NoError(t, err)
	assert.Equal(t, `"RegistrationRequested"`, string(out))
}
