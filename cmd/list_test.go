package cmd

import (
	"testing"

	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatuses_Pending(t *testing.T) {
	got, err := parseStatuses([]string{"pending"})
	require.NoError(t, err)
	assert.Equal(t, []tcr.Status{tcr.RegistrationRequested, tcr.ClearingRequested}, got)
}

func TestParseStatuses_Aliases(t *testing.T) {
	got, err := parseStatuses([]string{"Registered", "registration-requested", "clearingrequested", "removed", " "})
	require.NoError(t, err)
	assert.Equal(t, []tcr.Status{tcr.Registered, tcr.RegistrationRequested, tcr.ClearingRequested, tcr.Absent}, got)
}

func TestParseStatuses_DefaultsToRegistered(t *testing.T) {
	got, err := parseStatuses(nil)
	require.NoError(t, err)
	assert.Equal(t, []tcr.Status{tcr.Registered}, got)

	got, err = parseStatuses([]string{" "})
	require.NoError(t, err)
	assert.Equal(t, []tcr.Status{tcr.Registered}, got)
}

func TestParseStatuses_All(t *testing.T) {
	got, err := parseStatuses([]string{"all"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = parseStatuses([]string{"pending", "ANY"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStatusesLabel(t *testing.T) {
	assert.Equal(t, "all statuses", statusesLabel(nil))
	assert.Equal(t, "Registered, Removal Pending", statusesLabel([]tcr.Status{tcr.Registered, tcr.ClearingRequested}))
}

func TestParseStatuses_Unknown(t *testing.T) {
	_, err := parseStatuses([]string{"approved"})
	assert.ErrorContains(t, err, "unknown item status")
}
