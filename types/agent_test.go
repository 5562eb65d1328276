package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoster() Roster {
	return Roster{
		{Role: "Intake", Responsibilities: "Greet the customer and collect the request."},
		{Role: "Scheduler", Responsibilities: "Find an open slot and confirm it."},
	}
}

func TestRosterRoles(t *testing.T) {
	assert.Equal(t, []string{"Intake", "Scheduler"}, sampleRoster().Roles())
	assert.Empty(t, Roster{}.Roles())
}

func TestRosterHasRoleAndFind(t *testing.T) {
	r := sampleRoster()

	assert.True(t, r.HasRole("Scheduler"))
	assert.False(t, r.HasRole("scheduler"))
	assert.False(t, r.HasRole("FINISH"))

	spec, ok := r.Find("Intake")
	require.True(t, ok)
	assert.Equal(t, "Greet the customer and collect the request.", spec.Responsibilities)

	_, ok = r.Find("Billing")
	assert.False(t, ok)
}

func TestRosterKeyStability(t *testing.T) {
	a := sampleRoster()
	b := sampleRoster()
	assert.Equal(t, a.Key(), b.Key())
}

func TestRosterKeyIncludesResponsibilities(t *testing.T) {
	a := sampleRoster()
	b := sampleRoster()
	b[1].Responsibilities = "Different duties."

	assert.NotEqual(t, a.Key(), b.Key())
}

func TestRosterKeyIsOrderSensitive(t *testing.T) {
	a := sampleRoster()
	b := Roster{a[1], a[0]}

	assert.NotEqual(t, a.Key(), b.Key())
}
