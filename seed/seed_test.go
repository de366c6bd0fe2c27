package seed_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engelsystem/engelsystem/core"
	"github.com/engelsystem/engelsystem/seed"
	"github.com/engelsystem/engelsystem/sqldb/sqldbtest"
)

func load(t *testing.T) *seed.Fixture {
	t.Helper()
	file, err := os.Open("testdata/fixture.yaml")
	require.NoError(t, err)
	defer file.Close()
	f, err := seed.Load(file)
	require.NoError(t, err)
	return f
}

func TestLoad(t *testing.T) {
	f := load(t)
	assert.Len(t, f.Roles, 3)
	assert.Len(t, f.Users, 2)
	assert.Equal(t, "Tresen", f.Tasks[0].Names["de"])
	assert.Equal(t, 2026, f.Shifts[0].Begin.Year())
	assert.True(t, f.Rooms[2].Hidden)

	_, err := seed.Load(strings.NewReader("rooms:\n  - name: Bar\n    colour: red\n"))
	assert.Error(t, err, "unknown field")
}

func TestApply(t *testing.T) {
	c := sqldbtest.Open(t, "seed")
	require.NoError(t, seed.Apply(c, load(t)))

	alice, err := c.LoginUser("alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, "Oxford", alice.Hometown)
	assert.Equal(t, "en", alice.Locale)

	bob, err := c.LoginUser("bob", "builder")
	require.NoError(t, err)
	assert.Equal(t, "de", bob.Locale)

	ok, err := c.HasPermission(alice, "show_user")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.HasPermission(bob, "show_user")
	require.NoError(t, err)
	assert.False(t, ok)

	plan, err := c.ShiftPlan()
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "Bar", plan[0].Name)
	require.Len(t, plan[0].Shifts, 1)

	detail, err := c.GetShiftDetail(plan[0].Shifts[0].ID)
	require.NoError(t, err)
	require.Len(t, detail.Allocations, 1)
	assert.Equal(t, 2, detail.Allocations[0].Taken())
	assert.Equal(t, 1, detail.Allocations[0].Free())
	assert.Equal(t, "Tresen", detail.Allocations[0].Task.Text("de").Name)
	require.Len(t, detail.Defaults, 1)
	assert.Equal(t, 2, detail.Defaults[0].Amount)

	profile, err := c.GetProfile("alice")
	require.NoError(t, err)
	assert.Len(t, profile.Entries, 2)
	require.Len(t, profile.UserTasks, 1)
	assert.True(t, profile.UserTasks[0].Approved)

	profile, err = c.GetProfile("bob")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.Freeloaded())

	tasks, err := c.GetAllTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[1].Restricted)
	assert.NotZero(t, tasks[1].ApprovableByRoleID)
}

func TestApplyUnknownReference(t *testing.T) {
	c := sqldbtest.Open(t, "seedunknown")

	f := &seed.Fixture{
		Rooms:  []seed.Room{{Name: "Bar"}},
		Shifts: []seed.Shift{{Room: "Kitchen", Title: "Lunch"}},
	}
	assert.ErrorIs(t, seed.Apply(c, f), core.ErrNotFound)

	f = &seed.Fixture{
		Users: []seed.User{{Username: "carol", Roles: []string{"Ghost"}}},
	}
	assert.ErrorIs(t, seed.Apply(c, f), core.ErrNotFound)
}

func TestApplyInvalidUsername(t *testing.T) {
	c := sqldbtest.Open(t, "seedusername")

	f := &seed.Fixture{
		Users: []seed.User{{Username: ""}},
	}
	assert.ErrorIs(t, seed.Apply(c, f), core.ErrEmptyUsername)

	f = &seed.Fixture{
		Users: []seed.User{{Username: strings.Repeat("x", 33)}},
	}
	assert.ErrorIs(t, seed.Apply(c, f), core.ErrUsernameTooLong)

	count, err := c.CountUsers()
	require.NoError(t, err)
	assert.Zero(t, count)
}
