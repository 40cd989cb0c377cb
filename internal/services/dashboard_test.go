package services

import (
	"testing"

	"campusresponse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAdd(t *testing.T) {
	s := newStats()
	s.Add(models.CategoryFire, models.StatusReported, 2)
	s.Add(models.CategoryFire, models.StatusInProgress, 1)
	s.Add(models.CategoryHealth, models.StatusResolved, 4)

	assert.EqualValues(t, 2, s.Reported)
	assert.EqualValues(t, 1, s.InProgress)
	assert.EqualValues(t, 4, s.Resolved)
	assert.EqualValues(t, 7, s.Total)
	assert.EqualValues(t, 3, s.Pending)
	assert.EqualValues(t, 3, s.ByCategory[models.CategoryFire])
	assert.EqualValues(t, 0, s.ByCategory[models.CategoryOther])
}

func TestDashboardFor(t *testing.T) {
	gdb := newTestDB(t)
	sam := createUser(t, gdb, "sam", models.RoleStudent)
	kim := createUser(t, gdb, "kim", models.RoleStudent)
	fire := createUser(t, gdb, "fire1", models.RoleFire)
	admin := createUser(t, gdb, "root", models.RoleAdmin)

	smoke := reportIncident(t, gdb, sam, "Smoke", models.CategoryFire)
	reportIncident(t, gdb, kim, "Sparks", models.CategoryFire)
	reportIncident(t, gdb, sam, "Fainting", models.CategoryHealth)
	_, err := UpdateStatus(gdb, fire, smoke.ID, models.StatusResolved)
	require.NoError(t, err)

	t.Run("student sees own reports", func(t *testing.T) {
		dash, err := DashboardFor(gdb, sam)
		require.NoError(t, err)
		assert.Equal(t, "My Reports", dash.Title)
		assert.Len(t, dash.Incidents, 2)
		assert.EqualValues(t, 2, dash.Stats.Total)
		assert.EqualValues(t, 1, dash.Stats.Resolved)
		assert.Len(t, dash.Notifications, 1)
		assert.Nil(t, dash.Accounts)
	})

	t.Run("department sees its category", func(t *testing.T) {
		dash, err := DashboardFor(gdb, fire)
		require.NoError(t, err)
		assert.Equal(t, "Fire Department Dashboard", dash.Title)
		assert.Len(t, dash.Incidents, 2)
		for _, inc := range dash.Incidents {
			assert.Equal(t, models.CategoryFire, inc.Category)
		}
		// reported counts only reported incidents
		assert.EqualValues(t, 1, dash.Stats.Reported)
		assert.EqualValues(t, 1, dash.Stats.Resolved)
		assert.EqualValues(t, 2, dash.Stats.Total)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		dash, err := DashboardFor(gdb, admin)
		require.NoError(t, err)
		assert.Equal(t, "Admin Dashboard", dash.Title)
		assert.Len(t, dash.Incidents, 3)
		assert.EqualValues(t, 3, dash.Stats.Total)
		assert.EqualValues(t, 2, dash.Stats.Pending)
		assert.EqualValues(t, 2, dash.Stats.ByCategory[models.CategoryFire])
		assert.EqualValues(t, 1, dash.Stats.ByCategory[models.CategoryHealth])
		assert.Len(t, dash.Accounts, 4)
		assert.Len(t, dash.Notifications, 3)
	})
}
