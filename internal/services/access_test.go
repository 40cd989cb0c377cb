package services

import (
	"fmt"
	"testing"

	"campusresponse/internal/models"

	"github.com/stretchr/testify/assert"
)

func incidentOf(category models.Category, reporterID uint) *models.Incident {
	inc := &models.Incident{ID: 1, Title: "t", Category: category, Status: models.StatusReported}
	if reporterID != 0 {
		inc.ReporterID = &reporterID
	}
	return inc
}

func TestCanView(t *testing.T) {
	const reporter, stranger = uint(10), uint(20)

	tests := []struct {
		role     models.Role
		category models.Category
		viewer   uint
		want     bool
	}{
		{models.RoleHealth, models.CategoryFire, stranger, false},
		{models.RoleFire, models.CategoryFire, stranger, true},
		{models.RoleHealth, models.CategoryHealth, stranger, true},
		{models.RoleSocial, models.CategorySocial, stranger, true},
		{models.RoleSocial, models.CategoryOther, stranger, false},
		{models.RoleStudent, models.CategoryFire, stranger, false},
		{models.RoleStudent, models.CategoryFire, reporter, true},
		{models.RoleHealth, models.CategoryFire, reporter, true},
		{models.RoleStudent, models.CategoryOther, reporter, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s/%d", tt.role, tt.category, tt.viewer), func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.role, incidentOf(tt.category, reporter), tt.viewer))
		})
	}
}

func TestAdminCanViewEverything(t *testing.T) {
	for _, c := range models.Categories {
		assert.True(t, CanView(models.RoleAdmin, incidentOf(c, 0), 999), c)
		assert.True(t, CanView(models.RoleAdmin, incidentOf(c, 5), 0), c)
	}
}

func TestCanViewWithoutReporter(t *testing.T) {
	// a nulled reporter must not match a zero viewer id
	assert.False(t, CanView(models.RoleStudent, incidentOf(models.CategoryFire, 0), 0))
}

func TestCanUpdate(t *testing.T) {
	for _, role := range models.Roles {
		for _, c := range models.Categories {
			want := role == models.RoleAdmin ||
				(role == models.RoleFire && c == models.CategoryFire) ||
				(role == models.RoleHealth && c == models.CategoryHealth) ||
				(role == models.RoleSocial && c == models.CategorySocial)
			assert.Equal(t, want, CanUpdate(role, incidentOf(c, 1)), "%s on %s", role, c)
		}
	}
}

func TestReporterCannotUpdateOwnIncident(t *testing.T) {
	inc := incidentOf(models.CategoryHealth, 7)
	assert.True(t, CanView(models.RoleStudent, inc, 7))
	assert.False(t, CanUpdate(models.RoleStudent, inc))
}

func TestNilIncident(t *testing.T) {
	assert.False(t, CanView(models.RoleAdmin, nil, 1))
	assert.False(t, CanUpdate(models.RoleAdmin, nil))
}
