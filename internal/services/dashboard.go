package services

import (
	"campusresponse/internal/models"

	"gorm.io/gorm"
)

// Stats 仪表盘统计
type Stats struct {
	Reported   int64
	InProgress int64
	Resolved   int64
	Total      int64
	Pending    int64 // reported + in progress
	ByCategory map[models.Category]int64
}

func newStats() Stats {
	byCategory := make(map[models.Category]int64, len(models.Categories))
	for _, c := range models.Categories {
		byCategory[c] = 0
	}
	return Stats{ByCategory: byCategory}
}

type countRow struct {
	Category models.Category
	Status   models.Status
	Count    int64
}

// Add folds one (category, status) bucket into the totals.
func (s *Stats) Add(category models.Category, status models.Status, n int64) {
	switch status {
	case models.StatusReported:
		s.Reported += n
		s.Pending += n
	case models.StatusInProgress:
		s.InProgress += n
		s.Pending += n
	case models.StatusResolved:
		s.Resolved += n
	}
	s.Total += n
	s.ByCategory[category] += n
}

// ComputeStats counts the filtered incident set by status and by category
// with a single grouped query. Nothing is cached.
func ComputeStats(gdb *gorm.DB, filter IncidentFilter) (Stats, error) {
	var rows []countRow
	err := filter.apply(gdb.Model(&models.Incident{})).
		Select("category, status, COUNT(*) as count").
		Group("category, status").
		Scan(&rows).Error
	if err != nil {
		return Stats{}, err
	}

	stats := newStats()
	for _, r := range rows {
		stats.Add(r.Category, r.Status, r.Count)
	}
	return stats, nil
}

// Dashboard is everything a role's landing page shows.
type Dashboard struct {
	Role          models.Role
	Title         string
	Incidents     []models.Incident
	Stats         Stats
	Notifications []models.Notification
	Accounts      []models.User // admin only
}

func dashboardTitle(role models.Role) string {
	switch role {
	case models.RoleFire, models.RoleHealth, models.RoleSocial:
		return role.Label() + " Dashboard"
	case models.RoleAdmin:
		return "Admin Dashboard"
	}
	return "My Reports"
}

// DashboardFor builds the view for the user's own role: students see their
// reports, departments their category, admins everything plus the account list.
func DashboardFor(gdb *gorm.DB, user *models.User) (*Dashboard, error) {
	role := user.Role()
	dash := &Dashboard{Role: role, Title: dashboardTitle(role)}

	var filter IncidentFilter
	switch role {
	case models.RoleStudent:
		userID := user.ID
		filter.ReporterID = &userID
	case models.RoleFire, models.RoleHealth, models.RoleSocial:
		category, _ := role.DepartmentCategory()
		filter.Category = &category
	case models.RoleAdmin:
		accounts, err := ListAccounts(gdb)
		if err != nil {
			return nil, err
		}
		dash.Accounts = accounts
	}

	var err error
	if dash.Incidents, err = ListIncidents(gdb, filter); err != nil {
		return nil, err
	}
	if dash.Stats, err = ComputeStats(gdb, filter); err != nil {
		return nil, err
	}
	if dash.Notifications, err = ListUnread(gdb, user.ID); err != nil {
		return nil, err
	}
	return dash, nil
}
