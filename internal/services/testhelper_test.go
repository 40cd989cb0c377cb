package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"campusresponse/internal/db"
	"campusresponse/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// busy_timeout lets concurrent writers queue instead of failing with SQLITE_BUSY
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	gdb, err := db.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// failCreatesOn makes every INSERT through gorm into table fail.
func failCreatesOn(t *testing.T, gdb *gorm.DB, table string) {
	t.Helper()
	err := gdb.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(fmt.Errorf("%s unavailable", table))
		}
	})
	require.NoError(t, err)
}

func createUser(t *testing.T, gdb *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	user, err := CreateAccount(gdb, AccountInput{
		Username: username,
		Email:    fmt.Sprintf("%s@campus.test", username),
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func reportIncident(t *testing.T, gdb *gorm.DB, reporter *models.User, title string, category models.Category) *models.Incident {
	t.Helper()
	inc, _, err := CreateIncident(gdb, reporter, IncidentInput{
		Title:       title,
		Description: "Reported during testing",
		Category:    string(category),
		Location:    "Main Hall",
	})
	require.NoError(t, err)
	return inc
}

func notificationsFor(t *testing.T, gdb *gorm.DB, userID uint) []models.Notification {
	t.Helper()
	var list []models.Notification
	require.NoError(t, gdb.Where("user_id = ?", userID).Order("id ASC").Find(&list).Error)
	return list
}
