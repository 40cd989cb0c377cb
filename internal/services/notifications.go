package services

import (
	"errors"
	"fmt"
	"log"

	"campusresponse/internal/models"

	"gorm.io/gorm"
)

// departmentWord is how a category reads inside a department message.
func departmentWord(c models.Category) string {
	switch c {
	case models.CategoryFire:
		return "fire"
	case models.CategoryHealth:
		return "health"
	case models.CategorySocial:
		return "social/bullying"
	case models.CategoryOther:
		return "other"
	}
	return string(c)
}

func DepartmentMessage(inc *models.Incident) string {
	return fmt.Sprintf("New %s incident reported: %s at %s", departmentWord(inc.Category), inc.Title, inc.Location)
}

func AdminMessage(inc *models.Incident) string {
	return fmt.Sprintf("New incident reported: %s (%s) at %s", inc.Title, inc.Category.Label(), inc.Location)
}

func StatusChangedMessage(inc *models.Incident) string {
	return fmt.Sprintf("Your incident '%s' status has been updated to %s (%s)", inc.Title, inc.Status.Label(), inc.Status)
}

// usersWithRole 查询指定角色的全部账号 ID
func usersWithRole(tx *gorm.DB, role models.Role) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.Profile{}).
		Where("role = ?", role).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// FanOutIncidentCreated writes one notification per recipient of a new incident:
// every account of the owning department, then every admin. An account that
// matched both lists would get both messages; roles are single-valued today.
// Must run in the transaction that inserted the incident.
func FanOutIncidentCreated(tx *gorm.DB, inc *models.Incident) (int, error) {
	incidentID := inc.ID
	var batch []models.Notification

	if role, ok := inc.Category.DepartmentRole(); ok {
		ids, err := usersWithRole(tx, role)
		if err != nil {
			return 0, fmt.Errorf("load %s recipients: %w", role, err)
		}
		msg := DepartmentMessage(inc)
		for _, id := range ids {
			batch = append(batch, models.Notification{UserID: id, Message: msg, IncidentID: &incidentID})
		}
	}

	admins, err := usersWithRole(tx, models.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("load admin recipients: %w", err)
	}
	msg := AdminMessage(inc)
	for _, id := range admins {
		batch = append(batch, models.Notification{UserID: id, Message: msg, IncidentID: &incidentID})
	}

	if len(batch) == 0 {
		return 0, nil
	}
	if err := tx.Create(&batch).Error; err != nil {
		return 0, fmt.Errorf("create notifications: %w", err)
	}

	log.Printf("Incident #%d (%s): notified %d recipients", inc.ID, inc.Category, len(batch))
	return len(batch), nil
}

// NotifyStatusChanged tells the reporter about the incident's new status.
// Callers invoke it only when the stored status actually changed.
func NotifyStatusChanged(tx *gorm.DB, inc *models.Incident) (bool, error) {
	if inc.ReporterID == nil {
		return false, nil
	}

	incidentID := inc.ID
	n := models.Notification{
		UserID:     *inc.ReporterID,
		Message:    StatusChangedMessage(inc),
		IncidentID: &incidentID,
	}
	if err := tx.Create(&n).Error; err != nil {
		return false, fmt.Errorf("create status notification: %w", err)
	}
	return true, nil
}

func ListUnread(gdb *gorm.DB, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := gdb.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, err
}

func UnreadCount(gdb *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := gdb.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead flags every unread notification of the user and returns how many changed.
func MarkAllRead(gdb *gorm.DB, userID uint) (int64, error) {
	result := gdb.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func MarkRead(gdb *gorm.DB, userID, notificationID uint) error {
	var notification models.Notification
	if err := gdb.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if notification.IsRead {
		return nil
	}
	return gdb.Model(&notification).Update("is_read", true).Error
}
