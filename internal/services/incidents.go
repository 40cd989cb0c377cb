package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"campusresponse/internal/models"

	"gorm.io/gorm"
)

// IncidentInput 事件上报表单
type IncidentInput struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"category" validate:"required,category"`
	Location    string `form:"location" validate:"required,max=200"`
	ImagePath   string `form:"-"`
}

func (in *IncidentInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Category = strings.TrimSpace(in.Category)
}

// IncidentFilter narrows ListIncidents; nil fields are ignored.
type IncidentFilter struct {
	Category   *models.Category
	ReporterID *uint
	Status     *models.Status
}

func (f IncidentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.ReporterID != nil {
		q = q.Where("reporter_id = ?", *f.ReporterID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	return q
}

// CreateIncident stores a new report and fans out notifications in the same
// transaction. If the fan-out fails the incident is rolled back too.
func CreateIncident(gdb *gorm.DB, reporter *models.User, in IncidentInput) (*models.Incident, int, error) {
	in.normalize()
	if verr := validateStruct(&in); !verr.empty() {
		return nil, 0, verr
	}

	incident := models.Incident{
		Title:       in.Title,
		Description: in.Description,
		Category:    models.Category(in.Category),
		Location:    in.Location,
		Status:      models.StatusReported,
		ImagePath:   in.ImagePath,
	}
	if reporter != nil {
		reporterID := reporter.ID
		incident.ReporterID = &reporterID
	}

	var notified int
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Reporter").Create(&incident).Error; err != nil {
			return fmt.Errorf("create incident: %w", err)
		}
		var err error
		notified, err = FanOutIncidentCreated(tx, &incident)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return &incident, notified, nil
}

func GetIncident(gdb *gorm.DB, id uint) (*models.Incident, error) {
	var incident models.Incident
	if err := gdb.Preload("Reporter").First(&incident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &incident, nil
}

func ListIncidents(gdb *gorm.DB, filter IncidentFilter) ([]models.Incident, error) {
	var incidents []models.Incident
	err := filter.apply(gdb.Model(&models.Incident{})).
		Preload("Reporter").
		Order("created_at DESC, id DESC").
		Find(&incidents).Error
	return incidents, err
}

// StatusChange is the outcome of UpdateStatus.
type StatusChange struct {
	Incident  *models.Incident
	OldStatus models.Status
	Changed   bool
	Notified  bool
}

// UpdateStatus replaces the incident status on behalf of actor. Any status may
// follow any other. The reporter is notified only when the stored value changed.
func UpdateStatus(gdb *gorm.DB, actor *models.User, incidentID uint, newStatus models.Status) (*StatusChange, error) {
	if !newStatus.Valid() {
		return nil, fieldError("status", "Select a valid choice.")
	}

	incident, err := GetIncident(gdb, incidentID)
	if err != nil {
		return nil, err
	}
	// category never changes after creation, so the check holds for the whole transaction
	if !CanUpdate(actor.Role(), incident) {
		return nil, ErrPermissionDenied
	}

	change := &StatusChange{OldStatus: incident.Status}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// 条件更新：只有与当前值不同时才会命中，避免并发下重复通知
		result := tx.Model(&models.Incident{}).
			Where("id = ? AND status <> ?", incidentID, newStatus).
			Updates(map[string]interface{}{"status": newStatus, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		change.Changed = result.RowsAffected == 1

		if !change.Changed {
			if err := tx.Model(&models.Incident{}).Where("id = ?", incidentID).
				Update("updated_at", now).Error; err != nil {
				return err
			}
		}

		var fresh models.Incident
		if err := tx.Preload("Reporter").First(&fresh, incidentID).Error; err != nil {
			return err
		}
		change.Incident = &fresh

		if change.Changed {
			notified, err := NotifyStatusChanged(tx, &fresh)
			if err != nil {
				return err
			}
			change.Notified = notified
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if change.Changed {
		log.Printf("Incident #%d status %s -> %s by %s", incidentID, change.OldStatus, newStatus, actor.Username)
	}
	return change, nil
}

// DeleteIncident removes an incident and, with it, every notification that references it.
func DeleteIncident(gdb *gorm.DB, actor *models.User, id uint) error {
	if actor.Role() != models.RoleAdmin {
		return ErrPermissionDenied
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("incident_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Incident{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		log.Printf("Deleted incident #%d by %s", id, actor.Username)
		return nil
	})
}
