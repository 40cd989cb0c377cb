package models

import (
	"time"
)

type Incident struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    Category  `gorm:"type:varchar(20);not null;index" json:"category"`
	Location    string    `gorm:"size:200;not null" json:"location"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'reported';index" json:"status"`
	ReporterID  *uint     `gorm:"index" json:"reporter_id"` // 弱引用，账号删除时置空
	Reporter    *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"reporter,omitempty"`
	ImagePath   string    `gorm:"size:255" json:"image_path,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *Incident) ReportedBy(userID uint) bool {
	return i.ReporterID != nil && *i.ReporterID == userID
}

func (i Incident) String() string {
	return i.Title + " - " + i.Category.Label()
}
