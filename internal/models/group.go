package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Group is a student team inside a class. SectionID may be empty, meaning the
// group applies to every section of the class. StudentIDs is an informational
// snapshot kept for display; live membership is always derived from
// Student.GroupID, which survives transfers that this list does not track.
type Group struct {
	ID         string                       `gorm:"primaryKey;size:64" json:"id"`
	Name       string                       `gorm:"size:255;not null" json:"name"`
	ClassID    string                       `gorm:"size:64;index" json:"class_id"`
	SectionID  *string                      `gorm:"size:64;index" json:"section_id"`
	StudentIDs datatypes.JSONSlice[string]  `json:"student_ids"`
	CreatedAt  time.Time                    `json:"created_at"`
	UpdatedAt  time.Time                    `json:"updated_at"`
}

// BeforeCreate assigns a uuid identifier when none was provided.
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
