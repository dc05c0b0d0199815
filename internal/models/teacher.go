package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Teacher is a staff account whose dashboard visibility is limited to the
// classes, sections and subjects assigned to it.
type Teacher struct {
	ID                 string                      `gorm:"primaryKey;size:64" json:"id"`
	Name               string                      `gorm:"size:255;not null" json:"name"`
	Email              string                      `gorm:"size:255;uniqueIndex;not null" json:"email"`
	AssignedClassIDs   datatypes.JSONSlice[string] `json:"assigned_class_ids"`
	AssignedSectionIDs datatypes.JSONSlice[string] `json:"assigned_section_ids"`
	AssignedSubjectIDs datatypes.JSONSlice[string] `json:"assigned_subject_ids"`
	Deleted            bool                        `gorm:"index" json:"deleted"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

// BeforeCreate assigns a uuid identifier when none was provided.
func (t *Teacher) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
