package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScoreBreakdown splits a task's maximum score into its scored parts. MCQ is a
// pointer because its absence marks the task as not yet ready for evaluation.
type ScoreBreakdown struct {
	Task       float64  `json:"task"`
	Team       float64  `json:"team"`
	Additional float64  `json:"additional"`
	MCQ        *float64 `json:"mcq,omitempty"`
}

// Task is an assignment scheduled for a class/section, optionally tied to a
// subject and to an explicit set of groups.
type Task struct {
	ID               string                             `gorm:"primaryKey;size:64" json:"id"`
	Name             string                             `gorm:"size:255;not null" json:"name"`
	Date             time.Time                          `gorm:"index" json:"date"`
	ClassID          string                             `gorm:"size:64;index" json:"class_id"`
	SectionID        string                             `gorm:"size:64;index" json:"section_id"`
	SubjectID        *string                            `gorm:"size:64;index" json:"subject_id"`
	MaxScore         float64                            `json:"max_score"`
	Breakdown        datatypes.JSONType[ScoreBreakdown] `json:"breakdown"`
	AssignedGroupIDs datatypes.JSONSlice[string]        `json:"assigned_group_ids"`
	CreatedAt        time.Time                          `json:"created_at"`
	UpdatedAt        time.Time                          `json:"updated_at"`
}

// BeforeCreate assigns a uuid identifier when none was provided.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ReadyForEvaluation reports whether the MCQ portion of the breakdown has been
// configured. Tasks without it must not accept new evaluations, though
// historical aggregation over them still works.
func (t Task) ReadyForEvaluation() bool {
	return t.Breakdown.Data().MCQ != nil
}

// ScheduledAt resolves the task's schedule timestamp, falling back to the
// record's creation time when no date was set.
func (t Task) ScheduledAt() time.Time {
	if !t.Date.IsZero() {
		return t.Date
	}
	return t.CreatedAt
}

// NormalizeTaskDate gives date-only inputs a default time of day (11:55:00
// local) so same-day tasks keep a deterministic "latest" order.
func NormalizeTaskDate(date time.Time) time.Time {
	if date.IsZero() {
		return date
	}
	hour, minute, second := date.Clock()
	if hour == 0 && minute == 0 && second == 0 && date.Nanosecond() == 0 {
		return time.Date(date.Year(), date.Month(), date.Day(), 11, 55, 0, 0, date.Location())
	}
	return date
}
