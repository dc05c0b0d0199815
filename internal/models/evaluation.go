package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdditionalCriteria captures the extra pass/fail checks recorded per student.
type AdditionalCriteria struct {
	Topic      bool `json:"topic"`
	Homework   bool `json:"homework"`
	Attendance bool `json:"attendance"`
}

// StudentScore is one student's entry inside an evaluation. Absence of a
// student key in the scores map means "not yet evaluated", never zero.
type StudentScore struct {
	TaskScore          float64            `json:"task_score"`
	TeamScore          float64            `json:"team_score"`
	AdditionalScore    float64            `json:"additional_score"`
	MCQScore           float64            `json:"mcq_score"`
	TotalScore         float64            `json:"total_score"`
	AdditionalCriteria AdditionalCriteria `json:"additional_criteria"`
	Comments           string             `json:"comments"`
	ProblemRecovered   bool               `json:"problem_recovered"`
}

// Evaluation is one scoring pass of a group against a task.
type Evaluation struct {
	ID               string                                      `gorm:"primaryKey;size:64" json:"id"`
	TaskID           string                                      `gorm:"size:64;index" json:"task_id"`
	GroupID          string                                      `gorm:"size:64;index" json:"group_id"`
	ClassID          string                                      `gorm:"size:64;index" json:"class_id"`
	SectionID        string                                      `gorm:"size:64;index" json:"section_id"`
	Scores           datatypes.JSONType[map[string]StudentScore] `json:"scores"`
	TaskDate         *time.Time                                  `json:"task_date"`
	MaxPossibleScore float64                                     `json:"max_possible_score"`
	CreatedAt        time.Time                                   `json:"created_at"`
	UpdatedAt        time.Time                                   `json:"updated_at"`
}

// BeforeCreate assigns a uuid identifier when none was provided.
func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// OccurredAt resolves the evaluation's timestamp: the task date when stored,
// then the last update, then creation time.
func (e Evaluation) OccurredAt() time.Time {
	if e.TaskDate != nil && !e.TaskDate.IsZero() {
		return *e.TaskDate
	}
	if !e.UpdatedAt.IsZero() {
		return e.UpdatedAt
	}
	return e.CreatedAt
}
