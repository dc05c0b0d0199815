package dto

// BreakdownRequest carries a task's maximum score split. MCQ stays a pointer:
// a task without it is not ready for evaluation.
type BreakdownRequest struct {
	Task       float64  `json:"task" validate:"gte=0"`
	Team       float64  `json:"team" validate:"gte=0"`
	Additional float64  `json:"additional" validate:"gte=0"`
	MCQ        *float64 `json:"mcq" validate:"omitempty,gte=0"`
}

// TaskCreateRequest creates a task. Date accepts RFC 3339 or a date-only
// value; date-only inputs get the default time of day.
type TaskCreateRequest struct {
	Name             string           `json:"name" validate:"required"`
	Date             string           `json:"date" validate:"required"`
	ClassID          string           `json:"class_id" validate:"required"`
	SectionID        string           `json:"section_id"`
	SubjectID        *string          `json:"subject_id"`
	MaxScore         float64          `json:"max_score" validate:"gte=0"`
	Breakdown        BreakdownRequest `json:"breakdown"`
	AssignedGroupIDs []string         `json:"assigned_group_ids"`
}

// TaskUpdateRequest updates a task; nil fields are untouched.
type TaskUpdateRequest struct {
	Name             *string           `json:"name" validate:"omitempty,min=1"`
	Date             *string           `json:"date"`
	ClassID          *string           `json:"class_id"`
	SectionID        *string           `json:"section_id"`
	SubjectID        *string           `json:"subject_id"`
	MaxScore         *float64          `json:"max_score" validate:"omitempty,gte=0"`
	Breakdown        *BreakdownRequest `json:"breakdown"`
	AssignedGroupIDs *[]string         `json:"assigned_group_ids"`
}
