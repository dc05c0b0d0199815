package dto

// AdditionalCriteriaRequest carries the extra per-student checks.
type AdditionalCriteriaRequest struct {
	Topic      bool `json:"topic"`
	Homework   bool `json:"homework"`
	Attendance bool `json:"attendance"`
}

// StudentScoreRequest is one student's scores within an evaluation.
type StudentScoreRequest struct {
	TaskScore          float64                   `json:"task_score"`
	TeamScore          float64                   `json:"team_score"`
	AdditionalScore    float64                   `json:"additional_score"`
	MCQScore           float64                   `json:"mcq_score"`
	TotalScore         float64                   `json:"total_score"`
	AdditionalCriteria AdditionalCriteriaRequest `json:"additional_criteria"`
	Comments           string                    `json:"comments"`
	ProblemRecovered   bool                      `json:"problem_recovered"`
}

// EvaluationCreateRequest records a scoring pass of a group against a task.
// Only students actually scored in this pass appear in Scores.
type EvaluationCreateRequest struct {
	TaskID           string                         `json:"task_id" validate:"required"`
	GroupID          string                         `json:"group_id" validate:"required"`
	ClassID          string                         `json:"class_id"`
	SectionID        string                         `json:"section_id"`
	Scores           map[string]StudentScoreRequest `json:"scores" validate:"required,min=1"`
	TaskDate         string                         `json:"task_date"`
	MaxPossibleScore float64                        `json:"max_possible_score" validate:"gte=0"`
}

// EvaluationUpdateRequest replaces the scores of an existing evaluation.
type EvaluationUpdateRequest struct {
	Scores           map[string]StudentScoreRequest `json:"scores" validate:"required,min=1"`
	MaxPossibleScore *float64                       `json:"max_possible_score" validate:"omitempty,gte=0"`
}
