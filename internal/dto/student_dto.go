package dto

// StudentCreateRequest creates a student.
type StudentCreateRequest struct {
	Name          string  `json:"name" validate:"required"`
	Roll          string  `json:"roll"`
	ClassID       string  `json:"class_id" validate:"required"`
	SectionID     string  `json:"section_id"`
	AcademicGroup string  `json:"academic_group"`
	GroupID       *string `json:"group_id"`
	DutyRole      *string `json:"duty_role"`
	Gender        string  `json:"gender"`
}

// StudentUpdateRequest updates a student; nil fields are untouched.
type StudentUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	Roll          *string `json:"roll"`
	ClassID       *string `json:"class_id"`
	SectionID     *string `json:"section_id"`
	AcademicGroup *string `json:"academic_group"`
	GroupID       *string `json:"group_id"`
	DutyRole      *string `json:"duty_role"`
	Gender        *string `json:"gender"`
}

// StudentBatchItem is one entry of a batch update.
type StudentBatchItem struct {
	ID string `json:"id" validate:"required"`
	StudentUpdateRequest
}

// StudentBatchUpdateRequest updates several students in one bulk write.
type StudentBatchUpdateRequest struct {
	Students []StudentBatchItem `json:"students" validate:"required,min=1,dive"`
}

// StudentTransferRequest moves a student into a group (or out of any group
// when GroupID is nil) and sets the duty role held there.
type StudentTransferRequest struct {
	GroupID  *string `json:"group_id"`
	DutyRole *string `json:"duty_role"`
}
