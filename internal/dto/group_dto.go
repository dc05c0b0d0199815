package dto

// GroupCreateRequest creates a group.
type GroupCreateRequest struct {
	Name       string   `json:"name" validate:"required"`
	ClassID    string   `json:"class_id" validate:"required"`
	SectionID  *string  `json:"section_id"`
	StudentIDs []string `json:"student_ids"`
}

// GroupUpdateRequest updates a group; nil fields are untouched.
type GroupUpdateRequest struct {
	Name       *string   `json:"name" validate:"omitempty,min=1"`
	ClassID    *string   `json:"class_id"`
	SectionID  *string   `json:"section_id"`
	StudentIDs *[]string `json:"student_ids"`
}
