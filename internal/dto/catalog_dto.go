package dto

// ClassCreateRequest creates a class.
type ClassCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

// ClassUpdateRequest renames a class.
type ClassUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1"`
}

// SectionCreateRequest creates a section within a class.
type SectionCreateRequest struct {
	Name    string `json:"name" validate:"required"`
	ClassID string `json:"class_id" validate:"required"`
}

// SectionUpdateRequest updates a section.
type SectionUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	ClassID *string `json:"class_id" validate:"omitempty,min=1"`
}

// SubjectCreateRequest creates a subject, optionally scoped to a
// class/section.
type SubjectCreateRequest struct {
	Name      string `json:"name" validate:"required"`
	ClassID   string `json:"class_id"`
	SectionID string `json:"section_id"`
}

// SubjectUpdateRequest updates a subject.
type SubjectUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	ClassID   *string `json:"class_id"`
	SectionID *string `json:"section_id"`
}
