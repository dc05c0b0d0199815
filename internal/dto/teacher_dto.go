package dto

// TeacherCreateRequest creates a teacher account.
type TeacherCreateRequest struct {
	Name               string   `json:"name" validate:"required"`
	Email              string   `json:"email" validate:"required,email"`
	AssignedClassIDs   []string `json:"assigned_class_ids"`
	AssignedSectionIDs []string `json:"assigned_section_ids"`
	AssignedSubjectIDs []string `json:"assigned_subject_ids"`
}

// TeacherUpdateRequest updates a teacher; nil fields are untouched.
type TeacherUpdateRequest struct {
	Name               *string   `json:"name" validate:"omitempty,min=1"`
	Email              *string   `json:"email" validate:"omitempty,email"`
	AssignedClassIDs   *[]string `json:"assigned_class_ids"`
	AssignedSectionIDs *[]string `json:"assigned_section_ids"`
	AssignedSubjectIDs *[]string `json:"assigned_subject_ids"`
}
