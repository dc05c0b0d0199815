// Package scope narrows collections to the subset visible to an actor. The
// filter is pure: output keeps input order and filtering twice for the same
// actor yields the same set.
package scope

import (
	"github.com/classboard/classboard-api/internal/models"
)

// Actor roles.
const (
	RolePublic     = "public"
	RoleTeacher    = "teacher"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// Filter applies a teacher's assignment scope to collections. Non-teacher
// roles pass everything through untouched; explicit dashboard dropdown
// filters are the orchestrator's job, not this layer's.
type Filter struct {
	role                 string
	classIDs             map[string]struct{}
	sectionIDs           map[string]struct{}
	subjectIDs           map[string]struct{}
	assignedSectionNames map[string]struct{}
	sectionNameByID      map[string]string
}

// NewFilter builds a filter for the actor. The sections collection is needed
// for the name-equality fallback: duplicate section records can share a
// display name across classes, and a teacher assigned to one of them is
// allowed to see items referencing its same-named twins.
func NewFilter(role string, teacher *models.Teacher, sections []models.Section) *Filter {
	f := &Filter{
		role:                 role,
		classIDs:             map[string]struct{}{},
		sectionIDs:           map[string]struct{}{},
		subjectIDs:           map[string]struct{}{},
		assignedSectionNames: map[string]struct{}{},
		sectionNameByID:      map[string]string{},
	}

	if role != RoleTeacher || teacher == nil {
		return f
	}

	for _, id := range teacher.AssignedClassIDs {
		f.classIDs[id] = struct{}{}
	}
	for _, id := range teacher.AssignedSectionIDs {
		f.sectionIDs[id] = struct{}{}
	}
	for _, id := range teacher.AssignedSubjectIDs {
		f.subjectIDs[id] = struct{}{}
	}

	for _, section := range sections {
		f.sectionNameByID[section.ID] = section.Name
		if _, ok := f.sectionIDs[section.ID]; ok && section.Name != "" {
			f.assignedSectionNames[section.Name] = struct{}{}
		}
	}

	return f
}

// Restricted reports whether the filter narrows anything at all.
func (f *Filter) Restricted() bool {
	return f.role == RoleTeacher
}

func (f *Filter) classAllowed(classID string) bool {
	if classID == "" || len(f.classIDs) == 0 {
		return true
	}
	_, ok := f.classIDs[classID]
	return ok
}

func (f *Filter) sectionAllowed(sectionID string) bool {
	if sectionID == "" || len(f.sectionIDs) == 0 {
		return true
	}
	if _, ok := f.sectionIDs[sectionID]; ok {
		return true
	}
	// Fallback: the id is not assigned, but a section with the same display
	// name is.
	if name := f.sectionNameByID[sectionID]; name != "" {
		_, ok := f.assignedSectionNames[name]
		return ok
	}
	return false
}

func (f *Filter) subjectAllowed(subjectID string) bool {
	if subjectID == "" || len(f.subjectIDs) == 0 {
		return true
	}
	_, ok := f.subjectIDs[subjectID]
	return ok
}

// Students keeps students in the teacher's assigned classes and sections.
func (f *Filter) Students(items []models.Student) []models.Student {
	if !f.Restricted() {
		return items
	}
	result := make([]models.Student, 0, len(items))
	for _, item := range items {
		if f.classAllowed(item.ClassID) && f.sectionAllowed(item.SectionID) {
			result = append(result, item)
		}
	}
	return result
}

// Groups keeps groups in the teacher's assigned classes and sections. A group
// without a section applies to the whole class and passes section scoping.
func (f *Filter) Groups(items []models.Group) []models.Group {
	if !f.Restricted() {
		return items
	}
	result := make([]models.Group, 0, len(items))
	for _, item := range items {
		sectionID := ""
		if item.SectionID != nil {
			sectionID = *item.SectionID
		}
		if f.classAllowed(item.ClassID) && f.sectionAllowed(sectionID) {
			result = append(result, item)
		}
	}
	return result
}

// Tasks keeps tasks in the teacher's scope. Unlike the other dimensions,
// subject scoping for tasks is always restrictive: a task with no subject is
// invisible to every teacher.
func (f *Filter) Tasks(items []models.Task) []models.Task {
	if !f.Restricted() {
		return items
	}
	result := make([]models.Task, 0, len(items))
	for _, item := range items {
		if item.SubjectID == nil || *item.SubjectID == "" {
			continue
		}
		if !f.classAllowed(item.ClassID) || !f.sectionAllowed(item.SectionID) {
			continue
		}
		if len(f.subjectIDs) > 0 {
			if _, ok := f.subjectIDs[*item.SubjectID]; !ok {
				continue
			}
		}
		result = append(result, item)
	}
	return result
}

// Evaluations keeps evaluations in the teacher's assigned classes/sections.
func (f *Filter) Evaluations(items []models.Evaluation) []models.Evaluation {
	if !f.Restricted() {
		return items
	}
	result := make([]models.Evaluation, 0, len(items))
	for _, item := range items {
		if f.classAllowed(item.ClassID) && f.sectionAllowed(item.SectionID) {
			result = append(result, item)
		}
	}
	return result
}

// Classes keeps the teacher's assigned classes.
func (f *Filter) Classes(items []models.SchoolClass) []models.SchoolClass {
	if !f.Restricted() {
		return items
	}
	result := make([]models.SchoolClass, 0, len(items))
	for _, item := range items {
		if f.classAllowed(item.ID) {
			result = append(result, item)
		}
	}
	return result
}

// Sections keeps the teacher's assigned sections (id or same-name fallback)
// within assigned classes.
func (f *Filter) Sections(items []models.Section) []models.Section {
	if !f.Restricted() {
		return items
	}
	result := make([]models.Section, 0, len(items))
	for _, item := range items {
		if f.classAllowed(item.ClassID) && f.sectionAllowed(item.ID) {
			result = append(result, item)
		}
	}
	return result
}

// Subjects keeps the teacher's assigned subjects within their class/section
// scope.
func (f *Filter) Subjects(items []models.Subject) []models.Subject {
	if !f.Restricted() {
		return items
	}
	result := make([]models.Subject, 0, len(items))
	for _, item := range items {
		if f.subjectAllowed(item.ID) && f.classAllowed(item.ClassID) && f.sectionAllowed(item.SectionID) {
			result = append(result, item)
		}
	}
	return result
}
