package stats

import (
	"github.com/classboard/classboard-api/internal/models"
)

// Completion scope labels.
const (
	ScopeLatest = "latest"
	ScopeGlobal = "global"
)

// CompletionSummary reports evaluated versus pending counts for one task, or
// summed across every task for the global scope.
type CompletionSummary struct {
	Scope             string  `json:"scope"`
	TaskID            string  `json:"task_id,omitempty"`
	TaskName          string  `json:"task_name,omitempty"`
	TotalEligible     int     `json:"total_eligible"`
	EvaluatedStudents int     `json:"evaluated_students"`
	PendingStudents   int     `json:"pending_students"`
	TotalGroups       int     `json:"total_groups"`
	EvaluatedGroups   int     `json:"evaluated_groups"`
	PendingGroups     int     `json:"pending_groups"`
	CompletionPercent float64 `json:"completion_percent"`
}

// LatestTask picks the task with the most recent resolved schedule timestamp,
// used as the implicit target when no assignment has been selected. Returns
// nil when no tasks exist.
func LatestTask(tasks []models.Task) *models.Task {
	var latest *models.Task
	for i := range tasks {
		if latest == nil || tasks[i].ScheduledAt().After(latest.ScheduledAt()) {
			latest = &tasks[i]
		}
	}
	return latest
}

// TaskCompletion computes the evaluated/pending summary for a single task.
// The eligible population is the current membership of the groups the task
// was assigned to, or of all known groups when the task carries no explicit
// assignment list. Evaluated counts are clamped so inconsistent data can
// never report more evaluated students than eligible ones or a negative
// pending count.
func TaskCompletion(task models.Task, groups []models.Group, students []models.Student, evals []models.Evaluation) CompletionSummary {
	sizes := groupSizes(students)
	eligible := eligibleGroups(task, groups)

	eligibleIDs := make(map[string]struct{}, len(eligible))
	totalEligible := 0
	for _, group := range eligible {
		eligibleIDs[group.ID] = struct{}{}
		totalEligible += sizes[group.ID]
	}

	evaluatedStudents := map[string]struct{}{}
	evaluatedGroups := map[string]struct{}{}
	for _, eval := range evals {
		if eval.TaskID != task.ID {
			continue
		}
		for studentID := range eval.Scores.Data() {
			evaluatedStudents[studentID] = struct{}{}
		}
		if _, ok := eligibleIDs[eval.GroupID]; ok {
			evaluatedGroups[eval.GroupID] = struct{}{}
		}
	}

	summary := CompletionSummary{
		Scope:             task.ID,
		TaskID:            task.ID,
		TaskName:          task.Name,
		TotalEligible:     totalEligible,
		EvaluatedStudents: len(evaluatedStudents),
		TotalGroups:       len(eligible),
		EvaluatedGroups:   len(evaluatedGroups),
	}

	return finalizeCompletion(summary)
}

// GlobalCompletion sums the per-task summaries across every task. A student
// evaluated on three tasks counts three times in the numerator against an
// eligible total of students multiplied by tasks; the per-task counts are
// de-duplicated, the cross-task sum deliberately is not.
func GlobalCompletion(tasks []models.Task, groups []models.Group, students []models.Student, evals []models.Evaluation) CompletionSummary {
	total := CompletionSummary{Scope: ScopeGlobal}
	for _, task := range tasks {
		part := TaskCompletion(task, groups, students, evals)
		total.TotalEligible += part.TotalEligible
		total.EvaluatedStudents += part.EvaluatedStudents
		total.TotalGroups += part.TotalGroups
		total.EvaluatedGroups += part.EvaluatedGroups
	}
	return finalizeCompletion(total)
}

func eligibleGroups(task models.Task, groups []models.Group) []models.Group {
	if len(task.AssignedGroupIDs) == 0 {
		return groups
	}

	assigned := make(map[string]struct{}, len(task.AssignedGroupIDs))
	for _, id := range task.AssignedGroupIDs {
		assigned[id] = struct{}{}
	}

	eligible := make([]models.Group, 0, len(task.AssignedGroupIDs))
	for _, group := range groups {
		if _, ok := assigned[group.ID]; ok {
			eligible = append(eligible, group)
		}
	}
	return eligible
}

func finalizeCompletion(summary CompletionSummary) CompletionSummary {
	if summary.EvaluatedStudents > summary.TotalEligible {
		summary.EvaluatedStudents = summary.TotalEligible
	}
	if summary.EvaluatedGroups > summary.TotalGroups {
		summary.EvaluatedGroups = summary.TotalGroups
	}
	summary.PendingStudents = summary.TotalEligible - summary.EvaluatedStudents
	if summary.PendingStudents < 0 {
		summary.PendingStudents = 0
	}
	summary.PendingGroups = summary.TotalGroups - summary.EvaluatedGroups
	if summary.PendingGroups < 0 {
		summary.PendingGroups = 0
	}
	summary.CompletionPercent = ratioPercent(float64(summary.EvaluatedStudents), float64(summary.TotalEligible))
	return summary
}
