package dto

import (
	"time"

	"github.com/classboard/classboard-api/internal/stats"
)

// DashboardQuery is the explicit, immutable parameter set one dashboard
// recomputation is keyed to. There is no hidden selection state: every
// request carries its own scope and the rendered result is last-write-wins at
// the caller.
type DashboardQuery struct {
	// Scope is "latest", "global" or a specific task id.
	Scope     string `json:"scope"`
	ClassID   string `json:"class_id"`
	SectionID string `json:"section_id"`
	SubjectID string `json:"subject_id"`
	ActorRole string `json:"actor_role"`
	TeacherID string `json:"teacher_id"`
}

// DashboardResponse is the aggregated view-model handed to the rendering
// layer.
type DashboardResponse struct {
	Scope          string                    `json:"scope"`
	TargetTaskID   string                    `json:"target_task_id,omitempty"`
	GeneratedAt    time.Time                 `json:"generated_at"`
	GlobalAverage  float64                   `json:"global_average"`
	Performances   []stats.GroupPerformance  `json:"performances"`
	Leaderboard    []stats.LeaderboardEntry  `json:"leaderboard"`
	Completion     stats.CompletionSummary   `json:"completion"`
	AcademicGroups []stats.AcademicGroupStat `json:"academic_groups"`
}
