// Package stats implements the pure aggregation engine behind the dashboard:
// group performance, leaderboard ranking, completion summaries and
// academic-group rollups. Everything here is a synchronous reduction over
// already-loaded collections; no I/O, no hidden state.
package stats

import (
	"math"
	"time"

	"github.com/classboard/classboard-api/internal/models"
)

// UnassignedGroupKey buckets score entries whose student has no live group and
// whose evaluation carries no group either. The bucket is never ranked or
// displayed.
const UnassignedGroupKey = "__none"

// defaultMaxScore is the last-resort per-student maximum when neither the task
// nor the evaluation configures one.
const defaultMaxScore = 100

// ResolveGroupID determines which group a score entry belongs to. Priority:
// the student's current GroupID (membership source of truth), then the
// evaluation's stored group (covers students transferred or deleted since the
// evaluation was recorded), then the unassigned bucket.
func ResolveGroupID(student *models.Student, evaluationGroupID string) string {
	if student != nil {
		if current := student.CurrentGroupID(); current != "" {
			return current
		}
	}
	if evaluationGroupID != "" {
		return evaluationGroupID
	}
	return UnassignedGroupKey
}

// perStudentMax resolves the maximum score one student entry counts against:
// the task's configured max, else the evaluation's recorded max, else 100.
func perStudentMax(task *models.Task, eval models.Evaluation) float64 {
	if task != nil && safeNumber(task.MaxScore) > 0 {
		return task.MaxScore
	}
	if safeNumber(eval.MaxPossibleScore) > 0 {
		return eval.MaxPossibleScore
	}
	return defaultMaxScore
}

// safeNumber collapses NaN and infinities to 0 so malformed numeric input can
// never poison an aggregate.
func safeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// clampScore bounds a student total to [0, max].
func clampScore(total, max float64) float64 {
	total = safeNumber(total)
	if total < 0 {
		return 0
	}
	if max > 0 && total > max {
		return max
	}
	return total
}

// ratioPercent divides guarding the zero denominator and caps at 100.
func ratioPercent(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	percent := numerator / denominator * 100
	if percent > 100 {
		return 100
	}
	return safeNumber(percent)
}

// percentOf divides without the 100 cap, still guarding the denominator.
func percentOf(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return safeNumber(numerator / denominator * 100)
}

func studentIndex(students []models.Student) map[string]*models.Student {
	index := make(map[string]*models.Student, len(students))
	for i := range students {
		index[students[i].ID] = &students[i]
	}
	return index
}

func taskIndex(tasks []models.Task) map[string]*models.Task {
	index := make(map[string]*models.Task, len(tasks))
	for i := range tasks {
		index[tasks[i].ID] = &tasks[i]
	}
	return index
}

// groupSizes counts current members per group from Student.GroupID only.
func groupSizes(students []models.Student) map[string]int {
	sizes := make(map[string]int)
	for _, student := range students {
		if gid := student.CurrentGroupID(); gid != "" {
			sizes[gid]++
		}
	}
	return sizes
}

func laterThan(candidate, current time.Time) bool {
	return current.IsZero() || candidate.After(current)
}
