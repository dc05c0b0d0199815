package stats

import (
	"sort"
	"time"

	"github.com/classboard/classboard-api/internal/models"
)

// DefaultMinEvaluations is the minimum number of scoring passes a group needs
// before it appears on the leaderboard.
const DefaultMinEvaluations = 1

// LeaderboardEntry is one ranked group.
type LeaderboardEntry struct {
	Rank             int       `json:"rank"`
	GroupID          string    `json:"group_id"`
	Name             string    `json:"name"`
	Efficiency       float64   `json:"efficiency"`
	TotalScore       float64   `json:"total_score"`
	MaxScoreSum      float64   `json:"max_score_sum"`
	EvalCount        int       `json:"eval_count"`
	ParticipantCount int       `json:"participant_count"`
	LatestAt         time.Time `json:"latest_at"`
}

type leaderboardAccumulator struct {
	totalScore   float64
	maxScoreSum  float64
	evalCount    int
	participants map[string]struct{}
	latestAt     time.Time
}

// Leaderboard computes the canonical group ranking over the supplied
// (already scoped) data. Efficiency is the same weighted-average formula the
// performance pass uses, recomputed here for whatever subset of evaluations
// the caller selected. Groups below minEvals scoring passes are excluded, as
// is the unassigned bucket and any group id with no known group record.
//
// The sort is stable and descends through efficiency, evaluation count, total
// score and latest evaluation timestamp; groups tied on all four keys keep
// their input order, which makes the ranking deterministic for identical
// inputs. Rank is the 1-based position after the sort.
func Leaderboard(groups []models.Group, students []models.Student, tasks []models.Task, evals []models.Evaluation, minEvals int) []LeaderboardEntry {
	if minEvals < 1 {
		minEvals = DefaultMinEvaluations
	}

	studentsByID := studentIndex(students)
	tasksByID := taskIndex(tasks)

	buckets := make(map[string]*leaderboardAccumulator)
	bucket := func(gid string) *leaderboardAccumulator {
		acc, ok := buckets[gid]
		if !ok {
			acc = &leaderboardAccumulator{participants: map[string]struct{}{}}
			buckets[gid] = acc
		}
		return acc
	}

	for _, eval := range evals {
		perStudent := perStudentMax(tasksByID[eval.TaskID], eval)
		counted := map[string]struct{}{}
		occurredAt := eval.OccurredAt()

		for studentID, score := range eval.Scores.Data() {
			gid := ResolveGroupID(studentsByID[studentID], eval.GroupID)
			if gid == UnassignedGroupKey {
				continue
			}

			acc := bucket(gid)
			acc.totalScore += clampScore(score.TotalScore, perStudent)
			acc.maxScoreSum += perStudent
			acc.participants[studentID] = struct{}{}

			if _, seen := counted[gid]; !seen {
				counted[gid] = struct{}{}
				acc.evalCount++
				if laterThan(occurredAt, acc.latestAt) {
					acc.latestAt = occurredAt
				}
			}
		}
	}

	entries := make([]LeaderboardEntry, 0, len(groups))
	for _, group := range groups {
		acc, ok := buckets[group.ID]
		if !ok || acc.evalCount < minEvals {
			continue
		}

		entries = append(entries, LeaderboardEntry{
			GroupID:          group.ID,
			Name:             group.Name,
			Efficiency:       percentOf(acc.totalScore, acc.maxScoreSum),
			TotalScore:       acc.totalScore,
			MaxScoreSum:      acc.maxScoreSum,
			EvalCount:        acc.evalCount,
			ParticipantCount: len(acc.participants),
			LatestAt:         acc.latestAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Efficiency != b.Efficiency {
			return a.Efficiency > b.Efficiency
		}
		if a.EvalCount != b.EvalCount {
			return a.EvalCount > b.EvalCount
		}
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		return a.LatestAt.After(b.LatestAt)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
