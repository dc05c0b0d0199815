package stats

import (
	"sort"
	"time"

	"github.com/classboard/classboard-api/internal/models"
)

// LatestEvaluation summarises the single most recent scoring pass of a group.
type LatestEvaluation struct {
	EvaluationID      string    `json:"evaluation_id"`
	TaskID            string    `json:"task_id"`
	Timestamp         time.Time `json:"timestamp"`
	AverageScore      float64   `json:"average_score"`
	ParticipantCount  int       `json:"participant_count"`
	ParticipationRate float64   `json:"participation_rate"`
}

// GroupPerformance is the lifetime weighted performance of one group.
type GroupPerformance struct {
	GroupID              string            `json:"group_id"`
	Name                 string            `json:"name"`
	ClassID              string            `json:"class_id"`
	SectionID            string            `json:"section_id"`
	AverageScore         float64           `json:"average_score"`
	TotalScoreSum        float64           `json:"total_score_sum"`
	MaxScoreSum          float64           `json:"max_score_sum"`
	EvalCount            int               `json:"eval_count"`
	MemberCount          int               `json:"member_count"`
	EvaluatedMemberCount int               `json:"evaluated_member_count"`
	ParticipationRate    float64           `json:"participation_rate"`
	EvaluatedStudentIDs  []string          `json:"evaluated_student_ids"`
	Latest               *LatestEvaluation `json:"latest,omitempty"`
}

type performanceAccumulator struct {
	totalScoreSum float64
	maxScoreSum   float64
	evalCount     int
	students      map[string]struct{}
	latestAt      time.Time
	latest        *LatestEvaluation
}

// GroupPerformances computes the weighted average, participation and latest
// evaluation for every known group. The average is weighted across all scored
// students and all tasks: sum of totals over sum of per-student maxima, never
// an average of per-evaluation percentages. Evaluations referencing unknown
// tasks are still counted against the evaluation's own recorded maximum.
// The result is sorted descending by average score (display order, not the
// canonical leaderboard order).
func GroupPerformances(groups []models.Group, students []models.Student, tasks []models.Task, evals []models.Evaluation) []GroupPerformance {
	studentsByID := studentIndex(students)
	tasksByID := taskIndex(tasks)
	sizes := groupSizes(students)

	buckets := make(map[string]*performanceAccumulator)
	bucket := func(gid string) *performanceAccumulator {
		acc, ok := buckets[gid]
		if !ok {
			acc = &performanceAccumulator{students: map[string]struct{}{}}
			buckets[gid] = acc
		}
		return acc
	}

	for _, eval := range evals {
		task := tasksByID[eval.TaskID]
		perStudent := perStudentMax(task, eval)

		type evalShare struct {
			totalSum     float64
			maxSum       float64
			participants int
		}
		shares := map[string]*evalShare{}

		for studentID, score := range eval.Scores.Data() {
			gid := ResolveGroupID(studentsByID[studentID], eval.GroupID)
			share, ok := shares[gid]
			if !ok {
				share = &evalShare{}
				shares[gid] = share
			}
			share.totalSum += clampScore(score.TotalScore, perStudent)
			share.maxSum += perStudent
			share.participants++

			acc := bucket(gid)
			acc.students[studentID] = struct{}{}
		}

		occurredAt := eval.OccurredAt()
		for gid, share := range shares {
			acc := bucket(gid)
			acc.totalScoreSum += share.totalSum
			acc.maxScoreSum += share.maxSum
			acc.evalCount++

			if laterThan(occurredAt, acc.latestAt) {
				acc.latestAt = occurredAt
				acc.latest = &LatestEvaluation{
					EvaluationID:      eval.ID,
					TaskID:            eval.TaskID,
					Timestamp:         occurredAt,
					AverageScore:      percentOf(share.totalSum, share.maxSum),
					ParticipantCount:  share.participants,
					ParticipationRate: ratioPercent(float64(share.participants), float64(sizes[gid])),
				}
			}
		}
	}

	performances := make([]GroupPerformance, 0, len(groups))
	for _, group := range groups {
		acc := buckets[group.ID]
		perf := GroupPerformance{
			GroupID:     group.ID,
			Name:        group.Name,
			ClassID:     group.ClassID,
			MemberCount: sizes[group.ID],
		}
		if group.SectionID != nil {
			perf.SectionID = *group.SectionID
		}
		if acc != nil {
			perf.TotalScoreSum = acc.totalScoreSum
			perf.MaxScoreSum = acc.maxScoreSum
			perf.AverageScore = percentOf(acc.totalScoreSum, acc.maxScoreSum)
			perf.EvalCount = acc.evalCount
			perf.EvaluatedMemberCount = len(acc.students)
			perf.ParticipationRate = ratioPercent(float64(len(acc.students)), float64(perf.MemberCount))
			perf.Latest = acc.latest

			ids := make([]string, 0, len(acc.students))
			for id := range acc.students {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			perf.EvaluatedStudentIDs = ids
		}
		performances = append(performances, perf)
	}

	sort.SliceStable(performances, func(i, j int) bool {
		return performances[i].AverageScore > performances[j].AverageScore
	})

	return performances
}

// OverallAverage computes the unscoped weighted average across every score
// entry: sum of clamped totals over sum of per-student maxima. It feeds the
// "overall progress" indicator and is independent of any selected assignment.
func OverallAverage(tasks []models.Task, evals []models.Evaluation) float64 {
	tasksByID := taskIndex(tasks)

	var totalSum, maxSum float64
	for _, eval := range evals {
		perStudent := perStudentMax(tasksByID[eval.TaskID], eval)
		for _, score := range eval.Scores.Data() {
			totalSum += clampScore(score.TotalScore, perStudent)
			maxSum += perStudent
		}
	}

	return percentOf(totalSum, maxSum)
}
