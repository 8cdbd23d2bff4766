package domain

import (
	"time"
)

type TaskDifficulty string

const (
	DifficultyEasy   TaskDifficulty = "EASY"
	DifficultyMedium TaskDifficulty = "MEDIUM"
	DifficultyHard   TaskDifficulty = "HARD"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

type CaseStatus string

const (
	CaseStatusPending   CaseStatus = "PENDING"
	CaseStatusContacted CaseStatus = "CONTACTED"
	CaseStatusResolved  CaseStatus = "RESOLVED"
	CaseStatusDismissed CaseStatus = "DISMISSED"
)

// Terminal reports whether the case status admits no further transitions.
func (s CaseStatus) Terminal() bool {
	return s == CaseStatusResolved || s == CaseStatusDismissed
}

type PressureStatus string

const (
	PressureSafe       PressureStatus = "SAFE"
	PressureAtRisk     PressureStatus = "AT_RISK"
	PressureOverloaded PressureStatus = "OVERLOADED"
)

// Project carries the per-project scoring configuration. Weights do not have
// to sum to 1; they are validated non-negative at the edge.
type Project struct {
	ID                 int64     `db:"id"`
	Name               string    `db:"name"`
	WeightTask         float64   `db:"weight_task"`
	WeightReview       float64   `db:"weight_review"`
	WeightCommit       float64   `db:"weight_commit"`
	WeightLate         float64   `db:"weight_late"`
	FreeRiderThreshold float64   `db:"free_rider_threshold"`
	PressureThreshold  int       `db:"pressure_threshold"`
	MaxMembers         int       `db:"max_members"`
	CommitBaseline     int       `db:"commit_baseline"`
	CreatedAt          time.Time `db:"created_at"`
}

type User struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
	FullName string `db:"full_name"`
}

type Group struct {
	ID        int64   `db:"id"`
	ProjectID int64   `db:"project_id"`
	Name      string  `db:"name"`
	LeaderID  *string `db:"leader_id"`
}

type GroupWithMembers struct {
	Group
	Members []User
}

type Task struct {
	ID                   int64          `db:"id"`
	GroupID              int64          `db:"group_id"`
	AssigneeID           string         `db:"assignee_id"`
	Title                string         `db:"title"`
	Difficulty           TaskDifficulty `db:"difficulty"`
	Deadline             time.Time      `db:"deadline"`
	Status               TaskStatus     `db:"status"`
	CompletionPercentage float64        `db:"completion_percentage"`
	CompletedAt          *time.Time     `db:"completed_at"`
}

// CommitRecord is created from the ingested commit feed. The raw author
// fields are immutable once stored; only the resolution fields change.
type CommitRecord struct {
	ID             int64      `db:"id"`
	CommitID       string     `db:"commit_id"`
	ProjectID      int64      `db:"project_id"`
	AuthorName     string     `db:"author_name"`
	AuthorEmail    string     `db:"author_email"`
	Message        string     `db:"message"`
	RepositoryRef  string     `db:"repository_ref"`
	Timestamp      time.Time  `db:"committed_at"`
	TaskID         *int64     `db:"task_id"`
	ResolvedUserID *string    `db:"resolved_user_id"`
	IsValid        bool       `db:"is_valid"`
	CreatedAt      time.Time  `db:"created_at"`
}

type PeerReview struct {
	ID               int64  `db:"id"`
	ProjectID        int64  `db:"project_id"`
	ReviewerID       string `db:"reviewer_id"`
	RevieweeID       string `db:"reviewee_id"`
	CompletionScore  int    `db:"completion_score"`
	CooperationScore int    `db:"cooperation_score"`
	ReviewWeek       int    `db:"review_week"`
	Comment          string `db:"comment"`
}

// ContributionScore is the one-row-per-(user, project) composite result.
// When IsFinal is set, CalculatedScore is frozen and AdjustedScore is the
// score in effect.
type ContributionScore struct {
	ID                  int64      `db:"id"`
	UserID              string     `db:"user_id"`
	ProjectID           int64      `db:"project_id"`
	TaskCompletionScore float64    `db:"task_completion_score"`
	PeerReviewScore     float64    `db:"peer_review_score"`
	CommitCount         int        `db:"commit_count"`
	LateTaskCount       int        `db:"late_task_count"`
	CalculatedScore     float64    `db:"calculated_score"`
	AdjustedScore       *float64   `db:"adjusted_score"`
	AdjustmentReason    *string    `db:"adjustment_reason"`
	IsFinal             bool       `db:"is_final"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// EffectiveScore returns the score in effect: the manual adjustment when the
// score is finalized, otherwise the calculated composite.
func (s ContributionScore) EffectiveScore() float64 {
	if s.IsFinal && s.AdjustedScore != nil {
		return *s.AdjustedScore
	}

	return s.CalculatedScore
}

type FreeRiderCase struct {
	ID          int64      `db:"id"`
	StudentID   string     `db:"student_id"`
	ProjectID   int64      `db:"project_id"`
	GroupID     int64      `db:"group_id"`
	Status      CaseStatus `db:"status"`
	Resolution  *string    `db:"resolution"`
	Notes       *string    `db:"notes"`
	Evidence    string     `db:"evidence"`
	DetectedAt  time.Time  `db:"detected_at"`
	ContactedAt *time.Time `db:"contacted_at"`
	ResolvedAt  *time.Time `db:"resolved_at"`
}

// PressureResult is the outcome of classifying one user's active task load.
type PressureResult struct {
	UserID              string
	ProjectID           int64
	TMPS                float64
	Status              PressureStatus
	ThresholdPercentage float64
}
