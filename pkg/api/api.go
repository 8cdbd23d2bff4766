// Package api defines the wire-level types produced by the service layer and
// consumed by the HTTP transport and the notification collaborator.
package api

import "time"

type Project struct {
	ProjectID          int64   `json:"project_id"`
	Name               string  `json:"name"`
	WeightTask         float64 `json:"weight_task"`
	WeightReview       float64 `json:"weight_review"`
	WeightCommit       float64 `json:"weight_commit"`
	WeightLate         float64 `json:"weight_late"`
	FreeRiderThreshold float64 `json:"free_rider_threshold"`
	PressureThreshold  int     `json:"pressure_threshold"`
	MaxMembers         int     `json:"max_members"`
	CommitBaseline     int     `json:"commit_baseline"`
}

// CommitFeedEntry is one raw entry from the source-control hosting
// collaborator's commit feed.
type CommitFeedEntry struct {
	CommitID      string    `json:"commit_id"`
	AuthorName    string    `json:"author_name"`
	AuthorEmail   string    `json:"author_email"`
	Timestamp     time.Time `json:"timestamp"`
	Message       string    `json:"message"`
	RepositoryRef string    `json:"repository_ref"`
}

// TaskSnapshot is one task record supplied by the upstream task tracker.
type TaskSnapshot struct {
	ID                   int64      `json:"id"`
	GroupID              int64      `json:"group_id"`
	AssigneeID           string     `json:"assignee_id"`
	Title                string     `json:"title"`
	Difficulty           string     `json:"difficulty"`
	Deadline             time.Time  `json:"deadline"`
	Status               string     `json:"status"`
	CompletionPercentage float64    `json:"completion_percentage"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// PeerReviewSubmission is a weekly review of one group member by another.
type PeerReviewSubmission struct {
	ReviewerID       string `json:"reviewer_id"`
	RevieweeID       string `json:"reviewee_id"`
	ProjectID        int64  `json:"project_id"`
	CompletionScore  int    `json:"completion_score"`
	CooperationScore int    `json:"cooperation_score"`
	ReviewWeek       int    `json:"review_week"`
	Comment          string `json:"comment"`
}

// ContributionScoreResponse carries the composite and component scores for
// one user plus the finalization state. EffectiveScore is the score in
// effect: the manual adjustment when finalized, otherwise the calculated one.
type ContributionScoreResponse struct {
	UserID              string    `json:"user_id"`
	ProjectID           int64     `json:"project_id"`
	TaskCompletionScore float64   `json:"task_completion_score"`
	PeerReviewScore     float64   `json:"peer_review_score"`
	CommitCount         int       `json:"commit_count"`
	LateTaskCount       int       `json:"late_task_count"`
	CalculatedScore     float64   `json:"calculated_score"`
	AdjustedScore       *float64  `json:"adjusted_score,omitempty"`
	AdjustmentReason    *string   `json:"adjustment_reason,omitempty"`
	EffectiveScore      float64   `json:"effective_score"`
	IsFinal             bool      `json:"is_final"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type ProjectScoresResponse struct {
	ProjectID int64                       `json:"project_id"`
	Scores    []ContributionScoreResponse `json:"scores"`
}

type PressureScoreResponse struct {
	UserID              string  `json:"user_id"`
	ProjectID           int64   `json:"project_id"`
	TMPS                float64 `json:"tmps"`
	Status              string  `json:"status"`
	StatusLabel         string  `json:"status_label"`
	ThresholdPercentage float64 `json:"threshold_percentage"`
}

type GroupPressureResponse struct {
	GroupID int64                   `json:"group_id"`
	Members []PressureScoreResponse `json:"members"`
}

type FreeRiderCaseDTO struct {
	CaseID      int64      `json:"case_id"`
	StudentID   string     `json:"student_id"`
	ProjectID   int64      `json:"project_id"`
	GroupID     int64      `json:"group_id"`
	Status      string     `json:"status"`
	StatusLabel string     `json:"status_label"`
	Resolution  *string    `json:"resolution,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Evidence    string     `json:"evidence"`
	DetectedAt  time.Time  `json:"detected_at"`
	ContactedAt *time.Time `json:"contacted_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// DetectionResult summarizes one free-rider detection pass.
type DetectionResult struct {
	ProjectID     int64              `json:"project_id"`
	NewCases      []FreeRiderCaseDTO `json:"new_cases"`
	ExistingOpen  int                `json:"existing_open"`
	GroupsScanned int                `json:"groups_scanned"`
}

// RecomputeFailure records a single user whose score could not be computed
// during a batch pass; the previous valid score is retained for that user.
type RecomputeFailure struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// RecomputeResult summarizes one per-project recompute pass at a fixed
// cutoff, so the pass is reproducible.
type RecomputeResult struct {
	ProjectID      int64              `json:"project_id"`
	Cutoff         time.Time          `json:"cutoff"`
	UsersProcessed int                `json:"users_processed"`
	Failures       []RecomputeFailure `json:"failures,omitempty"`
}

// CommitIngestResult summarizes one commit feed batch.
type CommitIngestResult struct {
	Ingested   int `json:"ingested"`
	Unmatched  int `json:"unmatched"`
	Duplicates int `json:"duplicates"`
}

// Notification event types handed to the notification collaborator.
const (
	EventCaseCreated    = "free_rider_case_created"
	EventUserOverloaded = "user_overloaded"
)

// NotificationEvent is the outbound fire-and-forget payload. Delivery
// failures never roll back the state change that produced the event.
type NotificationEvent struct {
	Type       string    `json:"type"`
	ProjectID  int64     `json:"project_id"`
	UserID     string    `json:"user_id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
