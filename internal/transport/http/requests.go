package http

import "time"

type createProjectRequest struct {
	Name               string  `json:"name" validate:"required,min=3,max=100"`
	WeightTask         float64 `json:"weight_task" validate:"gte=0"`
	WeightReview       float64 `json:"weight_review" validate:"gte=0"`
	WeightCommit       float64 `json:"weight_commit" validate:"gte=0"`
	WeightLate         float64 `json:"weight_late" validate:"gte=0"`
	FreeRiderThreshold float64 `json:"free_rider_threshold" validate:"gte=0,lte=1"`
	PressureThreshold  int     `json:"pressure_threshold" validate:"gte=0"`
	MaxMembers         int     `json:"max_members" validate:"gte=0"`
	CommitBaseline     int     `json:"commit_baseline" validate:"gte=0"`
}

type registerUsersRequest struct {
	Users []struct {
		UserID   string `json:"user_id" validate:"required,custom_id,min=1,max=100"`
		Username string `json:"username" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		FullName string `json:"full_name" validate:"required,min=2,max=200"`
	} `json:"users" validate:"required,min=1,dive"`
}

type createGroupRequest struct {
	ProjectID int64    `json:"project_id" validate:"required,gt=0"`
	Name      string   `json:"name" validate:"required,min=2,max=100"`
	LeaderID  *string  `json:"leader_id" validate:"omitempty,custom_id"`
	MemberIDs []string `json:"member_ids" validate:"required,min=1,dive,custom_id"`
}

type syncTasksRequest struct {
	Tasks []struct {
		ID                   int64      `json:"id" validate:"required,gt=0"`
		GroupID              int64      `json:"group_id" validate:"required,gt=0"`
		AssigneeID           string     `json:"assignee_id" validate:"required,custom_id"`
		Title                string     `json:"title" validate:"required,max=255"`
		Difficulty           string     `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
		Deadline             time.Time  `json:"deadline" validate:"required"`
		Status               string     `json:"status" validate:"required,oneof=TODO IN_PROGRESS COMPLETED"`
		CompletionPercentage float64    `json:"completion_percentage" validate:"gte=0,lte=100"`
		CompletedAt          *time.Time `json:"completed_at"`
	} `json:"tasks" validate:"required,min=1,dive"`
}

type ingestCommitsRequest struct {
	ProjectID int64 `json:"project_id" validate:"required,gt=0"`
	Commits   []struct {
		CommitID      string    `json:"commit_id" validate:"required,min=1,max=100"`
		AuthorName    string    `json:"author_name" validate:"max=200"`
		AuthorEmail   string    `json:"author_email" validate:"max=200"`
		Timestamp     time.Time `json:"timestamp" validate:"required"`
		Message       string    `json:"message"`
		RepositoryRef string    `json:"repository_ref" validate:"max=255"`
	} `json:"commits" validate:"required,min=1,dive"`
}

type submitReviewRequest struct {
	ProjectID        int64  `json:"project_id" validate:"required,gt=0"`
	ReviewerID       string `json:"reviewer_id" validate:"required,custom_id,min=1,max=100"`
	RevieweeID       string `json:"reviewee_id" validate:"required,custom_id,min=1,max=100"`
	CompletionScore  int    `json:"completion_score" validate:"required,min=1,max=5"`
	CooperationScore int    `json:"cooperation_score" validate:"required,min=1,max=5"`
	ReviewWeek       int    `json:"review_week" validate:"required,gte=1"`
	Comment          string `json:"comment" validate:"max=2000"`
}

type adjustScoreRequest struct {
	ProjectID     int64   `json:"project_id" validate:"required,gt=0"`
	UserID        string  `json:"user_id" validate:"required,custom_id,min=1,max=100"`
	AdjustedScore float64 `json:"adjusted_score" validate:"gte=0,lte=100"`
	Reason        string  `json:"reason" validate:"required,min=3,max=2000"`
}

type resetScoreRequest struct {
	ProjectID int64  `json:"project_id" validate:"required,gt=0"`
	UserID    string `json:"user_id" validate:"required,custom_id,min=1,max=100"`
}

type contactCaseRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type closeCaseRequest struct {
	Resolution string `json:"resolution" validate:"required,min=3,max=2000"`
}
