// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the
// service layer.
package repository

import (
	"context"
	"time"

	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

// ProjectRepository defines the contract for project configuration data.
type ProjectRepository interface {
	// CreateProject inserts a new project with its scoring configuration.
	// It returns apperrors.ErrAlreadyExists if a project with the same name
	// already exists.
	CreateProject(ctx context.Context, p domain.Project) (*domain.Project, error)

	// GetProjectByID retrieves a project by id.
	// It returns apperrors.ErrNotFound if the project does not exist.
	GetProjectByID(ctx context.Context, projectID int64) (*domain.Project, error)
}

// RosterRepository defines the contract for users and group membership.
type RosterRepository interface {
	// UpsertUsers inserts or updates registered users.
	UpsertUsers(ctx context.Context, users []domain.User) error

	// CreateGroupWithMembers creates a group and links its members.
	// This operation is expected to be transactional.
	CreateGroupWithMembers(ctx context.Context, group domain.Group, memberIDs []string) (*domain.GroupWithMembers, error)

	// GetGroupWithMembers retrieves one group and its member users.
	// It returns apperrors.ErrNotFound if the group does not exist.
	GetGroupWithMembers(ctx context.Context, groupID int64) (*domain.GroupWithMembers, error)

	// GetGroupsByProject retrieves all groups of a project with their members.
	GetGroupsByProject(ctx context.Context, projectID int64) ([]domain.GroupWithMembers, error)

	// GetProjectRoster retrieves every registered member of a project across
	// all of its groups, used as the attribution target set.
	GetProjectRoster(ctx context.Context, projectID int64) ([]domain.User, error)
}

// TaskRepository defines the contract for task snapshot data.
type TaskRepository interface {
	// UpsertTasks stores a batch of task snapshots supplied by the upstream
	// task tracker.
	UpsertTasks(ctx context.Context, tasks []domain.Task) error

	// GetTasksByAssignee retrieves all tasks assigned to a user within a
	// project, across the project's groups.
	GetTasksByAssignee(ctx context.Context, projectID int64, userID string) ([]domain.Task, error)

	// GetActiveTasksByAssignee retrieves the user's not-completed tasks in a
	// project, the input of the pressure classifier.
	GetActiveTasksByAssignee(ctx context.Context, projectID int64, userID string) ([]domain.Task, error)
}

// CommitRepository defines the contract for ingested commit records.
type CommitRepository interface {
	// InsertCommit stores a new commit record.
	// It returns apperrors.ErrAlreadyExists if the commit hash was already
	// ingested for the project.
	InsertCommit(ctx context.Context, rec domain.CommitRecord) (*domain.CommitRecord, error)

	// UpdateResolution mutates only the resolution fields of a record; the
	// raw ingested fields are immutable.
	UpdateResolution(ctx context.Context, recordID int64, resolvedUserID *string, isValid bool) error

	// CountValidCommits counts a user's validated commits in a project with
	// timestamps at or before the cutoff, so a recompute pass sees a
	// consistent snapshot while ingestion continues concurrently.
	CountValidCommits(ctx context.Context, projectID int64, userID string, cutoff time.Time) (int, error)

	// ListCommitsByProject retrieves all records including invalid ones,
	// used by audit views and re-resolution after roster changes.
	ListCommitsByProject(ctx context.Context, projectID int64) ([]domain.CommitRecord, error)
}

// ReviewRepository defines the contract for weekly peer reviews.
type ReviewRepository interface {
	// UpsertReview stores a review, replacing any earlier submission by the
	// same reviewer for the same reviewee and week.
	UpsertReview(ctx context.Context, review domain.PeerReview) (*domain.PeerReview, error)

	// GetReceivedReviews retrieves all reviews where the user is reviewee
	// within a project.
	GetReceivedReviews(ctx context.Context, projectID int64, revieweeID string) ([]domain.PeerReview, error)
}

// ScoreRepository defines the contract for contribution score rows, one per
// (user, project).
type ScoreRepository interface {
	// GetScore retrieves the score row for a user in a project.
	// It returns apperrors.ErrNotFound if no score has been computed yet.
	GetScore(ctx context.Context, projectID int64, userID string) (*domain.ContributionScore, error)

	// GetScoreForUpdate retrieves the score row with a row-level lock
	// ("FOR UPDATE") inside the given transaction, serializing manual
	// adjustment against recomputation of the same row.
	GetScoreForUpdate(ctx context.Context, tx *sqlx.Tx, projectID int64, userID string) (*domain.ContributionScore, error)

	// UpsertScore writes a score row keyed by (user, project). The ext
	// argument allows execution inside a transaction or on a direct
	// connection.
	UpsertScore(ctx context.Context, ext sqlx.ExtContext, score domain.ContributionScore) (*domain.ContributionScore, error)

	// ListScoresByProject retrieves all score rows of a project.
	ListScoresByProject(ctx context.Context, projectID int64) ([]domain.ContributionScore, error)

	// ListScoresByUsers retrieves score rows for the given users of a
	// project, used to build per-group views.
	ListScoresByUsers(ctx context.Context, projectID int64, userIDs []string) ([]domain.ContributionScore, error)
}

// CaseRepository defines the contract for free-rider case records.
type CaseRepository interface {
	// CreateCase inserts a new case in state PENDING.
	// It returns apperrors.CaseAlreadyOpenError if a non-terminal case
	// already exists for the (student, project) pair.
	CreateCase(ctx context.Context, c domain.FreeRiderCase) (*domain.FreeRiderCase, error)

	// GetCaseByID retrieves a case.
	// It returns apperrors.ErrNotFound if the case does not exist.
	GetCaseByID(ctx context.Context, caseID int64) (*domain.FreeRiderCase, error)

	// GetOpenCase retrieves the non-terminal case for a (student, project)
	// pair, or apperrors.ErrNotFound when none is open.
	GetOpenCase(ctx context.Context, projectID int64, studentID string) (*domain.FreeRiderCase, error)

	// ListCasesByProject retrieves all cases of a project, newest first.
	ListCasesByProject(ctx context.Context, projectID int64) ([]domain.FreeRiderCase, error)

	// UpdateCase persists a lifecycle mutation (status, resolution, notes,
	// timestamps). Detection-time fields are never rewritten.
	UpdateCase(ctx context.Context, c domain.FreeRiderCase) (*domain.FreeRiderCase, error)
}
