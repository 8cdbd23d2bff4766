package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")

	ErrAdjustmentReasonRequired = errors.New("adjustment reason must not be blank")
	ErrScoreNotFinalized        = errors.New("contribution score has no adjustment to clear")

	ErrCaseTerminal          = errors.New("free-rider case is in a terminal state")
	ErrInvalidCaseTransition = errors.New("invalid free-rider case transition")

	ErrSelfReview = errors.New("peer review of oneself is not allowed")
	ErrGroupFull  = errors.New("group already has the maximum number of members")
)

type ProjectAlreadyExistsError struct{ ProjectName string }

func (e *ProjectAlreadyExistsError) Error() string {
	return fmt.Sprintf("project '%s' already exists", e.ProjectName)
}
func (e *ProjectAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

type CommitAlreadyExistsError struct{ CommitID string }

func (e *CommitAlreadyExistsError) Error() string {
	return fmt.Sprintf("commit '%s' already ingested", e.CommitID)
}
func (e *CommitAlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// CaseAlreadyOpenError is returned when a non-terminal free-rider case
// already exists for the (student, project) pair.
type CaseAlreadyOpenError struct {
	StudentID string
	ProjectID int64
}

func (e *CaseAlreadyOpenError) Error() string {
	return fmt.Sprintf("open free-rider case already exists for student '%s' in project %d", e.StudentID, e.ProjectID)
}
func (e *CaseAlreadyOpenError) Is(target error) bool { return target == ErrAlreadyExists }
