package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type CaseRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewCaseRepository(db *sqlx.DB, log *slog.Logger) *CaseRepository {
	return &CaseRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var caseColumns = []string{
	"id", "student_id", "project_id", "group_id", "status", "resolution",
	"notes", "evidence", "detected_at", "contacted_at", "resolved_at",
}

var terminalStatuses = []domain.CaseStatus{domain.CaseStatusResolved, domain.CaseStatusDismissed}

func (cr *CaseRepository) CreateCase(ctx context.Context, c domain.FreeRiderCase) (*domain.FreeRiderCase, error) {
	const op = "internal.repository.postgres.CreateCase"
	log := cr.log.With(slog.String("op", op), slog.String("student_id", c.StudentID), slog.Int64("project_id", c.ProjectID))

	query, args, err := cr.sq.Insert("free_rider_cases").
		Columns("student_id", "project_id", "group_id", "status", "evidence", "detected_at").
		Values(c.StudentID, c.ProjectID, c.GroupID, c.Status, c.Evidence, c.DetectedAt).
		Suffix("RETURNING " + joinColumns(caseColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.FreeRiderCase
	if err := cr.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		// The partial unique index on non-terminal (student_id, project_id)
		// enforces the at-most-one-open-case invariant.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, &apperrors.CaseAlreadyOpenError{StudentID: c.StudentID, ProjectID: c.ProjectID}
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	log.Info("free-rider case created", slog.Int64("case_id", created.ID))

	return &created, nil
}

func (cr *CaseRepository) GetCaseByID(ctx context.Context, caseID int64) (*domain.FreeRiderCase, error) {
	const op = "internal.repository.postgres.GetCaseByID"

	query, args, err := cr.sq.Select(caseColumns...).
		From("free_rider_cases").
		Where(sq.Eq{"id": caseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var c domain.FreeRiderCase
	if err := cr.db.GetContext(ctx, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: free-rider case with id '%d'", apperrors.ErrNotFound, caseID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &c, nil
}

func (cr *CaseRepository) GetOpenCase(ctx context.Context, projectID int64, studentID string) (*domain.FreeRiderCase, error) {
	const op = "internal.repository.postgres.GetOpenCase"

	query, args, err := cr.sq.Select(caseColumns...).
		From("free_rider_cases").
		Where(sq.Eq{"project_id": projectID, "student_id": studentID}).
		Where(sq.NotEq{"status": terminalStatuses}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var c domain.FreeRiderCase
	if err := cr.db.GetContext(ctx, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: open case for student '%s' in project '%d'", apperrors.ErrNotFound, studentID, projectID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &c, nil
}

func (cr *CaseRepository) ListCasesByProject(ctx context.Context, projectID int64) ([]domain.FreeRiderCase, error) {
	const op = "internal.repository.postgres.ListCasesByProject"

	query, args, err := cr.sq.Select(caseColumns...).
		From("free_rider_cases").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("detected_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var cases []domain.FreeRiderCase
	if err := cr.db.SelectContext(ctx, &cases, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return cases, nil
}

func (cr *CaseRepository) UpdateCase(ctx context.Context, c domain.FreeRiderCase) (*domain.FreeRiderCase, error) {
	const op = "internal.repository.postgres.UpdateCase"

	query, args, err := cr.sq.Update("free_rider_cases").
		Set("status", c.Status).
		Set("resolution", c.Resolution).
		Set("notes", c.Notes).
		Set("contacted_at", c.ContactedAt).
		Set("resolved_at", c.ResolvedAt).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING " + joinColumns(caseColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var updated domain.FreeRiderCase
	if err := cr.db.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: free-rider case with id '%d'", apperrors.ErrNotFound, c.ID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &updated, nil
}
