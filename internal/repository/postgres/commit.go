package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type CommitRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewCommitRepository(db *sqlx.DB, log *slog.Logger) *CommitRepository {
	return &CommitRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var commitColumns = []string{
	"id", "commit_id", "project_id", "author_name", "author_email", "message",
	"repository_ref", "committed_at", "task_id", "resolved_user_id", "is_valid", "created_at",
}

func (cr *CommitRepository) InsertCommit(ctx context.Context, rec domain.CommitRecord) (*domain.CommitRecord, error) {
	const op = "internal.repository.postgres.InsertCommit"

	query, args, err := cr.sq.Insert("commit_records").
		Columns("commit_id", "project_id", "author_name", "author_email", "message",
			"repository_ref", "committed_at", "task_id", "resolved_user_id", "is_valid").
		Values(rec.CommitID, rec.ProjectID, rec.AuthorName, rec.AuthorEmail, rec.Message,
			rec.RepositoryRef, rec.Timestamp, rec.TaskID, rec.ResolvedUserID, rec.IsValid).
		Suffix("RETURNING " + joinColumns(commitColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.CommitRecord
	if err := cr.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, &apperrors.CommitAlreadyExistsError{CommitID: rec.CommitID}
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (cr *CommitRepository) UpdateResolution(ctx context.Context, recordID int64, resolvedUserID *string, isValid bool) error {
	const op = "internal.repository.postgres.UpdateResolution"

	query, args, err := cr.sq.Update("commit_records").
		Set("resolved_user_id", resolvedUserID).
		Set("is_valid", isValid).
		Where(sq.Eq{"id": recordID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := cr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to read rows affected: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w: commit record with id '%d'", op, apperrors.ErrNotFound, recordID)
	}

	return nil
}

func (cr *CommitRepository) CountValidCommits(ctx context.Context, projectID int64, userID string, cutoff time.Time) (int, error) {
	const op = "internal.repository.postgres.CountValidCommits"

	query, args, err := cr.sq.Select("COUNT(*)").
		From("commit_records").
		Where(sq.Eq{"project_id": projectID, "resolved_user_id": userID, "is_valid": true}).
		Where(sq.LtOrEq{"committed_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var count int
	if err := cr.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return count, nil
}

func (cr *CommitRepository) ListCommitsByProject(ctx context.Context, projectID int64) ([]domain.CommitRecord, error) {
	const op = "internal.repository.postgres.ListCommitsByProject"

	query, args, err := cr.sq.Select(commitColumns...).
		From("commit_records").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("committed_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var records []domain.CommitRecord
	if err := cr.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return records, nil
}
