package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type ProjectRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewProjectRepository(db *sqlx.DB, log *slog.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var projectColumns = []string{
	"id", "name", "weight_task", "weight_review", "weight_commit", "weight_late",
	"free_rider_threshold", "pressure_threshold", "max_members", "commit_baseline", "created_at",
}

func (pr *ProjectRepository) CreateProject(ctx context.Context, p domain.Project) (*domain.Project, error) {
	const op = "internal.repository.postgres.CreateProject"
	log := pr.log.With(slog.String("op", op), slog.String("project_name", p.Name))

	query, args, err := pr.sq.Insert("projects").
		Columns("name", "weight_task", "weight_review", "weight_commit", "weight_late",
			"free_rider_threshold", "pressure_threshold", "max_members", "commit_baseline").
		Values(p.Name, p.WeightTask, p.WeightReview, p.WeightCommit, p.WeightLate,
			p.FreeRiderThreshold, p.PressureThreshold, p.MaxMembers, p.CommitBaseline).
		Suffix("RETURNING " + joinColumns(projectColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Project
	if err := pr.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, &apperrors.ProjectAlreadyExistsError{ProjectName: p.Name}
		}

		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	log.Info("project created", slog.Int64("project_id", created.ID))

	return &created, nil
}

func (pr *ProjectRepository) GetProjectByID(ctx context.Context, projectID int64) (*domain.Project, error) {
	const op = "internal.repository.postgres.GetProjectByID"

	query, args, err := pr.sq.Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"id": projectID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var p domain.Project
	if err := pr.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: project with id '%d'", apperrors.ErrNotFound, projectID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &p, nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
