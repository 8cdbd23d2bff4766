package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type TaskRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewTaskRepository(db *sqlx.DB, log *slog.Logger) *TaskRepository {
	return &TaskRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var taskColumns = []string{
	"id", "group_id", "assignee_id", "title", "difficulty", "deadline",
	"status", "completion_percentage", "completed_at",
}

func (tr *TaskRepository) UpsertTasks(ctx context.Context, tasks []domain.Task) error {
	const op = "internal.repository.postgres.UpsertTasks"

	if len(tasks) == 0 {
		return nil
	}

	insertBuilder := tr.sq.Insert("tasks").Columns(taskColumns...)

	for _, t := range tasks {
		insertBuilder = insertBuilder.Values(
			t.ID, t.GroupID, t.AssigneeID, t.Title, t.Difficulty,
			t.Deadline, t.Status, t.CompletionPercentage, t.CompletedAt,
		)
	}

	query, args, err := insertBuilder.Suffix(`
        ON CONFLICT (id) DO UPDATE SET
            group_id = EXCLUDED.group_id,
            assignee_id = EXCLUDED.assignee_id,
            title = EXCLUDED.title,
            difficulty = EXCLUDED.difficulty,
            deadline = EXCLUDED.deadline,
            status = EXCLUDED.status,
            completion_percentage = EXCLUDED.completion_percentage,
            completed_at = EXCLUDED.completed_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build bulk upsert query: %w", op, err)
	}

	if _, err := tr.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute bulk upsert: %w", op, err)
	}

	return nil
}

func (tr *TaskRepository) GetTasksByAssignee(ctx context.Context, projectID int64, userID string) ([]domain.Task, error) {
	const op = "internal.repository.postgres.GetTasksByAssignee"

	return tr.selectTasks(ctx, op, sq.Eq{"g.project_id": projectID, "t.assignee_id": userID})
}

func (tr *TaskRepository) GetActiveTasksByAssignee(ctx context.Context, projectID int64, userID string) ([]domain.Task, error) {
	const op = "internal.repository.postgres.GetActiveTasksByAssignee"

	return tr.selectTasks(ctx, op, sq.And{
		sq.Eq{"g.project_id": projectID, "t.assignee_id": userID},
		sq.NotEq{"t.status": domain.TaskStatusCompleted},
	})
}

func (tr *TaskRepository) selectTasks(ctx context.Context, op string, pred interface{}) ([]domain.Task, error) {
	query, args, err := tr.sq.Select(
		"t.id", "t.group_id", "t.assignee_id", "t.title", "t.difficulty",
		"t.deadline", "t.status", "t.completion_percentage", "t.completed_at",
	).
		From("tasks t").
		Join("groups g ON g.id = t.group_id").
		Where(pred).
		OrderBy("t.deadline").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var tasks []domain.Task
	if err := tr.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return tasks, nil
}
