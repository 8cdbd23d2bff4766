package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/repository"
	"github.com/atarasenko/contribution-service/pkg/api"
)

type TaskService interface {
	// SyncTasks upserts a batch of task snapshots from the upstream task
	// tracker, keyed by task ID.
	SyncTasks(ctx context.Context, snapshots []api.TaskSnapshot) error
}

type TaskServiceImpl struct {
	log   *slog.Logger
	tasks repository.TaskRepository
}

func NewTaskService(log *slog.Logger, tasks repository.TaskRepository) *TaskServiceImpl {
	return &TaskServiceImpl{log: log, tasks: tasks}
}

func (s *TaskServiceImpl) SyncTasks(ctx context.Context, snapshots []api.TaskSnapshot) error {
	const op = "internal.service.task.SyncTasks"
	log := s.log.With(slog.String("op", op))

	if len(snapshots) == 0 {
		return nil
	}

	tasks := make([]domain.Task, 0, len(snapshots))
	for _, snap := range snapshots {
		tasks = append(tasks, domain.Task{
			ID:                   snap.ID,
			GroupID:              snap.GroupID,
			AssigneeID:           snap.AssigneeID,
			Title:                snap.Title,
			Difficulty:           domain.TaskDifficulty(snap.Difficulty),
			Deadline:             snap.Deadline,
			Status:               domain.TaskStatus(snap.Status),
			CompletionPercentage: snap.CompletionPercentage,
			CompletedAt:          snap.CompletedAt,
		})
	}

	if err := s.tasks.UpsertTasks(ctx, tasks); err != nil {
		return fmt.Errorf("%s: repo.UpsertTasks failed: %w", op, err)
	}

	log.Info("task snapshots synced", slog.Int("count", len(tasks)))

	return nil
}
