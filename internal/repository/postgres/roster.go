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
	"github.com/atarasenko/contribution-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type RosterRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewRosterRepository(db *sqlx.DB, log *slog.Logger) *RosterRepository {
	return &RosterRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (rr *RosterRepository) UpsertUsers(ctx context.Context, users []domain.User) error {
	const op = "internal.repository.postgres.UpsertUsers"

	if len(users) == 0 {
		return nil
	}

	insertBuilder := rr.sq.Insert("users").
		Columns("id", "username", "email", "full_name")

	for _, u := range users {
		insertBuilder = insertBuilder.Values(u.ID, u.Username, u.Email, u.FullName)
	}

	query, args, err := insertBuilder.Suffix(`
        ON CONFLICT (id) DO UPDATE SET
            username = EXCLUDED.username,
            email = EXCLUDED.email,
            full_name = EXCLUDED.full_name`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build bulk upsert query: %w", op, err)
	}

	if _, err := rr.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute bulk upsert: %w", op, err)
	}

	return nil
}

func (rr *RosterRepository) CreateGroupWithMembers(ctx context.Context, group domain.Group, memberIDs []string) (*domain.GroupWithMembers, error) {
	const op = "internal.repository.postgres.CreateGroupWithMembers"
	log := rr.log.With(slog.String("op", op), slog.String("group_name", group.Name))

	tx, err := rr.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error("failed to rollback transaction", sl.Err(err))
		}
	}()

	query, args, err := rr.sq.Insert("groups").
		Columns("project_id", "name", "leader_id").
		Values(group.ProjectID, group.Name, group.LeaderID).
		Suffix("RETURNING id, project_id, name, leader_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build group insert query: %w", op, err)
	}

	var created domain.Group
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%s: %w: project with id '%d'", op, apperrors.ErrNotFound, group.ProjectID)
		}

		return nil, fmt.Errorf("%s: failed to execute group insert: %w", op, err)
	}

	if len(memberIDs) > 0 {
		memberBuilder := rr.sq.Insert("group_members").Columns("group_id", "user_id")
		for _, id := range memberIDs {
			memberBuilder = memberBuilder.Values(created.ID, id)
		}

		query, args, err := memberBuilder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to build members insert query: %w", op, err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return nil, fmt.Errorf("%s: %w: unknown user in member list", op, apperrors.ErrNotFound)
			}

			return nil, fmt.Errorf("%s: failed to execute members insert: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	log.Info("group created", slog.Int64("group_id", created.ID))

	return rr.GetGroupWithMembers(ctx, created.ID)
}

func (rr *RosterRepository) GetGroupWithMembers(ctx context.Context, groupID int64) (*domain.GroupWithMembers, error) {
	const op = "internal.repository.postgres.GetGroupWithMembers"

	query, args, err := rr.sq.Select("id", "project_id", "name", "leader_id").
		From("groups").
		Where(sq.Eq{"id": groupID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build group query: %w", op, err)
	}

	var group domain.Group
	if err := rr.db.GetContext(ctx, &group, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: group with id '%d'", apperrors.ErrNotFound, groupID)
		}

		return nil, fmt.Errorf("%s: failed to get group: %w", op, err)
	}

	members, err := rr.groupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.GroupWithMembers{Group: group, Members: members}, nil
}

func (rr *RosterRepository) GetGroupsByProject(ctx context.Context, projectID int64) ([]domain.GroupWithMembers, error) {
	const op = "internal.repository.postgres.GetGroupsByProject"

	query, args, err := rr.sq.Select("id", "project_id", "name", "leader_id").
		From("groups").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build groups query: %w", op, err)
	}

	var groups []domain.Group
	if err := rr.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to get groups: %w", op, err)
	}

	result := make([]domain.GroupWithMembers, 0, len(groups))

	for _, g := range groups {
		members, err := rr.groupMembers(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, domain.GroupWithMembers{Group: g, Members: members})
	}

	return result, nil
}

func (rr *RosterRepository) GetProjectRoster(ctx context.Context, projectID int64) ([]domain.User, error) {
	const op = "internal.repository.postgres.GetProjectRoster"

	query, args, err := rr.sq.Select("DISTINCT u.id", "u.username", "u.email", "u.full_name").
		From("users u").
		Join("group_members gm ON gm.user_id = u.id").
		Join("groups g ON g.id = gm.group_id").
		Where(sq.Eq{"g.project_id": projectID}).
		OrderBy("u.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build roster query: %w", op, err)
	}

	var users []domain.User
	if err := rr.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to get roster: %w", op, err)
	}

	return users, nil
}

func (rr *RosterRepository) groupMembers(ctx context.Context, groupID int64) ([]domain.User, error) {
	query, args, err := rr.sq.Select("u.id", "u.username", "u.email", "u.full_name").
		From("users u").
		Join("group_members gm ON gm.user_id = u.id").
		Where(sq.Eq{"gm.group_id": groupID}).
		OrderBy("u.username").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build members query: %w", err)
	}

	var members []domain.User
	if err := rr.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	return members, nil
}
