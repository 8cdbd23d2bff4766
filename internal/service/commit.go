package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/repository"
	"github.com/atarasenko/contribution-service/internal/scoring"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/atarasenko/contribution-service/pkg/logger/sl"
)

type CommitService interface {
	IngestCommits(ctx context.Context, projectID int64, entries []api.CommitFeedEntry) (*api.CommitIngestResult, error)
	ReresolveCommits(ctx context.Context, projectID int64) (int, error)
	ListCommits(ctx context.Context, projectID int64) ([]domain.CommitRecord, error)
}

type CommitServiceImpl struct {
	log     *slog.Logger
	commits repository.CommitRepository
	roster  repository.RosterRepository
}

func NewCommitService(
	log *slog.Logger,
	commits repository.CommitRepository,
	roster repository.RosterRepository,
) *CommitServiceImpl {
	return &CommitServiceImpl{
		log:     log,
		commits: commits,
		roster:  roster,
	}
}

// taskRefPattern recognizes task references in commit messages, either
// "#42" or "TASK-42" (case-insensitive).
var taskRefPattern = regexp.MustCompile(`(?i)(?:#|task-)(\d+)`)

// ExtractTaskRef pulls the first recognized task reference out of a commit
// message, or nil when the message carries none.
func ExtractTaskRef(message string) *int64 {
	m := taskRefPattern.FindStringSubmatch(message)
	if m == nil {
		return nil
	}

	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}

	return &id
}

// IngestCommits stores a batch of feed entries as commit records, resolving
// each author against the project roster. Already-ingested commits are
// counted and skipped; unmatched authors are stored invalid for audit.
func (s *CommitServiceImpl) IngestCommits(ctx context.Context, projectID int64, entries []api.CommitFeedEntry) (*api.CommitIngestResult, error) {
	const op = "internal.service.commit.IngestCommits"
	log := s.log.With(slog.String("op", op), slog.Int64("project_id", projectID))

	roster, err := s.roster.GetProjectRoster(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.GetProjectRoster failed: %w", op, err)
	}

	result := &api.CommitIngestResult{}

	for _, entry := range entries {
		rec := domain.CommitRecord{
			CommitID:      entry.CommitID,
			ProjectID:     projectID,
			AuthorName:    entry.AuthorName,
			AuthorEmail:   entry.AuthorEmail,
			Message:       entry.Message,
			RepositoryRef: entry.RepositoryRef,
			Timestamp:     entry.Timestamp,
			TaskID:        ExtractTaskRef(entry.Message),
		}

		rec = scoring.ResolveCommit(rec, roster)

		if _, err := s.commits.InsertCommit(ctx, rec); err != nil {
			if errors.Is(err, apperrors.ErrAlreadyExists) {
				result.Duplicates++
				continue
			}

			return nil, fmt.Errorf("%s: repo.InsertCommit failed: %w", op, err)
		}

		result.Ingested++

		if !rec.IsValid {
			result.Unmatched++
		}
	}

	log.Info("commit batch ingested",
		slog.Int("ingested", result.Ingested),
		slog.Int("unmatched", result.Unmatched),
		slog.Int("duplicates", result.Duplicates),
	)

	return result, nil
}

// ReresolveCommits re-runs attribution over every stored record of a
// project, picking up roster changes. Returns how many records changed
// resolution state.
func (s *CommitServiceImpl) ReresolveCommits(ctx context.Context, projectID int64) (int, error) {
	const op = "internal.service.commit.ReresolveCommits"
	log := s.log.With(slog.String("op", op), slog.Int64("project_id", projectID))

	roster, err := s.roster.GetProjectRoster(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("%s: repo.GetProjectRoster failed: %w", op, err)
	}

	records, err := s.commits.ListCommitsByProject(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("%s: repo.ListCommitsByProject failed: %w", op, err)
	}

	changed := 0

	for _, rec := range records {
		resolved := scoring.ResolveCommit(rec, roster)
		if sameResolution(rec, resolved) {
			continue
		}

		if err := s.commits.UpdateResolution(ctx, rec.ID, resolved.ResolvedUserID, resolved.IsValid); err != nil {
			log.Error("failed to update commit resolution", slog.Int64("record_id", rec.ID), sl.Err(err))
			continue
		}

		changed++
	}

	log.Info("commit re-resolution finished", slog.Int("changed", changed))

	return changed, nil
}

func (s *CommitServiceImpl) ListCommits(ctx context.Context, projectID int64) ([]domain.CommitRecord, error) {
	const op = "internal.service.commit.ListCommits"

	records, err := s.commits.ListCommitsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: repo.ListCommitsByProject failed: %w", op, err)
	}

	return records, nil
}

func sameResolution(a, b domain.CommitRecord) bool {
	if a.IsValid != b.IsValid {
		return false
	}

	if (a.ResolvedUserID == nil) != (b.ResolvedUserID == nil) {
		return false
	}

	return a.ResolvedUserID == nil || *a.ResolvedUserID == *b.ResolvedUserID
}
