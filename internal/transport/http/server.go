// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service methods,
// and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/atarasenko/contribution-service/internal/apperrors"
	"github.com/atarasenko/contribution-service/internal/domain"
	"github.com/atarasenko/contribution-service/internal/service"
	"github.com/atarasenko/contribution-service/internal/validation"
	"github.com/atarasenko/contribution-service/pkg/api"
	"github.com/atarasenko/contribution-service/pkg/logger/sl"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the dependencies for the HTTP server, including the logger and service interfaces.
type Server struct {
	log              *slog.Logger
	projectService   service.ProjectService
	taskService      service.TaskService
	commitService    service.CommitService
	reviewService    service.ReviewService
	recomputeService service.RecomputeService
	scoreService     service.ScoreService
	pressureService  service.PressureService
	freeRiderService service.FreeRiderService
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	projects service.ProjectService,
	tasks service.TaskService,
	commits service.CommitService,
	reviews service.ReviewService,
	recompute service.RecomputeService,
	scores service.ScoreService,
	pressure service.PressureService,
	freeRider service.FreeRiderService,
) *Server {
	return &Server{
		log:              log,
		projectService:   projects,
		taskService:      tasks,
		commitService:    commits,
		reviewService:    reviews,
		recomputeService: recompute,
		scoreService:     scores,
		pressureService:  pressure,
		freeRiderService: freeRider,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/projects", func(r chi.Router) {
		r.Post("/", s.createProject)
		r.Get("/{projectID}", s.getProject)
		r.Get("/{projectID}/scores", s.getProjectScores)
		r.Get("/{projectID}/scores/{userID}", s.getUserScore)
		r.Post("/{projectID}/recompute", s.recomputeProject)
		r.Get("/{projectID}/commits", s.listCommits)
		r.Post("/{projectID}/commits/reresolve", s.reresolveCommits)
		r.Post("/{projectID}/freerider/detect", s.detectFreeRiders)
		r.Get("/{projectID}/freerider/cases", s.listFreeRiderCases)
	})

	mux.Post("/users/register", s.registerUsers)
	mux.Get("/users/{userID}/pressure", s.getUserPressure)

	mux.Route("/groups", func(r chi.Router) {
		r.Post("/", s.createGroup)
		r.Get("/{groupID}", s.getGroup)
		r.Get("/{groupID}/pressure", s.getGroupPressure)
	})

	mux.Post("/tasks/sync", s.syncTasks)
	mux.Post("/commits/ingest", s.ingestCommits)
	mux.Post("/reviews/submit", s.submitReview)
	mux.Post("/scores/adjust", s.adjustScore)
	mux.Post("/scores/reset", s.resetScore)

	mux.Route("/freerider/cases/{caseID}", func(r chi.Router) {
		r.Post("/contact", s.contactCase)
		r.Post("/resolve", s.resolveCase)
		r.Post("/dismiss", s.dismissCase)
	})

	return mux
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.createProject"

	var req createProjectRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	project, err := s.projectService.CreateProject(r.Context(), api.Project{
		Name:               req.Name,
		WeightTask:         req.WeightTask,
		WeightReview:       req.WeightReview,
		WeightCommit:       req.WeightCommit,
		WeightLate:         req.WeightLate,
		FreeRiderThreshold: req.FreeRiderThreshold,
		PressureThreshold:  req.PressureThreshold,
		MaxMembers:         req.MaxMembers,
		CommitBaseline:     req.CommitBaseline,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*api.Project{"project": project})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getProject"

	projectID, err := s.pathID(r, "projectID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	project, err := s.projectService.GetProject(r.Context(), projectID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.Project{"project": project})
}

func (s *Server) registerUsers(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.registerUsers"

	var req registerUsersRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	users := make([]domain.User, len(req.Users))
	for i, u := range req.Users {
		users[i] = domain.User{
			ID:       u.UserID,
			Username: u.Username,
			Email:    u.Email,
			FullName: u.FullName,
		}
	}

	if err := s.projectService.RegisterUsers(r.Context(), users); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]int{"registered": len(users)})
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.createGroup"

	var req createGroupRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	group, err := s.projectService.CreateGroup(r.Context(), domain.Group{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		LeaderID:  req.LeaderID,
	}, req.MemberIDs)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]*domain.GroupWithMembers{"group": group})
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getGroup"

	groupID, err := s.pathID(r, "groupID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	group, err := s.projectService.GetGroup(r.Context(), groupID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*domain.GroupWithMembers{"group": group})
}

func (s *Server) syncTasks(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.syncTasks"

	var req syncTasksRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	snapshots := make([]api.TaskSnapshot, len(req.Tasks))
	for i, t := range req.Tasks {
		snapshots[i] = api.TaskSnapshot{
			ID:                   t.ID,
			GroupID:              t.GroupID,
			AssigneeID:           t.AssigneeID,
			Title:                t.Title,
			Difficulty:           t.Difficulty,
			Deadline:             t.Deadline,
			Status:               t.Status,
			CompletionPercentage: t.CompletionPercentage,
			CompletedAt:          t.CompletedAt,
		}
	}

	if err := s.taskService.SyncTasks(r.Context(), snapshots); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]int{"synced": len(snapshots)})
}

func (s *Server) ingestCommits(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.ingestCommits"

	var req ingestCommitsRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	entries := make([]api.CommitFeedEntry, len(req.Commits))
	for i, c := range req.Commits {
		entries[i] = api.CommitFeedEntry{
			CommitID:      c.CommitID,
			AuthorName:    c.AuthorName,
			AuthorEmail:   c.AuthorEmail,
			Timestamp:     c.Timestamp,
			Message:       c.Message,
			RepositoryRef: c.RepositoryRef,
		}
	}

	result, err := s.commitService.IngestCommits(r.Context(), req.ProjectID, entries)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, result)
}

func (s *Server) listCommits(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listCommits"

	projectID, err := s.pathID(r, "projectID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	records, err := s.commitService.ListCommits(r.Context(), projectID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]domain.CommitRecord{"commits": records})
}

func (s *Server) reresolveCommits(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.reresolveCommits"

	projectID, err := s.pathID(r, "projectID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	changed, err := s.commitService.ReresolveCommits(r.Context(), projectID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]int{"changed": changed})
}

func (s *Server) submitReview(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.submitReview"

	var req submitReviewRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	err := s.reviewService.SubmitReview(r.Context(), api.PeerReviewSubmission{
		ProjectID:        req.ProjectID,
		ReviewerID:       req.ReviewerID,
		RevieweeID:       req.RevieweeID,
		CompletionScore:  req.CompletionScore,
		CooperationScore: req.CooperationScore,
		ReviewWeek:       req.ReviewWeek,
		Comment:          req.Comment,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (s *Server) recomputeProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.recomputeProject"

	projectID, err := s.pathID(r, "projectID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.recomputeService.RecomputeProject(r.Context(), projectID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, result)
}

func (s *Server) getProjectScores(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getProjectScores"

	projectID, err := s.pathID(r, "projectID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	scores, err := s.scoreService.GetProjectScores(r.Context(), projectID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, scores)
}

func (s *Server) getUserScore(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getUserScore"

	projectID, err := s.pathID(r, "projectID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	score, err := s.scoreService.GetUserScore(r.Context(), projectID, chi.URLParam(r, "userID"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.ContributionScoreResponse{"score": score})
}

func (s *Server) adjustScore(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.adjustScore"

	var req adjustScoreRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	score, err := s.scoreService.AdjustScore(r.Context(), req.ProjectID, req.UserID, req.AdjustedScore, req.Reason)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.ContributionScoreResponse{"score": score})
}

func (s *Server) resetScore(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.resetScore"

	var req resetScoreRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	score, err := s.scoreService.ClearAdjustment(r.Context(), req.ProjectID, req.UserID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.ContributionScoreResponse{"score": score})
}

func (s *Server) getUserPressure(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getUserPressure"

	projectID, err := strconv.ParseInt(r.URL.Query().Get("projectId"), 10, 64)
	if err != nil {
		s.handleServiceError(w, r, op, fmt.Errorf("%w: invalid projectId query parameter", apperrors.ErrInvalidRequest))
		return
	}

	pressure, err := s.pressureService.UserPressure(r.Context(), projectID, chi.URLParam(r, "userID"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, pressure)
}

func (s *Server) getGroupPressure(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getGroupPressure"

	groupID, err := s.pathID(r, "groupID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	projectID, err := strconv.ParseInt(r.URL.Query().Get("projectId"), 10, 64)
	if err != nil {
		s.handleServiceError(w, r, op, fmt.Errorf("%w: invalid projectId query parameter", apperrors.ErrInvalidRequest))
		return
	}

	pressure, err := s.pressureService.GroupPressure(r.Context(), projectID, groupID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, pressure)
}

func (s *Server) detectFreeRiders(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.detectFreeRiders"

	projectID, err := s.pathID(r, "projectID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.freeRiderService.Detect(r.Context(), projectID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, result)
}

func (s *Server) listFreeRiderCases(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listFreeRiderCases"

	projectID, err := s.pathID(r, "projectID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	cases, err := s.freeRiderService.ListCases(r.Context(), projectID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]api.FreeRiderCaseDTO{"cases": cases})
}

func (s *Server) contactCase(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.contactCase"

	caseID, err := s.pathID(r, "caseID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req contactCaseRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	dto, err := s.freeRiderService.ContactCase(r.Context(), caseID, req.Notes)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.FreeRiderCaseDTO{"case": dto})
}

func (s *Server) resolveCase(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.resolveCase"

	caseID, err := s.pathID(r, "caseID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req closeCaseRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	dto, err := s.freeRiderService.ResolveCase(r.Context(), caseID, req.Resolution)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.FreeRiderCaseDTO{"case": dto})
}

func (s *Server) dismissCase(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.dismissCase"

	caseID, err := s.pathID(r, "caseID")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req closeCaseRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	dto, err := s.freeRiderService.DismissCase(r.Context(), caseID, req.Resolution)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]*api.FreeRiderCaseDTO{"case": dto})
}

// pathID parses a numeric chi URL parameter.
func (s *Server) pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s path parameter", apperrors.ErrInvalidRequest, name)
	}

	return id, nil
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// decodeAndValidate is a helper that deserializes a JSON request body into a struct
// and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it to a user-friendly HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, _ *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var validationErr *validation.ValidationError

	switch {
	case errors.As(err, &validationErr):
		wrappedErr := fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error())
		s.respondError(w, http.StatusBadRequest, wrappedErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrAdjustmentReasonRequired):
		s.respondError(w, http.StatusBadRequest, apperrors.ErrAdjustmentReasonRequired.Error())
	case errors.Is(err, apperrors.ErrSelfReview):
		s.respondError(w, http.StatusBadRequest, apperrors.ErrSelfReview.Error())
	case errors.Is(err, apperrors.ErrGroupFull):
		s.respondError(w, http.StatusConflict, apperrors.ErrGroupFull.Error())
	case errors.Is(err, apperrors.ErrScoreNotFinalized):
		s.respondError(w, http.StatusConflict, apperrors.ErrScoreNotFinalized.Error())
	case errors.Is(err, apperrors.ErrCaseTerminal):
		s.respondError(w, http.StatusConflict, apperrors.ErrCaseTerminal.Error())
	case errors.Is(err, apperrors.ErrInvalidCaseTransition):
		s.respondError(w, http.StatusConflict, apperrors.ErrInvalidCaseTransition.Error())
	case errors.Is(err, apperrors.ErrAlreadyExists):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
