package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tradecareers_backend/internal/applications/repository"
	"tradecareers_backend/internal/applications/transport"
	"tradecareers_backend/platform/apperr"
	"tradecareers_backend/internal/events"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/phone"
	"tradecareers_backend/platform/sanitize"

	"github.com/google/uuid"
)

// duplicateWindow is how long a repeat application from the same email to
// the same job is rejected.
const duplicateWindow = 24 * time.Hour

// JobRef is the slice of a posting an application needs.
type JobRef struct {
	ID           uuid.UUID
	Slug         string
	Title        string
	Status       string
	ContactEmail string
}

// JobDirectory resolves a posting by slug. Implemented by an adapter over
// the jobs repository to keep this module decoupled from it.
type JobDirectory interface {
	LookupBySlug(ctx context.Context, slug string) (JobRef, error)
}

// ErrJobNotFound is what a JobDirectory returns for a missing slug.
var ErrJobNotFound = errors.New("job not found")

type Repo interface {
	Create(ctx context.Context, params repository.CreateApplicationParams) (repository.Application, error)
	CountRecentByEmail(ctx context.Context, jobID uuid.UUID, email string, within time.Duration) (int, error)
}

type Service struct {
	repo Repo
	jobs JobDirectory
	bus  events.Bus
	log  *logger.Logger
}

func New(repo Repo, jobs JobDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, jobs: jobs, bus: bus, log: log}
}

// Apply stores an application against an active posting and publishes
// application.received for the notification pipeline.
func (s *Service) Apply(ctx context.Context, jobSlug string, req transport.ApplyRequest) (transport.ApplyResponse, error) {
	job, err := s.jobs.LookupBySlug(ctx, jobSlug)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return transport.ApplyResponse{}, apperr.NotFound("job not found")
		}
		s.log.DatabaseError("applications.lookup_job", err)
		return transport.ApplyResponse{}, apperr.Internal("unable to submit application right now")
	}
	if job.Status != "active" {
		return transport.ApplyResponse{}, apperr.Gone("this posting is no longer accepting applications")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	recent, err := s.repo.CountRecentByEmail(ctx, job.ID, email, duplicateWindow)
	if err != nil {
		s.log.DatabaseError("applications.count_recent", err)
		return transport.ApplyResponse{}, apperr.Internal("unable to submit application right now")
	}
	if recent > 0 {
		return transport.ApplyResponse{}, apperr.Conflict("you already applied to this job")
	}

	var phonePtr *string
	if req.Phone != "" {
		normalized, err := phone.NormalizeE164(req.Phone)
		if err != nil {
			return transport.ApplyResponse{}, apperr.Validation("invalid phone number")
		}
		phonePtr = &normalized
	}

	var resumeKey *string
	if req.ResumeKey != "" {
		key := strings.TrimSpace(req.ResumeKey)
		resumeKey = &key
	}

	app, err := s.repo.Create(ctx, repository.CreateApplicationParams{
		JobID:     job.ID,
		Name:      sanitize.PlainText(req.Name, 80),
		Email:     email,
		Phone:     phonePtr,
		Message:   sanitize.StripHTML(sanitize.PlainText(req.Message, 4000)),
		ResumeKey: resumeKey,
	})
	if err != nil {
		s.log.DatabaseError("applications.create", err)
		return transport.ApplyResponse{}, apperr.Internal("unable to submit application right now")
	}

	event := events.ApplicationReceived{
		BaseEvent:      events.NewBaseEvent(),
		ApplicationID:  app.ID,
		JobID:          job.ID,
		JobTitle:       job.Title,
		JobSlug:        job.Slug,
		EmployerEmail:  job.ContactEmail,
		ApplicantName:  app.Name,
		ApplicantEmail: app.Email,
		Message:        app.Message,
	}
	if app.Phone != nil {
		event.ApplicantPhone = *app.Phone
	}
	s.bus.Publish(ctx, event)

	return transport.ApplyResponse{
		ID:        app.ID,
		JobSlug:   job.Slug,
		CreatedAt: app.CreatedAt,
	}, nil
}
