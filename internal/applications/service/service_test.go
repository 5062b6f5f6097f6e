package service

import (
	"context"
	"testing"
	"time"

	"tradecareers_backend/internal/applications/repository"
	"tradecareers_backend/internal/applications/transport"
	"tradecareers_backend/platform/apperr"
	"tradecareers_backend/internal/events"
	"tradecareers_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	apps        []repository.Application
	recentCount int
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateApplicationParams) (repository.Application, error) {
	app := repository.Application{
		ID:        uuid.New(),
		JobID:     params.JobID,
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		Message:   params.Message,
		CreatedAt: time.Now(),
	}
	f.apps = append(f.apps, app)
	return app, nil
}

func (f *fakeRepo) CountRecentByEmail(_ context.Context, _ uuid.UUID, _ string, _ time.Duration) (int, error) {
	return f.recentCount, nil
}

type fakeJobs struct {
	job JobRef
	err error
}

func (f *fakeJobs) LookupBySlug(_ context.Context, _ string) (JobRef, error) {
	return f.job, f.err
}

func activeJob() JobRef {
	return JobRef{
		ID:           uuid.New(),
		Slug:         "ppf-installer-austin-tx-abc123",
		Title:        "PPF Installer",
		Status:       "active",
		ContactEmail: "hiring@example.com",
	}
}

func newBus(t *testing.T) *events.InMemoryBus {
	t.Helper()
	return events.NewInMemoryBus(logger.New("test"))
}

func TestApplyPublishesEvent(t *testing.T) {
	repo := &fakeRepo{}
	bus := newBus(t)

	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventApplicationReceived, events.HandlerFunc(
		func(_ context.Context, e events.Event) error {
			received <- e
			return nil
		}))

	svc := New(repo, &fakeJobs{job: activeJob()}, bus, logger.New("test"))

	resp, err := svc.Apply(context.Background(), "ppf-installer-austin-tx-abc123", transport.ApplyRequest{
		Name:    "  Dana Lee  ",
		Email:   "Dana@Example.com",
		Phone:   "(512) 555-0134",
		Message: "I have five years of PPF experience.",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Fatal("missing application id")
	}

	select {
	case e := <-received:
		evt, ok := e.(events.ApplicationReceived)
		if !ok {
			t.Fatalf("unexpected event type %T", e)
		}
		if evt.EmployerEmail != "hiring@example.com" {
			t.Fatalf("employer email = %q", evt.EmployerEmail)
		}
		if evt.ApplicantPhone != "+15125550134" {
			t.Fatalf("phone not normalized: %q", evt.ApplicantPhone)
		}
		if evt.ApplicantName != "Dana Lee" {
			t.Fatalf("name not trimmed: %q", evt.ApplicantName)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("application.received never published")
	}
}

func TestApplyToMissingJob(t *testing.T) {
	svc := New(&fakeRepo{}, &fakeJobs{err: ErrJobNotFound}, newBus(t), logger.New("test"))

	_, err := svc.Apply(context.Background(), "nope", transport.ApplyRequest{
		Name: "Dana", Email: "d@e.com", Message: "Hello there, hiring team.",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApplyToExpiredJob(t *testing.T) {
	job := activeJob()
	job.Status = "expired"
	svc := New(&fakeRepo{}, &fakeJobs{job: job}, newBus(t), logger.New("test"))

	_, err := svc.Apply(context.Background(), job.Slug, transport.ApplyRequest{
		Name: "Dana", Email: "d@e.com", Message: "Hello there, hiring team.",
	})
	if !apperr.Is(err, apperr.KindGone) {
		t.Fatalf("expected gone, got %v", err)
	}
}

func TestApplyDuplicateRejected(t *testing.T) {
	svc := New(&fakeRepo{recentCount: 1}, &fakeJobs{job: activeJob()}, newBus(t), logger.New("test"))

	_, err := svc.Apply(context.Background(), "x", transport.ApplyRequest{
		Name: "Dana", Email: "d@e.com", Message: "Hello there, hiring team.",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestApplyInvalidPhone(t *testing.T) {
	svc := New(&fakeRepo{}, &fakeJobs{job: activeJob()}, newBus(t), logger.New("test"))

	_, err := svc.Apply(context.Background(), "x", transport.ApplyRequest{
		Name: "Dana", Email: "d@e.com", Phone: "not a phone", Message: "Hello there, hiring team.",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
