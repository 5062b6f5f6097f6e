// Package notification turns domain events into employer-facing emails.
// Domain modules publish events and stay unaware of SMTP or templates; this
// module subscribes and either hands the work to the task queue or, when no
// queue is configured, sends inline.
package notification

import (
	"context"
	"strings"

	"tradecareers_backend/internal/email"
	"tradecareers_backend/internal/events"
	"tradecareers_backend/internal/scheduler"
	"tradecareers_backend/platform/logger"
)

type Module struct {
	sender   email.Sender
	enqueuer scheduler.NotifyEnqueuer
	baseURL  string
	log      *logger.Logger
}

// New builds the notification module. enqueuer may be nil; delivery then
// happens inline on the event handler goroutine.
func New(sender email.Sender, enqueuer scheduler.NotifyEnqueuer, publicBaseURL string, log *logger.Logger) *Module {
	return &Module{
		sender:   sender,
		enqueuer: enqueuer,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
		log:      log,
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ApplicationReceived{}.EventName(), m)
	bus.Subscribe(events.JobPosted{}.EventName(), m)
	bus.Subscribe(events.JobsExpired{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ApplicationReceived:
		return m.handleApplicationReceived(ctx, e)
	case events.JobPosted:
		return m.handleJobPosted(ctx, e)
	case events.JobsExpired:
		m.log.Info("expired postings closed", "count", e.Count)
		return nil
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleApplicationReceived(ctx context.Context, e events.ApplicationReceived) error {
	if e.EmployerEmail == "" {
		return nil
	}

	if m.enqueuer != nil {
		return m.enqueuer.EnqueueApplicationNotify(ctx, scheduler.ApplicationNotifyPayload{
			ApplicationID:  e.ApplicationID.String(),
			JobTitle:       e.JobTitle,
			JobSlug:        e.JobSlug,
			EmployerEmail:  e.EmployerEmail,
			ApplicantName:  e.ApplicantName,
			ApplicantEmail: e.ApplicantEmail,
			ApplicantPhone: e.ApplicantPhone,
			Message:        e.Message,
		})
	}

	data := email.NewApplicationReceivedData(
		e.JobTitle,
		e.ApplicantName,
		e.ApplicantEmail,
		e.ApplicantPhone,
		e.Message,
		m.jobURL(e.JobSlug),
	)
	return m.sender.SendApplicationReceived(ctx, e.EmployerEmail, data)
}

func (m *Module) handleJobPosted(ctx context.Context, e events.JobPosted) error {
	if e.EmployerEmail == "" {
		return nil
	}

	if m.enqueuer != nil {
		return m.enqueuer.EnqueueJobPostedNotify(ctx, scheduler.JobPostedNotifyPayload{
			JobTitle:      e.JobTitle,
			JobSlug:       e.JobSlug,
			EmployerEmail: e.EmployerEmail,
		})
	}

	data := email.NewJobPostedData(e.JobTitle, m.jobURL(e.JobSlug))
	return m.sender.SendJobPostedConfirmation(ctx, e.EmployerEmail, data)
}

func (m *Module) jobURL(slug string) string {
	return m.baseURL + "/jobs/" + slug
}
