package events

import "github.com/google/uuid"

const (
	EventApplicationReceived = "applications.received"
	EventJobPosted           = "jobs.posted"
	EventJobsExpired         = "jobs.expired"
)

// ApplicationReceived is published after an application is stored. The
// notification module turns it into an employer email.
type ApplicationReceived struct {
	BaseEvent
	ApplicationID  uuid.UUID
	JobID          uuid.UUID
	JobTitle       string
	JobSlug        string
	EmployerEmail  string
	ApplicantName  string
	ApplicantEmail string
	ApplicantPhone string
	Message        string
}

func (e ApplicationReceived) EventName() string { return EventApplicationReceived }

// JobPosted fires when a new posting goes live.
type JobPosted struct {
	BaseEvent
	JobID         uuid.UUID
	JobSlug       string
	JobTitle      string
	EmployerEmail string
}

func (e JobPosted) EventName() string { return EventJobPosted }

// JobsExpired reports a sweep that closed one or more postings.
type JobsExpired struct {
	BaseEvent
	Count int64
}

func (e JobsExpired) EventName() string { return EventJobsExpired }
