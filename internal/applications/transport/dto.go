package transport

import (
	"time"

	"github.com/google/uuid"
)

// ApplyRequest is the public job application payload.
type ApplyRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=80"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
	Message   string `json:"message" validate:"required,min=10,max=4000"`
	ResumeKey string `json:"resumeKey" validate:"omitempty,max=500"`
}

// ApplyResponse acknowledges the stored application.
type ApplyResponse struct {
	ID        uuid.UUID `json:"id"`
	JobSlug   string    `json:"jobSlug"`
	CreatedAt time.Time `json:"createdAt"`
}
