package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListJobsRequest carries the raw search query parameters. All fields are
// optional strings; parsing and clamping happen in the service layer so
// malformed values degrade to defaults instead of 400s.
type ListJobsRequest struct {
	Query    string `form:"q"`
	Location string `form:"location"`
	Radius   string `form:"radius"`
	Trade    string `form:"trade"`
	JobType  string `form:"type"`
	PayMin   string `form:"payMin"`
	PayMax   string `form:"payMax"`
	Sort     string `form:"sort"`
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Featured string `form:"featured"`
}

// CreateJobRequest is the public posting payload.
type CreateJobRequest struct {
	Title           string   `json:"title" validate:"required,min=3,max=120"`
	Description     string   `json:"description" validate:"required,min=10,max=10000"`
	CompanyName     string   `json:"companyName" validate:"required,min=2,max=120"`
	City            string   `json:"city" validate:"required,min=2,max=80"`
	State           string   `json:"state" validate:"required,len=2,alpha"`
	JobType         string   `json:"jobType" validate:"required,max=40"`
	Trades          []string `json:"trades" validate:"required,min=1,max=8,dive,min=2,max=60"`
	PayMin          *int     `json:"payMin" validate:"omitempty,min=0,max=1000000"`
	PayMax          *int     `json:"payMax" validate:"omitempty,min=0,max=1000000"`
	ExperienceYears *int     `json:"experienceYears" validate:"omitempty,min=0,max=60"`
	ContactEmail    string   `json:"contactEmail" validate:"required,email,max=254"`
	LogoKey         *string  `json:"logoKey" validate:"omitempty,max=300"`
	ExpiresInDays   *int     `json:"expiresInDays" validate:"omitempty,min=1,max=90"`
}

// UpdateJobRequest is a partial update authorized by the manage token.
type UpdateJobRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=3,max=120"`
	Description     *string  `json:"description" validate:"omitempty,min=10,max=10000"`
	CompanyName     *string  `json:"companyName" validate:"omitempty,min=2,max=120"`
	City            *string  `json:"city" validate:"omitempty,min=2,max=80"`
	State           *string  `json:"state" validate:"omitempty,len=2,alpha"`
	JobType         *string  `json:"jobType" validate:"omitempty,max=40"`
	Trades          []string `json:"trades" validate:"omitempty,min=1,max=8,dive,min=2,max=60"`
	PayMin          *int     `json:"payMin" validate:"omitempty,min=0,max=1000000"`
	PayMax          *int     `json:"payMax" validate:"omitempty,min=0,max=1000000"`
	ExperienceYears *int     `json:"experienceYears" validate:"omitempty,min=0,max=60"`
	ContactEmail    *string  `json:"contactEmail" validate:"omitempty,email,max=254"`
	LogoKey         *string  `json:"logoKey" validate:"omitempty,max=300"`
	Status          *string  `json:"status" validate:"omitempty,oneof=active paused closed"`
}

// JobResponse is the public view of a posting. Contact email and manage
// token never appear here.
type JobResponse struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CompanyName     string    `json:"companyName"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	JobType         string    `json:"jobType"`
	Trades          []string  `json:"trades"`
	TradeLabels     []string  `json:"tradeLabels,omitempty"`
	PayMin          *int      `json:"payMin,omitempty"`
	PayMax          *int      `json:"payMax,omitempty"`
	ExperienceYears *int      `json:"experienceYears,omitempty"`
	Featured        bool      `json:"featured"`
	Status          string    `json:"status"`
	LogoKey         *string   `json:"logoKey,omitempty"`
	DistanceMiles   *float64  `json:"distanceMiles,omitempty"`
	ExpiresAt       *int64    `json:"expiresAt,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateJobResponse includes the one-time manage token. It is shown exactly
// once; only a hash is stored.
type CreateJobResponse struct {
	Job         JobResponse `json:"job"`
	ManageToken string      `json:"manageToken"`
}

// SearchJobsResponse is the paginated search envelope.
type SearchJobsResponse struct {
	Items      []JobResponse `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}
