package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListInstallersRequest carries the raw directory query parameters. Same
// clamping policy as job search: malformed values degrade, never 400.
type ListInstallersRequest struct {
	Query        string `form:"q"`
	Location     string `form:"location"`
	Radius       string `form:"radius"`
	Specialty    string `form:"trade"`
	Availability string `form:"availability"`
	Sort         string `form:"sort"`
	Page         string `form:"page"`
	Limit        string `form:"limit"`
	Featured     string `form:"featured"`
}

// RegisterInstallerRequest is the public profile registration payload.
type RegisterInstallerRequest struct {
	Name            string   `json:"name" validate:"required,min=2,max=80"`
	Bio             string   `json:"bio" validate:"required,min=10,max=4000"`
	City            string   `json:"city" validate:"required,min=2,max=80"`
	State           string   `json:"state" validate:"required,len=2,alpha"`
	Specialties     []string `json:"specialties" validate:"required,min=1,max=8,dive,min=2,max=60"`
	Availability    string   `json:"availability" validate:"required,max=40"`
	ExperienceYears *int     `json:"experienceYears" validate:"omitempty,min=0,max=60"`
	Phone           string   `json:"phone" validate:"omitempty,max=30"`
	Email           string   `json:"email" validate:"required,email,max=254"`
}

// UpdateInstallerRequest is the authenticated owner's partial profile edit.
type UpdateInstallerRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=2,max=80"`
	Bio             *string  `json:"bio" validate:"omitempty,min=10,max=4000"`
	City            *string  `json:"city" validate:"omitempty,min=2,max=80"`
	State           *string  `json:"state" validate:"omitempty,len=2,alpha"`
	Specialties     []string `json:"specialties" validate:"omitempty,min=1,max=8,dive,min=2,max=60"`
	Availability    *string  `json:"availability" validate:"omitempty,max=40"`
	ExperienceYears *int     `json:"experienceYears" validate:"omitempty,min=0,max=60"`
	Phone           *string  `json:"phone" validate:"omitempty,max=30"`
	AvatarKey       *string  `json:"avatarKey" validate:"omitempty,max=500"`
	Visible         *bool    `json:"visible"`
}

// InstallerResponse is the public profile view. Email and phone are contact
// details the installer chose to publish.
type InstallerResponse struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	Bio             string    `json:"bio"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	Specialties     []string  `json:"specialties"`
	SpecialtyLabels []string  `json:"specialtyLabels,omitempty"`
	Availability    string    `json:"availability"`
	ExperienceYears *int      `json:"experienceYears,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	AvatarKey       *string   `json:"avatarKey,omitempty"`
	Featured        bool      `json:"featured"`
	DistanceMiles   *float64  `json:"distanceMiles,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SearchInstallersResponse is the paginated directory envelope.
type SearchInstallersResponse struct {
	Items      []InstallerResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"totalPages"`
}
