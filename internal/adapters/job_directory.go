// Package adapters holds the thin cross-module glue wired in the composition
// roots, so domain modules only depend on their own interfaces.
package adapters

import (
	"context"
	"errors"
	"time"

	appsvc "tradecareers_backend/internal/applications/service"
	jobrepo "tradecareers_backend/internal/jobs/repository"
)

// ApplicationsJobDirectory exposes the jobs data layer through the
// applications module's JobDirectory port.
type ApplicationsJobDirectory struct {
	repo *jobrepo.Repository
}

func NewApplicationsJobDirectory(repo *jobrepo.Repository) *ApplicationsJobDirectory {
	return &ApplicationsJobDirectory{repo: repo}
}

func (a *ApplicationsJobDirectory) LookupBySlug(ctx context.Context, slug string) (appsvc.JobRef, error) {
	job, err := a.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, jobrepo.ErrNotFound) {
			return appsvc.JobRef{}, appsvc.ErrJobNotFound
		}
		return appsvc.JobRef{}, err
	}

	status := job.Status
	// A posting past its deadline stops accepting applications even before
	// the expiry sweep flips its status.
	if status == "active" && job.ExpiresAt != nil && job.ExpiresAt.Before(time.Now()) {
		status = "expired"
	}

	return appsvc.JobRef{
		ID:           job.ID,
		Slug:         job.Slug,
		Title:        job.Title,
		Status:       status,
		ContactEmail: job.ContactEmail,
	}, nil
}

var _ appsvc.JobDirectory = (*ApplicationsJobDirectory)(nil)
