package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Application struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	Name      string
	Email     string
	Phone     *string
	Message   string
	ResumeKey *string
	CreatedAt time.Time
}

type CreateApplicationParams struct {
	JobID     uuid.UUID
	Name      string
	Email     string
	Phone     *string
	Message   string
	ResumeKey *string
}

func (r *Repository) Create(ctx context.Context, params CreateApplicationParams) (Application, error) {
	var app Application
	err := r.pool.QueryRow(ctx, `
		INSERT INTO applications (job_id, name, email, phone, message, resume_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, job_id, name, email, phone, message, resume_key, created_at
	`, params.JobID, params.Name, params.Email, params.Phone, params.Message, params.ResumeKey).Scan(
		&app.ID, &app.JobID, &app.Name, &app.Email, &app.Phone,
		&app.Message, &app.ResumeKey, &app.CreatedAt,
	)
	return app, err
}

// CountRecentByEmail guards against duplicate submissions to the same job.
func (r *Repository) CountRecentByEmail(ctx context.Context, jobID uuid.UUID, email string, within time.Duration) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM applications
		WHERE job_id = $1 AND email = $2 AND created_at > now() - ($3 * interval '1 second')
	`, jobID, email, within.Seconds()).Scan(&count)
	return count, err
}
