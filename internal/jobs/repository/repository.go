package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("job not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Job struct {
	ID              uuid.UUID
	Slug            string
	Title           string
	Description     string
	CompanyName     string
	City            string
	State           string
	JobType         string
	Trades          []string
	PayMin          *int
	PayMax          *int
	ExperienceYears *int
	Featured        bool
	Status          string
	Latitude        *float64
	Longitude       *float64
	ContactEmail    string
	LogoKey         *string
	OwnerUserID     *uuid.UUID
	ManageTokenHash string
	ExpiresAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ListParams struct {
	Query        string
	Location     string
	Trade        string
	JobType      string
	PayMin       *int
	PayMax       *int
	FeaturedOnly bool
	SortBy       string
	Limit        int
	Offset       int
}

const jobColumns = `j.id, j.slug, j.title, j.description, j.company_name, j.city, j.state,
		j.job_type, j.trades, j.pay_min, j.pay_max, j.experience_years, j.featured, j.status,
		j.latitude, j.longitude, j.contact_email, j.logo_key, j.owner_user_id, j.manage_token_hash,
		j.expires_at, j.created_at, j.updated_at`

// List runs the filtered query with database-side pagination. Used when no
// radius applies and the database can page the result itself.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Job, int, error) {
	whereClause, args, argIdx := buildJobListWhere(params, true)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM jobs j WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs j
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, jobColumns, whereClause, mapJobSortOrder(params.SortBy), argIdx, argIdx+1)

	jobs, err := r.queryJobs(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListCandidates fetches the filtered set WITHOUT the location predicate and
// without pagination, for radius post-filtering in the service layer. The cap
// bounds the working set; the returned flag reports whether it was hit.
func (r *Repository) ListCandidates(ctx context.Context, params ListParams, cap int) ([]Job, bool, error) {
	whereClause, args, argIdx := buildJobListWhere(params, false)

	args = append(args, cap+1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM jobs j
		WHERE %s
		ORDER BY %s
		LIMIT $%d
	`, jobColumns, whereClause, mapJobSortOrder(params.SortBy), argIdx)

	jobs, err := r.queryJobs(ctx, query, args...)
	if err != nil {
		return nil, false, err
	}

	truncated := len(jobs) > cap
	if truncated {
		jobs = jobs[:cap]
	}
	return jobs, truncated, nil
}

func buildJobListWhere(params ListParams, includeLocation bool) (string, []interface{}, int) {
	// Only live postings are searchable.
	whereClauses := []string{"j.status = 'active'", "(j.expires_at IS NULL OR j.expires_at > now())"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Query != "" {
		pattern := "%" + params.Query + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(j.title ILIKE $%d OR j.description ILIKE $%d OR j.company_name ILIKE $%d)",
			argIdx, argIdx, argIdx,
		))
		args = append(args, pattern)
		argIdx++
	}
	if includeLocation && params.Location != "" {
		pattern := "%" + params.Location + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(j.city ILIKE $%d OR j.state ILIKE $%d)", argIdx, argIdx,
		))
		args = append(args, pattern)
		argIdx++
	}
	if params.Trade != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("j.trades @> ARRAY[$%d]::text[]", argIdx))
		args = append(args, params.Trade)
		argIdx++
	}
	if params.JobType != "" {
		addEquals("j.job_type", params.JobType)
	}
	if params.PayMin != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("j.pay_min >= $%d", argIdx))
		args = append(args, *params.PayMin)
		argIdx++
	}
	if params.PayMax != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("j.pay_max <= $%d", argIdx))
		args = append(args, *params.PayMax)
		argIdx++
	}
	if params.FeaturedOnly {
		whereClauses = append(whereClauses, "j.featured = true")
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapJobSortOrder(sortBy string) string {
	switch sortBy {
	case "highest-pay":
		return "j.pay_max DESC NULLS LAST, j.pay_min DESC NULLS LAST, j.created_at DESC"
	default: // newest
		return "j.created_at DESC"
	}
}

func (r *Repository) queryJobs(ctx context.Context, query string, args ...interface{}) ([]Job, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	err := row.Scan(
		&job.ID, &job.Slug, &job.Title, &job.Description, &job.CompanyName,
		&job.City, &job.State, &job.JobType, &job.Trades,
		&job.PayMin, &job.PayMax, &job.ExperienceYears, &job.Featured, &job.Status,
		&job.Latitude, &job.Longitude, &job.ContactEmail, &job.LogoKey, &job.OwnerUserID,
		&job.ManageTokenHash, &job.ExpiresAt, &job.CreatedAt, &job.UpdatedAt,
	)
	return job, err
}

type CreateJobParams struct {
	Slug            string
	Title           string
	Description     string
	CompanyName     string
	City            string
	State           string
	JobType         string
	Trades          []string
	PayMin          *int
	PayMax          *int
	ExperienceYears *int
	Latitude        *float64
	Longitude       *float64
	ContactEmail    string
	LogoKey         *string
	OwnerUserID     *uuid.UUID
	ManageTokenHash string
	ExpiresAt       *time.Time
}

func (r *Repository) Create(ctx context.Context, params CreateJobParams) (Job, error) {
	query := fmt.Sprintf(`
		INSERT INTO jobs (slug, title, description, company_name, city, state, job_type,
			trades, pay_min, pay_max, experience_years, latitude, longitude,
			contact_email, logo_key, owner_user_id, manage_token_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING %s
	`, jobColumns)

	// RETURNING references the insert row directly; strip the alias.
	query = strings.ReplaceAll(query, "j.", "")

	row := r.pool.QueryRow(ctx, query,
		params.Slug, params.Title, params.Description, params.CompanyName,
		params.City, params.State, params.JobType, params.Trades,
		params.PayMin, params.PayMax, params.ExperienceYears,
		params.Latitude, params.Longitude, params.ContactEmail, params.LogoKey,
		params.OwnerUserID, params.ManageTokenHash, params.ExpiresAt,
	)
	return scanJob(row)
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs j WHERE j.slug = $1", jobColumns)
	job, err := scanJob(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return job, err
}

func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM jobs WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

type UpdateJobParams struct {
	Title           *string
	Description     *string
	CompanyName     *string
	City            *string
	State           *string
	JobType         *string
	Trades          []string
	PayMin          *int
	PayMax          *int
	ExperienceYears *int
	ContactEmail    *string
	LogoKey         *string
	Status          *string
}

// Update applies a partial update to the identified job. Only non-nil fields
// change; Trades replaces the whole array when non-nil.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateJobParams) (Job, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	set := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Title != nil {
		set("title", *params.Title)
	}
	if params.Description != nil {
		set("description", *params.Description)
	}
	if params.CompanyName != nil {
		set("company_name", *params.CompanyName)
	}
	if params.City != nil {
		set("city", *params.City)
		// stale coordinates would poison radius results; the geocode
		// backfill repopulates them
		setClauses = append(setClauses, "latitude = NULL", "longitude = NULL")
	}
	if params.State != nil {
		set("state", *params.State)
	}
	if params.JobType != nil {
		set("job_type", *params.JobType)
	}
	if params.Trades != nil {
		set("trades", params.Trades)
	}
	if params.PayMin != nil {
		set("pay_min", *params.PayMin)
	}
	if params.PayMax != nil {
		set("pay_max", *params.PayMax)
	}
	if params.ExperienceYears != nil {
		set("experience_years", *params.ExperienceYears)
	}
	if params.ContactEmail != nil {
		set("contact_email", *params.ContactEmail)
	}
	if params.LogoKey != nil {
		set("logo_key", *params.LogoKey)
	}
	if params.Status != nil {
		set("status", *params.Status)
	}

	if len(setClauses) == 0 {
		return r.getByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`
		UPDATE jobs SET %s WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, strings.ReplaceAll(jobColumns, "j.", ""))
	args = append(args, id)

	job, err := scanJob(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return job, err
}

func (r *Repository) getByID(ctx context.Context, id uuid.UUID) (Job, error) {
	query := fmt.Sprintf("SELECT %s FROM jobs j WHERE j.id = $1", jobColumns)
	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return job, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM jobs WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]Job, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM jobs j
		WHERE j.owner_user_id = $1
		ORDER BY j.created_at DESC
	`, jobColumns)
	return r.queryJobs(ctx, query, ownerUserID)
}

// ExpireDue flips active postings past their expiry to 'expired' and reports
// how many rows changed. Called by the scheduler sweep.
func (r *Repository) ExpireDue(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE jobs SET status = 'expired', updated_at = now()
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at <= now()
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListMissingCoordinates returns active jobs without stored coordinates, for
// the geocode backfill command.
func (r *Repository) ListMissingCoordinates(ctx context.Context, limit int) ([]Job, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM jobs j
		WHERE j.status = 'active' AND (j.latitude IS NULL OR j.longitude IS NULL)
		ORDER BY j.created_at
		LIMIT $1
	`, jobColumns)
	return r.queryJobs(ctx, query, limit)
}

func (r *Repository) SetCoordinates(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE jobs SET latitude = $1, longitude = $2, updated_at = now() WHERE id = $3",
		lat, lng, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SitemapEntry is the minimal projection the sitemap needs.
type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// ListForSitemap returns slugs of all live postings, newest first.
func (r *Repository) ListForSitemap(ctx context.Context, limit int) ([]SitemapEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT slug, updated_at FROM jobs
		WHERE status = 'active' AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]SitemapEntry, 0)
	for rows.Next() {
		var entry SitemapEntry
		if err := rows.Scan(&entry.Slug, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
