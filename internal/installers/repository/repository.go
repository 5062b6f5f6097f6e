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

var ErrNotFound = errors.New("installer not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Installer struct {
	ID              uuid.UUID
	Slug            string
	Name            string
	Bio             string
	City            string
	State           string
	Specialties     []string
	Availability    string
	ExperienceYears *int
	Phone           *string
	Email           string
	AvatarKey       *string
	Featured        bool
	Latitude        *float64
	Longitude       *float64
	OwnerUserID     *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ListParams struct {
	Query        string
	Location     string
	Specialty    string
	Availability string
	FeaturedOnly bool
	SortBy       string
	Limit        int
	Offset       int
}

const installerColumns = `i.id, i.slug, i.name, i.bio, i.city, i.state, i.specialties,
		i.availability, i.experience_years, i.phone, i.email, i.avatar_key, i.featured,
		i.latitude, i.longitude, i.owner_user_id, i.created_at, i.updated_at`

func (r *Repository) List(ctx context.Context, params ListParams) ([]Installer, int, error) {
	whereClause, args, argIdx := buildInstallerListWhere(params, true)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM installers i WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM installers i
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, installerColumns, whereClause, mapInstallerSortOrder(params.SortBy), argIdx, argIdx+1)

	installers, err := r.queryInstallers(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return installers, total, nil
}

// ListCandidates mirrors List without the location predicate or pagination,
// capped for the radius post-filter.
func (r *Repository) ListCandidates(ctx context.Context, params ListParams, cap int) ([]Installer, bool, error) {
	whereClause, args, argIdx := buildInstallerListWhere(params, false)

	args = append(args, cap+1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM installers i
		WHERE %s
		ORDER BY %s
		LIMIT $%d
	`, installerColumns, whereClause, mapInstallerSortOrder(params.SortBy), argIdx)

	installers, err := r.queryInstallers(ctx, query, args...)
	if err != nil {
		return nil, false, err
	}

	truncated := len(installers) > cap
	if truncated {
		installers = installers[:cap]
	}
	return installers, truncated, nil
}

func buildInstallerListWhere(params ListParams, includeLocation bool) (string, []interface{}, int) {
	whereClauses := []string{"i.visible = true"}
	args := []interface{}{}
	argIdx := 1

	if params.Query != "" {
		pattern := "%" + params.Query + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(i.name ILIKE $%d OR i.bio ILIKE $%d)", argIdx, argIdx,
		))
		args = append(args, pattern)
		argIdx++
	}
	if includeLocation && params.Location != "" {
		pattern := "%" + params.Location + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(i.city ILIKE $%d OR i.state ILIKE $%d)", argIdx, argIdx,
		))
		args = append(args, pattern)
		argIdx++
	}
	if params.Specialty != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("i.specialties @> ARRAY[$%d]::text[]", argIdx))
		args = append(args, params.Specialty)
		argIdx++
	}
	if params.Availability != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("i.availability = $%d", argIdx))
		args = append(args, params.Availability)
		argIdx++
	}
	if params.FeaturedOnly {
		whereClauses = append(whereClauses, "i.featured = true")
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapInstallerSortOrder(sortBy string) string {
	switch sortBy {
	case "name-asc":
		return "i.name ASC"
	case "experience-desc":
		return "i.experience_years DESC NULLS LAST, i.created_at DESC"
	default: // newest
		return "i.created_at DESC"
	}
}

func (r *Repository) queryInstallers(ctx context.Context, query string, args ...interface{}) ([]Installer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	installers := make([]Installer, 0)
	for rows.Next() {
		installer, err := scanInstaller(rows)
		if err != nil {
			return nil, err
		}
		installers = append(installers, installer)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return installers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstaller(row rowScanner) (Installer, error) {
	var installer Installer
	err := row.Scan(
		&installer.ID, &installer.Slug, &installer.Name, &installer.Bio,
		&installer.City, &installer.State, &installer.Specialties,
		&installer.Availability, &installer.ExperienceYears, &installer.Phone,
		&installer.Email, &installer.AvatarKey, &installer.Featured,
		&installer.Latitude, &installer.Longitude, &installer.OwnerUserID,
		&installer.CreatedAt, &installer.UpdatedAt,
	)
	return installer, err
}

type CreateInstallerParams struct {
	Slug            string
	Name            string
	Bio             string
	City            string
	State           string
	Specialties     []string
	Availability    string
	ExperienceYears *int
	Phone           *string
	Email           string
	Latitude        *float64
	Longitude       *float64
	OwnerUserID     *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateInstallerParams) (Installer, error) {
	query := fmt.Sprintf(`
		INSERT INTO installers (slug, name, bio, city, state, specialties, availability,
			experience_years, phone, email, latitude, longitude, owner_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING %s
	`, strings.ReplaceAll(installerColumns, "i.", ""))

	row := r.pool.QueryRow(ctx, query,
		params.Slug, params.Name, params.Bio, params.City, params.State,
		params.Specialties, params.Availability, params.ExperienceYears,
		params.Phone, params.Email, params.Latitude, params.Longitude,
		params.OwnerUserID,
	)
	return scanInstaller(row)
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (Installer, error) {
	query := fmt.Sprintf("SELECT %s FROM installers i WHERE i.slug = $1", installerColumns)
	installer, err := scanInstaller(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return Installer{}, ErrNotFound
	}
	return installer, err
}

func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM installers WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

type UpdateInstallerParams struct {
	Name            *string
	Bio             *string
	City            *string
	State           *string
	Specialties     []string
	Availability    *string
	ExperienceYears *int
	Phone           *string
	AvatarKey       *string
	Visible         *bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateInstallerParams) (Installer, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	set := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Name != nil {
		set("name", *params.Name)
	}
	if params.Bio != nil {
		set("bio", *params.Bio)
	}
	if params.City != nil {
		set("city", *params.City)
		setClauses = append(setClauses, "latitude = NULL", "longitude = NULL")
	}
	if params.State != nil {
		set("state", *params.State)
	}
	if params.Specialties != nil {
		set("specialties", params.Specialties)
	}
	if params.Availability != nil {
		set("availability", *params.Availability)
	}
	if params.ExperienceYears != nil {
		set("experience_years", *params.ExperienceYears)
	}
	if params.Phone != nil {
		set("phone", *params.Phone)
	}
	if params.AvatarKey != nil {
		set("avatar_key", *params.AvatarKey)
	}
	if params.Visible != nil {
		set("visible", *params.Visible)
	}

	if len(setClauses) == 0 {
		return r.getByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`
		UPDATE installers SET %s WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, strings.ReplaceAll(installerColumns, "i.", ""))
	args = append(args, id)

	installer, err := scanInstaller(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Installer{}, ErrNotFound
	}
	return installer, err
}

func (r *Repository) getByID(ctx context.Context, id uuid.UUID) (Installer, error) {
	query := fmt.Sprintf("SELECT %s FROM installers i WHERE i.id = $1", installerColumns)
	installer, err := scanInstaller(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Installer{}, ErrNotFound
	}
	return installer, err
}

func (r *Repository) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (Installer, error) {
	query := fmt.Sprintf("SELECT %s FROM installers i WHERE i.owner_user_id = $1", installerColumns)
	installer, err := scanInstaller(r.pool.QueryRow(ctx, query, ownerUserID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Installer{}, ErrNotFound
	}
	return installer, err
}

// SitemapEntry is the minimal projection the sitemap needs.
type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// ListForSitemap returns slugs of all visible profiles, newest first.
func (r *Repository) ListForSitemap(ctx context.Context, limit int) ([]SitemapEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT slug, updated_at FROM installers
		WHERE visible = true
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
