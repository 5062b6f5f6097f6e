package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tradecareers_backend/internal/events"
	"tradecareers_backend/internal/geo"
	"tradecareers_backend/internal/jobs/repository"
	"tradecareers_backend/internal/jobs/transport"
	"tradecareers_backend/internal/taxonomy"
	"tradecareers_backend/platform/apperr"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const genericSearchErrMsg = "unable to search jobs right now"

// Repo is the persistence contract the service depends on.
type Repo interface {
	List(ctx context.Context, params repository.ListParams) ([]repository.Job, int, error)
	ListCandidates(ctx context.Context, params repository.ListParams, cap int) ([]repository.Job, bool, error)
	Create(ctx context.Context, params repository.CreateJobParams) (repository.Job, error)
	GetBySlug(ctx context.Context, slug string) (repository.Job, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateJobParams) (repository.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]repository.Job, error)
}

type Service struct {
	repo     Repo
	geoIndex *geo.Index
	registry *taxonomy.Registry
	cfg      config.SearchConfig
	bus      events.Bus
	log      *logger.Logger
}

func New(repo Repo, geoIndex *geo.Index, registry *taxonomy.Registry, cfg config.SearchConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		geoIndex: geoIndex,
		registry: registry,
		cfg:      cfg,
		bus:      bus,
		log:      log,
	}
}

// Search executes a job search. Without a radius the database pages the
// result; with one, candidates are fetched unpaged, distance-filtered against
// the resolved center, and paged in memory preserving the database sort.
func (s *Service) Search(ctx context.Context, req transport.ListJobsRequest) (transport.SearchJobsResponse, error) {
	criteria := parseCriteria(req)

	// Unknown vocabulary values cannot match anything in a controlled
	// column; dropping them keeps the clamping policy consistent.
	if criteria.Trade != "" && !s.registry.ValidTrade(criteria.Trade) {
		criteria.Trade = ""
	}
	if criteria.JobType != "" && !s.registry.ValidJobType(criteria.JobType) {
		criteria.JobType = ""
	}

	params := repository.ListParams{
		Query:        criteria.Query,
		Location:     criteria.Location,
		Trade:        criteria.Trade,
		JobType:      criteria.JobType,
		PayMin:       criteria.PayMin,
		PayMax:       criteria.PayMax,
		FeaturedOnly: criteria.FeaturedOnly,
		SortBy:       criteria.Sort,
	}

	if criteria.HasRadius() {
		return s.searchByRadius(ctx, criteria, params)
	}

	params.Limit = criteria.Limit
	params.Offset = criteria.Offset()

	jobs, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.log.DatabaseError("jobs.list", err)
		return transport.SearchJobsResponse{}, apperr.Internal(genericSearchErrMsg)
	}

	items := make([]transport.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, s.toResponse(job, nil))
	}
	return s.envelope(items, total, criteria), nil
}

func (s *Service) searchByRadius(ctx context.Context, criteria Criteria, params repository.ListParams) (transport.SearchJobsResponse, error) {
	center, ok := s.geoIndex.Resolve(criteria.Location)
	if !ok {
		// Unresolvable center means an empty result, not an error.
		s.log.GeocodeMiss(criteria.Location)
		return s.envelope([]transport.JobResponse{}, 0, criteria), nil
	}

	candidates, truncated, err := s.repo.ListCandidates(ctx, params, s.cfg.GetRadiusCandidateCap())
	if err != nil {
		s.log.DatabaseError("jobs.list_candidates", err)
		return transport.SearchJobsResponse{}, apperr.Internal(genericSearchErrMsg)
	}
	if truncated {
		s.log.CandidateSetTruncated("jobs", s.cfg.GetRadiusCandidateCap())
	}

	type match struct {
		job      repository.Job
		distance float64
	}
	matches := make([]match, 0, len(candidates))
	for _, job := range candidates {
		coord, ok := s.jobCoordinate(job)
		if !ok {
			continue
		}
		d := geo.DistanceMiles(center, coord)
		if d <= *criteria.Radius {
			matches = append(matches, match{job: job, distance: d})
		}
	}

	total := len(matches)
	start := criteria.Offset()
	if start > total {
		start = total
	}
	end := start + criteria.Limit
	if end > total {
		end = total
	}

	items := make([]transport.JobResponse, 0, end-start)
	for _, m := range matches[start:end] {
		distance := m.distance
		items = append(items, s.toResponse(m.job, &distance))
	}
	return s.envelope(items, total, criteria), nil
}

// jobCoordinate prefers stored coordinates and falls back to the city index.
// Jobs with neither are excluded from radius results.
func (s *Service) jobCoordinate(job repository.Job) (geo.Coordinate, bool) {
	if job.Latitude != nil && job.Longitude != nil {
		return geo.Coordinate{Lat: *job.Latitude, Lng: *job.Longitude}, true
	}
	return s.geoIndex.CityState(job.City, job.State)
}

func (s *Service) envelope(items []transport.JobResponse, total int, criteria Criteria) transport.SearchJobsResponse {
	totalPages := 0
	if total > 0 {
		totalPages = (total + criteria.Limit - 1) / criteria.Limit
	}
	return transport.SearchJobsResponse{
		Items:      items,
		Total:      total,
		Page:       criteria.Page,
		Limit:      criteria.Limit,
		TotalPages: totalPages,
	}
}

func (s *Service) toResponse(job repository.Job, distance *float64) transport.JobResponse {
	labels := make([]string, 0, len(job.Trades))
	for _, trade := range job.Trades {
		labels = append(labels, s.registry.TradeLabel(trade))
	}

	resp := transport.JobResponse{
		ID:              job.ID,
		Slug:            job.Slug,
		Title:           job.Title,
		Description:     job.Description,
		CompanyName:     job.CompanyName,
		City:            job.City,
		State:           job.State,
		JobType:         job.JobType,
		Trades:          job.Trades,
		TradeLabels:     labels,
		PayMin:          job.PayMin,
		PayMax:          job.PayMax,
		ExperienceYears: job.ExperienceYears,
		Featured:        job.Featured,
		Status:          job.Status,
		LogoKey:         job.LogoKey,
		DistanceMiles:   distance,
		CreatedAt:       job.CreatedAt,
	}
	if job.ExpiresAt != nil {
		ts := job.ExpiresAt.Unix()
		resp.ExpiresAt = &ts
	}
	return resp
}

// Create inserts a posting and returns it with the one-time manage token.
func (s *Service) Create(ctx context.Context, req transport.CreateJobRequest, ownerUserID *uuid.UUID) (transport.CreateJobResponse, error) {
	for _, trade := range req.Trades {
		if !s.registry.ValidTrade(trade) {
			return transport.CreateJobResponse{}, apperr.Validation("unknown trade: " + trade)
		}
	}
	if !s.registry.ValidJobType(req.JobType) {
		return transport.CreateJobResponse{}, apperr.Validation("unknown job type: " + req.JobType)
	}
	if req.PayMin != nil && req.PayMax != nil && *req.PayMin > *req.PayMax {
		return transport.CreateJobResponse{}, apperr.Validation("payMin cannot exceed payMax")
	}

	title := sanitize.PlainText(req.Title, 120)
	city := sanitize.PlainText(req.City, 80)
	state := strings.ToUpper(strings.TrimSpace(req.State))

	slug, err := s.uniqueSlug(ctx, title, city, state)
	if err != nil {
		s.log.DatabaseError("jobs.slug_check", err)
		return transport.CreateJobResponse{}, apperr.Internal("unable to create job right now")
	}

	token, tokenHash, err := newManageToken()
	if err != nil {
		return transport.CreateJobResponse{}, apperr.Wrap(apperr.KindInternal, "unable to create job right now", err)
	}

	var expiresAt *time.Time
	if req.ExpiresInDays != nil {
		t := time.Now().AddDate(0, 0, *req.ExpiresInDays)
		expiresAt = &t
	}

	var coordLat, coordLng *float64
	if coord, ok := s.geoIndex.CityState(city, state); ok {
		coordLat, coordLng = &coord.Lat, &coord.Lng
	}

	job, err := s.repo.Create(ctx, repository.CreateJobParams{
		Slug:            slug,
		Title:           title,
		Description:     sanitize.StripHTML(sanitize.PlainText(req.Description, 10000)),
		CompanyName:     sanitize.PlainText(req.CompanyName, 120),
		City:            city,
		State:           state,
		JobType:         req.JobType,
		Trades:          req.Trades,
		PayMin:          req.PayMin,
		PayMax:          req.PayMax,
		ExperienceYears: req.ExperienceYears,
		Latitude:        coordLat,
		Longitude:       coordLng,
		ContactEmail:    strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		LogoKey:         req.LogoKey,
		OwnerUserID:     ownerUserID,
		ManageTokenHash: tokenHash,
		ExpiresAt:       expiresAt,
	})
	if err != nil {
		s.log.DatabaseError("jobs.create", err)
		return transport.CreateJobResponse{}, apperr.Internal("unable to create job right now")
	}

	s.bus.Publish(ctx, events.JobPosted{
		BaseEvent:     events.NewBaseEvent(),
		JobID:         job.ID,
		JobSlug:       job.Slug,
		JobTitle:      job.Title,
		EmployerEmail: job.ContactEmail,
	})

	return transport.CreateJobResponse{
		Job:         s.toResponse(job, nil),
		ManageToken: token,
	}, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (transport.JobResponse, error) {
	job, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.JobResponse{}, apperr.NotFound("job not found")
		}
		s.log.DatabaseError("jobs.get_by_slug", err)
		return transport.JobResponse{}, apperr.Internal("unable to load job right now")
	}
	if jobExpired(job) {
		return transport.JobResponse{}, apperr.Gone("job posting has expired")
	}
	return s.toResponse(job, nil), nil
}

// jobExpired reports postings past their deadline, including those the expiry
// sweep has not flipped yet.
func jobExpired(job repository.Job) bool {
	if job.Status == "expired" {
		return true
	}
	return job.Status == "active" && job.ExpiresAt != nil && job.ExpiresAt.Before(time.Now())
}

// Credentials carries whatever proof of edit rights the caller presented:
// the one-time manage token issued at creation, the owner account ID from a
// verified access token, or both.
type Credentials struct {
	ManageToken string
	UserID      *uuid.UUID
}

// Update applies a partial edit after verifying the caller may manage the
// posting.
func (s *Service) Update(ctx context.Context, slug string, creds Credentials, req transport.UpdateJobRequest) (transport.JobResponse, error) {
	job, err := s.authorize(ctx, slug, creds)
	if err != nil {
		return transport.JobResponse{}, err
	}

	if req.Trades != nil {
		for _, trade := range req.Trades {
			if !s.registry.ValidTrade(trade) {
				return transport.JobResponse{}, apperr.Validation("unknown trade: " + trade)
			}
		}
	}
	if req.JobType != nil && !s.registry.ValidJobType(*req.JobType) {
		return transport.JobResponse{}, apperr.Validation("unknown job type: " + *req.JobType)
	}

	params := repository.UpdateJobParams{
		Trades:          req.Trades,
		PayMin:          req.PayMin,
		PayMax:          req.PayMax,
		ExperienceYears: req.ExperienceYears,
		JobType:         req.JobType,
		LogoKey:         req.LogoKey,
		Status:          req.Status,
	}
	if req.Title != nil {
		t := sanitize.PlainText(*req.Title, 120)
		params.Title = &t
	}
	if req.Description != nil {
		d := sanitize.StripHTML(sanitize.PlainText(*req.Description, 10000))
		params.Description = &d
	}
	if req.CompanyName != nil {
		n := sanitize.PlainText(*req.CompanyName, 120)
		params.CompanyName = &n
	}
	if req.City != nil {
		c := sanitize.PlainText(*req.City, 80)
		params.City = &c
	}
	if req.State != nil {
		st := strings.ToUpper(strings.TrimSpace(*req.State))
		params.State = &st
	}
	if req.ContactEmail != nil {
		e := strings.ToLower(strings.TrimSpace(*req.ContactEmail))
		params.ContactEmail = &e
	}

	updated, err := s.repo.Update(ctx, job.ID, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.JobResponse{}, apperr.NotFound("job not found")
		}
		s.log.DatabaseError("jobs.update", err)
		return transport.JobResponse{}, apperr.Internal("unable to update job right now")
	}
	return s.toResponse(updated, nil), nil
}

func (s *Service) Delete(ctx context.Context, slug string, creds Credentials) error {
	job, err := s.authorize(ctx, slug, creds)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, job.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("job not found")
		}
		s.log.DatabaseError("jobs.delete", err)
		return apperr.Internal("unable to delete job right now")
	}
	return nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]transport.JobResponse, error) {
	jobs, err := s.repo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		s.log.DatabaseError("jobs.list_by_owner", err)
		return nil, apperr.Internal(genericSearchErrMsg)
	}
	items := make([]transport.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, s.toResponse(job, nil))
	}
	return items, nil
}

// authorize accepts either credential: the owner's account when the posting
// was created while authenticated, or the manage token issued at creation.
func (s *Service) authorize(ctx context.Context, slug string, creds Credentials) (repository.Job, error) {
	job, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Job{}, apperr.NotFound("job not found")
		}
		s.log.DatabaseError("jobs.get_by_slug", err)
		return repository.Job{}, apperr.Internal("unable to load job right now")
	}
	if creds.UserID != nil && job.OwnerUserID != nil && *creds.UserID == *job.OwnerUserID {
		return job, nil
	}
	if creds.ManageToken == "" {
		return repository.Job{}, apperr.Unauthorized("manage token required")
	}
	if bcrypt.CompareHashAndPassword([]byte(job.ManageTokenHash), []byte(creds.ManageToken)) != nil {
		return repository.Job{}, apperr.Forbidden("invalid manage token")
	}
	return job, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug builds title-city-state-hex6 and retries the random suffix on
// the unlikely collision.
func (s *Service) uniqueSlug(ctx context.Context, title, city, state string) (string, error) {
	base := fmt.Sprintf("%s-%s-%s", slugify(title), slugify(city), strings.ToLower(state))
	for attempt := 0; attempt < 5; attempt++ {
		suffix := make([]byte, 3)
		if _, err := rand.Read(suffix); err != nil {
			return "", err
		}
		slug := base + "-" + hex.EncodeToString(suffix)
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
	}
	return "", errors.New("slug space exhausted for " + base)
}

func newManageToken() (token, hash string, err error) {
	raw := make([]byte, 16)
	if _, err = rand.Read(raw); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(raw)
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return token, string(hashed), nil
}
