package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"tradecareers_backend/internal/geo"
	"tradecareers_backend/internal/installers/repository"
	"tradecareers_backend/internal/installers/transport"
	"tradecareers_backend/internal/taxonomy"
	"tradecareers_backend/platform/apperr"
	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/phone"
	"tradecareers_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	maxPage      = 10000
	defaultLimit = 12
	maxLimit     = 50

	genericSearchErrMsg = "unable to search installers right now"
)

// Repo is the persistence contract the service depends on.
type Repo interface {
	List(ctx context.Context, params repository.ListParams) ([]repository.Installer, int, error)
	ListCandidates(ctx context.Context, params repository.ListParams, cap int) ([]repository.Installer, bool, error)
	Create(ctx context.Context, params repository.CreateInstallerParams) (repository.Installer, error)
	GetBySlug(ctx context.Context, slug string) (repository.Installer, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateInstallerParams) (repository.Installer, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (repository.Installer, error)
}

type Service struct {
	repo     Repo
	geoIndex *geo.Index
	registry *taxonomy.Registry
	cfg      config.SearchConfig
	log      *logger.Logger
}

func New(repo Repo, geoIndex *geo.Index, registry *taxonomy.Registry, cfg config.SearchConfig, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		geoIndex: geoIndex,
		registry: registry,
		cfg:      cfg,
		log:      log,
	}
}

type criteria struct {
	query        string
	location     string
	radius       *float64
	specialty    string
	availability string
	featuredOnly bool
	sort         string
	page         int
	limit        int
}

func parseCriteria(req transport.ListInstallersRequest) criteria {
	return criteria{
		query:        sanitize.SearchTerm(req.Query, sanitize.DefaultSearchTermLength),
		location:     sanitize.SearchTerm(req.Location, sanitize.DefaultSearchTermLength),
		radius:       parseRadius(req.Radius),
		specialty:    strings.TrimSpace(req.Specialty),
		availability: strings.TrimSpace(req.Availability),
		featuredOnly: req.Featured == "true" || req.Featured == "1",
		sort:         parseSort(req.Sort),
		page:         clampInt(req.Page, defaultPage, 1, maxPage),
		limit:        clampInt(req.Limit, defaultLimit, 1, maxLimit),
	}
}

func clampInt(raw string, def, min, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func parseRadius(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	r, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return nil
	}
	return &r
}

func parseSort(raw string) string {
	switch raw {
	case "name-asc", "experience-desc":
		return raw
	default:
		return "newest"
	}
}

// Search runs the directory query, sharing the radius orchestration shape
// with job search.
func (s *Service) Search(ctx context.Context, req transport.ListInstallersRequest) (transport.SearchInstallersResponse, error) {
	c := parseCriteria(req)

	if c.specialty != "" && !s.registry.ValidTrade(c.specialty) {
		c.specialty = ""
	}
	if c.availability != "" && !s.registry.ValidAvailability(c.availability) {
		c.availability = ""
	}

	params := repository.ListParams{
		Query:        c.query,
		Location:     c.location,
		Specialty:    c.specialty,
		Availability: c.availability,
		FeaturedOnly: c.featuredOnly,
		SortBy:       c.sort,
	}

	if c.location != "" && c.radius != nil {
		return s.searchByRadius(ctx, c, params)
	}

	params.Limit = c.limit
	params.Offset = (c.page - 1) * c.limit

	installers, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.log.DatabaseError("installers.list", err)
		return transport.SearchInstallersResponse{}, apperr.Internal(genericSearchErrMsg)
	}

	items := make([]transport.InstallerResponse, 0, len(installers))
	for _, installer := range installers {
		items = append(items, s.toResponse(installer, nil))
	}
	return s.envelope(items, total, c), nil
}

func (s *Service) searchByRadius(ctx context.Context, c criteria, params repository.ListParams) (transport.SearchInstallersResponse, error) {
	center, ok := s.geoIndex.Resolve(c.location)
	if !ok {
		s.log.GeocodeMiss(c.location)
		return s.envelope([]transport.InstallerResponse{}, 0, c), nil
	}

	candidates, truncated, err := s.repo.ListCandidates(ctx, params, s.cfg.GetRadiusCandidateCap())
	if err != nil {
		s.log.DatabaseError("installers.list_candidates", err)
		return transport.SearchInstallersResponse{}, apperr.Internal(genericSearchErrMsg)
	}
	if truncated {
		s.log.CandidateSetTruncated("installers", s.cfg.GetRadiusCandidateCap())
	}

	type match struct {
		installer repository.Installer
		distance  float64
	}
	matches := make([]match, 0, len(candidates))
	for _, installer := range candidates {
		coord, ok := s.installerCoordinate(installer)
		if !ok {
			continue
		}
		d := geo.DistanceMiles(center, coord)
		if d <= *c.radius {
			matches = append(matches, match{installer: installer, distance: d})
		}
	}

	total := len(matches)
	start := (c.page - 1) * c.limit
	if start > total {
		start = total
	}
	end := start + c.limit
	if end > total {
		end = total
	}

	items := make([]transport.InstallerResponse, 0, end-start)
	for _, m := range matches[start:end] {
		distance := m.distance
		items = append(items, s.toResponse(m.installer, &distance))
	}
	return s.envelope(items, total, c), nil
}

func (s *Service) installerCoordinate(installer repository.Installer) (geo.Coordinate, bool) {
	if installer.Latitude != nil && installer.Longitude != nil {
		return geo.Coordinate{Lat: *installer.Latitude, Lng: *installer.Longitude}, true
	}
	return s.geoIndex.CityState(installer.City, installer.State)
}

func (s *Service) envelope(items []transport.InstallerResponse, total int, c criteria) transport.SearchInstallersResponse {
	totalPages := 0
	if total > 0 {
		totalPages = (total + c.limit - 1) / c.limit
	}
	return transport.SearchInstallersResponse{
		Items:      items,
		Total:      total,
		Page:       c.page,
		Limit:      c.limit,
		TotalPages: totalPages,
	}
}

func (s *Service) toResponse(installer repository.Installer, distance *float64) transport.InstallerResponse {
	labels := make([]string, 0, len(installer.Specialties))
	for _, specialty := range installer.Specialties {
		labels = append(labels, s.registry.TradeLabel(specialty))
	}

	return transport.InstallerResponse{
		ID:              installer.ID,
		Slug:            installer.Slug,
		Name:            installer.Name,
		Bio:             installer.Bio,
		City:            installer.City,
		State:           installer.State,
		Specialties:     installer.Specialties,
		SpecialtyLabels: labels,
		Availability:    installer.Availability,
		ExperienceYears: installer.ExperienceYears,
		Phone:           installer.Phone,
		AvatarKey:       installer.AvatarKey,
		Featured:        installer.Featured,
		DistanceMiles:   distance,
		CreatedAt:       installer.CreatedAt,
	}
}

// Register creates a public installer profile.
func (s *Service) Register(ctx context.Context, req transport.RegisterInstallerRequest, ownerUserID *uuid.UUID) (transport.InstallerResponse, error) {
	for _, specialty := range req.Specialties {
		if !s.registry.ValidTrade(specialty) {
			return transport.InstallerResponse{}, apperr.Validation("unknown specialty: " + specialty)
		}
	}
	if !s.registry.ValidAvailability(req.Availability) {
		return transport.InstallerResponse{}, apperr.Validation("unknown availability: " + req.Availability)
	}

	var phonePtr *string
	if req.Phone != "" {
		normalized, err := phone.NormalizeE164(req.Phone)
		if err != nil {
			return transport.InstallerResponse{}, apperr.Validation("invalid phone number")
		}
		phonePtr = &normalized
	}

	name := sanitize.PlainText(req.Name, 80)
	city := sanitize.PlainText(req.City, 80)
	state := strings.ToUpper(strings.TrimSpace(req.State))

	slug, err := s.uniqueSlug(ctx, name, city, state)
	if err != nil {
		s.log.DatabaseError("installers.slug_check", err)
		return transport.InstallerResponse{}, apperr.Internal("unable to register right now")
	}

	var coordLat, coordLng *float64
	if coord, ok := s.geoIndex.CityState(city, state); ok {
		coordLat, coordLng = &coord.Lat, &coord.Lng
	}

	installer, err := s.repo.Create(ctx, repository.CreateInstallerParams{
		Slug:            slug,
		Name:            name,
		Bio:             sanitize.StripHTML(sanitize.PlainText(req.Bio, 4000)),
		City:            city,
		State:           state,
		Specialties:     req.Specialties,
		Availability:    req.Availability,
		ExperienceYears: req.ExperienceYears,
		Phone:           phonePtr,
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Latitude:        coordLat,
		Longitude:       coordLng,
		OwnerUserID:     ownerUserID,
	})
	if err != nil {
		s.log.DatabaseError("installers.create", err)
		return transport.InstallerResponse{}, apperr.Internal("unable to register right now")
	}
	return s.toResponse(installer, nil), nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (transport.InstallerResponse, error) {
	installer, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.InstallerResponse{}, apperr.NotFound("installer not found")
		}
		s.log.DatabaseError("installers.get_by_slug", err)
		return transport.InstallerResponse{}, apperr.Internal("unable to load profile right now")
	}
	return s.toResponse(installer, nil), nil
}

// UpdateOwn edits the profile owned by the authenticated user.
func (s *Service) UpdateOwn(ctx context.Context, ownerUserID uuid.UUID, req transport.UpdateInstallerRequest) (transport.InstallerResponse, error) {
	installer, err := s.repo.GetByOwner(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.InstallerResponse{}, apperr.NotFound("no profile for this account")
		}
		s.log.DatabaseError("installers.get_by_owner", err)
		return transport.InstallerResponse{}, apperr.Internal("unable to load profile right now")
	}

	if req.Specialties != nil {
		for _, specialty := range req.Specialties {
			if !s.registry.ValidTrade(specialty) {
				return transport.InstallerResponse{}, apperr.Validation("unknown specialty: " + specialty)
			}
		}
	}
	if req.Availability != nil && !s.registry.ValidAvailability(*req.Availability) {
		return transport.InstallerResponse{}, apperr.Validation("unknown availability: " + *req.Availability)
	}

	params := repository.UpdateInstallerParams{
		Specialties:     req.Specialties,
		Availability:    req.Availability,
		ExperienceYears: req.ExperienceYears,
		AvatarKey:       req.AvatarKey,
		Visible:         req.Visible,
	}
	if req.Name != nil {
		n := sanitize.PlainText(*req.Name, 80)
		params.Name = &n
	}
	if req.Bio != nil {
		b := sanitize.StripHTML(sanitize.PlainText(*req.Bio, 4000))
		params.Bio = &b
	}
	if req.City != nil {
		c := sanitize.PlainText(*req.City, 80)
		params.City = &c
	}
	if req.State != nil {
		st := strings.ToUpper(strings.TrimSpace(*req.State))
		params.State = &st
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			empty := ""
			params.Phone = &empty
		} else {
			normalized, err := phone.NormalizeE164(*req.Phone)
			if err != nil {
				return transport.InstallerResponse{}, apperr.Validation("invalid phone number")
			}
			params.Phone = &normalized
		}
	}

	updated, err := s.repo.Update(ctx, installer.ID, params)
	if err != nil {
		s.log.DatabaseError("installers.update", err)
		return transport.InstallerResponse{}, apperr.Internal("unable to update profile right now")
	}
	return s.toResponse(updated, nil), nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

func (s *Service) uniqueSlug(ctx context.Context, name, city, state string) (string, error) {
	base := fmt.Sprintf("%s-%s-%s", slugify(name), slugify(city), strings.ToLower(state))
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
