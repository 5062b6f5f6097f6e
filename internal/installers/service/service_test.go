package service

import (
	"context"
	"testing"
	"time"

	"tradecareers_backend/internal/geo"
	"tradecareers_backend/internal/installers/repository"
	"tradecareers_backend/internal/installers/transport"
	"tradecareers_backend/internal/taxonomy"
	"tradecareers_backend/platform/apperr"
	"tradecareers_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	installers []repository.Installer
	lastParams repository.ListParams
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Installer, int, error) {
	f.lastParams = params
	total := len(f.installers)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return f.installers[start:end], total, nil
}

func (f *fakeRepo) ListCandidates(_ context.Context, params repository.ListParams, cap int) ([]repository.Installer, bool, error) {
	f.lastParams = params
	if len(f.installers) > cap {
		return f.installers[:cap], true, nil
	}
	return f.installers, false, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateInstallerParams) (repository.Installer, error) {
	installer := repository.Installer{
		ID:           uuid.New(),
		Slug:         params.Slug,
		Name:         params.Name,
		Bio:          params.Bio,
		City:         params.City,
		State:        params.State,
		Specialties:  params.Specialties,
		Availability: params.Availability,
		Phone:        params.Phone,
		Email:        params.Email,
		OwnerUserID:  params.OwnerUserID,
		CreatedAt:    time.Now(),
	}
	f.installers = append(f.installers, installer)
	return installer, nil
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (repository.Installer, error) {
	for _, i := range f.installers {
		if i.Slug == slug {
			return i, nil
		}
	}
	return repository.Installer{}, repository.ErrNotFound
}

func (f *fakeRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	_, err := f.GetBySlug(context.Background(), slug)
	return err == nil, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateInstallerParams) (repository.Installer, error) {
	for i, installer := range f.installers {
		if installer.ID == id {
			if params.Availability != nil {
				f.installers[i].Availability = *params.Availability
			}
			if params.Phone != nil {
				f.installers[i].Phone = params.Phone
			}
			return f.installers[i], nil
		}
	}
	return repository.Installer{}, repository.ErrNotFound
}

func (f *fakeRepo) GetByOwner(_ context.Context, ownerUserID uuid.UUID) (repository.Installer, error) {
	for _, i := range f.installers {
		if i.OwnerUserID != nil && *i.OwnerUserID == ownerUserID {
			return i, nil
		}
	}
	return repository.Installer{}, repository.ErrNotFound
}

type fixedCap int

func (c fixedCap) GetRadiusCandidateCap() int { return int(c) }

func newTestService(t *testing.T, repo Repo) *Service {
	t.Helper()
	idx, err := geo.LoadIndex()
	if err != nil {
		t.Fatalf("load geo index: %v", err)
	}
	registry, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("load taxonomy: %v", err)
	}
	return New(repo, idx, registry, fixedCap(2000), logger.New("test"))
}

func installerAt(name, city, state string, lat, lng float64) repository.Installer {
	return repository.Installer{
		ID:           uuid.New(),
		Slug:         slugify(name) + "-" + slugify(city),
		Name:         name,
		City:         city,
		State:        state,
		Specialties:  []string{"window-tint"},
		Availability: "available",
		Latitude:     &lat,
		Longitude:    &lng,
		CreatedAt:    time.Now(),
	}
}

func TestSearchDefaultLimitIsTwelve(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), transport.ListInstallersRequest{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Limit != 12 {
		t.Fatalf("default limit = %d, want 12", resp.Limit)
	}
	if repo.lastParams.SortBy != "newest" {
		t.Fatalf("default sort = %q, want newest", repo.lastParams.SortBy)
	}
}

func TestSearchSortWhitelist(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	for raw, want := range map[string]string{
		"name-asc":        "name-asc",
		"experience-desc": "experience-desc",
		"newest":          "newest",
		"drop-table":      "newest",
	} {
		if _, err := svc.Search(context.Background(), transport.ListInstallersRequest{Sort: raw}); err != nil {
			t.Fatalf("search: %v", err)
		}
		if repo.lastParams.SortBy != want {
			t.Fatalf("sort %q mapped to %q, want %q", raw, repo.lastParams.SortBy, want)
		}
	}
}

func TestSearchRadiusSharedOrchestration(t *testing.T) {
	near := installerAt("Near Guy", "Round Rock", "TX", 30.5083, -97.6789)
	far := installerAt("Far Guy", "San Antonio", "TX", 29.4241, -98.4936)
	repo := &fakeRepo{installers: []repository.Installer{near, far}}
	svc := newTestService(t, repo)

	resp, err := svc.Search(context.Background(), transport.ListInstallersRequest{
		Location: "Austin, TX",
		Radius:   "50",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].Name != "Near Guy" {
		t.Fatalf("expected only the nearby installer, got %+v", resp.Items)
	}
	if repo.lastParams.Location != "" {
		t.Fatal("candidate fetch must not carry the location predicate")
	}
}

func TestRegisterNormalizesPhone(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	profile, err := svc.Register(context.Background(), transport.RegisterInstallerRequest{
		Name:         "Jamie Alvarez",
		Bio:          "Ten years of tint and PPF work on exotics.",
		City:         "Austin",
		State:        "TX",
		Specialties:  []string{"window-tint", "paint-protection-film"},
		Availability: "available",
		Phone:        "(512) 555-0134",
		Email:        "Jamie@Example.com",
	}, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if profile.Phone == nil || *profile.Phone != "+15125550134" {
		t.Fatalf("phone = %v, want +15125550134", profile.Phone)
	}
	if repo.installers[0].Email != "jamie@example.com" {
		t.Fatalf("email not lowercased: %q", repo.installers[0].Email)
	}
}

func TestRegisterRejectsInvalidPhone(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Register(context.Background(), transport.RegisterInstallerRequest{
		Name:         "Jamie Alvarez",
		Bio:          "Ten years of tint and PPF work on exotics.",
		City:         "Austin",
		State:        "TX",
		Specialties:  []string{"window-tint"},
		Availability: "available",
		Phone:        "call me maybe",
		Email:        "jamie@example.com",
	}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterRejectsUnknownSpecialty(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Register(context.Background(), transport.RegisterInstallerRequest{
		Name:         "Sam",
		Bio:          "General handyman available for anything.",
		City:         "Austin",
		State:        "TX",
		Specialties:  []string{"carpentry"},
		Availability: "available",
		Email:        "sam@example.com",
	}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateOwnRequiresProfile(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.UpdateOwn(context.Background(), uuid.New(), transport.UpdateInstallerRequest{})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
