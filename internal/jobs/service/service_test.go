package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"tradecareers_backend/internal/events"
	"tradecareers_backend/internal/geo"
	"tradecareers_backend/internal/jobs/repository"
	"tradecareers_backend/internal/jobs/transport"
	"tradecareers_backend/internal/taxonomy"
	"tradecareers_backend/platform/apperr"
	"tradecareers_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	jobs       []repository.Job
	listErr    error
	lastParams repository.ListParams
	lastCap    int
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Job, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.lastParams = params
	total := len(f.jobs)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return f.jobs[start:end], total, nil
}

func (f *fakeRepo) ListCandidates(_ context.Context, params repository.ListParams, cap int) ([]repository.Job, bool, error) {
	if f.listErr != nil {
		return nil, false, f.listErr
	}
	f.lastParams = params
	f.lastCap = cap
	if len(f.jobs) > cap {
		return f.jobs[:cap], true, nil
	}
	return f.jobs, false, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateJobParams) (repository.Job, error) {
	job := repository.Job{
		ID:              uuid.New(),
		Slug:            params.Slug,
		Title:           params.Title,
		Description:     params.Description,
		CompanyName:     params.CompanyName,
		City:            params.City,
		State:           params.State,
		JobType:         params.JobType,
		Trades:          params.Trades,
		PayMin:          params.PayMin,
		PayMax:          params.PayMax,
		Status:          "active",
		OwnerUserID:     params.OwnerUserID,
		ManageTokenHash: params.ManageTokenHash,
		ExpiresAt:       params.ExpiresAt,
		CreatedAt:       time.Now(),
	}
	f.jobs = append(f.jobs, job)
	return job, nil
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (repository.Job, error) {
	for _, j := range f.jobs {
		if j.Slug == slug {
			return j, nil
		}
	}
	return repository.Job{}, repository.ErrNotFound
}

func (f *fakeRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	_, err := f.GetBySlug(context.Background(), slug)
	return err == nil, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateJobParams) (repository.Job, error) {
	for i, j := range f.jobs {
		if j.ID == id {
			if params.Title != nil {
				f.jobs[i].Title = *params.Title
			}
			if params.Status != nil {
				f.jobs[i].Status = *params.Status
			}
			return f.jobs[i], nil
		}
	}
	return repository.Job{}, repository.ErrNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, j := range f.jobs {
		if j.ID == id {
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeRepo) ListByOwner(_ context.Context, ownerUserID uuid.UUID) ([]repository.Job, error) {
	var out []repository.Job
	for _, j := range f.jobs {
		if j.OwnerUserID != nil && *j.OwnerUserID == ownerUserID {
			out = append(out, j)
		}
	}
	return out, nil
}

type fixedCap int

func (c fixedCap) GetRadiusCandidateCap() int { return int(c) }

func newTestService(t *testing.T, repo Repo, cap int) *Service {
	t.Helper()
	idx, err := geo.LoadIndex()
	if err != nil {
		t.Fatalf("load geo index: %v", err)
	}
	registry, err := taxonomy.Load()
	if err != nil {
		t.Fatalf("load taxonomy: %v", err)
	}
	log := logger.New("test")
	return New(repo, idx, registry, fixedCap(cap), events.NewInMemoryBus(log), log)
}

func jobAt(city, state string, lat, lng float64) repository.Job {
	return repository.Job{
		ID:        uuid.New(),
		Slug:      fmt.Sprintf("%s-%s-%s", city, state, uuid.NewString()[:6]),
		Title:     "Vinyl Wrap Installer",
		City:      city,
		State:     state,
		Status:    "active",
		Trades:    []string{"vinyl-wrap"},
		Latitude:  &lat,
		Longitude: &lng,
		CreatedAt: time.Now(),
	}
}

func TestSearchRadiusFiltersByDistance(t *testing.T) {
	austin := jobAt("Austin", "TX", 30.2672, -97.7431)
	roundRock := jobAt("Round Rock", "TX", 30.5083, -97.6789) // ~17 mi
	sanAntonio := jobAt("San Antonio", "TX", 29.4241, -98.4936) // ~73 mi

	repo := &fakeRepo{jobs: []repository.Job{austin, roundRock, sanAntonio}}
	svc := newTestService(t, repo, 2000)

	resp, err := svc.Search(context.Background(), transport.ListJobsRequest{
		Location: "Austin, TX",
		Radius:   "50",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 within 50 miles, got %d", resp.Total)
	}
	for _, item := range resp.Items {
		if item.City == "San Antonio" {
			t.Fatal("San Antonio is outside the 50 mile radius")
		}
		if item.DistanceMiles == nil {
			t.Fatalf("missing distance on %s", item.City)
		}
	}
}

func TestSearchRadiusBoundaryInclusive(t *testing.T) {
	austin := jobAt("Austin", "TX", 30.2672, -97.7431)
	sanAntonio := jobAt("San Antonio", "TX", 29.4241, -98.4936)
	repo := &fakeRepo{jobs: []repository.Job{austin, sanAntonio}}
	svc := newTestService(t, repo, 2000)

	// ~73.5 mi apart: 80 includes, 60 excludes.
	resp, err := svc.Search(context.Background(), transport.ListJobsRequest{
		Location: "Austin, TX", Radius: "80",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("radius 80: expected 2, got %d", resp.Total)
	}

	resp, err = svc.Search(context.Background(), transport.ListJobsRequest{
		Location: "Austin, TX", Radius: "60",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("radius 60: expected 1, got %d", resp.Total)
	}
}

func TestSearchGeocodeMissReturnsEmpty(t *testing.T) {
	repo := &fakeRepo{jobs: []repository.Job{jobAt("Austin", "TX", 30.2672, -97.7431)}}
	svc := newTestService(t, repo, 2000)

	resp, err := svc.Search(context.Background(), transport.ListJobsRequest{
		Location: "Nowhereville, ZZ",
		Radius:   "25",
	})
	if err != nil {
		t.Fatalf("geocode miss must not be an error: %v", err)
	}
	if resp.Total != 0 || len(resp.Items) != 0 {
		t.Fatalf("expected empty result, got total=%d items=%d", resp.Total, len(resp.Items))
	}
	if resp.Page != 1 || resp.Limit != 20 {
		t.Fatalf("envelope should keep defaults, got page=%d limit=%d", resp.Page, resp.Limit)
	}
}

func TestSearchRadiusExcludesJobsWithoutCoordinates(t *testing.T) {
	austin := jobAt("Austin", "TX", 30.2672, -97.7431)
	noCoords := repository.Job{
		ID:        uuid.New(),
		Slug:      "mystery-job",
		City:      "Middleofnowhere",
		State:     "ZZ",
		Status:    "active",
		CreatedAt: time.Now(),
	}
	repo := &fakeRepo{jobs: []repository.Job{austin, noCoords}}
	svc := newTestService(t, repo, 2000)

	resp, err := svc.Search(context.Background(), transport.ListJobsRequest{
		Location: "Austin, TX", Radius: "5000",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("coordinate-less job must be excluded, got total=%d", resp.Total)
	}
}

func TestSearchRadiusInMemoryPagination(t *testing.T) {
	jobs := make([]repository.Job, 0, 25)
	for i := 0; i < 25; i++ {
		j := jobAt("Austin", "TX", 30.2672, -97.7431)
		j.Title = fmt.Sprintf("Job %02d", i)
		jobs = append(jobs, j)
	}
	repo := &fakeRepo{jobs: jobs}
	svc := newTestService(t, repo, 2000)

	resp, err := svc.Search(context.Background(), transport.ListJobsRequest{
		Location: "Austin, TX", Radius: "10",
		Page: "2", Limit: "10",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Total != 25 {
		t.Fatalf("total = %d, want 25", resp.Total)
	}
	if len(resp.Items) != 10 {
		t.Fatalf("page 2 size = %d, want 10", len(resp.Items))
	}
	// Candidate order is preserved through the distance filter.
	if resp.Items[0].Title != "Job 10" || resp.Items[9].Title != "Job 19" {
		t.Fatalf("page 2 window = [%s..%s], want [Job 10..Job 19]",
			resp.Items[0].Title, resp.Items[9].Title)
	}
	if resp.TotalPages != 3 {
		t.Fatalf("totalPages = %d, want 3", resp.TotalPages)
	}
}

func TestSearchRadiusPageBeyondEnd(t *testing.T) {
	repo := &fakeRepo{jobs: []repository.Job{jobAt("Austin", "TX", 30.2672, -97.7431)}}
	svc := newTestService(t, repo, 2000)

	resp, err := svc.Search(context.Background(), transport.ListJobsRequest{
		Location: "Austin, TX", Radius: "10", Page: "500",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Items) != 0 || resp.Total != 1 {
		t.Fatalf("expected empty page with total=1, got items=%d total=%d", len(resp.Items), resp.Total)
	}
}

func TestSearchRadiusIgnoredWithoutLocation(t *testing.T) {
	repo := &fakeRepo{jobs: []repository.Job{jobAt("Austin", "TX", 30.2672, -97.7431)}}
	svc := newTestService(t, repo, 2000)

	resp, err := svc.Search(context.Background(), transport.ListJobsRequest{Radius: "50"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// Direct path: the fake echoes DB paging, and no distances are attached.
	if resp.Total != 1 || resp.Items[0].DistanceMiles != nil {
		t.Fatalf("radius without location must use the direct path")
	}
}

func TestSearchMalformedNumbersClamp(t *testing.T) {
	repo := &fakeRepo{jobs: []repository.Job{jobAt("Austin", "TX", 30.2672, -97.7431)}}
	svc := newTestService(t, repo, 2000)

	resp, err := svc.Search(context.Background(), transport.ListJobsRequest{
		Page:   "banana",
		Limit:  "9999",
		PayMin: "not-a-number",
		Radius: "-12",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.Page != 1 {
		t.Fatalf("page = %d, want default 1", resp.Page)
	}
	if resp.Limit != 50 {
		t.Fatalf("limit = %d, want clamp to 50", resp.Limit)
	}
	if repo.lastParams.PayMin != nil {
		t.Fatal("malformed payMin must be dropped")
	}
}

func TestSearchUnknownVocabularyDropped(t *testing.T) {
	repo := &fakeRepo{jobs: []repository.Job{jobAt("Austin", "TX", 30.2672, -97.7431)}}
	svc := newTestService(t, repo, 2000)

	if _, err := svc.Search(context.Background(), transport.ListJobsRequest{
		Trade:   "underwater-basket-weaving",
		JobType: "gig",
	}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if repo.lastParams.Trade != "" || repo.lastParams.JobType != "" {
		t.Fatalf("unknown trade/type must be dropped, got %q %q",
			repo.lastParams.Trade, repo.lastParams.JobType)
	}
}

func TestSearchRepositoryFaultIsGeneric(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("pq: relation jobs does not exist")}
	svc := newTestService(t, repo, 2000)

	_, err := svc.Search(context.Background(), transport.ListJobsRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal kind, got %v", err)
	}
	if msg := err.Error(); msg != genericSearchErrMsg {
		t.Fatalf("store detail must not leak: %q", msg)
	}
}

func TestCreateAndManageTokenRoundTrip(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, 2000)

	created, err := svc.Create(context.Background(), transport.CreateJobRequest{
		Title:        "PPF Installer",
		Description:  "Install paint protection film on luxury vehicles.",
		CompanyName:  "Wrap & Shine",
		City:         "Austin",
		State:        "tx",
		JobType:      "full-time",
		Trades:       []string{"paint-protection-film"},
		ContactEmail: "Hiring@WrapAndShine.com",
	}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ManageToken == "" {
		t.Fatal("manage token must be returned once")
	}
	if created.Job.Slug == "" {
		t.Fatal("slug missing")
	}

	// Token authorizes updates; a wrong one is rejected.
	status := "paused"
	if _, err := svc.Update(context.Background(), created.Job.Slug,
		Credentials{ManageToken: created.ManageToken},
		transport.UpdateJobRequest{Status: &status}); err != nil {
		t.Fatalf("update with valid token: %v", err)
	}
	_, err = svc.Update(context.Background(), created.Job.Slug,
		Credentials{ManageToken: "deadbeef"},
		transport.UpdateJobRequest{Status: &status})
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestOwnerAccountAuthorizesEdits(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, 2000)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), transport.CreateJobRequest{
		Title:        "Tint Installer",
		Description:  "Tint windows on cars and trucks all day.",
		CompanyName:  "Shade Co",
		City:         "Austin",
		State:        "TX",
		JobType:      "full-time",
		Trades:       []string{"window-tint"},
		ContactEmail: "hiring@shade.co",
	}, &owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The owner edits without the manage token.
	status := "paused"
	if _, err := svc.Update(context.Background(), created.Job.Slug,
		Credentials{UserID: &owner},
		transport.UpdateJobRequest{Status: &status}); err != nil {
		t.Fatalf("update as owner: %v", err)
	}

	// A different account without the token gets nothing.
	stranger := uuid.New()
	_, err = svc.Update(context.Background(), created.Job.Slug,
		Credentials{UserID: &stranger},
		transport.UpdateJobRequest{Status: &status})
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if err := svc.Delete(context.Background(), created.Job.Slug,
		Credentials{UserID: &owner}); err != nil {
		t.Fatalf("delete as owner: %v", err)
	}
}

func TestGetBySlugExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	job := jobAt("Austin", "TX", 30.2672, -97.7431)
	job.ExpiresAt = &past
	swept := jobAt("Dallas", "TX", 32.7767, -96.797)
	swept.Status = "expired"

	svc := newTestService(t, &fakeRepo{jobs: []repository.Job{job, swept}}, 2000)

	// Past the deadline but not swept yet.
	if _, err := svc.GetBySlug(context.Background(), job.Slug); !apperr.Is(err, apperr.KindGone) {
		t.Fatalf("expected gone for past-deadline job, got %v", err)
	}
	// Already swept.
	if _, err := svc.GetBySlug(context.Background(), swept.Slug); !apperr.Is(err, apperr.KindGone) {
		t.Fatalf("expected gone for swept job, got %v", err)
	}
}

func TestCreateRejectsUnknownTrade(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, 2000)

	_, err := svc.Create(context.Background(), transport.CreateJobRequest{
		Title:        "Plumber",
		Description:  "Fix pipes all day long.",
		CompanyName:  "Pipes Inc",
		City:         "Austin",
		State:        "TX",
		JobType:      "full-time",
		Trades:       []string{"plumbing"},
		ContactEmail: "a@b.com",
	}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSlugShape(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, 2000)

	created, err := svc.Create(context.Background(), transport.CreateJobRequest{
		Title:        "Senior Tint Tech!",
		Description:  "Tint windows with precision and care.",
		CompanyName:  "Shade Co",
		City:         "St. Louis",
		State:        "MO",
		JobType:      "full-time",
		Trades:       []string{"window-tint"},
		ContactEmail: "a@b.com",
	}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	want := regexp.MustCompile(`^senior-tint-tech-st-louis-mo-[0-9a-f]{6}$`)
	if !want.MatchString(created.Job.Slug) {
		t.Fatalf("slug %q does not match the expected shape", created.Job.Slug)
	}
}
