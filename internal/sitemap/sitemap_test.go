package sitemap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apphttp "tradecareers_backend/internal/http"
	installerrepo "tradecareers_backend/internal/installers/repository"
	jobrepo "tradecareers_backend/internal/jobs/repository"
	"tradecareers_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type fakeJobLister struct{ entries []jobrepo.SitemapEntry }

func (f fakeJobLister) ListForSitemap(context.Context, int) ([]jobrepo.SitemapEntry, error) {
	return f.entries, nil
}

type fakeInstallerLister struct{ entries []installerrepo.SitemapEntry }

func (f fakeInstallerLister) ListForSitemap(context.Context, int) ([]installerrepo.SitemapEntry, error) {
	return f.entries, nil
}

func TestSitemapListsJobsAndInstallers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	updated := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	m := NewModule(
		"https://tradecareers.example/",
		fakeJobLister{entries: []jobrepo.SitemapEntry{{Slug: "tint-tech-austin-tx-a1b2c3", UpdatedAt: updated}}},
		fakeInstallerLister{entries: []installerrepo.SitemapEntry{{Slug: "wrap-masters-dallas", UpdatedAt: updated}}},
		logger.New("test"),
	)

	engine := gin.New()
	m.RegisterRoutes(&apphttp.RouterContext{Engine: engine})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"http://www.sitemaps.org/schemas/sitemap/0.9",
		"<loc>https://tradecareers.example/jobs/tint-tech-austin-tx-a1b2c3</loc>",
		"<loc>https://tradecareers.example/installers/wrap-masters-dallas</loc>",
		"<lastmod>2025-06-15</lastmod>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}
