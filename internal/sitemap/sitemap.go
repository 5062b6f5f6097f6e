// Package sitemap serves the search-engine sitemap over the live catalog.
package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	apphttp "tradecareers_backend/internal/http"
	installerrepo "tradecareers_backend/internal/installers/repository"
	jobrepo "tradecareers_backend/internal/jobs/repository"
	"tradecareers_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// maxEntriesPerSource keeps the document under the 50k URL protocol limit
// with room for both collections and the static pages.
const maxEntriesPerSource = 20000

// JobLister provides live posting slugs.
type JobLister interface {
	ListForSitemap(ctx context.Context, limit int) ([]jobrepo.SitemapEntry, error)
}

// InstallerLister provides visible profile slugs.
type InstallerLister interface {
	ListForSitemap(ctx context.Context, limit int) ([]installerrepo.SitemapEntry, error)
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Module serves GET /sitemap.xml at the engine root, outside /api/v1.
type Module struct {
	baseURL    string
	jobs       JobLister
	installers InstallerLister
	log        *logger.Logger
}

func NewModule(publicBaseURL string, jobs JobLister, installers InstallerLister, log *logger.Logger) *Module {
	return &Module{
		baseURL:    strings.TrimRight(publicBaseURL, "/"),
		jobs:       jobs,
		installers: installers,
		log:        log,
	}
}

func (m *Module) Name() string {
	return "sitemap"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/sitemap.xml", m.serve)
}

func (m *Module) serve(c *gin.Context) {
	ctx := c.Request.Context()

	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []urlEntry{
			{Loc: m.baseURL + "/", ChangeFreq: "daily"},
			{Loc: m.baseURL + "/jobs", ChangeFreq: "hourly"},
			{Loc: m.baseURL + "/installers", ChangeFreq: "daily"},
		},
	}

	jobs, err := m.jobs.ListForSitemap(ctx, maxEntriesPerSource)
	if err != nil {
		m.log.Error("sitemap job listing failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	for _, entry := range jobs {
		set.URLs = append(set.URLs, urlEntry{
			Loc:     m.baseURL + "/jobs/" + entry.Slug,
			LastMod: entry.UpdatedAt.UTC().Format(time.DateOnly),
		})
	}

	installers, err := m.installers.ListForSitemap(ctx, maxEntriesPerSource)
	if err != nil {
		m.log.Error("sitemap installer listing failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	for _, entry := range installers {
		set.URLs = append(set.URLs, urlEntry{
			Loc:     m.baseURL + "/installers/" + entry.Slug,
			LastMod: entry.UpdatedAt.UTC().Format(time.DateOnly),
		})
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.XML(http.StatusOK, set)
}

var _ apphttp.Module = (*Module)(nil)
