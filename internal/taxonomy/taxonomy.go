// Package taxonomy holds the controlled vocabularies shared by jobs and
// installer profiles: trade specialties, job types, and availability states.
// The lists ship embedded in the binary so every deployment agrees on the
// same slugs.
package taxonomy

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed trades.yaml
var tradesYAML []byte

type Trade struct {
	Slug  string `yaml:"slug" json:"slug"`
	Label string `yaml:"label" json:"label"`
}

type catalog struct {
	Trades       []Trade  `yaml:"trades"`
	JobTypes     []string `yaml:"job_types"`
	Availability []string `yaml:"availability"`
}

// Registry answers membership and label questions about the vocabularies.
// Built once at startup, read-only afterwards.
type Registry struct {
	trades       []Trade
	tradeLabels  map[string]string
	jobTypes     map[string]struct{}
	availability map[string]struct{}

	titler cases.Caser
}

func Load() (*Registry, error) {
	var c catalog
	if err := yaml.Unmarshal(tradesYAML, &c); err != nil {
		return nil, fmt.Errorf("taxonomy: parse trades.yaml: %w", err)
	}
	if len(c.Trades) == 0 {
		return nil, fmt.Errorf("taxonomy: trades.yaml contains no trades")
	}

	r := &Registry{
		trades:       c.Trades,
		tradeLabels:  make(map[string]string, len(c.Trades)),
		jobTypes:     make(map[string]struct{}, len(c.JobTypes)),
		availability: make(map[string]struct{}, len(c.Availability)),
		titler:       cases.Title(language.AmericanEnglish),
	}
	for _, t := range c.Trades {
		r.tradeLabels[t.Slug] = t.Label
	}
	for _, jt := range c.JobTypes {
		r.jobTypes[jt] = struct{}{}
	}
	for _, a := range c.Availability {
		r.availability[a] = struct{}{}
	}
	return r, nil
}

// Trades returns the full trade list in catalog order.
func (r *Registry) Trades() []Trade {
	out := make([]Trade, len(r.trades))
	copy(out, r.trades)
	return out
}

func (r *Registry) ValidTrade(slug string) bool {
	_, ok := r.tradeLabels[slug]
	return ok
}

// TradeLabel returns the display label for a slug. Unknown slugs get a
// title-cased fallback so stale data still renders readably.
func (r *Registry) TradeLabel(slug string) string {
	if label, ok := r.tradeLabels[slug]; ok {
		return label
	}
	return r.titler.String(strings.ReplaceAll(slug, "-", " "))
}

func (r *Registry) ValidJobType(jobType string) bool {
	_, ok := r.jobTypes[jobType]
	return ok
}

func (r *Registry) ValidAvailability(availability string) bool {
	_, ok := r.availability[availability]
	return ok
}
