package service

import (
	"math"
	"strconv"
	"strings"

	"tradecareers_backend/internal/jobs/transport"
	"tradecareers_backend/platform/sanitize"
)

const (
	defaultPage  = 1
	maxPage      = 10000
	defaultLimit = 20
	maxLimit     = 50
	maxPay       = 1000000
)

// Criteria is the parsed, clamped form of a search request. All malformed
// or out-of-range input degrades to a usable default; the search endpoint
// never rejects a query over its parameters.
type Criteria struct {
	Query        string
	Location     string
	Radius       *float64
	Trade        string
	JobType      string
	PayMin       *int
	PayMax       *int
	FeaturedOnly bool
	Sort         string
	Page         int
	Limit        int
}

func parseCriteria(req transport.ListJobsRequest) Criteria {
	return Criteria{
		Query:        sanitize.SearchTerm(req.Query, sanitize.DefaultSearchTermLength),
		Location:     sanitize.SearchTerm(req.Location, sanitize.DefaultSearchTermLength),
		Radius:       parseRadius(req.Radius),
		Trade:        strings.TrimSpace(req.Trade),
		JobType:      strings.TrimSpace(req.JobType),
		PayMin:       parsePay(req.PayMin),
		PayMax:       parsePay(req.PayMax),
		FeaturedOnly: req.Featured == "true" || req.Featured == "1",
		Sort:         parseJobSort(req.Sort),
		Page:         parseClampedInt(req.Page, defaultPage, 1, maxPage),
		Limit:        parseClampedInt(req.Limit, defaultLimit, 1, maxLimit),
	}
}

// HasRadius reports whether the radius search path applies: a resolvable
// location string plus a finite positive radius.
func (c Criteria) HasRadius() bool {
	return c.Location != "" && c.Radius != nil
}

func (c Criteria) Offset() int {
	return (c.Page - 1) * c.Limit
}

func parseClampedInt(raw string, def, min, max int) int {
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

func parsePay(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	if n < 0 {
		n = 0
	}
	if n > maxPay {
		n = maxPay
	}
	return &n
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

func parseJobSort(raw string) string {
	switch raw {
	case "highest-pay":
		return "highest-pay"
	default:
		return "newest"
	}
}
