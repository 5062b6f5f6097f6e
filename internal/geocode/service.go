package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tradecareers_backend/platform/config"
	"tradecareers_backend/platform/logger"
	"tradecareers_backend/platform/sanitize"
)

const openCageURL = "https://api.opencagedata.com/geocode/v1/json"

// Service proxies forward-geocoding requests to OpenCage. The radius search
// never touches this; it runs off the embedded city table.
type Service struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *logger.Logger
}

func NewService(cfg config.GeocoderConfig, log *logger.Logger) *Service {
	return &Service{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: openCageURL,
		apiKey:  cfg.GetOpenCageAPIKey(),
		log:     log,
	}
}

// Forward resolves a free-text location to a coordinate. The second return
// value is false when the upstream has no match.
func (s *Service) Forward(ctx context.Context, location string) (Coordinate, bool, error) {
	query := sanitize.SearchTerm(location, 200)
	if query == "" {
		return Coordinate{}, false, nil
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("key", s.apiKey)
	params.Add("limit", "1")
	params.Add("countrycode", "us")
	params.Add("no_annotations", "1")

	reqURL := fmt.Sprintf("%s?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Coordinate{}, false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("opencage request failed", "error", err)
		return Coordinate{}, false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("opencage upstream error", "status", resp.StatusCode)
		return Coordinate{}, false, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var payload openCageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		s.log.Error("failed to decode opencage payload", "error", err)
		return Coordinate{}, false, err
	}

	if len(payload.Results) == 0 {
		return Coordinate{}, false, nil
	}

	geometry := payload.Results[0].Geometry
	return Coordinate{Lat: geometry.Lat, Lng: geometry.Lng}, true, nil
}
