package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradecareers_backend/platform/logger"
)

type staticGeocoderConfig struct{ key string }

func (c staticGeocoderConfig) GetOpenCageAPIKey() string { return c.key }
func (c staticGeocoderConfig) IsGeocoderEnabled() bool   { return c.key != "" }

func newTestService(t *testing.T, upstream http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	svc := NewService(staticGeocoderConfig{key: "test-key"}, logger.New("test"))
	svc.baseURL = server.URL
	return svc
}

func TestForwardResolvesLocation(t *testing.T) {
	var gotQuery, gotKey, gotCountry string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		gotCountry = r.URL.Query().Get("countrycode")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"geometry":{"lat":30.2672,"lng":-97.7431},"confidence":9}],"status":{"code":200,"message":"OK"}}`))
	})

	coord, found, err := svc.Forward(context.Background(), "Austin, TX")
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if !found {
		t.Fatal("expected a match")
	}
	if coord.Lat != 30.2672 || coord.Lng != -97.7431 {
		t.Fatalf("coord = %+v", coord)
	}
	if gotQuery != "Austin TX" {
		t.Fatalf("q = %q", gotQuery)
	}
	if gotKey != "test-key" {
		t.Fatalf("key = %q", gotKey)
	}
	if gotCountry != "us" {
		t.Fatalf("countrycode = %q", gotCountry)
	}
}

func TestForwardNoMatch(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[],"status":{"code":200,"message":"OK"}}`))
	})

	_, found, err := svc.Forward(context.Background(), "Xyzzyville")
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if found {
		t.Fatal("expected no match")
	}
}

func TestForwardUpstreamError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})

	_, _, err := svc.Forward(context.Background(), "Austin, TX")
	if err == nil {
		t.Fatal("expected an error for a non-200 upstream")
	}
}

func TestForwardSkipsBlankInput(t *testing.T) {
	called := false
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, found, err := svc.Forward(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if found {
		t.Fatal("blank input should not resolve")
	}
	if called {
		t.Fatal("blank input should not reach the upstream")
	}
}
