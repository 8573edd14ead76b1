package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// Geocoder turns free-text addresses and country names into coordinates.
type Geocoder interface {
	GeocodeByAddress(ctx context.Context, address string) (*Response, error)
	GeocodeByCountry(ctx context.Context, country string) (*Response, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*Response, error)
}

type Response struct {
	Results      []Result `json:"results"`
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

type Result struct {
	FormattedAddress string   `json:"formatted_address"`
	Types            []string `json:"types"`
	PartialMatch     bool     `json:"partial_match"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// Location returns the coordinates of the best match.
func (r *Response) Location() (lat, lng float64, ok bool) {
	if r == nil || len(r.Results) == 0 {
		return 0, 0, false
	}
	loc := r.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, true
}

// IsCountry reports whether the best match is a whole country.
func (r *Response) IsCountry() bool {
	return r.hasType("country")
}

// IsAdminLevel1 reports whether the best match is a first-order
// administrative area.
func (r *Response) IsAdminLevel1() bool {
	return r.hasType("administrative_area_level_1")
}

func (r *Response) hasType(t string) bool {
	if r == nil || len(r.Results) == 0 {
		return false
	}
	for _, rt := range r.Results[0].Types {
		if rt == t {
			return true
		}
	}
	return false
}

// Warning describes a low-confidence match, or is empty.
func (r *Response) Warning() string {
	if r == nil || len(r.Results) == 0 {
		return ""
	}
	if r.Results[0].PartialMatch {
		return fmt.Sprintf("Address was only partially matched to %q", r.Results[0].FormattedAddress)
	}
	return ""
}

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"
	requestTimeout = 5 * time.Second
	maxRetries     = 3
)

type httpGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

func NewHTTPGeocoder(apiKey string, baseLog *logger.Logger) Geocoder {
	return &httpGeocoder{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		log:     baseLog.With("service", "Geocoder"),
	}
}

func (g *httpGeocoder) GeocodeByAddress(ctx context.Context, address string) (*Response, error) {
	params := url.Values{}
	params.Set("address", address)
	return g.fetch(ctx, params)
}

func (g *httpGeocoder) GeocodeByCountry(ctx context.Context, country string) (*Response, error) {
	params := url.Values{}
	params.Set("components", "country:"+country)
	return g.fetch(ctx, params)
}

func (g *httpGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*Response, error) {
	params := url.Values{}
	params.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
	return g.fetch(ctx, params)
}

func (g *httpGeocoder) fetch(ctx context.Context, params url.Values) (*Response, error) {
	params.Set("key", g.apiKey)
	endpoint := g.baseURL + "?" + params.Encode()

	var response *Response
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("geocoder returned status %d: %s", resp.StatusCode, body))
		}

		var decoded Response
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode geocoder response: %w", err))
		}
		if decoded.Status != "OK" && decoded.Status != "ZERO_RESULTS" {
			return backoff.Permanent(fmt.Errorf("geocoder status %s: %s", decoded.Status, decoded.ErrorMessage))
		}
		response = &decoded
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return response, nil
}
