package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/souravsatyam/gymapp/internal/metrics"
)

// Coordinates is a lat/long pair.
type Coordinates struct {
	Lat  float64
	Long float64
}

// Geocoder talks to a Nominatim-style geocoding service. It is rate
// limited because public geocoders throttle aggressively.
type Geocoder struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGeocoder(baseURL string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

type reverseResponse struct {
	Address struct {
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		Suburb   string `json:"suburb"`
		State    string `json:"state"`
		Postcode string `json:"postcode"`
	} `json:"address"`
	DisplayName string `json:"display_name"`
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// ReverseGeocode resolves coordinates to a locality string. A response
// with no usable locality yields UnknownLocation rather than an error.
func (g *Geocoder) ReverseGeocode(ctx context.Context, coords Coordinates) (string, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Long, 'f', -1, 64))
	query.Set("format", "json")

	var resp reverseResponse
	if err := g.get(ctx, "/reverse", query, &resp); err != nil {
		metrics.RecordGeocode("reverse", "error")
		return "", err
	}
	metrics.RecordGeocode("reverse", "ok")

	for _, candidate := range []string{
		resp.Address.City,
		resp.Address.Town,
		resp.Address.Village,
		resp.Address.Suburb,
		resp.Address.State,
	} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return UnknownLocation, nil
}

// ForwardGeocode resolves a postal code to coordinates. An empty result
// set is ErrNoResults, not a transport failure.
func (g *Geocoder) ForwardGeocode(ctx context.Context, postalCode string) (Coordinates, error) {
	query := url.Values{}
	query.Set("postalcode", postalCode)
	query.Set("format", "json")
	query.Set("limit", "1")

	var results []searchResult
	if err := g.get(ctx, "/search", query, &results); err != nil {
		metrics.RecordGeocode("forward", "error")
		return Coordinates{}, err
	}

	if len(results) == 0 {
		metrics.RecordGeocode("forward", "empty")
		return Coordinates{}, ErrNoResults
	}
	metrics.RecordGeocode("forward", "ok")

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder returned bad latitude %q: %w", results[0].Lat, err)
	}
	long, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder returned bad longitude %q: %w", results[0].Lon, err)
	}

	return Coordinates{Lat: lat, Long: long}, nil
}

func (g *Geocoder) get(ctx context.Context, path string, query url.Values, target interface{}) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("geocoder rate limiter: %w", err)
	}

	fullURL := g.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create geocoder request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gymapp-client/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	return nil
}
