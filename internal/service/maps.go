package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/EpicMandM/travel-planner/internal/models"
)

const (
	// DefaultMapsBaseURL is the Distance Matrix JSON endpoint.
	DefaultMapsBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	defaultHTTPTimeout = 30 * time.Second
)

// RouteUnavailableError reports a Distance Matrix status other than OK,
// either for the whole request or for the single origin/destination element.
type RouteUnavailableError struct {
	Mode    models.TravelMode
	Status  string
	Message string
}

func (e *RouteUnavailableError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("route unavailable for %s: %s (%s)", e.Mode, e.Status, e.Message)
	}
	return fmt.Sprintf("route unavailable for %s: %s", e.Mode, e.Status)
}

// MapsOptions configures MapsService.
type MapsOptions struct {
	BaseURL    string
	Units      string
	HTTPClient *http.Client
}

// MapsService queries the Google Maps Distance Matrix API. One instance is
// built by the composition root and shared.
type MapsService struct {
	baseURL string
	apiKey  string
	units   string
	client  *http.Client
}

// NewMapsService creates a Distance Matrix client.
func NewMapsService(apiKey string, opts MapsOptions) (*MapsService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("maps API key is not configured")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultMapsBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Transport: NewRetryTransport(nil),
			Timeout:   defaultHTTPTimeout,
		}
	}
	return &MapsService{
		baseURL: opts.BaseURL,
		apiKey:  apiKey,
		units:   opts.Units,
		client:  opts.HTTPClient,
	}, nil
}

type textValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type matrixElement struct {
	Status   string     `json:"status"`
	Distance *textValue `json:"distance"`
	Duration *textValue `json:"duration"`
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []matrixElement `json:"elements"`
	} `json:"rows"`
}

// Query returns the human-readable distance and duration between origin
// and destination for mode.
func (s *MapsService) Query(ctx context.Context, origin, destination string, mode models.TravelMode) (models.Route, error) {
	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("mode", string(mode))
	params.Set("key", s.apiKey)
	if s.units != "" {
		params.Set("units", s.units)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.Route{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Route{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return models.Route{}, fmt.Errorf("distance matrix API returned status %d", resp.StatusCode)
	}

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Route{}, fmt.Errorf("failed to decode distance matrix response: %w", err)
	}

	if body.Status != "OK" {
		return models.Route{}, &RouteUnavailableError{Mode: mode, Status: body.Status, Message: body.ErrorMessage}
	}
	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return models.Route{}, &RouteUnavailableError{Mode: mode, Status: "EMPTY_RESPONSE"}
	}

	el := body.Rows[0].Elements[0]
	if el.Status != "OK" {
		return models.Route{}, &RouteUnavailableError{Mode: mode, Status: el.Status}
	}

	var route models.Route
	if el.Distance != nil {
		route.DistanceText = el.Distance.Text
	}
	if el.Duration != nil {
		route.DurationText = el.Duration.Text
	}
	return route, nil
}
