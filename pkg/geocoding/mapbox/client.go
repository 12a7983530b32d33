// Package mapbox resolves free-text locations with the Mapbox geocoding API.
package mapbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
)

const (
	DefaultTimeout = 10 * time.Second

	forwardGeocodePath = "/geocoding/v5/mapbox.places/{query}.json"
)

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	PlaceName string          `json:"place_name"`
	Geometry  models.Geometry `json:"geometry"`
}

// Client implements interfaces.Geocoder.
type Client struct {
	http        *resty.Client
	accessToken string
	logger      interfaces.Logger
}

// NewClient creates a geocoder for the API at cfg.BaseURL.
func NewClient(cfg *config.GeocodingConfig, logger interfaces.Logger) (interfaces.Geocoder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("geocoder: config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("geocoder: logger cannot be nil")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:        httpClient,
		accessToken: cfg.AccessToken,
		logger:      logger,
	}, nil
}

// ForwardGeocode returns the point of the best match for query, or
// models.ErrLocationNotFound when there is none.
func (c *Client) ForwardGeocode(ctx context.Context, query string) (*models.Geometry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty location: %w", models.ErrLocationNotFound)
	}

	var result featureCollection
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("query", query).
		SetQueryParams(map[string]string{
			"access_token": c.accessToken,
			"limit":        "1",
		}).
		SetResult(&result).
		Get(forwardGeocodePath)
	if err != nil {
		return nil, fmt.Errorf("geocoder: request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("geocoder: unexpected status %d", resp.StatusCode())
	}

	if len(result.Features) == 0 {
		c.logger.Debug("No geocoding match", "query", query)
		return nil, fmt.Errorf("location %q: %w", query, models.ErrLocationNotFound)
	}

	geometry := result.Features[0].Geometry
	if len(geometry.Coordinates) < 2 {
		return nil, fmt.Errorf("geocoder: malformed coordinates for %q", query)
	}
	if geometry.Type == "" {
		geometry.Type = models.GeometryTypePoint
	}
	c.logger.Debug("Geocoded location", "query", query, "place", result.Features[0].PlaceName)
	return &geometry, nil
}
