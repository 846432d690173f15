package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

const (
	coordPrecision = 1e4
	// Matches further apart than this are different places, not duplicates.
	ambiguityDeg = 0.1
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimClient looks up US postal codes on an OpenStreetMap Nominatim instance.
type NominatimClient struct {
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewNominatimClient(apiURL string, httpClient HTTPClient, logger zerolog.Logger) *NominatimClient {
	logger = logger.With().Str("component", "NominatimClient").Logger()
	return &NominatimClient{apiURL: apiURL, client: httpClient, logger: logger}
}

func (c *NominatimClient) Lookup(ctx context.Context, zipCode string) (models.Coordinates, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return models.Coordinates{}, models.NewError(models.KindUpstreamUnavailable, "invalid geocoder url", err)
	}
	q := u.Query()
	q.Set("country", "US")
	q.Set("postalcode", zipCode)
	q.Set("format", "jsonv2")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Coordinates{}, models.NewError(models.KindUpstreamUnavailable, "build geocoder request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Str("zip_code", zipCode).Msg("geocoder request failed")
		return models.Coordinates{}, models.NewError(models.KindUpstreamUnavailable, "geocoder request failed", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error().Ctx(ctx).Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, models.NewError(models.KindUpstreamUnavailable,
			fmt.Sprintf("nominatim error: status %s", resp.Status), nil)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return models.Coordinates{}, models.NewError(models.KindMalformedData, "decode nominatim response", err)
	}
	if len(places) == 0 {
		return models.Coordinates{}, models.NewError(models.KindNotFound,
			fmt.Sprintf("no location found for zip code %s", zipCode), nil)
	}

	first, err := parsePlace(places[0])
	if err != nil {
		return models.Coordinates{}, err
	}
	for _, p := range places[1:] {
		other, err := parsePlace(p)
		if err != nil {
			return models.Coordinates{}, err
		}
		if math.Abs(other.Latitude-first.Latitude) > ambiguityDeg ||
			math.Abs(other.Longitude-first.Longitude) > ambiguityDeg {
			return models.Coordinates{}, models.NewError(models.KindNotFound,
				fmt.Sprintf("zip code %s matches %d distinct locations", zipCode, len(places)), nil)
		}
	}

	c.logger.Debug().Ctx(ctx).
		Str("zip_code", zipCode).
		Str("place", places[0].DisplayName).
		Stringer("coordinates", first).
		Msg("zip code resolved")
	return first, nil
}

func parsePlace(p nominatimPlace) (models.Coordinates, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return models.Coordinates{}, models.NewFieldError(models.KindMalformedData, "lat", p.Lat, "not a number")
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return models.Coordinates{}, models.NewFieldError(models.KindMalformedData, "lon", p.Lon, "not a number")
	}
	return models.Coordinates{Latitude: round4(lat), Longitude: round4(lon)}, nil
}

func round4(v float64) float64 {
	return math.Round(v*coordPrecision) / coordPrecision
}
