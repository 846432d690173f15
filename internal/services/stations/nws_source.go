package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

const maxPages = 50

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type featureCollection struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			StationIdentifier string `json:"stationIdentifier"`
			Name              string `json:"name"`
		} `json:"properties"`
	} `json:"features"`
	Pagination *struct {
		Next string `json:"next"`
	} `json:"pagination"`
}

type pointResponse struct {
	Properties struct {
		ObservationStations string `json:"observationStations"`
	} `json:"properties"`
}

// NWSSource reads observation stations from the National Weather Service API.
type NWSSource struct {
	baseURL string
	client  HTTPClient
	logger  zerolog.Logger
}

func NewNWSSource(baseURL string, client HTTPClient, logger zerolog.Logger) *NWSSource {
	logger = logger.With().Str("component", "NWSStationSource").Logger()
	return &NWSSource{baseURL: strings.TrimRight(baseURL, "/"), client: client, logger: logger}
}

// ListByStates returns every station in the given two-letter states.
func (s *NWSSource) ListByStates(ctx context.Context, states []string) ([]models.StationCandidate, error) {
	u := fmt.Sprintf("%s/stations?state=%s", s.baseURL, url.QueryEscape(strings.Join(states, ",")))
	return s.collect(ctx, u)
}

// ListNear returns the stations NWS associates with the forecast grid
// containing point.
func (s *NWSSource) ListNear(ctx context.Context, point models.Coordinates) ([]models.StationCandidate, error) {
	var pr pointResponse
	status, err := s.getJSON(ctx, fmt.Sprintf("%s/points/%s", s.baseURL, point.String()), &pr)
	if status == http.StatusNotFound {
		return nil, models.NewError(models.KindNoStationsAvailable,
			fmt.Sprintf("no NWS coverage at %s", point), nil)
	}
	if err != nil {
		return nil, err
	}
	if pr.Properties.ObservationStations == "" {
		return nil, models.NewFieldError(models.KindMalformedData, "observationStations", nil, "missing in points response")
	}
	return s.collect(ctx, pr.Properties.ObservationStations)
}

func (s *NWSSource) collect(ctx context.Context, next string) ([]models.StationCandidate, error) {
	var out []models.StationCandidate
	seen := make(map[string]bool)

	for page := 0; next != "" && page < maxPages; page++ {
		if seen[next] {
			break
		}
		seen[next] = true

		var fc featureCollection
		if _, err := s.getJSON(ctx, next, &fc); err != nil {
			return nil, err
		}
		if len(fc.Features) == 0 {
			break
		}
		for _, f := range fc.Features {
			c, err := toCandidate(f.Properties.StationIdentifier, f.Properties.Name, f.Geometry.Coordinates)
			if err != nil {
				s.logger.Warn().Ctx(ctx).Err(err).Msg("skipping station")
				continue
			}
			out = append(out, c)
		}

		next = ""
		if fc.Pagination != nil {
			next = fc.Pagination.Next
		}
	}

	s.logger.Debug().Ctx(ctx).Int("stations", len(out)).Msg("stations loaded")
	return out, nil
}

// toCandidate reads a GeoJSON position, which is ordered [lon, lat].
func toCandidate(id, name string, position []float64) (models.StationCandidate, error) {
	if id == "" {
		return models.StationCandidate{}, models.NewFieldError(models.KindMalformedData, "stationIdentifier", nil, "missing")
	}
	if len(position) < 2 {
		return models.StationCandidate{}, models.NewFieldError(models.KindMalformedData, "coordinates", id, "need [lon, lat]")
	}
	coords := models.Coordinates{Latitude: position[1], Longitude: position[0]}
	if !coords.Valid() {
		return models.StationCandidate{}, models.NewFieldError(models.KindMalformedData, "coordinates", coords.String(), "out of bounds")
	}
	return models.StationCandidate{StationID: id, Name: name, Coordinates: coords}, nil
}

func (s *NWSSource) getJSON(ctx context.Context, u string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, models.NewError(models.KindUpstreamUnavailable, "build NWS request", err)
	}
	req.Header.Set("Accept", "application/geo+json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Str("url", u).Msg("NWS request failed")
		return 0, models.NewError(models.KindUpstreamUnavailable, "NWS request failed", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			s.logger.Error().Ctx(ctx).Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, models.NewError(models.KindUpstreamUnavailable,
			fmt.Sprintf("NWS error: status %d for %s", resp.StatusCode, u), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, models.NewError(models.KindMalformedData, "decode NWS stations response", err)
	}
	return resp.StatusCode, nil
}
