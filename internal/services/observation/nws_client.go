package observation

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

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NWS property name -> raw observation key.
var nwsFields = map[string]string{
	"timestamp":        models.FieldObservedAt,
	"temperature":      models.FieldTemperature,
	"relativeHumidity": models.FieldHumidity,
	"windSpeed":        models.FieldWindSpeed,
	"windDirection":    models.FieldWindDirection,
}

type latestResponse struct {
	Properties map[string]any `json:"properties"`
}

// NWSClient reads the latest observation of a station from api.weather.gov.
type NWSClient struct {
	baseURL string
	client  HTTPClient
	logger  zerolog.Logger
}

func NewNWSClient(baseURL string, client HTTPClient, logger zerolog.Logger) *NWSClient {
	logger = logger.With().Str("component", "NWSObservationClient").Logger()
	return &NWSClient{baseURL: strings.TrimRight(baseURL, "/"), client: client, logger: logger}
}

// Latest maps the NWS properties onto raw observation keys. Values are copied
// as-is; a property NWS omitted stays absent.
func (c *NWSClient) Latest(ctx context.Context, stationID string) (models.RawObservation, error) {
	u := fmt.Sprintf("%s/stations/%s/observations/latest", c.baseURL, url.PathEscape(stationID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, models.NewError(models.KindUpstreamUnavailable, "build NWS request", err)
	}
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Str("station_id", stationID).Msg("NWS request failed")
		return nil, models.NewError(models.KindUpstreamUnavailable, "NWS request failed", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error().Ctx(ctx).Err(err).Msg("failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewError(models.KindUpstreamUnavailable,
			fmt.Sprintf("NWS error: status %d for station %s", resp.StatusCode, stationID), nil)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, models.NewError(models.KindMalformedData, "decode NWS observation", err)
	}
	if body.Properties == nil {
		return nil, models.NewFieldError(models.KindMalformedData, "properties", nil, "missing in NWS observation")
	}

	raw := models.RawObservation{models.FieldStationID: stationID}
	for from, to := range nwsFields {
		if v, ok := body.Properties[from]; ok {
			raw[to] = v
		}
	}
	return raw, nil
}
