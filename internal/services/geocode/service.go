package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

type client interface {
	Lookup(ctx context.Context, zipCode string) (models.Coordinates, error)
}

type zipRequest struct {
	ZipCode string `json:"zip_code" validate:"required,us_zip"`
}

// Resolver turns a US ZIP code into a coordinate pair. Clients are tried in
// order; only an upstream outage moves on to the next one.
type Resolver struct {
	logger  zerolog.Logger
	clients []client
}

func NewResolver(logger zerolog.Logger, clients ...client) *Resolver {
	logger = logger.With().Str("component", "GeoResolver").Logger()
	return &Resolver{logger: logger, clients: clients}
}

func (r *Resolver) Resolve(ctx context.Context, zipCode string) (models.Coordinates, error) {
	zipCode = strings.TrimSpace(zipCode)
	if err := validate.Struct(zipRequest{ZipCode: zipCode}); err != nil {
		return models.Coordinates{}, invalidZip(zipCode, err)
	}

	var lastErr error = models.NewError(models.KindUpstreamUnavailable, "no geocoder configured", nil)
	for _, c := range r.clients {
		coords, err := c.Lookup(ctx, zipCode)
		if err == nil {
			if err := validate.Struct(coords); err != nil {
				return models.Coordinates{}, models.NewError(models.KindMalformedData,
					"geocoder returned coordinates outside WGS84 bounds", err)
			}
			return coords, nil
		}
		if !errors.Is(err, models.ErrUpstreamUnavailable) {
			return models.Coordinates{}, err
		}
		r.logger.Warn().Ctx(ctx).Err(err).Str("zip_code", zipCode).Msg("geocoder unavailable, trying next")
		lastErr = err
	}
	return models.Coordinates{}, lastErr
}

func invalidZip(zipCode string, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 && ve[0].Tag() == "required" {
		return models.NewFieldError(models.KindInvalidInput, "zip_code", zipCode, "zip code is required")
	}
	return models.NewFieldError(models.KindInvalidInput, "zip_code", zipCode, "must be exactly five digits")
}
