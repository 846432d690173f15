package models_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", models.NewError(models.KindNotFound, "no match for zip 00000", nil))

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NotErrorIs(t, err, models.ErrInvalidInput)

	kind, ok := models.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, models.KindNotFound, kind)
}

func TestError_IsMatchesField(t *testing.T) {
	err := models.NewFieldError(models.KindValidation, models.FieldHumidity, 101.0, "out of range")

	assert.ErrorIs(t, err, &models.Error{Kind: models.KindValidation, Field: models.FieldHumidity})
	assert.NotErrorIs(t, err, &models.Error{Kind: models.KindValidation, Field: models.FieldTemperature})
}

func TestError_Message(t *testing.T) {
	cause := errors.New("connection refused")
	err := models.NewError(models.KindUpstreamUnavailable, "nominatim request failed", cause)

	assert.Equal(t, "UpstreamUnavailableError: nominatim request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	fieldErr := models.NewFieldError(models.KindValidation, models.FieldHumidity, 101.0, "out of range [0, 100] %")
	assert.Equal(t, "humidity=101: out of range [0, 100] %", fieldErr.Message())
}

func TestKind_Retryable(t *testing.T) {
	assert.True(t, models.KindUpstreamUnavailable.Retryable())
	assert.True(t, models.KindStaleData.Retryable())
	assert.True(t, models.KindPersistence.Retryable())
	assert.False(t, models.KindInvalidInput.Retryable())
	assert.False(t, models.KindValidation.Retryable())
	assert.False(t, models.KindMalformedData.Retryable())
}
