package normalizer

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

// Normalizer converts raw upstream readings into canonical observations.
// It performs no I/O and is safe for concurrent use.
type Normalizer struct {
	units Units
}

// New returns a Normalizer that expects measurements in units. Readings that
// carry a different unit code are rejected instead of being converted.
func New(units Units) (*Normalizer, error) {
	units.Temperature = canonicalUnit(units.Temperature)
	units.Humidity = canonicalUnit(units.Humidity)
	units.WindSpeed = canonicalUnit(units.WindSpeed)
	units.WindDirection = canonicalUnit(units.WindDirection)

	if !supportedTemperature(units.Temperature) {
		return nil, fmt.Errorf("unsupported temperature unit %q", units.Temperature)
	}
	if !supportedSpeed(units.WindSpeed) {
		return nil, fmt.Errorf("unsupported wind speed unit %q", units.WindSpeed)
	}
	if units.Humidity != UnitPercent {
		return nil, fmt.Errorf("unsupported humidity unit %q", units.Humidity)
	}
	if units.WindDirection != UnitDegrees {
		return nil, fmt.Errorf("unsupported wind direction unit %q", units.WindDirection)
	}
	return &Normalizer{units: units}, nil
}

func (n *Normalizer) Units() Units { return n.units }

func (n *Normalizer) Normalize(raw models.RawObservation) (models.CanonicalObservation, error) {
	stationID, err := readStationID(raw)
	if err != nil {
		return models.CanonicalObservation{}, err
	}
	observedAt, err := readTimestamp(raw)
	if err != nil {
		return models.CanonicalObservation{}, err
	}

	temp, err := n.readRequired(raw, models.FieldTemperature, n.units.Temperature)
	if err != nil {
		return models.CanonicalObservation{}, err
	}
	tempC, err := toCelsius(temp, n.units.Temperature)
	if err != nil {
		return models.CanonicalObservation{}, models.NewFieldError(models.KindMalformedData, models.FieldTemperature, nil, err.Error())
	}

	humidity, err := n.readRequired(raw, models.FieldHumidity, n.units.Humidity)
	if err != nil {
		return models.CanonicalObservation{}, err
	}

	speed, err := n.readRequired(raw, models.FieldWindSpeed, n.units.WindSpeed)
	if err != nil {
		return models.CanonicalObservation{}, err
	}
	speedKph, err := toKph(speed, n.units.WindSpeed)
	if err != nil {
		return models.CanonicalObservation{}, models.NewFieldError(models.KindMalformedData, models.FieldWindSpeed, nil, err.Error())
	}

	direction, err := n.readDirection(raw, speedKph)
	if err != nil {
		return models.CanonicalObservation{}, err
	}

	return models.NewCanonicalObservation(models.ObservationFields{
		StationID:     stationID,
		ObservedAt:    observedAt,
		TemperatureC:  toFloat(tempC),
		HumidityPct:   toFloat(humidity),
		WindSpeedKph:  toFloat(speedKph),
		WindDirection: direction,
	})
}

func readStationID(raw models.RawObservation) (string, error) {
	v, ok := raw[models.FieldStationID]
	if !ok || v == nil {
		return "", missing(models.FieldStationID)
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", models.NewFieldError(models.KindMalformedData, models.FieldStationID, v, "not a station identifier")
	}
	return strings.TrimSpace(s), nil
}

func readTimestamp(raw models.RawObservation) (time.Time, error) {
	v, ok := raw[models.FieldObservedAt]
	if !ok || v == nil {
		return time.Time{}, missing(models.FieldObservedAt)
	}
	switch ts := v.(type) {
	case time.Time:
		if ts.IsZero() {
			return time.Time{}, missing(models.FieldObservedAt)
		}
		return ts.UTC(), nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(ts))
		if err != nil {
			return time.Time{}, models.NewFieldError(models.KindMalformedData, models.FieldObservedAt, ts, "unparsable timestamp")
		}
		return t.UTC(), nil
	default:
		return time.Time{}, models.NewFieldError(models.KindMalformedData, models.FieldObservedAt, v, "unparsable timestamp")
	}
}

// readRequired returns the numeric value of field. A missing key and a null
// value are both reported as missing.
func (n *Normalizer) readRequired(raw models.RawObservation, field, unit string) (*big.Rat, error) {
	v, ok, err := readMeasurement(raw, field, unit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, missing(field)
	}
	return v, nil
}

func (n *Normalizer) readDirection(raw models.RawObservation, speedKph *big.Rat) (models.WindDirection, error) {
	if s, ok := raw[models.FieldWindDirection].(string); ok && strings.EqualFold(strings.TrimSpace(s), "calm") {
		return models.CalmWind(), nil
	}
	if _, ok := raw[models.FieldWindDirection]; !ok {
		return models.WindDirection{}, missing(models.FieldWindDirection)
	}

	v, ok, err := readMeasurement(raw, models.FieldWindDirection, n.units.WindDirection)
	if err != nil {
		return models.WindDirection{}, err
	}
	if !ok {
		// NWS reports a null bearing for calm air.
		if speedKph.Sign() == 0 {
			return models.CalmWind(), nil
		}
		return models.WindDirection{}, models.NewFieldError(models.KindMalformedData, models.FieldWindDirection, nil,
			"no bearing reported for non-zero wind speed")
	}
	return models.NewWindDirection(toFloat(v))
}

// readMeasurement accepts a bare number or an object {"value": n, "unitCode": u}.
func readMeasurement(raw models.RawObservation, field, unit string) (*big.Rat, bool, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil, false, nil
	}

	if m, isMap := v.(map[string]any); isMap {
		if code, hasCode := m["unitCode"]; hasCode && code != nil {
			s, _ := code.(string)
			if canonicalUnit(s) != unit {
				return nil, false, models.NewFieldError(models.KindMalformedData, field, code,
					fmt.Sprintf("unexpected unit, expected %s", unit))
			}
		}
		v = m["value"]
		if v == nil {
			return nil, false, nil
		}
	}

	r, err := toRat(v)
	if err != nil {
		return nil, false, models.NewFieldError(models.KindMalformedData, field, v, "not a number")
	}
	return r, true, nil
}

func toRat(v any) (*big.Rat, error) {
	var s string
	switch n := v.(type) {
	case float64:
		s = strconv.FormatFloat(n, 'g', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(n), 'g', -1, 32)
	case int:
		s = strconv.Itoa(n)
	case int64:
		s = strconv.FormatInt(n, 10)
	case json.Number:
		s = n.String()
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("cannot parse %q", s)
	}
	return r, nil
}

func missing(field string) error {
	return models.NewFieldError(models.KindMalformedData, field, nil, "missing required field")
}
