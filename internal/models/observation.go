package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// RawObservation is the upstream payload keyed by canonical field names.
// Values are left exactly as the upstream produced them.
type RawObservation map[string]any

const (
	FieldStationID     = "station_id"
	FieldObservedAt    = "observed_at"
	FieldTemperature   = "temperature"
	FieldHumidity      = "humidity"
	FieldWindSpeed     = "wind_speed"
	FieldWindDirection = "wind_direction"
)

const (
	MinTemperatureC = -60.0
	MaxTemperatureC = 60.0
	MinHumidityPct  = 0.0
	MaxHumidityPct  = 100.0
	FullCircleDeg   = 360.0

	calmSentinel = "calm"
)

// WindDirection is either a bearing in [0, 360) or the calm sentinel.
// A calm reading and a 0 degree reading are different values.
type WindDirection struct {
	degrees float64
	calm    bool
}

func CalmWind() WindDirection {
	return WindDirection{calm: true}
}

func NewWindDirection(deg float64) (WindDirection, error) {
	if math.IsNaN(deg) || deg < 0 || deg >= FullCircleDeg {
		return WindDirection{}, NewFieldError(KindValidation, FieldWindDirection, deg, "out of range [0, 360)")
	}
	return WindDirection{degrees: deg}, nil
}

func (w WindDirection) IsCalm() bool { return w.calm }

// Degrees returns the bearing and false when the wind is calm.
func (w WindDirection) Degrees() (float64, bool) {
	if w.calm {
		return 0, false
	}
	return w.degrees, true
}

func (w WindDirection) String() string {
	if w.calm {
		return calmSentinel
	}
	b, _ := json.Marshal(w.degrees)
	return string(b)
}

func (w WindDirection) MarshalJSON() ([]byte, error) {
	if w.calm {
		return json.Marshal(calmSentinel)
	}
	return json.Marshal(w.degrees)
}

func (w *WindDirection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if !strings.EqualFold(s, calmSentinel) {
			return NewFieldError(KindMalformedData, FieldWindDirection, s, "unknown sentinel")
		}
		*w = CalmWind()
		return nil
	}
	var deg float64
	if err := json.Unmarshal(data, &deg); err != nil {
		return err
	}
	parsed, err := NewWindDirection(deg)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ObservationFields carries the values used to build a CanonicalObservation.
type ObservationFields struct {
	StationID     string
	ObservedAt    time.Time
	TemperatureC  float64
	HumidityPct   float64
	WindSpeedKph  float64
	WindDirection WindDirection
}

// CanonicalObservation is a validated, unit-normalized reading. The only way
// to obtain one is NewCanonicalObservation, so every instance is in range.
type CanonicalObservation struct {
	f ObservationFields
}

func NewCanonicalObservation(f ObservationFields) (CanonicalObservation, error) {
	if strings.TrimSpace(f.StationID) == "" {
		return CanonicalObservation{}, NewFieldError(KindMalformedData, FieldStationID, nil, "missing")
	}
	if f.ObservedAt.IsZero() {
		return CanonicalObservation{}, NewFieldError(KindMalformedData, FieldObservedAt, nil, "missing")
	}
	if !inRange(f.TemperatureC, MinTemperatureC, MaxTemperatureC) {
		return CanonicalObservation{}, NewFieldError(KindValidation, FieldTemperature, f.TemperatureC,
			"out of range [-60, 60] C")
	}
	if !inRange(f.HumidityPct, MinHumidityPct, MaxHumidityPct) {
		return CanonicalObservation{}, NewFieldError(KindValidation, FieldHumidity, f.HumidityPct,
			"out of range [0, 100] %")
	}
	if math.IsNaN(f.WindSpeedKph) || math.IsInf(f.WindSpeedKph, 0) || f.WindSpeedKph < 0 {
		return CanonicalObservation{}, NewFieldError(KindValidation, FieldWindSpeed, f.WindSpeedKph,
			"must be >= 0 kph")
	}
	if deg, ok := f.WindDirection.Degrees(); ok {
		if _, err := NewWindDirection(deg); err != nil {
			return CanonicalObservation{}, err
		}
	}

	f.ObservedAt = f.ObservedAt.UTC()
	return CanonicalObservation{f: f}, nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

func (o CanonicalObservation) StationID() string { return o.f.StationID }
func (o CanonicalObservation) ObservedAt() time.Time { return o.f.ObservedAt }
func (o CanonicalObservation) TemperatureC() float64 { return o.f.TemperatureC }
func (o CanonicalObservation) HumidityPct() float64 { return o.f.HumidityPct }
func (o CanonicalObservation) WindSpeedKph() float64 { return o.f.WindSpeedKph }
func (o CanonicalObservation) WindDirection() WindDirection { return o.f.WindDirection }
func (o CanonicalObservation) Fields() ObservationFields { return o.f }

type canonicalJSON struct {
	StationID           string        `json:"station_id"`
	ObservedAt          time.Time     `json:"observed_at"`
	TemperatureCelsius  float64       `json:"temperature_celsius"`
	RelativeHumidityPct float64       `json:"relative_humidity_pct"`
	WindSpeedKph        float64       `json:"wind_speed_kph"`
	WindDirectionDeg    WindDirection `json:"wind_direction_deg"`
}

func (o CanonicalObservation) MarshalJSON() ([]byte, error) {
	return json.Marshal(canonicalJSON{
		StationID:           o.f.StationID,
		ObservedAt:          o.f.ObservedAt,
		TemperatureCelsius:  o.f.TemperatureC,
		RelativeHumidityPct: o.f.HumidityPct,
		WindSpeedKph:        o.f.WindSpeedKph,
		WindDirectionDeg:    o.f.WindDirection,
	})
}

// UnmarshalJSON decodes and re-validates the record.
func (o *CanonicalObservation) UnmarshalJSON(data []byte) error {
	var raw canonicalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	obs, err := NewCanonicalObservation(ObservationFields{
		StationID:     raw.StationID,
		ObservedAt:    raw.ObservedAt,
		TemperatureC:  raw.TemperatureCelsius,
		HumidityPct:   raw.RelativeHumidityPct,
		WindSpeedKph:  raw.WindSpeedKph,
		WindDirection: raw.WindDirectionDeg,
	})
	if err != nil {
		return err
	}
	*o = obs
	return nil
}
