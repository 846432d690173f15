// Package comfort derives apparent temperature and HVAC safety limits from a
// canonical observation, using the NWS heat index and wind chill formulas.
package comfort

import (
	"fmt"
	"math"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

const (
	heatIndexMinF   = 80.0
	heatIndexMinRH  = 40.0
	windChillMaxF   = 50.0
	windChillMinMph = 3.0

	kphPerMph = 1.609344
)

// HeatIndexF is the Rothfusz regression. Below 80 F or 40 % RH it returns tempF.
func HeatIndexF(tempF, rh float64) float64 {
	if tempF < heatIndexMinF || rh < heatIndexMinRH {
		return tempF
	}
	t, r := tempF, rh
	return -42.379 +
		2.04901523*t +
		10.14333127*r -
		0.22475541*t*r -
		6.83783e-3*t*t -
		5.481717e-2*r*r +
		1.22874e-3*t*t*r +
		8.5282e-4*t*r*r -
		1.99e-6*t*t*r*r
}

// WindChillF applies at or below 50 F with wind above 3 mph; otherwise it
// returns tempF.
func WindChillF(tempF, windMph float64) float64 {
	if tempF > windChillMaxF || windMph <= windChillMinMph {
		return tempF
	}
	v := math.Pow(windMph, 0.16)
	return 35.74 + 0.6215*tempF - 35.75*v + 0.4275*tempF*v
}

func CToF(c float64) float64 { return c*9/5 + 32 }
func FToC(f float64) float64 { return (f - 32) * 5 / 9 }

// Limits is the indoor temperature range, in Celsius, the HVAC system should hold.
type Limits struct {
	MinC float64 `json:"min_temperature_c"`
	MaxC float64 `json:"max_temperature_c"`
}

func NewLimits(minC, maxC float64) (Limits, error) {
	if minC > maxC {
		return Limits{}, fmt.Errorf("minimum temperature %.1f C is above maximum %.1f C", minC, maxC)
	}
	return Limits{MinC: minC, MaxC: maxC}, nil
}

func (l Limits) IsSafe(tempC float64) bool {
	return tempC >= l.MinC && tempC <= l.MaxC
}

// Adjusted shifts both bounds down by delta, the amount the air feels warmer
// than it is.
func (l Limits) Adjusted(deltaC float64) Limits {
	return Limits{MinC: round2(l.MinC - deltaC), MaxC: round2(l.MaxC - deltaC)}
}

// Conditions describes how an observation feels and whether it is within limits.
type Conditions struct {
	TemperatureC float64 `json:"temperature_c"`
	HeatIndexC   float64 `json:"heat_index_c"`
	WindChillC   float64 `json:"wind_chill_c"`
	ApparentC    float64 `json:"apparent_c"`
	Limits       Limits  `json:"adjusted_limits"`
	WithinLimits bool    `json:"within_limits"`
}

func Assess(obs models.CanonicalObservation, limits Limits) Conditions {
	tempF := CToF(obs.TemperatureC())
	windMph := obs.WindSpeedKph() / kphPerMph

	hiF := HeatIndexF(tempF, obs.HumidityPct())
	wcF := WindChillF(tempF, windMph)

	apparentF := tempF
	switch {
	case hiF != tempF:
		apparentF = hiF
	case wcF != tempF:
		apparentF = wcF
	}

	apparentC := FToC(apparentF)
	return Conditions{
		TemperatureC: round2(obs.TemperatureC()),
		HeatIndexC:   round2(FToC(hiF)),
		WindChillC:   round2(FToC(wcF)),
		ApparentC:    round2(apparentC),
		Limits:       limits.Adjusted(apparentC - obs.TemperatureC()),
		WithinLimits: limits.IsSafe(apparentC),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
