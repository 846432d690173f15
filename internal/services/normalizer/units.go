package normalizer

import (
	"fmt"
	"math/big"
	"strings"
)

// WMO unit codes as used by api.weather.gov.
const (
	UnitCelsius    = "wmoUnit:degC"
	UnitFahrenheit = "wmoUnit:degF"
	UnitKelvin     = "wmoUnit:K"
	UnitPercent    = "wmoUnit:percent"
	UnitKph        = "wmoUnit:km_h-1"
	UnitMps        = "wmoUnit:m_s-1"
	UnitMph        = "wmoUnit:mi_h-1"
	UnitKnots      = "wmoUnit:kn"
	UnitDegrees    = "wmoUnit:degree_(angle)"
)

// Units declares the unit each upstream measurement is expected in.
type Units struct {
	Temperature   string
	Humidity      string
	WindSpeed     string
	WindDirection string
}

// NWSUnits are the units api.weather.gov reports observations in.
func NWSUnits() Units {
	return Units{
		Temperature:   UnitCelsius,
		Humidity:      UnitPercent,
		WindSpeed:     UnitKph,
		WindDirection: UnitDegrees,
	}
}

// Conversions to Celsius and km/h, as exact rationals:
//
//	degF: C = (F - 32) * 5/9
//	K:    C = K - 273.15
//	m/s:  kph = v * 18/5
//	mph:  kph = v * 1.609344
//	kn:   kph = v * 1.852
var (
	fahrenheitOffset = big.NewRat(32, 1)
	fahrenheitScale  = big.NewRat(5, 9)
	kelvinOffset     = big.NewRat(27315, 100)

	speedFactors = map[string]*big.Rat{
		UnitKph:   big.NewRat(1, 1),
		UnitMps:   big.NewRat(18, 5),
		UnitMph:   big.NewRat(1609344, 1000000),
		UnitKnots: big.NewRat(1852, 1000),
	}
)

func canonicalUnit(code string) string {
	code = strings.TrimSpace(code)
	if code != "" && !strings.Contains(code, ":") {
		return "wmoUnit:" + code
	}
	return code
}

func supportedTemperature(unit string) bool {
	switch unit {
	case UnitCelsius, UnitFahrenheit, UnitKelvin:
		return true
	}
	return false
}

func supportedSpeed(unit string) bool {
	_, ok := speedFactors[unit]
	return ok
}

func toCelsius(v *big.Rat, unit string) (*big.Rat, error) {
	out := new(big.Rat)
	switch unit {
	case UnitCelsius:
		return out.Set(v), nil
	case UnitFahrenheit:
		out.Sub(v, fahrenheitOffset)
		return out.Mul(out, fahrenheitScale), nil
	case UnitKelvin:
		return out.Sub(v, kelvinOffset), nil
	}
	return nil, fmt.Errorf("unsupported temperature unit %q", unit)
}

func toKph(v *big.Rat, unit string) (*big.Rat, error) {
	f, ok := speedFactors[unit]
	if !ok {
		return nil, fmt.Errorf("unsupported wind speed unit %q", unit)
	}
	return new(big.Rat).Mul(v, f), nil
}

func toFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}
