package messaging

import "time"

// ObservationRequestEvent asks the recorder to run the pipeline for a zip code.
type ObservationRequestEvent struct {
	ZipCode string `json:"zip_code"`
}

type Conditions struct {
	HeatIndexC   float64 `json:"heat_index_c"`
	WindChillC   float64 `json:"wind_chill_c"`
	ApparentC    float64 `json:"apparent_c"`
	SafeMinC     float64 `json:"safe_min_c"`
	SafeMaxC     float64 `json:"safe_max_c"`
	WithinLimits bool    `json:"within_limits"`
}

// ObservationRecordedEvent announces a stored observation to HVAC consumers.
type ObservationRecordedEvent struct {
	StationID           string     `json:"station_id"`
	ObservedAt          time.Time  `json:"observed_at"`
	TemperatureCelsius  float64    `json:"temperature_celsius"`
	RelativeHumidityPct float64    `json:"relative_humidity_pct"`
	WindSpeedKph        float64    `json:"wind_speed_kph"`
	WindDirectionDeg    *float64   `json:"wind_direction_deg"`
	WindCalm            bool       `json:"wind_calm"`
	Conditions          Conditions `json:"conditions"`
}

type ObservationFailedEvent struct {
	ZipCode string `json:"zip_code"`
	Kind    string `json:"kind"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}
