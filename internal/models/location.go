package models

import "fmt"

type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Valid reports whether both components are inside the WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

type StationCandidate struct {
	StationID   string      `json:"station_id"`
	Name        string      `json:"name,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// StationMatch is the outcome of nearest-station selection.
type StationMatch struct {
	StationID  string  `json:"station_id"`
	DistanceKm float64 `json:"distance_km"`
}
