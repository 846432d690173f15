package stations

import (
	"fmt"
	"math"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

// Mean Earth radius (IUGG).
const earthRadiusKm = 6371.0088

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b models.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Locator picks the closest station to a point. It holds no state beyond its
// settings and is safe for concurrent use.
type Locator struct {
	epsilonKm     float64
	maxDistanceKm float64
}

// NewLocator returns a Locator. Candidates whose distances differ by at most
// epsilonKm are tied and resolved by the smaller station id. A positive
// maxDistanceKm rejects matches farther than that.
func NewLocator(epsilonKm, maxDistanceKm float64) *Locator {
	if epsilonKm < 0 {
		epsilonKm = 0
	}
	return &Locator{epsilonKm: epsilonKm, maxDistanceKm: maxDistanceKm}
}

func (l *Locator) Nearest(point models.Coordinates, candidates []models.StationCandidate) (models.StationMatch, error) {
	if len(candidates) == 0 {
		return models.StationMatch{}, models.NewError(models.KindNoStationsAvailable, "station directory is empty", nil)
	}

	distances := make([]float64, len(candidates))
	minDist := math.Inf(1)
	for i, c := range candidates {
		distances[i] = Haversine(point, c.Coordinates)
		if distances[i] < minDist {
			minDist = distances[i]
		}
	}

	best := -1
	for i, c := range candidates {
		if distances[i]-minDist > l.epsilonKm {
			continue
		}
		if best < 0 || c.StationID < candidates[best].StationID {
			best = i
		}
	}

	match := models.StationMatch{StationID: candidates[best].StationID, DistanceKm: distances[best]}
	if l.maxDistanceKm > 0 && match.DistanceKm > l.maxDistanceKm {
		return models.StationMatch{}, models.NewError(models.KindNoStationsAvailable,
			fmt.Sprintf("nearest station %s is %.1f km away, limit is %.1f km",
				match.StationID, match.DistanceKm, l.maxDistanceKm), nil)
	}
	return match, nil
}
