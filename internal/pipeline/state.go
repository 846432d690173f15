package pipeline

// State is a point in the linear run lifecycle.
type State string

const (
	StateStart              State = "START"
	StateGeocoded           State = "geocoded"
	StateStationSelected    State = "station_selected"
	StateObservationFetched State = "observation_fetched"
	StateNormalized         State = "normalized"
	StatePersisted          State = "persisted"
	StateDone               State = "DONE"
	StateFailed             State = "FAILED"
)
