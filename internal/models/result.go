package models

import "time"

// Stage names the pipeline step a failure came from.
type Stage string

const (
	StageRequest       Stage = "request"
	StageGeocode       Stage = "geocode"
	StageStationSelect Stage = "station_select"
	StageFetch         Stage = "fetch"
	StageNormalize     Stage = "normalize"
	StagePersist       Stage = "persist"
)

type WriteResult struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

const WriteReasonOverwritten = "overwritten"

type ResultError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Stage   Stage  `json:"stage"`
}

// PipelineResult is what every invocation boundary returns to its caller.
type PipelineResult struct {
	Success    bool         `json:"success"`
	StationID  string       `json:"station_id,omitempty"`
	ObservedAt *time.Time   `json:"observed_at,omitempty"`
	Error      *ResultError `json:"error,omitempty"`
}

// RecordRequest is the payload accepted by the HTTP and queue boundaries.
type RecordRequest struct {
	ZipCode string `json:"zip_code"`
}
