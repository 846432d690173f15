package pipeline

import (
	"context"
	"errors"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

// StageError records which stage a run failed in.
type StageError struct {
	Stage models.Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

// Kinds assigned to errors that reach the orchestrator unclassified.
var stageKinds = map[models.Stage]models.Kind{
	models.StageRequest:       models.KindInvalidInput,
	models.StageGeocode:       models.KindUpstreamUnavailable,
	models.StageStationSelect: models.KindUpstreamUnavailable,
	models.StageFetch:         models.KindUpstreamUnavailable,
	models.StageNormalize:     models.KindMalformedData,
	models.StagePersist:       models.KindPersistence,
}

func classify(stage models.Stage, err error) *StageError {
	if _, ok := models.KindOf(err); ok {
		return &StageError{Stage: stage, Err: err}
	}

	kind := stageKinds[stage]
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		if stage != models.StagePersist {
			kind = models.KindUpstreamUnavailable
		}
	}
	return &StageError{Stage: stage, Err: models.NewError(kind, "", err)}
}

// ToResult converts a run error into the caller-facing result error.
func ToResult(err error) *models.ResultError {
	if err == nil {
		return nil
	}
	stage := models.StageRequest
	var se *StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}

	var me *models.Error
	if !errors.As(err, &me) {
		me = models.NewError(stageKinds[stage], "", err)
	}
	return &models.ResultError{Kind: me.Kind, Message: me.Message(), Stage: stage}
}
