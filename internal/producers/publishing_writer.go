package producers

import (
	"context"

	"github.com/Nazarious-ucu/hvac-weather-recorder/internal/models"
)

type writer interface {
	Write(ctx context.Context, obs models.CanonicalObservation) (models.WriteResult, error)
}

type recordedPublisher interface {
	ObservationRecorded(ctx context.Context, obs models.CanonicalObservation) error
}

// PublishingWriter announces every stored observation. A failed announcement
// fails the write; rewriting the same observation is harmless.
type PublishingWriter struct {
	next      writer
	publisher recordedPublisher
}

func NewPublishingWriter(next writer, publisher recordedPublisher) *PublishingWriter {
	return &PublishingWriter{next: next, publisher: publisher}
}

func (w *PublishingWriter) Write(ctx context.Context, obs models.CanonicalObservation) (models.WriteResult, error) {
	res, err := w.next.Write(ctx, obs)
	if err != nil {
		return res, err
	}
	if err := w.publisher.ObservationRecorded(ctx, obs); err != nil {
		return models.WriteResult{}, models.NewError(models.KindPersistence, "publish observation.recorded", err)
	}
	return res, nil
}
