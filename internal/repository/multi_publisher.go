package repository

import (
	"context"
	"errors"

	"BetForge/internal/domain/models"
	"BetForge/internal/domain/repository"
)

// MultiPublisher fans a wager out to several publishers. Each publisher
// sees every wager even when an earlier one fails.
type MultiPublisher struct {
	targets []repository.Publisher
}

func NewMultiPublisher(targets ...repository.Publisher) *MultiPublisher {
	return &MultiPublisher{targets: targets}
}

func (m *MultiPublisher) Publish(ctx context.Context, w *models.Wager) error {
	var errs []error
	for _, t := range m.targets {
		if err := t.Publish(ctx, w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) Close() error {
	var errs []error
	for _, t := range m.targets {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
