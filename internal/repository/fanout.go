package repository

import (
	"context"
	"errors"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
)

// FanoutSink delivers each cycle to every child sink. Delivery errors are
// joined, not short-circuited, so one dead sink cannot starve the others.
type FanoutSink struct {
	sinks []domrepo.SignalSink
}

func NewFanoutSink(sinks ...domrepo.SignalSink) *FanoutSink {
	return &FanoutSink{sinks: sinks}
}

var _ domrepo.SignalSink = (*FanoutSink)(nil)

func (f *FanoutSink) Publish(ctx context.Context, cycle *models.CycleResult) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Publish(ctx, cycle); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *FanoutSink) Close() error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
