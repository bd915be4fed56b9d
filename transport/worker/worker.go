package worker

import (
	"context"
	"fmt"
	"time"
	"warehub/config"
	"warehub/infras/kafka"
	"warehub/internal/domains/availability/service"
	"warehub/internal/domains/notification/event"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Runner is a long running background job that stops when ctx is done.
type Runner interface {
	Run(ctx context.Context) error
}

// Worker runs the notification consumer and the periodic availability sweep.
type Worker struct {
	config     *config.Config
	consumer   Runner
	reconciler service.Reconciler
	client     kafka.Client
}

func New(cfg *config.Config, consumer *event.Consumer, reconciler service.Reconciler, client kafka.Client) *Worker {
	return &Worker{
		config:     cfg,
		consumer:   consumer,
		reconciler: reconciler,
		client:     client,
	}
}

// Run blocks until ctx is done or one of the jobs fails.
func (w *Worker) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := w.consumer.Run(ctx); err != nil {
			return fmt.Errorf("notification consumer: %w", err)
		}

		return nil
	})

	if seconds := w.config.Booking.Reconciler.IntervalSeconds; seconds > 0 {
		group.Go(func() error {
			w.reconciler.Run(ctx, time.Duration(seconds)*time.Second)

			return nil
		})
	} else {
		log.Info().Msg("periodic availability sweep disabled")
	}

	err := group.Wait()

	if closeErr := w.client.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close kafka client")
	}

	return err //nolint:wrapcheck
}
