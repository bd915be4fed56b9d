package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"
	"warehub/infras/otel"
	"warehub/infras/postgres"
	"warehub/internal/domains/availability"
	bookingModel "warehub/internal/domains/booking/model"
	bookingRepo "warehub/internal/domains/booking/repository"
	notifEvent "warehub/internal/domains/notification/event"
	notifModel "warehub/internal/domains/notification/model"
	whModel "warehub/internal/domains/warehouse/model"
	whRepo "warehub/internal/domains/warehouse/repository"
	"warehub/shared"
	"warehub/shared/cache"
	"warehub/shared/constant"
	gDto "warehub/shared/dto"
	"warehub/shared/timezone"

	"github.com/hashicorp/go-multierror"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var errNotActive = errors.New("booking is no longer active")

// Report summarises one sweep.
type Report struct {
	Scanned   int `json:"scanned"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Reconciler completes active bookings whose end date has passed and
// restores the availability of their warehouses.
type Reconciler interface {
	Sweep(ctx context.Context) (Report, error)
	SweepAt(ctx context.Context, now time.Time) (Report, error)
	Run(ctx context.Context, interval time.Duration)
}

type reconcilerImpl struct {
	bookingRepo   bookingRepo.Booking
	warehouseRepo whRepo.Warehouse
	tx            postgres.Transactor
	publisher     notifEvent.Publisher
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	warehouseRepo whRepo.Warehouse,
	tx postgres.Transactor,
	publisher notifEvent.Publisher,
	cache cache.RedisCache,
	otel otel.Otel,
) Reconciler {
	return &reconcilerImpl{
		bookingRepo:   bookingRepo,
		warehouseRepo: warehouseRepo,
		tx:            tx,
		publisher:     publisher,
		cache:         cache,
		otel:          otel,
	}
}

func (r *reconcilerImpl) Sweep(ctx context.Context) (Report, error) {
	return r.SweepAt(ctx, timezone.Now())
}

// SweepAt runs one pass with now as the current instant. Each expired booking
// is completed in its own transaction; failures are collected, not fatal.
func (r *reconcilerImpl) SweepAt(ctx context.Context, now time.Time) (report Report, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Sweep")
	defer scope.End()
	defer scope.TraceIfError(err)

	active, err := r.bookingRepo.GetAll(ctx, gDto.QueryParams{}, activeBookings())
	if err != nil {
		log.Error().Err(err).Msg("failed to load active bookings")

		return report, fmt.Errorf("failed to load active bookings: %w", err)
	}

	report.Scanned = len(active)
	today := timezone.DateOnly(timezone.ToAppTime(now))

	var (
		errs   *multierror.Error
		events []notifModel.BookingEvent
	)

	for _, booking := range active {
		if !timezone.CalendarDate(booking.EndDate).Before(today) {
			continue
		}

		ownerID, err := r.complete(ctx, booking)
		switch {
		case errors.Is(err, errNotActive):
			continue
		case err != nil:
			report.Failed++
			errs = multierror.Append(errs, fmt.Errorf("booking %s: %w", booking.ID, err))

			continue
		}

		if err := r.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(bookingModel.CacheDetailPrefix, booking.ID)); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to invalidate booking cache")
		}

		report.Completed++
		events = append(events, notifModel.BookingEvent{
			Type:        notifModel.EventBookingCompleted,
			BookingID:   booking.ID,
			WarehouseID: booking.WarehouseID,
			RenterID:    booking.UserID,
			OwnerID:     ownerID,
			Status:      string(bookingModel.StatusCompleted),
			OccurredAt:  timezone.Now(),
		})
	}

	scope.SetAttributes(map[string]any{
		"sweep.scanned":   report.Scanned,
		"sweep.completed": report.Completed,
		"sweep.failed":    report.Failed,
	})

	if report.Completed > 0 {
		r.publisher.Publish(ctx, events...)

		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, r.cache, bookingModel.CachePrefix)
			shared.InvalidateCaches(c, r.cache, whModel.CachePrefix)
		}()
	}

	if err = errs.ErrorOrNil(); err != nil {
		log.Error().Err(err).Int("failed", report.Failed).Msg("availability sweep finished with failures")

		return report, err
	}

	if report.Completed > 0 {
		log.Info().Int("scanned", report.Scanned).Int("completed", report.Completed).Msg("availability sweep completed bookings")
	}

	return report, nil
}

// complete moves one booking to completed and recomputes its warehouse. It
// returns the warehouse owner for the lifecycle event.
func (r *reconcilerImpl) complete(ctx context.Context, booking bookingModel.Booking) (ownerID string, err error) {
	err = r.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		warehouse, err := r.warehouseRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(booking.WarehouseID, whModel.FieldID, whModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to lock warehouse: %w", err)
		}

		if warehouse.ID == "" {
			return fmt.Errorf("warehouse %s not found", booking.WarehouseID)
		}

		current, err := r.bookingRepo.GetTx(ctx, tx, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName), bookingModel.FieldID, bookingModel.FieldStatus)
		if err != nil {
			return fmt.Errorf("failed to reload booking: %w", err)
		}

		if current.Status != bookingModel.StatusActive {
			return errNotActive
		}

		now := timezone.Now()

		fields := map[string]any{
			bookingModel.FieldStatus: bookingModel.StatusCompleted,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: constant.ContextSystem,
		}

		if err = r.bookingRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
			return fmt.Errorf("failed to complete booking: %w", err)
		}

		statuses, err := r.bookingRepo.StatusesByWarehouseTx(ctx, tx, warehouse.ID)
		if err != nil {
			return fmt.Errorf("failed to load warehouse bookings: %w", err)
		}

		next := availability.Compute(warehouse.Availability, statuses)
		if next == warehouse.Availability {
			ownerID = warehouse.OwnerID

			return nil
		}

		fields = map[string]any{
			whModel.FieldAvailability: next,
			constant.FieldModifiedAt:  now,
			constant.FieldModifiedBy:  constant.ContextSystem,
		}

		if err = r.warehouseRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(warehouse.ID, whModel.FieldID, whModel.TableName)); err != nil {
			return fmt.Errorf("failed to update warehouse availability: %w", err)
		}

		ownerID = warehouse.OwnerID

		return nil
	})

	return ownerID, err
}

// Run sweeps every interval until ctx is done.
func (r *reconcilerImpl) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("availability reconciler started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("availability reconciler stopped")

			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("scheduled availability sweep failed")
			}
		}
	}
}

func activeBookings() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingModel.StatusActive,
				Table:    bookingModel.TableName,
			},
		},
	}
}
