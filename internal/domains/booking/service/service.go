package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"warehub/config"
	"warehub/infras/otel"
	"warehub/infras/postgres"
	"warehub/internal/domains/availability"
	"warehub/internal/domains/booking/model"
	"warehub/internal/domains/booking/model/dto"
	"warehub/internal/domains/booking/repository"
	notifEvent "warehub/internal/domains/notification/event"
	notifModel "warehub/internal/domains/notification/model"
	whModel "warehub/internal/domains/warehouse/model"
	whRepo "warehub/internal/domains/warehouse/repository"
	"warehub/shared"
	"warehub/shared/cache"
	"warehub/shared/constant"
	gDto "warehub/shared/dto"
	"warehub/shared/failure"
	"warehub/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheGetBooking    = model.CacheDetailPrefix
	cacheUserBookings  = model.CachePrefix + ":user"
	cacheOwnerBookings = model.CachePrefix + ":owner"

	sortDefault = model.TableName + "." + model.FieldCreatedAt
)

var (
	errInvalidPeriod       = failure.BadRequestFromString("start date must be before end date")
	errPriceMismatch       = failure.BadRequestFromString("total price mismatch")
	errNotAvailable        = failure.BadRequestFromString("warehouse is not available")
	errOwnWarehouse        = failure.BadRequestFromString("owners cannot book their own warehouse")
	errNotPending          = failure.BadRequestFromString("only pending bookings can be confirmed")
	errAlreadyTerminal     = failure.BadRequestFromString("booking is already completed or cancelled")
	errBookingNotFound     = failure.NotFound("booking not found")
	errWarehouseNotFound   = failure.NotFound("warehouse not found")
	errNotWarehouseOwner   = failure.Forbidden("only the warehouse owner can confirm this booking")
	errNotBookingRenter    = failure.Forbidden("only the renter can cancel this booking")
	errBookingAccessDenied = failure.Forbidden("you don't have access to this booking")
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Confirm(ctx context.Context, id string) (dto.BookingDetailResponse, error)
	Cancel(ctx context.Context, id string) error
	GetDetails(ctx context.Context, id string) (dto.BookingDetailResponse, error)
	GetUserBookings(ctx context.Context, req dto.GetBookingsRequest) (dto.GetBookingsResponse, error)
	GetOwnerBookings(ctx context.Context, req dto.GetBookingsRequest) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo          repository.Booking
	warehouseRepo whRepo.Warehouse
	tx            postgres.Transactor
	publisher     notifEvent.Publisher
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(
	repo repository.Booking,
	warehouseRepo whRepo.Warehouse,
	tx postgres.Transactor,
	publisher notifEvent.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:          repo,
		warehouseRepo: warehouseRepo,
		tx:            tx,
		publisher:     publisher,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Caller(ctx)

	start, end, err := req.Period()
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !start.Before(end) {
		return res, errInvalidPeriod
	}

	var (
		booking   model.Booking
		warehouse whModel.Warehouse
	)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		warehouse, err = s.lockWarehouse(ctx, tx, req.WarehouseID)
		if err != nil {
			return err
		}

		if warehouse.IsOwnedBy(user) {
			return errOwnWarehouse
		}

		statuses, err := s.repo.StatusesByWarehouseTx(ctx, tx, warehouse.ID)
		if err != nil {
			return fmt.Errorf("failed to load warehouse bookings: %w", err)
		}

		if warehouse.Availability != availability.Available || availability.HasOpenBooking(statuses) {
			return errNotAvailable
		}

		totalPrice := warehouse.PricePerDay.Mul(decimal.NewFromInt(int64(timezone.DaysBetween(start, end))))
		if req.TotalPrice != nil && !req.TotalPrice.Equal(totalPrice) {
			return errPriceMismatch
		}

		booking = req.ToModel(user, start, end, totalPrice)

		if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return s.syncWarehouse(ctx, tx, warehouse, append(statuses, booking.Status), warehouse.WithBooking(booking.ID), user)
	})
	if err != nil {
		return res, s.txError(err, "failed to create booking")
	}

	res.FromModel(booking)

	s.afterMutation(ctx, booking, warehouse.OwnerID, notifModel.EventBookingCreated)

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (res dto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.Caller(ctx)

	current, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	var (
		booking   model.Booking
		warehouse whModel.Warehouse
	)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		warehouse, err = s.lockWarehouse(ctx, tx, current.WarehouseID)
		if err != nil {
			return err
		}

		booking, err = s.getTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if !warehouse.IsOwnedBy(user) && role != constant.RoleAdmin {
			return errNotWarehouseOwner
		}

		if booking.Status != model.StatusPending {
			return errNotPending
		}

		booking.Status = model.StatusActive

		fields := map[string]any{
			model.FieldStatus:        booking.Status,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err = s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to activate booking: %w", err)
		}

		statuses, err := s.repo.StatusesByWarehouseTx(ctx, tx, warehouse.ID)
		if err != nil {
			return fmt.Errorf("failed to load warehouse bookings: %w", err)
		}

		return s.syncWarehouse(ctx, tx, warehouse, statuses, warehouse.WithBooking(booking.ID), user)
	})
	if err != nil {
		return res, s.txError(err, "failed to confirm booking")
	}

	s.afterMutation(ctx, booking, warehouse.OwnerID, notifModel.EventBookingConfirmed)

	detail, err := s.repo.GetDetail(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to load confirmed booking")

		return res, fmt.Errorf("failed to load confirmed booking: %w", err)
	}

	if detail.ID == "" {
		return res, errBookingNotFound
	}

	res.FromModel(detail)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.Caller(ctx)

	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	var (
		booking   model.Booking
		warehouse whModel.Warehouse
	)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		warehouse, err = s.lockWarehouse(ctx, tx, current.WarehouseID)
		if err != nil {
			return err
		}

		booking, err = s.getTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if booking.UserID != user && role != constant.RoleAdmin {
			return errNotBookingRenter
		}

		if booking.Status.IsTerminal() {
			return errAlreadyTerminal
		}

		if err = s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}

		statuses, err := s.repo.StatusesByWarehouseTx(ctx, tx, warehouse.ID)
		if err != nil {
			return fmt.Errorf("failed to load warehouse bookings: %w", err)
		}

		return s.syncWarehouse(ctx, tx, warehouse, statuses, warehouse.WithoutBooking(booking.ID), user)
	})
	if err != nil {
		return s.txError(err, "failed to cancel booking")
	}

	booking.Status = model.StatusCancelled

	s.afterMutation(ctx, booking, warehouse.OwnerID, notifModel.EventBookingCancelled)

	return nil
}

func (s *serviceImpl) GetDetails(ctx context.Context, id string) (res dto.BookingDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetDetails")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.Caller(ctx)

	res, err = cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetBooking, id), s.cfg.Cache.TTL, func() (dto.BookingDetailResponse, error) {
		var detail dto.BookingDetailResponse

		mod, err := s.repo.GetDetail(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to get booking")

			return detail, fmt.Errorf("failed to get booking: %w", err)
		}

		if mod.ID == "" {
			return detail, errBookingNotFound
		}

		detail.FromModel(mod)

		return detail, nil
	})
	if err != nil {
		return res, err
	}

	if res.UserID != user && res.Warehouse.Owner.ID != user && role != constant.RoleAdmin {
		return dto.BookingDetailResponse{}, errBookingAccessDenied
	}

	return res, nil
}

func (s *serviceImpl) GetUserBookings(ctx context.Context, req dto.GetBookingsRequest) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetUserBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Caller(ctx)

	filter := gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: user, Table: model.TableName}

	return s.list(ctx, cacheUserBookings, req, filter)
}

func (s *serviceImpl) GetOwnerBookings(ctx context.Context, req dto.GetBookingsRequest) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetOwnerBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Caller(ctx)

	filter := gDto.Filter{Field: whModel.FieldOwnerID, Operator: gDto.FilterOperatorEq, Value: user, Table: whModel.TableName}

	return s.list(ctx, cacheOwnerBookings, req, filter)
}

func (s *serviceImpl) list(ctx context.Context, prefix string, req dto.GetBookingsRequest, scopeFilter gDto.Filter) (dto.GetBookingsResponse, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{scopeFilter},
	}

	if req.Status != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    req.Status,
			Table:    model.TableName,
		})
	}

	params := req.QueryParams
	params.QualifySort(model.TableName)
	params.WithDefaultSort(sortDefault)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(prefix, params, filter), s.cfg.Cache.TTL, func() (dto.GetBookingsResponse, error) {
		var res dto.GetBookingsResponse

		total, err := s.repo.CountDetails(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count bookings")

			return res, fmt.Errorf("failed to count bookings: %w", err)
		}

		models, err := s.repo.GetDetails(ctx, params, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get bookings")

			return res, fmt.Errorf("failed to get bookings: %w", err)
		}

		res.FromModels(models, total, params.Limit)

		return res, nil
	})
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return booking, errBookingNotFound
	}

	return booking, nil
}

func (s *serviceImpl) getTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	booking, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return booking, errBookingNotFound
	}

	return booking, nil
}

// lockWarehouse takes the row lock that serialises every booking write
// against the warehouse.
func (s *serviceImpl) lockWarehouse(ctx context.Context, tx *sqlx.Tx, id string) (whModel.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, whModel.FieldID, whModel.TableName))
	if err != nil {
		return warehouse, fmt.Errorf("failed to lock warehouse: %w", err)
	}

	if warehouse.ID == "" {
		return warehouse, errWarehouseNotFound
	}

	return warehouse, nil
}

// syncWarehouse stores the booking references and the availability derived
// from statuses.
func (s *serviceImpl) syncWarehouse(ctx context.Context, tx *sqlx.Tx, warehouse whModel.Warehouse, statuses []model.Status, bookingIDs pq.StringArray, user string) error {
	fields := map[string]any{
		whModel.FieldAvailability: availability.Compute(warehouse.Availability, statuses),
		whModel.FieldBookingIDs:   bookingIDs,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  user,
	}

	if err := s.warehouseRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(warehouse.ID, whModel.FieldID, whModel.TableName)); err != nil {
		return fmt.Errorf("failed to update warehouse availability: %w", err)
	}

	return nil
}

func (s *serviceImpl) txError(err error, msg string) error {
	if failure.IsFailure(err) {
		return err
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

func (s *serviceImpl) afterMutation(ctx context.Context, booking model.Booking, ownerID string, eventType notifModel.EventType) {
	s.publisher.Publish(ctx, notifModel.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		WarehouseID: booking.WarehouseID,
		RenterID:    booking.UserID,
		OwnerID:     ownerID,
		Status:      string(booking.Status),
		OccurredAt:  timezone.Now(),
	})

	// Detail entry is dropped inline; list caches clear in the background.
	if err := s.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to invalidate booking cache")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheUserBookings)
		shared.InvalidateCaches(c, s.cache, cacheOwnerBookings)
		shared.InvalidateCaches(c, s.cache, whModel.CachePrefix)
	}()
}
