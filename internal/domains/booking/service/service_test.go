package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
	"warehub/config"
	"warehub/infras/otel/mocks"
	pgMocks "warehub/infras/postgres/mocks"
	"warehub/internal/domains/availability"
	bookingMocks "warehub/internal/domains/booking/mocks"
	"warehub/internal/domains/booking/model"
	"warehub/internal/domains/booking/model/dto"
	"warehub/internal/domains/booking/service"
	notifMocks "warehub/internal/domains/notification/mocks"
	notifModel "warehub/internal/domains/notification/model"
	whMocks "warehub/internal/domains/warehouse/mocks"
	whModel "warehub/internal/domains/warehouse/model"
	cacheMocks "warehub/shared/cache/mocks"
	"warehub/shared/constant"
	gDto "warehub/shared/dto"
	"warehub/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	renterID    = "renter-1"
	ownerID     = "owner-1"
	warehouseID = "8d7f2f4e-4a55-4f59-9a0e-0d8a1c1e7b21"
	bookingID   = "booking-1"
)

type fixture struct {
	repo      *bookingMocks.MockBooking
	whRepo    *whMocks.MockWarehouse
	publisher *notifMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
	svc       service.Booking
	deleted   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		whRepo:    whMocks.NewMockWarehouse(ctrl),
		publisher: notifMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			f.deleted = append(f.deleted, key)

			return nil
		}).AnyTimes()

	f.svc = service.New(f.repo, f.whRepo, pgMocks.NewTransactor(), f.publisher, cfg, f.cache, mocks.NewOtel())

	return f
}

func caller(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func warehouse(state availability.State, bookingIDs ...string) whModel.Warehouse {
	return whModel.Warehouse{
		ID:           warehouseID,
		OwnerID:      ownerID,
		Name:         "North Barn",
		PricePerDay:  decimal.NewFromInt(100),
		Availability: state,
		BookingIDs:   pq.StringArray(bookingIDs),
	}
}

func booking(status model.Status) model.Booking {
	return model.Booking{
		ID:          bookingID,
		WarehouseID: warehouseID,
		UserID:      renterID,
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		TotalPrice:  decimal.NewFromInt(300),
		Status:      status,
	}
}

// captureWarehouseUpdate records the fields written to the warehouse row.
func captureWarehouseUpdate(f *fixture, fields *map[string]any) {
	f.whRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
			*fields = req

			return nil
		})
}

func TestBookingService_Create(t *testing.T) {
	price := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)

		return &d
	}

	tests := []struct {
		name     string
		req      dto.CreateBookingRequest
		setup    func(f *fixture, fields *map[string]any)
		wantCode int
	}{
		{
			name: "books an available warehouse",
			req:  dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04"},
			setup: func(f *fixture, fields *map[string]any) {
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Available), nil)
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return([]model.Status{model.StatusCompleted}, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				captureWarehouseUpdate(f, fields)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "accepts a matching caller price",
			req:  dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04", TotalPrice: price(300)},
			setup: func(f *fixture, fields *map[string]any) {
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Available), nil)
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				captureWarehouseUpdate(f, fields)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			},
		},
		{
			name:     "rejects equal dates",
			req:      dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-04", EndDate: "2026-01-04"},
			setup:    func(*fixture, *map[string]any) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "rejects end before start",
			req:      dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-05", EndDate: "2026-01-04"},
			setup:    func(*fixture, *map[string]any) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "rejects malformed dates",
			req:      dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "01/01/2026", EndDate: "2026-01-04"},
			setup:    func(*fixture, *map[string]any) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "warehouse missing",
			req:  dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04"},
			setup: func(f *fixture, _ *map[string]any) {
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(whModel.Warehouse{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "warehouse already booked",
			req:  dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04"},
			setup: func(f *fixture, _ *map[string]any) {
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Booked, "other"), nil)
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return([]model.Status{model.StatusPending}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "stale available flag with an open booking",
			req:  dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04"},
			setup: func(f *fixture, _ *map[string]any) {
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Available, "other"), nil)
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return([]model.Status{model.StatusActive}, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "warehouse under maintenance",
			req:  dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04"},
			setup: func(f *fixture, _ *map[string]any) {
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Maintenance), nil)
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return(nil, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "caller price mismatch",
			req:  dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04", TotalPrice: price(1)},
			setup: func(f *fixture, _ *map[string]any) {
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Available), nil)
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return(nil, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "insert fails",
			req:  dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04"},
			setup: func(f *fixture, _ *map[string]any) {
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Available), nil)
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			var fields map[string]any
			tt.setup(f, &fields)

			res, err := f.svc.Create(caller(renterID, constant.RoleFarmer), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, renterID, res.UserID)
			assert.True(t, decimal.NewFromInt(300).Equal(res.TotalPrice))
			assert.Equal(t, "2026-01-01", res.StartDate)

			assert.Equal(t, availability.Booked, fields[whModel.FieldAvailability])
			assert.Contains(t, fields[whModel.FieldBookingIDs], res.ID)
		})
	}
}

func TestBookingService_Create_OwnWarehouse(t *testing.T) {
	f := newFixture(t)

	f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Available), nil)

	_, err := f.svc.Create(caller(ownerID, constant.RoleOwner), dto.CreateBookingRequest{
		WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04",
	})

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestBookingService_Create_TransactionFails(t *testing.T) {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	svc := service.New(
		bookingMocks.NewMockBooking(ctrl),
		whMocks.NewMockWarehouse(ctrl),
		pgMocks.NewFailingTransactor(errors.New("connection refused")),
		notifMocks.NewMockPublisher(ctrl),
		cfg,
		cacheMocks.NewMockRedisCache(ctrl),
		mocks.NewOtel(),
	)

	_, err := svc.Create(caller(renterID, constant.RoleFarmer), dto.CreateBookingRequest{
		WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04",
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	assert.ErrorContains(t, err, "connection refused")
}

func TestBookingService_Create_SecondBookingRejected(t *testing.T) {
	f := newFixture(t)

	stored := warehouse(availability.Available)
	var statuses []model.Status

	f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *sqlx.Tx, gDto.FilterGroup, ...string) (whModel.Warehouse, error) {
			return stored, nil
		}).Times(2)
	f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).
		DoAndReturn(func(context.Context, *sqlx.Tx, string) ([]model.Status, error) {
			return statuses, nil
		}).Times(2)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
			statuses = append(statuses, b.Status)

			return nil
		})
	f.whRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
			stored.Availability = req[whModel.FieldAvailability].(availability.State)
			stored.BookingIDs = req[whModel.FieldBookingIDs].(pq.StringArray)

			return nil
		})
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	req := dto.CreateBookingRequest{WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04"}

	first, err := f.svc.Create(caller(renterID, constant.RoleFarmer), req)
	require.NoError(t, err)
	assert.Equal(t, availability.Booked, stored.Availability)
	assert.Equal(t, pq.StringArray{first.ID}, stored.BookingIDs)

	_, err = f.svc.Create(caller("renter-2", constant.RoleFarmer), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Equal(t, pq.StringArray{first.ID}, stored.BookingIDs)
}

func TestBookingService_Create_PublishesEvent(t *testing.T) {
	f := newFixture(t)

	var fields map[string]any

	f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Available), nil)
	f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return(nil, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	captureWarehouseUpdate(f, &fields)

	var published notifModel.BookingEvent
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, events ...notifModel.BookingEvent) {
			published = events[0]
		})

	res, err := f.svc.Create(caller(renterID, constant.RoleFarmer), dto.CreateBookingRequest{
		WarehouseID: warehouseID, StartDate: "2026-01-01", EndDate: "2026-01-04",
	})
	require.NoError(t, err)

	assert.Equal(t, notifModel.EventBookingCreated, published.Type)
	assert.Equal(t, res.ID, published.BookingID)
	assert.Equal(t, ownerID, published.OwnerID)
	assert.Equal(t, renterID, published.RenterID)
}

func TestBookingService_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		setup    func(f *fixture, fields *map[string]any)
		wantCode int
	}{
		{
			name: "owner confirms a pending booking",
			ctx:  caller(ownerID, constant.RoleOwner),
			setup: func(f *fixture, fields *map[string]any) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Booked, bookingID), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
						if req[model.FieldStatus] != model.StatusActive {
							return errors.New("unexpected status")
						}

						return nil
					})
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return([]model.Status{model.StatusActive}, nil)
				captureWarehouseUpdate(f, fields)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(model.BookingDetail{
					Booking:          booking(model.StatusActive),
					WarehouseName:    "North Barn",
					WarehouseOwnerID: ownerID,
					OwnerEmail:       "owner@warehub.test",
				}, nil)
			},
		},
		{
			name: "admin confirms on behalf of the owner",
			ctx:  caller("admin-1", constant.RoleAdmin),
			setup: func(f *fixture, fields *map[string]any) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Booked, bookingID), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return([]model.Status{model.StatusActive}, nil)
				captureWarehouseUpdate(f, fields)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(model.BookingDetail{
					Booking:          booking(model.StatusActive),
					WarehouseOwnerID: ownerID,
				}, nil)
			},
		},
		{
			name: "booking missing",
			ctx:  caller(ownerID, constant.RoleOwner),
			setup: func(f *fixture, _ *map[string]any) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "lookup fails",
			ctx:  caller(ownerID, constant.RoleOwner),
			setup: func(f *fixture, _ *map[string]any) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "renter cannot confirm",
			ctx:  caller(renterID, constant.RoleFarmer),
			setup: func(f *fixture, _ *map[string]any) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Booked, bookingID), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "already active",
			ctx:  caller(ownerID, constant.RoleOwner),
			setup: func(f *fixture, _ *map[string]any) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusActive), nil)
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Booked, bookingID), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusActive), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "cancelled while waiting for the lock",
			ctx:  caller(ownerID, constant.RoleOwner),
			setup: func(f *fixture, _ *map[string]any) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
				f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Available), nil)
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			var fields map[string]any
			tt.setup(f, &fields)

			res, err := f.svc.Confirm(tt.ctx, bookingID)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusActive, res.Status)
			assert.Equal(t, ownerID, res.Warehouse.Owner.ID)
			assert.Equal(t, availability.Booked, fields[whModel.FieldAvailability])
			assert.Equal(t, []string{"booking:get:" + bookingID}, f.deleted)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		status    model.Status
		warehouse whModel.Warehouse
		remaining []model.Status
		wantState availability.State
		wantCode  int
	}{
		{
			name:      "renter cancels a pending booking",
			ctx:       caller(renterID, constant.RoleFarmer),
			status:    model.StatusPending,
			warehouse: warehouse(availability.Booked, bookingID),
			wantState: availability.Available,
		},
		{
			name:      "renter cancels an active booking",
			ctx:       caller(renterID, constant.RoleFarmer),
			status:    model.StatusActive,
			warehouse: warehouse(availability.Booked, "old", bookingID),
			remaining: []model.Status{model.StatusCompleted},
			wantState: availability.Available,
		},
		{
			name:      "maintenance survives cancellation",
			ctx:       caller(renterID, constant.RoleFarmer),
			status:    model.StatusActive,
			warehouse: warehouse(availability.Maintenance, bookingID),
			wantState: availability.Maintenance,
		},
		{
			name:      "admin cancels for the renter",
			ctx:       caller("admin-1", constant.RoleAdmin),
			status:    model.StatusPending,
			warehouse: warehouse(availability.Booked, bookingID),
			wantState: availability.Available,
		},
		{
			name:      "completed booking",
			ctx:       caller(renterID, constant.RoleFarmer),
			status:    model.StatusCompleted,
			warehouse: warehouse(availability.Available, bookingID),
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "someone else's booking",
			ctx:       caller(ownerID, constant.RoleOwner),
			status:    model.StatusPending,
			warehouse: warehouse(availability.Booked, bookingID),
			wantCode:  http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(tt.status), nil)
			f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.warehouse, nil)
			f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(tt.status), nil)

			var fields map[string]any

			if tt.wantCode == 0 {
				f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.repo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return(tt.remaining, nil)
				captureWarehouseUpdate(f, &fields)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())
			}

			err := f.svc.Cancel(tt.ctx, bookingID)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantState, fields[whModel.FieldAvailability])
			assert.NotContains(t, fields[whModel.FieldBookingIDs], bookingID)
			assert.Equal(t, []string{"booking:get:" + bookingID}, f.deleted)
		})
	}
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	err := f.svc.Cancel(caller(renterID, constant.RoleFarmer), bookingID)

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBookingService_Cancel_DeleteFails(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
	f.whRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(warehouse(availability.Booked, bookingID), nil)
	f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking(model.StatusPending), nil)
	f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	err := f.svc.Cancel(caller(renterID, constant.RoleFarmer), bookingID)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func TestBookingService_GetDetails(t *testing.T) {
	detail := model.BookingDetail{
		Booking:          booking(model.StatusActive),
		WarehouseName:    "North Barn",
		WarehouseOwnerID: ownerID,
	}

	tests := []struct {
		name     string
		ctx      context.Context
		setup    func(f *fixture)
		wantCode int
	}{
		{
			name: "renter reads from the store on a miss",
			ctx:  caller(renterID, constant.RoleFarmer),
			setup: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "booking:get:"+bookingID, gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail, nil)
				f.cache.EXPECT().Save(gomock.Any(), "booking:get:"+bookingID, gomock.Any(), 3600).Return(nil)
			},
		},
		{
			name: "owner reads from the cache",
			ctx:  caller(ownerID, constant.RoleOwner),
			setup: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "booking:get:"+bookingID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						value.(*dto.BookingDetailResponse).FromModel(detail)

						return nil
					})
			},
		},
		{
			name: "missing booking",
			ctx:  caller(renterID, constant.RoleFarmer),
			setup: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(model.BookingDetail{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "store failure is not a miss",
			ctx:  caller(renterID, constant.RoleFarmer),
			setup: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(model.BookingDetail{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "stranger is refused",
			ctx:  caller("stranger", constant.RoleFarmer),
			setup: func(f *fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(detail, nil)
				f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.GetDetails(tt.ctx, bookingID)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, bookingID, res.ID)
			assert.Equal(t, "North Barn", res.Warehouse.Name)
		})
	}
}

func TestBookingService_GetUserBookings(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	var where string
	var args map[string]any

	f.repo.EXPECT().CountDetails(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			where, args = filter.GetWhereClause()

			return 1, nil
		})
	f.repo.EXPECT().GetDetails(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup) ([]model.BookingDetail, error) {
			assert.Equal(t, "bookings.created_at", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return []model.BookingDetail{{Booking: booking(model.StatusPending), WarehouseOwnerID: ownerID}}, nil
		})

	res, err := f.svc.GetUserBookings(caller(renterID, constant.RoleFarmer), dto.GetBookingsRequest{
		Status:      string(model.StatusPending),
		QueryParams: gDto.QueryParams{Page: 1, Limit: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, "(bookings.user_id = :user_id AND bookings.status = :status)", where)
	assert.Equal(t, renterID, args["user_id"])
	assert.Equal(t, "pending", args["status"])
}

func TestBookingService_GetOwnerBookings(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	var where string

	f.repo.EXPECT().CountDetails(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			where, _ = filter.GetWhereClause()

			return 0, nil
		})
	f.repo.EXPECT().GetDetails(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := f.svc.GetOwnerBookings(caller(ownerID, constant.RoleOwner), dto.GetBookingsRequest{
		QueryParams: gDto.QueryParams{Page: 1, Limit: 10, SortBy: "start_date", SortDir: gDto.SortDirAsc},
	})

	require.NoError(t, err)
	assert.Empty(t, res.Bookings)
	assert.Equal(t, "(warehouses.owner_id = :owner_id)", where)
}
