package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"warehub/config"
	"warehub/infras/otel/mocks"
	pgMocks "warehub/infras/postgres/mocks"
	s3Mocks "warehub/infras/s3/mocks"
	"warehub/internal/domains/availability"
	bookingMocks "warehub/internal/domains/booking/mocks"
	bookingModel "warehub/internal/domains/booking/model"
	whMocks "warehub/internal/domains/warehouse/mocks"
	"warehub/internal/domains/warehouse/model"
	"warehub/internal/domains/warehouse/model/dto"
	"warehub/internal/domains/warehouse/service"
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
	ownerID     = "owner-1"
	warehouseID = "w-1"
	pngDataURL  = "data:image/png;base64,iVBORw0KGgo="
)

type fixture struct {
	repo        *whMocks.MockWarehouse
	bookingRepo *bookingMocks.MockBooking
	storage     *s3Mocks.MockS3
	cache       *cacheMocks.MockRedisCache
	svc         service.Warehouse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:        whMocks.NewMockWarehouse(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		storage:     s3Mocks.NewMockS3(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.bookingRepo, pgMocks.NewTransactor(), f.storage, cfg, f.cache, mocks.NewOtel())

	return f
}

func caller(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func stored(id string, state availability.State) model.Warehouse {
	return model.Warehouse{
		ID:           id,
		OwnerID:      ownerID,
		Name:         "North Barn",
		Size:         120,
		PricePerDay:  decimal.NewFromInt(100),
		Images:       pq.StringArray{"https://cdn.warehub.test/warehouses/" + id + "/a.png"},
		Availability: state,
		BookingIDs:   pq.StringArray{},
	}
}

func createRequest(images ...dto.Image) dto.CreateWarehouseRequest {
	return dto.CreateWarehouseRequest{
		Name:             "North Barn",
		Size:             120,
		PricePerDay:      decimal.NewFromInt(100),
		FormattedAddress: "Jl. Raya 1",
		City:             "Bandung",
		Country:          "Indonesia",
		Images:           images,
	}
}

func TestWarehouseService_Create(t *testing.T) {
	t.Run("starts available with no bookings", func(t *testing.T) {
		f := newFixture(t)

		var inserted model.Warehouse
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, w model.Warehouse) error {
				inserted = w

				return nil
			})

		res, err := f.svc.Create(caller(ownerID, constant.RoleOwner), createRequest())

		require.NoError(t, err)
		assert.Equal(t, availability.Available, res.Availability)
		assert.Empty(t, res.BookingIDs)
		assert.Equal(t, ownerID, inserted.OwnerID)
		assert.Equal(t, model.DefaultLocationType, inserted.LocationType)
		assert.NotEmpty(t, inserted.ID)
	})

	t.Run("uploads images under the warehouse directory", func(t *testing.T) {
		f := newFixture(t)

		f.storage.EXPECT().
			UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, directory, fileName string, _ multipart.File, _ *multipart.FileHeader) (string, error) {
				assert.Contains(t, directory, model.ImageDirectory+"/")
				assert.Contains(t, fileName, ".png")

				return "https://cdn.warehub.test/" + directory + "/" + fileName, nil
			}).Times(2)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(caller(ownerID, constant.RoleOwner), createRequest(
			dto.Image{Header: &multipart.FileHeader{Filename: "front.png"}},
			dto.Image{Header: &multipart.FileHeader{Filename: "side.png"}},
		))

		require.NoError(t, err)
		assert.Len(t, res.Images, 2)
	})

	t.Run("removes uploads when the insert fails", func(t *testing.T) {
		f := newFixture(t)

		f.storage.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.warehub.test/warehouses/x/a.png", nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		f.storage.EXPECT().ObjectKeyFromURL("https://cdn.warehub.test/warehouses/x/a.png").Return("warehouses/x/a.png")
		f.storage.EXPECT().DeleteFile(gomock.Any(), "warehouses/x/a.png").Return(nil)

		_, err := f.svc.Create(caller(ownerID, constant.RoleOwner), createRequest(dto.Image{Header: &multipart.FileHeader{Filename: "a.png"}}))

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("removes earlier uploads when one fails", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.storage.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.warehub.test/warehouses/x/a.png", nil),
			f.storage.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket unavailable")),
		)
		f.storage.EXPECT().ObjectKeyFromURL(gomock.Any()).Return("warehouses/x/a.png")
		f.storage.EXPECT().DeleteFile(gomock.Any(), "warehouses/x/a.png").Return(nil)

		_, err := f.svc.Create(caller(ownerID, constant.RoleOwner), createRequest(
			dto.Image{Header: &multipart.FileHeader{Filename: "a.png"}},
			dto.Image{Header: &multipart.FileHeader{Filename: "b.png"}},
		))

		assert.ErrorContains(t, err, "bucket unavailable")
	})
}

func TestWarehouseService_Get(t *testing.T) {
	t.Run("loads and caches on a miss", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "warehouse:get:"+warehouseID, gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(warehouseID, availability.Available), nil)
		f.cache.EXPECT().Save(gomock.Any(), "warehouse:get:"+warehouseID, gomock.Any(), 3600).Return(nil)

		res, err := f.svc.Get(context.Background(), warehouseID)

		require.NoError(t, err)
		assert.Equal(t, warehouseID, res.ID)
	})

	t.Run("missing warehouse", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Warehouse{}, nil)

		_, err := f.svc.Get(context.Background(), warehouseID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestWarehouseService_GetAll_HealsAvailability(t *testing.T) {
	f := newFixture(t)

	page := []model.Warehouse{
		stored("w-stale-booked", availability.Booked),
		stored("w-stale-available", availability.Available),
		stored("w-maintenance", availability.Maintenance),
		stored("w-consistent", availability.Booked),
		stored("w-write-fails", availability.Booked),
	}

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(len(page), nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Warehouse, error) {
			assert.Equal(t, "warehouses.created_at", params.SortBy)

			return page, nil
		})
	f.bookingRepo.EXPECT().StatusesByWarehouses(gomock.Any(), gomock.Len(len(page))).Return(map[string][]bookingModel.Status{
		"w-stale-booked":    {bookingModel.StatusCompleted},
		"w-stale-available": {bookingModel.StatusPending},
		"w-maintenance":     {bookingModel.StatusActive},
		"w-consistent":      {bookingModel.StatusActive},
	}, nil)

	var where string
	f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error) {
			w, args := filter.GetWhereClause()

			switch args["id"] {
			case "w-stale-booked":
				where = w
				assert.Equal(t, availability.Available, req[model.FieldAvailability])
				assert.Equal(t, availability.Booked, args[model.ArgCurrentAvailability])

				return 1, nil
			case "w-stale-available":
				return 0, nil
			default:
				return 0, errors.New("db down")
			}
		}).Times(3)

	res, err := f.svc.GetAll(context.Background(), dto.GetWarehousesRequest{QueryParams: gDto.QueryParams{Page: 1, Limit: 10}})

	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalData)

	got := map[string]availability.State{}
	for _, w := range res.Warehouses {
		got[w.ID] = w.Availability
	}

	assert.Equal(t, availability.Available, got["w-stale-booked"])
	assert.Equal(t, availability.Available, got["w-stale-available"])
	assert.Equal(t, availability.Maintenance, got["w-maintenance"])
	assert.Equal(t, availability.Booked, got["w-consistent"])
	assert.Equal(t, availability.Booked, got["w-write-fails"])
	assert.Equal(t, "(warehouses.id = :id AND warehouses.availability = :current_availability)", where)
}

func TestWarehouseService_GetAll_StatusLoadFails(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Warehouse{stored(warehouseID, availability.Booked)}, nil)
	f.bookingRepo.EXPECT().StatusesByWarehouses(gomock.Any(), []string{warehouseID}).Return(nil, errors.New("db down"))

	_, err := f.svc.GetAll(context.Background(), dto.GetWarehousesRequest{})

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func TestWarehouseService_GetAll_Filters(t *testing.T) {
	f := newFixture(t)

	var scopeWhere, where string
	f.repo.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Warehouse, error) {
			scopeWhere, _ = filter.GetWhereClause()
			assert.Equal(t, []string{model.FieldID, model.FieldAvailability}, columns)

			return nil, nil
		})
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			where, _ = filter.GetWhereClause()

			return 0, nil
		})
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := f.svc.GetAll(context.Background(), dto.GetWarehousesRequest{City: "Bandung", Availability: "available"})

	require.NoError(t, err)
	assert.Equal(t, "(LOWER(warehouses.city) LIKE LOWER(:city) )", scopeWhere)
	assert.Equal(t, "(LOWER(warehouses.city) LIKE LOWER(:city)  AND warehouses.availability = :availability)", where)
}

func TestWarehouseService_GetAll_AvailabilityFilterSeesHealedFlags(t *testing.T) {
	f := newFixture(t)

	// Stored as available while a pending booking holds it.
	f.repo.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{}, gomock.Any(), gomock.Any()).
		Return([]model.Warehouse{stored(warehouseID, availability.Available)}, nil)
	f.bookingRepo.EXPECT().StatusesByWarehouses(gomock.Any(), []string{warehouseID}).
		Return(map[string][]bookingModel.Status{warehouseID: {bookingModel.StatusPending}}, nil).Times(2)

	var healedTo availability.State
	f.repo.EXPECT().UpdateCount(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) (int64, error) {
			healedTo = req[model.FieldAvailability].(availability.State)

			return 1, nil
		})

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Warehouse, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, string(availability.Booked), args[model.FieldAvailability])
			assert.Equal(t, availability.Booked, healedTo)

			return []model.Warehouse{stored(warehouseID, availability.Booked)}, nil
		})

	res, err := f.svc.GetAll(context.Background(), dto.GetWarehousesRequest{
		QueryParams:  gDto.QueryParams{Page: 1, Limit: 10},
		Availability: string(availability.Booked),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.Warehouses, 1)
	assert.Equal(t, availability.Booked, res.Warehouses[0].Availability)
}

func TestWarehouseService_GetAll_ScopeLoadFails(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{}, gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := f.svc.GetAll(context.Background(), dto.GetWarehousesRequest{Availability: string(availability.Booked)})

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func TestWarehouseService_Update(t *testing.T) {
	name := "South Barn"

	t.Run("empty patch", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(caller(ownerID, constant.RoleOwner), warehouseID, dto.UpdateWarehouseRequest{})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(warehouseID, availability.Available), nil)

		_, err := f.svc.Update(caller("someone", constant.RoleOwner), warehouseID, dto.UpdateWarehouseRequest{Name: &name})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("missing warehouse", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Warehouse{}, nil)

		_, err := f.svc.Update(caller(ownerID, constant.RoleOwner), warehouseID, dto.UpdateWarehouseRequest{Name: &name})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("renames and swaps an image", func(t *testing.T) {
		f := newFixture(t)

		current := stored(warehouseID, availability.Booked)
		oldImage := current.Images[0]

		updated := current
		updated.Name = name
		updated.Images = pq.StringArray{"https://cdn.warehub.test/warehouses/w-1/new.png"}

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(current, nil),
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(updated, nil),
		)
		f.storage.EXPECT().UploadFileBytes(gomock.Any(), "warehouses/w-1", gomock.Any(), "image/png", gomock.Any()).
			Return("https://cdn.warehub.test/warehouses/w-1/new.png", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, name, req["name"])
				assert.Equal(t, updated.Images, req[model.FieldImages])
				assert.NotContains(t, req, model.FieldAvailability)

				return nil
			})
		f.storage.EXPECT().ObjectKeyFromURL(oldImage).Return("warehouses/w-1/a.png").AnyTimes()
		f.storage.EXPECT().DeleteFile(gomock.Any(), "warehouses/w-1/a.png").Return(nil).AnyTimes()

		res, err := f.svc.Update(caller(ownerID, constant.RoleOwner), warehouseID, dto.UpdateWarehouseRequest{
			Name:         &name,
			AddImages:    []string{pngDataURL},
			RemoveImages: []string{oldImage},
		})

		require.NoError(t, err)
		assert.Equal(t, name, res.Name)
		assert.Equal(t, availability.Booked, res.Availability)
	})

	t.Run("too many images", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(warehouseID, availability.Available), nil)

		images := make([]string, model.MaxImages)
		for i := range images {
			images[i] = pngDataURL
		}

		_, err := f.svc.Update(caller(ownerID, constant.RoleOwner), warehouseID, dto.UpdateWarehouseRequest{AddImages: images})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestWarehouseService_SetMaintenance(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		current   availability.State
		statuses  []bookingModel.Status
		enabled   bool
		wantState availability.State
		wantWrite bool
		wantCode  int
	}{
		{
			name:      "enter maintenance when idle",
			ctx:       caller(ownerID, constant.RoleOwner),
			current:   availability.Available,
			statuses:  []bookingModel.Status{bookingModel.StatusCompleted},
			enabled:   true,
			wantState: availability.Maintenance,
			wantWrite: true,
		},
		{
			name:     "refuse maintenance with an open booking",
			ctx:      caller(ownerID, constant.RoleOwner),
			current:  availability.Booked,
			statuses: []bookingModel.Status{bookingModel.StatusPending},
			enabled:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "leave maintenance",
			ctx:       caller(ownerID, constant.RoleOwner),
			current:   availability.Maintenance,
			enabled:   false,
			wantState: availability.Available,
			wantWrite: true,
		},
		{
			name:      "leaving maintenance respects open bookings",
			ctx:       caller("admin-1", constant.RoleAdmin),
			current:   availability.Maintenance,
			statuses:  []bookingModel.Status{bookingModel.StatusActive},
			enabled:   false,
			wantState: availability.Booked,
			wantWrite: true,
		},
		{
			name:      "already available",
			ctx:       caller(ownerID, constant.RoleOwner),
			current:   availability.Available,
			enabled:   false,
			wantState: availability.Available,
		},
		{
			name:     "not the owner",
			ctx:      caller("someone", constant.RoleOwner),
			current:  availability.Available,
			enabled:  true,
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(warehouseID, tt.current), nil)

			if tt.wantCode != http.StatusForbidden {
				f.bookingRepo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).Return(tt.statuses, nil)
			}

			if tt.wantWrite {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, tt.wantState, req[model.FieldAvailability])

						return nil
					})
			}

			res, err := f.svc.SetMaintenance(tt.ctx, warehouseID, tt.enabled)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantState, res.Availability)
		})
	}
}

func TestWarehouseService_Delete(t *testing.T) {
	t.Run("refused while a booking is open", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(warehouseID, availability.Booked), nil)
		f.bookingRepo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).
			Return([]bookingModel.Status{bookingModel.StatusCompleted, bookingModel.StatusActive}, nil)

		err := f.svc.Delete(caller(ownerID, constant.RoleOwner), warehouseID)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("deletes finished bookings with the warehouse", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(warehouseID, availability.Available), nil)
		f.bookingRepo.EXPECT().StatusesByWarehouseTx(gomock.Any(), gomock.Any(), warehouseID).
			Return([]bookingModel.Status{bookingModel.StatusCompleted}, nil)
		f.bookingRepo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) error {
				where, _ := filter.GetWhereClause()
				assert.Equal(t, "(bookings.warehouse_id = :warehouse_id)", where)

				return nil
			})
		f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.storage.EXPECT().ObjectKeyFromURL(gomock.Any()).Return("warehouses/w-1/a.png").AnyTimes()
		f.storage.EXPECT().DeleteFile(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := f.svc.Delete(caller(ownerID, constant.RoleOwner), warehouseID)

		require.NoError(t, err)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(stored(warehouseID, availability.Available), nil)

		err := f.svc.Delete(caller("someone", constant.RoleFarmer), warehouseID)

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("missing warehouse", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Warehouse{}, nil)

		err := f.svc.Delete(caller(ownerID, constant.RoleOwner), warehouseID)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
