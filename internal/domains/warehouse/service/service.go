package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Warehouse=MockWarehouseService

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"warehub/config"
	"warehub/infras/otel"
	"warehub/infras/postgres"
	"warehub/infras/s3"
	"warehub/internal/domains/availability"
	bookingModel "warehub/internal/domains/booking/model"
	bookingRepo "warehub/internal/domains/booking/repository"
	"warehub/internal/domains/warehouse/model"
	"warehub/internal/domains/warehouse/model/dto"
	"warehub/internal/domains/warehouse/repository"
	"warehub/shared"
	"warehub/shared/base64"
	"warehub/shared/cache"
	"warehub/shared/constant"
	gDto "warehub/shared/dto"
	"warehub/shared/failure"
	"warehub/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetWarehouse = model.CachePrefix + ":get"

	sortDefault = model.TableName + "." + model.FieldCreatedAt
)

var (
	errWarehouseNotFound = failure.NotFound("warehouse not found")
	errNotOwner          = failure.Forbidden("only the warehouse owner can change this warehouse")
	errEmptyUpdate       = failure.BadRequestFromString("nothing to update")
	errTooManyImages     = failure.BadRequestFromString(fmt.Sprintf("a warehouse can have at most %d images", model.MaxImages))
	errOpenBookings      = failure.BadRequestFromString("warehouse has pending or active bookings")
	errDeleteConflict    = failure.Conflict("warehouse has pending or active bookings")
)

type Warehouse interface {
	Create(ctx context.Context, req dto.CreateWarehouseRequest) (dto.WarehouseResponse, error)
	Get(ctx context.Context, id string) (dto.WarehouseResponse, error)
	GetAll(ctx context.Context, req dto.GetWarehousesRequest) (dto.GetWarehousesResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateWarehouseRequest) (dto.WarehouseResponse, error)
	SetMaintenance(ctx context.Context, id string, enabled bool) (dto.WarehouseResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Warehouse
	bookingRepo bookingRepo.Booking
	tx          postgres.Transactor
	storage     s3.S3
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Warehouse,
	bookingRepo bookingRepo.Booking,
	tx postgres.Transactor,
	storage s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Warehouse {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		tx:          tx,
		storage:     storage,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateWarehouseRequest) (res dto.WarehouseResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".warehouse.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Caller(ctx)
	id := dto.NewWarehouseID()

	urls := make([]string, 0, len(req.Images))

	for _, image := range req.Images {
		url, err := s.storage.UploadFile(ctx, imageDirectory(id), uuid.NewString()+filepath.Ext(image.Header.Filename), image.File, image.Header)
		if err != nil {
			log.Error().Err(err).Str("warehouse", id).Msg("failed to upload warehouse image")
			s.deleteImages(ctx, urls)

			return res, fmt.Errorf("failed to upload warehouse image: %w", err)
		}

		urls = append(urls, url)
	}

	warehouse := req.ToModel(id, user, urls)

	if err = s.repo.Insert(ctx, warehouse); err != nil {
		log.Error().Err(err).Msg("failed to create warehouse")
		s.deleteImages(ctx, urls)

		return res, fmt.Errorf("failed to create warehouse: %w", err)
	}

	res.FromModel(warehouse)

	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.WarehouseResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".warehouse.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetWarehouse, id), s.cfg.Cache.TTL, func() (dto.WarehouseResponse, error) {
		var res dto.WarehouseResponse

		warehouse, err := s.get(ctx, id)
		if err != nil {
			return res, err
		}

		res.FromModel(warehouse)

		return res, nil
	})
}

// GetAll lists a page of warehouses and heals any availability flag that
// disagrees with the warehouse's bookings. An availability filter is applied
// after every warehouse in scope has been healed.
func (s *serviceImpl) GetAll(ctx context.Context, req dto.GetWarehousesRequest) (res dto.GetWarehousesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".warehouse.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	healed := 0

	if req.Availability != "" {
		inScope, err := s.repo.GetAll(ctx, gDto.QueryParams{}, scopeFilter(req), model.FieldID, model.FieldAvailability)
		if err != nil {
			log.Error().Err(err).Msg("failed to get warehouses in scope")

			return res, fmt.Errorf("failed to get warehouses in scope: %w", err)
		}

		if healed, err = s.healStale(ctx, inScope); err != nil {
			return res, err
		}
	}

	filter := listFilter(req)

	params := req.QueryParams
	params.QualifySort(model.TableName)
	params.WithDefaultSort(sortDefault)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count warehouses")

		return res, fmt.Errorf("failed to count warehouses: %w", err)
	}

	warehouses, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get warehouses")

		return res, fmt.Errorf("failed to get warehouses: %w", err)
	}

	pageHealed, err := s.healStale(ctx, warehouses)
	if err != nil {
		return res, err
	}

	if healed += pageHealed; healed > 0 {
		scope.SetAttribute("warehouse.healed", healed)
		s.invalidate(ctx)
	}

	res.FromModels(warehouses, total, params.Limit)

	return res, nil
}

// healStale recomputes the flag of each warehouse from its bookings, writes
// the ones that disagree and updates the slice in place.
func (s *serviceImpl) healStale(ctx context.Context, warehouses []model.Warehouse) (int, error) {
	if len(warehouses) == 0 {
		return 0, nil
	}

	ids := make([]string, len(warehouses))
	for i, warehouse := range warehouses {
		ids[i] = warehouse.ID
	}

	statuses, err := s.bookingRepo.StatusesByWarehouses(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to load warehouse bookings")

		return 0, fmt.Errorf("failed to load warehouse bookings: %w", err)
	}

	healed := 0

	for i, warehouse := range warehouses {
		next := availability.Compute(warehouse.Availability, statuses[warehouse.ID])
		if next == warehouse.Availability {
			continue
		}

		if s.heal(ctx, warehouse, next) {
			warehouses[i].Availability = next
			healed++
		}
	}

	return healed, nil
}

// heal writes next only if the stored flag is still the one that was read.
func (s *serviceImpl) heal(ctx context.Context, warehouse model.Warehouse, next availability.State) bool {
	fields := map[string]any{
		model.FieldAvailability:  next,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: constant.ContextSystem,
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: warehouse.ID, Table: model.TableName},
			gDto.Filter{
				ArgName:  model.ArgCurrentAvailability,
				Field:    model.FieldAvailability,
				Operator: gDto.FilterOperatorEq,
				Value:    warehouse.Availability,
				Table:    model.TableName,
			},
		},
	}

	affected, err := s.repo.UpdateCount(ctx, fields, filter)
	if err != nil {
		log.Warn().Err(err).Str("warehouse", warehouse.ID).Msg("failed to heal warehouse availability")

		return false
	}

	if affected == 0 {
		log.Debug().Str("warehouse", warehouse.ID).Msg("warehouse availability changed concurrently, skipping heal")

		return false
	}

	log.Info().
		Str("warehouse", warehouse.ID).
		Str("from", string(warehouse.Availability)).
		Str("to", string(next)).
		Msg("healed warehouse availability")

	return true
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateWarehouseRequest) (res dto.WarehouseResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".warehouse.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.Caller(ctx)

	if req.IsEmpty() {
		return res, errEmptyUpdate
	}

	warehouse, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	if !warehouse.IsOwnedBy(user) && role != constant.RoleAdmin {
		return res, errNotOwner
	}

	fields := shared.TransformFields(req, user)

	var removed, added []string

	if len(req.AddImages) > 0 || len(req.RemoveImages) > 0 {
		images := slices.DeleteFunc(slices.Clone(warehouse.Images), func(url string) bool {
			if slices.Contains(req.RemoveImages, url) {
				removed = append(removed, url)

				return true
			}

			return false
		})

		if len(images)+len(req.AddImages) > model.MaxImages {
			return res, errTooManyImages
		}

		for _, image := range req.AddImages {
			url, err := s.uploadDataURL(ctx, id, image)
			if err != nil {
				s.deleteImages(ctx, added)

				return res, err
			}

			added = append(added, url)
		}

		warehouse.Images = pq.StringArray(append(images, added...))
		fields[model.FieldImages] = warehouse.Images
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update warehouse")
		s.deleteImages(ctx, added)

		return res, fmt.Errorf("failed to update warehouse: %w", err)
	}

	updated, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	s.invalidate(ctx)

	if len(removed) > 0 {
		go s.deleteImages(context.WithoutCancel(ctx), removed)
	}

	return res, nil
}

func (s *serviceImpl) SetMaintenance(ctx context.Context, id string, enabled bool) (res dto.WarehouseResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".warehouse.SetMaintenance")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.Caller(ctx)

	var warehouse model.Warehouse

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		warehouse, err = s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if !warehouse.IsOwnedBy(user) && role != constant.RoleAdmin {
			return errNotOwner
		}

		statuses, err := s.bookingRepo.StatusesByWarehouseTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to load warehouse bookings: %w", err)
		}

		next := availability.Compute(availability.Available, statuses)
		if enabled {
			if availability.HasOpenBooking(statuses) {
				return errOpenBookings
			}

			next = availability.Maintenance
		}

		if next == warehouse.Availability {
			return nil
		}

		warehouse.Availability = next

		fields := map[string]any{
			model.FieldAvailability:  next,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err = s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update warehouse availability: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, txError(err, "failed to set warehouse maintenance")
	}

	res.FromModel(warehouse)

	s.invalidate(ctx)

	return res, nil
}

// Delete removes a warehouse together with its finished bookings. It is
// refused while any booking is still pending or active.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".warehouse.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, role := shared.Caller(ctx)

	var warehouse model.Warehouse

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		warehouse, err = s.lock(ctx, tx, id)
		if err != nil {
			return err
		}

		if !warehouse.IsOwnedBy(user) && role != constant.RoleAdmin {
			return errNotOwner
		}

		statuses, err := s.bookingRepo.StatusesByWarehouseTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to load warehouse bookings: %w", err)
		}

		if availability.HasOpenBooking(statuses) {
			return errDeleteConflict
		}

		if len(statuses) > 0 {
			filter := shared.FilterByID(id, bookingModel.FieldWarehouseID, bookingModel.TableName)
			if err = s.bookingRepo.DeleteTx(ctx, tx, filter); err != nil {
				return fmt.Errorf("failed to delete warehouse bookings: %w", err)
			}
		}

		if err = s.repo.DeleteTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to delete warehouse: %w", err)
		}

		return nil
	})
	if err != nil {
		return txError(err, "failed to delete warehouse")
	}

	s.invalidate(ctx)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, bookingModel.CachePrefix)
		s.deleteImages(c, warehouse.Images)
	}()

	return nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Warehouse, error) {
	warehouse, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get warehouse")

		return warehouse, fmt.Errorf("failed to get warehouse: %w", err)
	}

	if warehouse.ID == "" {
		return warehouse, errWarehouseNotFound
	}

	return warehouse, nil
}

func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, id string) (model.Warehouse, error) {
	warehouse, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return warehouse, fmt.Errorf("failed to lock warehouse: %w", err)
	}

	if warehouse.ID == "" {
		return warehouse, errWarehouseNotFound
	}

	return warehouse, nil
}

func (s *serviceImpl) uploadDataURL(ctx context.Context, id, dataURL string) (string, error) {
	contentType, data, err := base64.Decode(dataURL)
	if err != nil {
		return "", failure.BadRequest(err) //nolint:wrapcheck
	}

	fileName := uuid.NewString() + "." + strings.TrimPrefix(contentType, "image/")

	url, err := s.storage.UploadFileBytes(ctx, imageDirectory(id), fileName, contentType, data)
	if err != nil {
		log.Error().Err(err).Str("warehouse", id).Msg("failed to upload warehouse image")

		return "", fmt.Errorf("failed to upload warehouse image: %w", err)
	}

	return url, nil
}

// deleteImages removes uploaded objects. Failures are logged only.
func (s *serviceImpl) deleteImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		key := s.storage.ObjectKeyFromURL(url)
		if key == "" {
			continue
		}

		if err := s.storage.DeleteFile(ctx, key); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to delete warehouse image")
		}
	}
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, model.CachePrefix)
	}()
}

func imageDirectory(id string) string {
	return path.Join(model.ImageDirectory, id)
}

// scopeFilter narrows by every listing filter except availability.
func scopeFilter(req dto.GetWarehousesRequest) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if req.City != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldCity, Operator: gDto.FilterOperatorLike, Value: req.City, Table: model.TableName})
	}

	if req.OwnerID != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldOwnerID, Operator: gDto.FilterOperatorEq, Value: req.OwnerID, Table: model.TableName})
	}

	return filter
}

func listFilter(req dto.GetWarehousesRequest) gDto.FilterGroup {
	filter := scopeFilter(req)

	if req.Availability != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldAvailability, Operator: gDto.FilterOperatorEq, Value: req.Availability, Table: model.TableName})
	}

	return filter
}

func txError(err error, msg string) error {
	if failure.IsFailure(err) {
		return err
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}
