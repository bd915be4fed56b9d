package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"warehub/infras/otel"
	"warehub/infras/postgres"
	"warehub/internal/domains/booking/model"
	"warehub/shared/constant"
	gDto "warehub/shared/dto"
	gRepo "warehub/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error

	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error)
	GetDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error)
	CountDetails(ctx context.Context, filter gDto.FilterGroup) (int, error)

	// StatusesByWarehouseTx lists the status of every booking of one warehouse
	// inside the caller's transaction.
	StatusesByWarehouseTx(ctx context.Context, sqltx *sqlx.Tx, warehouseID string) ([]model.Status, error)
	// StatusesByWarehouses groups booking statuses by warehouse id in one query.
	StatusesByWarehouses(ctx context.Context, warehouseIDs []string) (map[string][]model.Status, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	detail gRepo.Repository[model.BookingDetail]
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.BookingDetail](model.EntityName+"_detail", model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.BookingDetail, error) {
	return r.detail.Get(ctx, filter)
}

func (r *repositoryImpl) GetDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
	return r.detail.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) CountDetails(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return r.detail.Count(ctx, filter)
}

func (r *repositoryImpl) StatusesByWarehouseTx(ctx context.Context, sqltx *sqlx.Tx, warehouseID string) (statuses []model.Status, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.StatusesByWarehouseTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookings, err := r.GetAllTx(ctx, sqltx, gDto.QueryParams{}, byWarehouse(warehouseID), model.FieldStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking statuses: %w", err)
	}

	statuses = make([]model.Status, len(bookings))
	for i, booking := range bookings {
		statuses[i] = booking.Status
	}

	return statuses, nil
}

func (r *repositoryImpl) StatusesByWarehouses(ctx context.Context, warehouseIDs []string) (grouped map[string][]model.Status, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.StatusesByWarehouses")
	defer scope.End()
	defer scope.TraceIfError(err)

	grouped = make(map[string][]model.Status, len(warehouseIDs))
	if len(warehouseIDs) == 0 {
		return grouped, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldWarehouseID, Operator: gDto.FilterOperatorIn, Value: warehouseIDs, Table: model.TableName},
		},
	}

	bookings, err := r.GetAll(ctx, gDto.QueryParams{}, filter, model.FieldWarehouseID, model.FieldStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking statuses: %w", err)
	}

	for _, booking := range bookings {
		grouped[booking.WarehouseID] = append(grouped[booking.WarehouseID], booking.Status)
	}

	return grouped, nil
}

func byWarehouse(warehouseID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldWarehouseID, Operator: gDto.FilterOperatorEq, Value: warehouseID, Table: model.TableName},
		},
	}
}
