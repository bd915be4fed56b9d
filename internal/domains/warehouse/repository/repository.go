package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"warehub/infras/otel"
	"warehub/infras/postgres"
	"warehub/internal/domains/warehouse/model"
	gDto "warehub/shared/dto"
	gRepo "warehub/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Warehouse interface {
	Insert(ctx context.Context, model model.Warehouse) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Warehouse, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Warehouse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Warehouse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	UpdateCount(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Warehouse]
}

func New(db *postgres.Connection, otel otel.Otel) Warehouse {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Warehouse](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
