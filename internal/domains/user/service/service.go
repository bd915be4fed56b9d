package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=User=MockUserService

import (
	"context"
	"fmt"
	"warehub/config"
	"warehub/infras/otel"
	"warehub/internal/domains/user/model"
	"warehub/internal/domains/user/model/dto"
	"warehub/internal/domains/user/repository"
	"warehub/shared"
	"warehub/shared/cache"
	"warehub/shared/constant"
	gDto "warehub/shared/dto"
	"warehub/shared/failure"
	"warehub/shared/password"

	"github.com/rs/zerolog/log"
)

const (
	cachePrefix     = "user"
	cacheGetUser    = cachePrefix + ":get"
	cacheGetAllUser = cachePrefix + ":gets"

	sortDefault = model.TableName + "." + constant.FieldCreatedAt
)

var (
	errUserNotFound   = failure.NotFound("user not found")
	errEmailTaken     = failure.BadRequestFromString("email already registered")
	errEmptyUpdate    = failure.BadRequestFromString("update request cannot be empty")
	errUserReferenced = failure.Conflict("user still owns warehouses or bookings")
)

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	GetAll(ctx context.Context, req dto.GetUsersRequest) (dto.GetUsersResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateUserRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	admin, _ := shared.Caller(ctx)

	exists, err := s.repo.Exist(ctx, shared.FilterByID(req.Email, model.FieldEmail, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, errEmailTaken
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToModel(admin, hashedPassword)

	if err = s.repo.Insert(ctx, user); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return res, errEmailTaken
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	res.FromModel(user)

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cacheGetAllUser)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req dto.GetUsersRequest) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if req.Role != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldRole, Operator: gDto.FilterOperatorEq, Value: req.Role, Table: model.TableName})
	}

	params := req.QueryParams
	params.QualifySort(model.TableName)
	params.WithDefaultSort(sortDefault)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKeyWithQuery(cacheGetAllUser, params, filter), s.cfg.Cache.TTL, func() (dto.GetUsersResponse, error) {
		var res dto.GetUsersResponse

		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count users")

			return res, fmt.Errorf("failed to count users: %w", err)
		}

		users, err := s.repo.GetAll(ctx, params, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get users")

			return res, fmt.Errorf("failed to get users: %w", err)
		}

		res.FromModels(users, total, params.Limit)

		return res, nil
	})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetUser, id), s.cfg.Cache.TTL, func() (dto.UserResponse, error) {
		var res dto.UserResponse

		user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to get user")

			return res, fmt.Errorf("failed to get user: %w", err)
		}

		if user.ID == "" {
			return res, errUserNotFound
		}

		res.FromModel(user)

		return res, nil
	})
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateUserRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateUserRequest{}) {
		return errEmptyUpdate
	}

	admin, _ := shared.Caller(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return errUserNotFound
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, admin), filter); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cachePrefix)

	return nil
}

// Delete removes a user that no longer owns warehouses or holds bookings.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return errUserNotFound
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeFkViolation) {
			return errUserReferenced
		}

		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, cachePrefix)

	return nil
}
