package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Notification=MockNotificationService

import (
	"context"
	"fmt"
	"warehub/infras/otel"
	"warehub/internal/domains/notification/model"
	"warehub/internal/domains/notification/model/dto"
	"warehub/internal/domains/notification/repository"
	"warehub/shared"
	"warehub/shared/constant"
	gDto "warehub/shared/dto"
	"warehub/shared/failure"
	gModel "warehub/shared/model"
	"warehub/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const sortDefault = model.TableName + "." + model.FieldCreatedAt

var (
	errNotificationNotFound = failure.NotFound("notification not found")
	errUnknownEvent         = failure.BadRequestFromString("unknown booking event type")
)

type Notification interface {
	HandleEvent(ctx context.Context, event model.BookingEvent) error
	GetMine(ctx context.Context, req dto.GetNotificationsRequest) (dto.GetNotificationsResponse, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo repository.Notification
	otel otel.Otel
}

func New(repo repository.Notification, otel otel.Otel) Notification {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// HandleEvent stores one notification for the renter and one for the owner.
// A redelivered event is recognised by its booking and type and ignored.
func (s *serviceImpl) HandleEvent(ctx context.Context, event model.BookingEvent) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.HandleEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !event.Type.IsValid() || event.BookingID == "" {
		return errUnknownEvent
	}

	seen, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: event.BookingID, Table: model.TableName},
			gDto.Filter{Field: model.FieldType, Operator: gDto.FilterOperatorEq, Value: event.Type, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("booking", event.BookingID).Msg("failed to check delivered notifications")

		return fmt.Errorf("failed to check delivered notifications: %w", err)
	}

	if seen {
		log.Debug().Str("booking", event.BookingID).Str("type", string(event.Type)).Msg("booking event already delivered")

		return nil
	}

	renterTitle, renterBody, ownerTitle, ownerBody := event.Message()

	notifications := make([]model.Notification, 0, 2)

	if event.RenterID != "" {
		notifications = append(notifications, newNotification(event, event.RenterID, renterTitle, renterBody))
	}

	if event.OwnerID != "" && event.OwnerID != event.RenterID {
		notifications = append(notifications, newNotification(event, event.OwnerID, ownerTitle, ownerBody))
	}

	if len(notifications) == 0 {
		return nil
	}

	if err = s.repo.InsertBulk(ctx, notifications); err != nil {
		log.Error().Err(err).Str("booking", event.BookingID).Msg("failed to store notifications")

		return fmt.Errorf("failed to store notifications: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetMine(ctx context.Context, req dto.GetNotificationsRequest) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Caller(ctx)

	params := req.QueryParams
	params.QualifySort(model.TableName)
	params.WithDefaultSort(sortDefault)

	filter := ownedBy(user)
	if req.UnreadOnly {
		filter.Filters = append(filter.Filters, unread())
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	unreadCount := total
	if !req.UnreadOnly {
		unreadFilter := ownedBy(user)
		unreadFilter.Filters = append(unreadFilter.Filters, unread())

		if unreadCount, err = s.repo.Count(ctx, unreadFilter); err != nil {
			log.Error().Err(err).Msg("failed to count unread notifications")

			return res, fmt.Errorf("failed to count unread notifications: %w", err)
		}
	}

	notifications, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(notifications, total, unreadCount, params.Limit)

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Caller(ctx)

	filter := ownedBy(user)
	filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id, Table: model.TableName})

	notification, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldRead)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get notification")

		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.ID == "" {
		return errNotificationNotFound
	}

	if notification.Read {
		return nil
	}

	if err = s.repo.Update(ctx, readFields(user), filter); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to mark notification read")

		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context) (affected int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkAllRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := shared.Caller(ctx)

	filter := ownedBy(user)
	filter.Filters = append(filter.Filters, unread())

	affected, err = s.repo.UpdateCount(ctx, readFields(user), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to mark notifications read")

		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return affected, nil
}

func newNotification(event model.BookingEvent, userID, title, body string) model.Notification {
	now := timezone.Now()

	return model.Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        event.Type,
		Title:       title,
		Body:        body,
		BookingID:   event.BookingID,
		WarehouseID: event.WarehouseID,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  constant.ContextSystem,
			ModifiedBy: constant.ContextSystem,
		},
	}
}

func ownedBy(user string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: user, Table: model.TableName},
		},
	}
}

func unread() gDto.Filter {
	return gDto.Filter{ArgName: model.ArgCurrentRead, Field: model.FieldRead, Operator: gDto.FilterOperatorEq, Value: false, Table: model.TableName}
}

func readFields(user string) map[string]any {
	return map[string]any{
		model.FieldRead:          true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
}
