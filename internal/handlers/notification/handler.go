package notification

import (
	"net/http"
	"warehub/infras/otel"
	"warehub/internal/domains/notification/model/dto"
	"warehub/internal/domains/notification/service"
	"warehub/shared"
	"warehub/shared/constant"
	"warehub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryUnread = "unread"

type Handler struct {
	service service.Notification
	otel    otel.Otel
}

func New(service service.Notification, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetNotifications)
		routerGroup.Patch("/read-all", handler.MarkAllRead)
		routerGroup.Patch("/{id}/read", handler.MarkRead)
	})
}

// GetNotifications lists the caller's notifications, newest first.
// @Summary List my notifications
// @Tags Notification
// @Produce json
// @Param unread query boolean false "Only unread notifications"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetNotificationsResponse]
// @Router /v1/notifications [get]
// @Security BearerAuth
func (handler *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNotifications")
	defer scope.End()

	req := dto.GetNotificationsRequest{}
	req.QueryParams.FromRequest(r, true)

	if unread := shared.ConvertStringToBool(r.URL.Query().Get(queryUnread)); unread != nil {
		req.UnreadOnly = *unread
	}

	notifications, err := handler.service.GetMine(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get notifications")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, notifications)
}

// MarkRead marks one notification as read.
// @Summary Mark a notification as read
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/notifications/{id}/read [patch]
// @Security BearerAuth
func (handler *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkRead")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.MarkRead(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to mark notification as read")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Notification marked as read")
}

// MarkAllRead marks every unread notification of the caller as read.
// @Summary Mark all notifications as read
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Data[int64]
// @Router /v1/notifications/read-all [patch]
// @Security BearerAuth
func (handler *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkAllRead")
	defer scope.End()

	updated, err := handler.service.MarkAllRead(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark notifications as read")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("notifications.updated", updated)

	response.WithJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
