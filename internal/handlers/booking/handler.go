package booking

import (
	"context"
	"net/http"
	"warehub/infras/otel"
	"warehub/internal/domains/booking/model"
	"warehub/internal/domains/booking/model/dto"
	"warehub/internal/domains/booking/service"
	"warehub/shared/constant"
	"warehub/shared/validator"
	"warehub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Post("/getall", handler.GetUserBookings)
		routerGroup.Get("/mybookings", handler.GetMyBookings)
		routerGroup.Get("/owner", handler.GetOwnerBookings)
		routerGroup.Get("/{id}", handler.GetBookingDetails)
		routerGroup.Put("/{id}/confirm", handler.ConfirmBooking)
		routerGroup.Delete("/{id}", handler.CancelBooking)
	})
}

// CreateBooking books a warehouse for the caller.
// @Summary Create a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("warehouse_id", req.WarehouseID).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created successfully")

	response.WithJSON(w, http.StatusCreated, booking)
}

// GetUserBookings lists the caller's bookings. The optional body carries the status filter.
// @Summary List my bookings
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.GetBookingsRequest false "Filter"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Router /v1/bookings/getall [post]
// @Security BearerAuth
func (handler *Handler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserBookings")
	defer scope.End()

	req := dto.GetBookingsRequest{}

	var err error
	if r.ContentLength > 0 {
		err = validator.Validate(r.Body, &req)
	} else {
		err = validator.ValidateStruct(&req)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	req.QueryParams.FromRequest(r, true)

	handler.listUserBookings(ctx, w, scope, req)
}

// GetMyBookings is the query string variant of GetUserBookings.
// @Summary List my bookings
// @Tags Booking
// @Produce json
// @Param status query string false "Filter by status"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Router /v1/bookings/mybookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	req, ok := handler.listRequest(w, r, "GetMyBookings")
	if !ok {
		return
	}

	handler.listUserBookings(ctx, w, scope, req)
}

func (handler *Handler) listUserBookings(ctx context.Context, w http.ResponseWriter, scope otel.Scope, req dto.GetBookingsRequest) {
	bookings, err := handler.service.GetUserBookings(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetOwnerBookings lists bookings placed on the caller's warehouses.
// @Summary List bookings on my warehouses
// @Tags Booking
// @Produce json
// @Param status query string false "Filter by status"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Router /v1/bookings/owner [get]
// @Security BearerAuth
func (handler *Handler) GetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	req, ok := handler.listRequest(w, r, "GetOwnerBookings")
	if !ok {
		return
	}

	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnerBookings")
	defer scope.End()

	bookings, err := handler.service.GetOwnerBookings(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get owner bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

func (handler *Handler) listRequest(w http.ResponseWriter, r *http.Request, name string) (dto.GetBookingsRequest, bool) {
	req := dto.GetBookingsRequest{Status: r.URL.Query().Get(model.FieldStatus)}
	req.QueryParams.FromRequest(r, true)

	if err := validator.ValidateStruct(&req); err != nil {
		log.Error().Err(err).Str("handler", name).Msg("failed to validate query")

		response.WithError(w, err)

		return req, false
	}

	return req, true
}

// GetBookingDetails returns a booking with its warehouse and owner.
// @Summary Get booking details
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingDetailResponse]
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingDetails(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingDetails")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.GetDetails(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get booking details")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// ConfirmBooking moves a pending booking to active.
// @Summary Confirm a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingDetailResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/confirm [put]
// @Security BearerAuth
func (handler *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Confirm(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to confirm booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking confirmed successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// CancelBooking cancels and removes a booking.
// @Summary Cancel a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking cancelled successfully")

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}
