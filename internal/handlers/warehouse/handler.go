package warehouse

import (
	"net/http"
	"strconv"
	"warehub/infras/otel"
	"warehub/internal/domains/warehouse/model"
	"warehub/internal/domains/warehouse/model/dto"
	"warehub/internal/domains/warehouse/service"
	"warehub/shared/constant"
	"warehub/shared/failure"
	"warehub/shared/validator"
	"warehub/transport/http/middleware"
	"warehub/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	formName             = "name"
	formSize             = "size"
	formPricePerDay      = "price_per_day"
	formDescription      = "description"
	formLocationType     = "location_type"
	formLongitude        = "longitude"
	formLatitude         = "latitude"
	formFormattedAddress = "formatted_address"
	formCity             = "city"
	formState            = "state"
	formCountry          = "country"
)

type Handler struct {
	service service.Warehouse
	gate    middleware.Reconcile
	otel    otel.Otel
}

func New(service service.Warehouse, gate middleware.Reconcile, otel otel.Otel) Handler {
	return Handler{
		service: service,
		gate:    gate,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/warehouses", func(routerGroup chi.Router) {
		routerGroup.With(handler.gate.Gate).Get("/", handler.GetWarehouses)
		routerGroup.Get("/{id}", handler.GetWarehouseByID)
		routerGroup.Post("/", handler.CreateWarehouse)
		routerGroup.Patch("/{id}", handler.UpdateWarehouse)
		routerGroup.Put("/{id}/maintenance", handler.SetMaintenance)
		routerGroup.Delete("/{id}", handler.DeleteWarehouse)
	})
}

// CreateWarehouse lists a new warehouse for the calling owner.
// @Summary Create a warehouse
// @Tags Warehouse
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Warehouse name"
// @Param size formData integer true "Size in square meters"
// @Param price_per_day formData number true "Price per day"
// @Param images formData file false "Warehouse images"
// @Success 201 {object} response.Data[dto.WarehouseResponse]
// @Failure 400 {object} response.Error
// @Router /v1/warehouses [post]
// @Security BearerAuth
func (handler *Handler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateWarehouse")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	req, err := createRequestFromForm(r)
	defer closeImages(req.Images)

	if err == nil {
		err = validator.ValidateStruct(&req)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	warehouse, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create warehouse")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Warehouse created successfully")

	response.WithJSON(w, http.StatusCreated, warehouse)
}

func createRequestFromForm(r *http.Request) (dto.CreateWarehouseRequest, error) {
	req := dto.CreateWarehouseRequest{
		Name:             r.FormValue(formName),
		Description:      r.FormValue(formDescription),
		LocationType:     r.FormValue(formLocationType),
		FormattedAddress: r.FormValue(formFormattedAddress),
		City:             r.FormValue(formCity),
		State:            r.FormValue(formState),
		Country:          r.FormValue(formCountry),
	}

	for _, header := range r.MultipartForm.File[constant.FormImages] {
		file, err := header.Open()
		if err != nil {
			return req, failure.BadRequest(err)
		}

		req.Images = append(req.Images, dto.Image{Header: header, File: file})
	}

	var err error

	if req.Size, err = strconv.Atoi(r.FormValue(formSize)); err != nil {
		return req, failure.BadRequestFromString("size must be a whole number")
	}

	if req.PricePerDay, err = decimal.NewFromString(r.FormValue(formPricePerDay)); err != nil {
		return req, failure.BadRequestFromString("price_per_day must be a number")
	}

	if req.Longitude, err = parseCoordinate(r.FormValue(formLongitude)); err != nil {
		return req, failure.BadRequestFromString("longitude must be a number")
	}

	if req.Latitude, err = parseCoordinate(r.FormValue(formLatitude)); err != nil {
		return req, failure.BadRequestFromString("latitude must be a number")
	}

	return req, nil
}

func parseCoordinate(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}

	return strconv.ParseFloat(value, 64) //nolint:wrapcheck
}

func closeImages(images []dto.Image) {
	for _, image := range images {
		if image.File != nil {
			image.File.Close()
		}
	}
}

// GetWarehouses lists warehouses. Availability is recomputed from the linked bookings.
// @Summary List warehouses
// @Tags Warehouse
// @Produce json
// @Param city query string false "Filter by city"
// @Param availability query string false "Filter by availability"
// @Param owner_id query string false "Filter by owner"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetWarehousesResponse]
// @Router /v1/warehouses [get]
func (handler *Handler) GetWarehouses(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWarehouses")
	defer scope.End()

	query := r.URL.Query()
	req := dto.GetWarehousesRequest{
		City:         query.Get(model.FieldCity),
		Availability: query.Get(model.FieldAvailability),
		OwnerID:      query.Get(model.FieldOwnerID),
	}
	req.QueryParams.FromRequest(r, true)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query")

		response.WithError(w, err)

		return
	}

	warehouses, err := handler.service.GetAll(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get warehouses")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, warehouses)
}

// GetWarehouseByID returns one warehouse.
// @Summary Get a warehouse by ID
// @Tags Warehouse
// @Produce json
// @Param id path string true "Warehouse ID"
// @Success 200 {object} response.Data[dto.WarehouseResponse]
// @Failure 404 {object} response.Error
// @Router /v1/warehouses/{id} [get]
func (handler *Handler) GetWarehouseByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWarehouseByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	warehouse, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get warehouse")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, warehouse)
}

// UpdateWarehouse patches descriptive fields and images.
// @Summary Update a warehouse
// @Tags Warehouse
// @Accept json
// @Produce json
// @Param id path string true "Warehouse ID"
// @Param request body dto.UpdateWarehouseRequest true "Update Warehouse Request"
// @Success 200 {object} response.Data[dto.WarehouseResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/warehouses/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateWarehouse")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdateWarehouseRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	warehouse, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update warehouse")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Warehouse updated successfully")

	response.WithJSON(w, http.StatusOK, warehouse)
}

// SetMaintenance puts a warehouse into or out of maintenance.
// @Summary Toggle maintenance
// @Tags Warehouse
// @Accept json
// @Produce json
// @Param id path string true "Warehouse ID"
// @Param request body dto.MaintenanceRequest true "Maintenance Request"
// @Success 200 {object} response.Data[dto.WarehouseResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/warehouses/{id}/maintenance [put]
// @Security BearerAuth
func (handler *Handler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetMaintenance")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.MaintenanceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	warehouse, err := handler.service.SetMaintenance(ctx, id, *req.Enabled)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to set maintenance")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, warehouse)
}

// DeleteWarehouse removes a warehouse without open bookings.
// @Summary Delete a warehouse
// @Tags Warehouse
// @Produce json
// @Param id path string true "Warehouse ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/warehouses/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteWarehouse")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete warehouse")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Warehouse deleted successfully")

	response.WithMessage(w, http.StatusOK, "Warehouse deleted successfully")
}
