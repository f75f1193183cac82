package masterdata

import (
	"encoding/json"
	"net/http"

	"inap/infras/otel"
	"inap/internal/domains/masterdata/model/dto"
	"inap/internal/domains/masterdata/service"
	"inap/shared/constant"
	"inap/shared/failure"
	"inap/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const paramSearch = "q"

// Handler serves the CRUD routes of one master data kind.
type Handler struct {
	service service.MasterData
	otel    otel.Otel
}

// Handlers groups the room type, amenity and feature handlers.
type Handlers []Handler

func New(service service.MasterData, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handlers Handlers) Router(router chi.Router) {
	for idx := range handlers {
		handlers[idx].Router(router)
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route(handler.service.Kind().Route, func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetAll)
		routerGroup.Post("/", handler.Create)
		routerGroup.Get("/{id}", handler.Get)
		routerGroup.Put("/{id}", handler.Update)
		routerGroup.Delete("/{id}", handler.Delete)
	})
}

func (handler *Handler) scopeName(op string) string {
	return constant.OtelHandlerScopeName + "." + handler.service.Kind().Key + "." + op
}

func decode(r *http.Request) (dto.Request, error) {
	var req dto.Request

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, failure.BadRequestFromString("failed to decode request body: " + err.Error())
	}

	return req, nil
}

// GetAll lists the rows of a master data table ordered by identifier.
// @Summary List room types, amenities or features
// @Tags MasterData
// @Produce json
// @Param q query string false "Search by label"
// @Success 200 {object} response.Data[[]dto.Response]
// @Failure 500 {object} response.Error
// @Router /v1/room-types [get]
// @Router /v1/amenities [get]
// @Router /v1/features [get]
func (handler *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, handler.scopeName("GetAll"))
	defer scope.End()

	items, err := handler.service.GetAll(ctx, r.URL.Query().Get(paramSearch))
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to list master data")

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}

// Get returns one master data row.
// @Summary Get a room type, amenity or feature
// @Tags MasterData
// @Produce json
// @Param id path string true "Identifier, e.g. Tp-1"
// @Success 200 {object} response.Data[dto.Response]
// @Failure 404 {object} response.Error
// @Router /v1/room-types/{id} [get]
// @Router /v1/amenities/{id} [get]
// @Router /v1/features/{id} [get]
func (handler *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, handler.scopeName("Get"))
	defer scope.End()

	item, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, item)
}

// Create inserts a row under the next free identifier.
// @Summary Create a room type, amenity or feature
// @Tags MasterData
// @Accept json
// @Produce json
// @Param request body dto.Request true "Label (type for room types, name otherwise)"
// @Success 201 {object} response.Data[dto.Response]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/room-types [post]
// @Router /v1/amenities [post]
// @Router /v1/features [post]
func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, handler.scopeName("Create"))
	defer scope.End()

	req, err := decode(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	item, err := handler.service.Create(ctx, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to create master data")

		return
	}

	response.WithJSON(w, http.StatusCreated, item)
}

// Update renames a row.
// @Summary Update a room type, amenity or feature
// @Tags MasterData
// @Accept json
// @Produce json
// @Param id path string true "Identifier"
// @Param request body dto.Request true "Label"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/room-types/{id} [put]
// @Router /v1/amenities/{id} [put]
// @Router /v1/features/{id} [put]
func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, handler.scopeName("Update"))
	defer scope.End()

	req, err := decode(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.WithTracedError(w, scope, err, "failed to update master data")

		return
	}

	response.WithMessage(w, http.StatusOK, handler.service.Kind().Name+" updated successfully")
}

// Delete removes a row that no room references.
// @Summary Delete a room type, amenity or feature
// @Tags MasterData
// @Produce json
// @Param id path string true "Identifier"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/room-types/{id} [delete]
// @Router /v1/amenities/{id} [delete]
// @Router /v1/features/{id} [delete]
func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, handler.scopeName("Delete"))
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.WithTracedError(w, scope, err, "failed to delete master data")

		return
	}

	response.WithMessage(w, http.StatusOK, handler.service.Kind().Name+" deleted successfully")
}
