package user

import (
	"net/http"
	"net/url"

	"inap/infras/otel"
	"inap/internal/domains/user/model"
	"inap/internal/domains/user/model/dto"
	"inap/internal/domains/user/service"
	"inap/shared/constant"
	gDto "inap/shared/dto"
	"inap/shared/validator"
	"inap/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(users chi.Router) {
		users.Post("/", handler.Create)
		users.Get("/", handler.List)
		users.Get("/{id}", handler.Get)
		users.Patch("/{id}", handler.Update)
		users.Delete("/{id}", handler.Delete)
	})
}

// Create adds a staff or customer account.
// @Summary Create user
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User"
// @Success 201 {object} response.Data[dto.UserResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Email already registered"
// @Router /v1/users [post]
func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.Create")
	defer scope.End()

	var req dto.CreateUserRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "invalid user payload")

		return
	}

	created, err := handler.service.Create(ctx, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to create user")

		return
	}

	response.WithJSON(w, http.StatusCreated, created)
}

// List pages through users. name matches partially, email and role exactly.
// @Summary List users
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination"
// @Param name query string false "Name contains"
// @Param email query string false "Email"
// @Param role query string false "Role" Enums(admin, customer)
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Failure 500 {object} response.Error
// @Router /v1/users [get]
func (handler *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.List")
	defer scope.End()

	params := gDto.QueryParams{}
	params.FromRequest(r, true)

	users, err := handler.service.GetAll(ctx, params, filters(r.URL.Query()))
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to list users")

		return
	}

	response.WithJSON(w, http.StatusOK, users)
}

func filters(query url.Values) gDto.FilterGroup {
	group := gDto.FilterGroup{}

	add := func(field, operator, value string) {
		if value == constant.Empty {
			return
		}

		group.Filters = append(group.Filters, gDto.Filter{
			Field:    field,
			Operator: operator,
			Value:    value,
			Table:    model.TableName,
		})
	}

	add(model.FieldName, gDto.FilterOperatorLike, query.Get(model.FieldName))
	add(model.FieldEmail, gDto.FilterOperatorEq, dto.NormalizeEmail(query.Get(model.FieldEmail)))
	add(model.FieldRole, gDto.FilterOperatorEq, query.Get(model.FieldRole))

	return group
}

// Get returns one user.
// @Summary Get user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [get]
func (handler *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.Get")
	defer scope.End()

	found, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get user")

		return
	}

	response.WithJSON(w, http.StatusOK, found)
}

// Update applies the fields present in the body.
// @Summary Update user
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Changed fields"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [patch]
func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.Update")
	defer scope.End()

	var req dto.UpdateUserRequest
	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "invalid user payload")

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.WithTracedError(w, scope, err, "failed to update user")

		return
	}

	response.WithMessage(w, http.StatusOK, "user updated")
}

// @Summary Delete user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [delete]
func (handler *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.Delete")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		response.WithTracedError(w, scope, err, "failed to delete user")

		return
	}

	response.WithMessage(w, http.StatusOK, "user deleted")
}
