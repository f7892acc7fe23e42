package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"authservice/internal/errors"
	"authservice/internal/model"
	"authservice/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// AddressRequest is the optional postal address of a user payload.
type AddressRequest struct {
	City  string `json:"city" validate:"required,notblank"`
	State string `json:"state" validate:"required,notblank"`
}

// CreateUserRequest represents a direct user creation request.
type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,notblank"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password,omitempty" validate:"omitempty,min=6"`
	Age      *int            `json:"age,omitempty" validate:"omitnil,min=18,max=100"`
	Address  *AddressRequest `json:"address,omitempty"`
}

// UpdateUserRequest represents a partial user update. Absent fields are kept.
type UpdateUserRequest struct {
	Name    *string         `json:"name,omitempty" validate:"omitnil,notblank"`
	Age     *int            `json:"age,omitempty" validate:"omitnil,min=18,max=100"`
	Address *AddressRequest `json:"address,omitempty"`
}

func (r *AddressRequest) toModel() *model.Address {
	if r == nil {
		return nil
	}
	return &model.Address{City: strings.TrimSpace(r.City), State: strings.TrimSpace(r.State)}
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
// @Router /usuarios [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Address:  req.Address.toModel(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
// @Router /usuarios/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Description Five users per page, optionally filtered by a case-insensitive name substring.
// @Tags users
// @Produce json
// @Param filter query string false "Name substring"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /users [get]
// @Router /usuarios [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, err := parsePage(c.QueryParam("page"))
	if err != nil {
		return err
	}
	users, err := h.svc.FindAll(c.Request().Context(), c.QueryParam("filter"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUser godoc
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
// @Router /users/{id} [patch]
// @Router /usuarios/{id} [put]
// @Router /usuarios/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.svc.Update(c.Request().Context(), id, service.UpdateUserInput{
		Name:    req.Name,
		Age:     req.Age,
		Address: req.Address.toModel(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteUser godoc
// @Summary Delete user
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
// @Router /usuarios/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewHTTPError(http.StatusBadRequest, "invalid user id", "INVALID_ID")
	}
	return uint(id), nil
}

// parsePage treats an absent page as 1 and rejects anything but a positive
// integer whose offset fits in an int.
func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > math.MaxInt/service.PageSize {
		return 0, errors.ErrInvalidPage
	}
	return page, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_BODY")
	}
	return c.Validate(req)
}
