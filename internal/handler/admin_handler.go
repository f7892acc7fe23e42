package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"authservice/internal/model"
	"authservice/internal/service"
)

// AdminHandler serves the ADMIN-only routes.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// UserListResponse wraps the admin user listing.
type UserListResponse struct {
	Message string           `json:"message"`
	Users   []model.SafeUser `json:"users"`
}

// Dashboard godoc
// @Summary Admin landing
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	return profile(c, "welcome, admin")
}

// ListUsers godoc
// @Summary List every user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UserListResponse{
		Message: "user list (admins only)",
		Users:   users,
	})
}
