package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/happytweet/feedback-api/internal/middleware"
	"github.com/happytweet/feedback-api/internal/service"
)

// AdminHandler handles the admin-only endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// UpdateRoleRequest represents a role assignment.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// UpdateUserStatusRequest represents an active-flag change.
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// NoteRequest represents a developer note body.
type NoteRequest struct {
	Note string `json:"note" validate:"required"`
}

// ListUsers godoc
// @Summary List users with optional search
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring search over username/email/full name"
// @Param page query int false "1-indexed page"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	result, err := h.adminService.ListUsers(c.Request().Context(),
		c.QueryParam("search"), queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Users fetched successfully", result)
}

// UpdateUserRole godoc
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateRoleRequest true "New role"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.adminService.UpdateUserRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User role updated successfully", user)
}

// UpdateUserStatus godoc
// @Summary Activate or deactivate a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateUserStatusRequest true "Active flag"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /admin/users/{id}/status [put]
func (h *AdminHandler) UpdateUserStatus(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req UpdateUserStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.adminService.UpdateUserStatus(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User status updated successfully", user)
}

// DeleteUser godoc
// @Summary Delete a user and their suggestions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), middleware.UserID(c), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// ListSuggestions godoc
// @Summary List all suggestions for moderation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param page query int false "1-indexed page"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope
// @Router /admin/suggestions [get]
func (h *AdminHandler) ListSuggestions(c echo.Context) error {
	opts := service.ListOptions{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
	}

	result, err := h.adminService.ListSuggestions(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Suggestions fetched successfully", result)
}

// UpdateSuggestionStatus godoc
// @Summary Moderate a suggestion's status (accepts "rejected")
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Suggestion ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /admin/suggestions/{id} [put]
func (h *AdminHandler) UpdateSuggestionStatus(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	suggestion, err := h.adminService.UpdateSuggestionStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Suggestion status updated successfully", suggestion)
}

// DeleteSuggestion godoc
// @Summary Delete any suggestion
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Suggestion ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /admin/suggestions/{id} [delete]
func (h *AdminHandler) DeleteSuggestion(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteSuggestion(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Suggestion deleted successfully", nil)
}

// Stats godoc
// @Summary Dashboard headline counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminService.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin statistics fetched successfully", stats)
}

// AddNote godoc
// @Summary Attach a developer note to a suggestion
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param suggestionId path int true "Suggestion ID"
// @Param request body NoteRequest true "Note text"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /admin/notes/{suggestionId} [post]
func (h *AdminHandler) AddNote(c echo.Context) error {
	suggestionID, err := paramUint(c, "suggestionId")
	if err != nil {
		return err
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	note, err := h.adminService.AddNote(c.Request().Context(), suggestionID, middleware.UserID(c), req.Note)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Developer note added successfully", note)
}

// GetNotes godoc
// @Summary List developer notes on a suggestion
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param suggestionId path int true "Suggestion ID"
// @Success 200 {object} Envelope
// @Router /admin/notes/{suggestionId} [get]
func (h *AdminHandler) GetNotes(c echo.Context) error {
	suggestionID, err := paramUint(c, "suggestionId")
	if err != nil {
		return err
	}

	notes, err := h.adminService.GetNotes(c.Request().Context(), suggestionID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Developer notes fetched successfully", notes)
}

// UpdateNote godoc
// @Summary Edit a developer note
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param noteId path int true "Note ID"
// @Param request body NoteRequest true "Note text"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /admin/notes/{noteId} [put]
func (h *AdminHandler) UpdateNote(c echo.Context) error {
	noteID, err := paramUint(c, "noteId")
	if err != nil {
		return err
	}

	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	note, err := h.adminService.UpdateNote(c.Request().Context(), noteID, middleware.UserID(c), middleware.Role(c), req.Note)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Developer note updated successfully", note)
}

// DeleteNote godoc
// @Summary Delete a developer note
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param noteId path int true "Note ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /admin/notes/{noteId} [delete]
func (h *AdminHandler) DeleteNote(c echo.Context) error {
	noteID, err := paramUint(c, "noteId")
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteNote(c.Request().Context(), noteID, middleware.UserID(c), middleware.Role(c)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Developer note deleted successfully", nil)
}

// Analytics godoc
// @Summary Full analytics payload
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /admin/analytics [get]
func (h *AdminHandler) Analytics(c echo.Context) error {
	analytics, err := h.adminService.Analytics(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Analytics fetched successfully", analytics)
}

// ExportCSV godoc
// @Summary Export all suggestions as CSV
// @Tags admin
// @Produce plain
// @Security BearerAuth
// @Success 200 {string} string "CSV payload"
// @Router /admin/export/csv [get]
func (h *AdminHandler) ExportCSV(c echo.Context) error {
	data, err := h.adminService.ExportCSV(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="suggestions_export.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
