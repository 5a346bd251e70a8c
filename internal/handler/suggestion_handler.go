package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/happytweet/feedback-api/internal/middleware"
	"github.com/happytweet/feedback-api/internal/service"
	"github.com/happytweet/feedback-api/internal/upload"
)

// SuggestionHandler handles suggestion endpoints.
type SuggestionHandler struct {
	suggestionService service.SuggestionService
	uploads           *upload.Saver
}

// NewSuggestionHandler creates a new suggestion handler.
func NewSuggestionHandler(suggestionService service.SuggestionService, uploads *upload.Saver) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionService: suggestionService,
		uploads:           uploads,
	}
}

// SuggestionRequest represents create/update form fields. Bound from JSON
// or multipart form data; an "image" file part, when present, replaces the
// stored image reference.
type SuggestionRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
	Priority    string `json:"priority" form:"priority"`
}

// UpdateStatusRequest represents a status transition request.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *SuggestionHandler) imageURL(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// no file part supplied
		return "", nil
	}
	return h.uploads.Save(file)
}

// Create godoc
// @Summary File a new suggestion
// @Tags suggestions
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param category formData string true "Category"
// @Param priority formData string false "Priority"
// @Param image formData file false "Image attachment"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Router /suggestions [post]
func (h *SuggestionHandler) Create(c echo.Context) error {
	var req SuggestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	imageURL, err := h.imageURL(c)
	if err != nil {
		return err
	}

	suggestion, err := h.suggestionService.Create(c.Request().Context(), middleware.UserID(c), service.CreateSuggestionInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		ImageURL:    imageURL,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Suggestion created successfully", suggestion)
}

// List godoc
// @Summary List suggestions visible to the requester
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param priority query string false "Priority filter"
// @Param search query string false "Substring search over title/description"
// @Param page query int false "1-indexed page"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope
// @Router /suggestions [get]
func (h *SuggestionHandler) List(c echo.Context) error {
	opts := service.ListOptions{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Priority: c.QueryParam("priority"),
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
	}

	result, err := h.suggestionService.List(c.Request().Context(), middleware.UserID(c), middleware.Role(c), opts)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Suggestions fetched successfully", result)
}

// GetByID godoc
// @Summary Fetch one suggestion with attachments and notes
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Suggestion ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /suggestions/{id} [get]
func (h *SuggestionHandler) GetByID(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.suggestionService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Suggestion fetched successfully", detail)
}

// Update godoc
// @Summary Update a suggestion (owner or admin)
// @Tags suggestions
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Suggestion ID"
// @Success 200 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /suggestions/{id} [put]
func (h *SuggestionHandler) Update(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	var req SuggestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	imageURL, err := h.imageURL(c)
	if err != nil {
		return err
	}

	suggestion, err := h.suggestionService.Update(c.Request().Context(), id, middleware.UserID(c), middleware.Role(c), service.UpdateSuggestionInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		ImageURL:    imageURL,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Suggestion updated successfully", suggestion)
}

// Delete godoc
// @Summary Delete a suggestion (owner or admin)
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Suggestion ID"
// @Success 200 {object} Envelope
// @Failure 403 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /suggestions/{id} [delete]
func (h *SuggestionHandler) Delete(c echo.Context) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	if err := h.suggestionService.Delete(c.Request().Context(), id, middleware.UserID(c), middleware.Role(c)); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Suggestion deleted successfully", nil)
}

// UpdateStatus godoc
// @Summary Change a suggestion's status (admin only)
// @Tags suggestions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Suggestion ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 403 {object} Envelope
// @Router /suggestions/{id}/status [put]
func (h *SuggestionHandler) UpdateStatus(c echo.Context) error {
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

	suggestion, err := h.suggestionService.UpdateStatus(c.Request().Context(), id, middleware.UserID(c), middleware.Role(c), req.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Status updated successfully", suggestion)
}

// Stats godoc
// @Summary Aggregate the requester's own suggestions
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Router /suggestions/stats [get]
func (h *SuggestionHandler) Stats(c echo.Context) error {
	stats, err := h.suggestionService.Stats(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Statistics fetched successfully", stats)
}

// PublicList godoc
// @Summary List suggestions without authentication
// @Tags public
// @Produce json
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param page query int false "1-indexed page"
// @Param limit query int false "Page size"
// @Success 200 {object} Envelope
// @Router /suggestions/public [get]
func (h *SuggestionHandler) PublicList(c echo.Context) error {
	opts := service.ListOptions{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 6),
	}

	result, err := h.suggestionService.PublicList(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Public suggestions fetched successfully", result)
}

// PublicStats godoc
// @Summary Landing-page counters
// @Tags public
// @Produce json
// @Success 200 {object} Envelope
// @Router /suggestions/public/stats [get]
func (h *SuggestionHandler) PublicStats(c echo.Context) error {
	stats, err := h.suggestionService.PublicStats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Public statistics fetched successfully", stats)
}
