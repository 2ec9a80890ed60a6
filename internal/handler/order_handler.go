package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"filmoteca/internal/apperr"
	"filmoteca/internal/middleware"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
	"filmoteca/internal/service"
)

// OrderHandler handles the movie-request endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest represents a new movie request.
type CreateOrderRequest struct {
	MovieName       string `json:"movieName" validate:"required"`
	MovieYear       *int   `json:"movieYear,omitempty" validate:"omitempty,gte=1888"`
	Quality         string `json:"quality" validate:"required,oneof=720p 1080p 4k"`
	AudioPreference string `json:"audioPreference" validate:"required,oneof=latino castellano original"`
	Notes           string `json:"notes,omitempty"`
}

// UpdateStatusRequest sets an order status, any transition allowed.
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending processing completed cancelled"`
	Notes  *string `json:"notes,omitempty"`
}

// Create godoc
// @Summary Submit a movie request
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Request data"
// @Success 201 {object} model.Order
// @Failure 400 {object} apperr.ErrorResponse
// @Failure 401 {object} apperr.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return httpError(apperr.ErrInvalidSession)
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.Create(c.Request().Context(), user.ID, service.OrderInput{
		MovieName:       req.MovieName,
		MovieYear:       req.MovieYear,
		Quality:         model.Quality(req.Quality),
		AudioPreference: model.AudioPreference(req.AudioPreference),
		Notes:           req.Notes,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMine godoc
// @Summary List the caller's own requests, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Router /orders/mine [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return httpError(apperr.ErrInvalidSession)
	}
	orders, err := h.orderService.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// List godoc
// @Summary List all requests with optional filters
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, processing, completed, cancelled)
// @Param userId query string false "Filter by owning user"
// @Param search query string false "Substring match on movie name"
// @Success 200 {array} model.OrderWithUser
// @Router /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	filter := repository.OrderFilter{
		Status: model.OrderStatus(c.QueryParam("status")),
		Search: c.QueryParam("search"),
	}
	if v := c.QueryParam("userId"); v != "" {
		userID, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
		}
		filter.UserID = userID
	}

	orders, err := h.orderService.List(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Get godoc
// @Summary Get a request by ID
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} model.OrderWithUser
// @Failure 404 {object} apperr.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	order, err := h.orderService.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Set a request's status (admin override, any transition)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} apperr.ErrorResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.orderService.UpdateStatus(c.Request().Context(), id, model.OrderStatus(req.Status), req.Notes); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Advance godoc
// @Summary Advance a request one step along the guarded path
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperr.ErrorResponse
// @Router /orders/{id}/advance [post]
func (h *OrderHandler) Advance(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	status, err := h.orderService.QuickAdvance(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "status": status})
}

// Delete godoc
// @Summary Delete a request
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} apperr.ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if err := h.orderService.Remove(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
