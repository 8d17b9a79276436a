package controllers

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/app/repositories"
	"github.com/shashiranjanraj/camtools/app/services"
	"github.com/shashiranjanraj/camtools/pkg/bind"
	"github.com/shashiranjanraj/camtools/pkg/logger"
	"github.com/shashiranjanraj/camtools/pkg/policy"
	"github.com/shashiranjanraj/camtools/pkg/response"
)

type OrderController struct {
	orders *services.OrderService
	tools  *services.ToolService
}

func NewOrderController(orders *services.OrderService, tools *services.ToolService) *OrderController {
	return &OrderController{orders: orders, tools: tools}
}

// Create handles POST /order (authenticated).
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := policy.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var input models.OrderInput
	errs, err := bind.JSON(r, &input)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	toolID, err := primitive.ObjectIDFromHex(input.ToolID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	order, err := c.orders.Place(r.Context(), identity, toolID, input)
	switch {
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
		return
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, "tool not found")
		return
	case errors.Is(err, repositories.ErrInsufficientStock):
		response.Error(w, http.StatusConflict, "insufficient stock")
		return
	case errors.Is(err, services.ErrPartialWrite):
		logger.WithCtx(r.Context()).Error("order placement partial write", "error", err)
		response.BadGateway(w, "order could not be recorded")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("place order", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not place order")
		return
	}

	// Stock changed, drop the cached catalog listing.
	c.tools.Invalidate(r.Context())
	response.Created(w, order)
}

// ListMine handles GET /order?email=X (authenticated).
func (c *OrderController) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := policy.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	email := r.URL.Query().Get("email")
	orders, err := c.orders.ListForUser(r.Context(), identity, email)
	if errors.Is(err, services.ErrForbidden) {
		response.Forbidden(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("list orders", "email", email, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	response.Success(w, orders)
}

// ListAll handles GET /order/admin (admin).
func (c *OrderController) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.ListAll(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list all orders", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	response.Success(w, orders)
}

// Get handles GET /order/{id} (authenticated).
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	order, err := c.orders.Get(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "order not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("get order", "id", id.Hex(), "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load order")
		return
	}
	response.Success(w, order)
}

// Delete handles DELETE /order/{id} (authenticated, owner or admin).
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := policy.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	id, ok := objectID(w, r)
	if !ok {
		return
	}

	count, err := c.orders.Delete(r.Context(), identity, id)
	if errors.Is(err, services.ErrForbidden) {
		response.Forbidden(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("delete order", "id", id.Hex(), "error", err)
		response.Error(w, http.StatusInternalServerError, "could not delete order")
		return
	}
	response.Success(w, map[string]interface{}{"deletedCount": count})
}

// MarkShipped handles PATCH /order/admin/{id} (admin).
func (c *OrderController) MarkShipped(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	err := c.orders.MarkShipped(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w, "order not found")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("mark shipped", "id", id.Hex(), "error", err)
		response.Error(w, http.StatusInternalServerError, "could not update order")
		return
	}
	response.Success(w, map[string]interface{}{"shipped": true})
}

// ConfirmPayment handles PATCH /order/{id} (authenticated). The full body
// is recorded as the receipt; transactionId is required.
func (c *OrderController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	payload, err := bind.Document(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transactionID, _ := payload["transactionId"].(string)
	if transactionID == "" {
		response.ValidationError(w, map[string]string{"transactionId": "transactionId is required"})
		return
	}

	order, err := c.orders.ConfirmPayment(r.Context(), id, transactionID, payload)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w, "order not found")
		return
	case errors.Is(err, services.ErrPartialWrite):
		logger.WithCtx(r.Context()).Error("payment confirmation partial write", "id", id.Hex(), "error", err)
		response.BadGateway(w, "payment recorded incompletely, retry")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("confirm payment", "id", id.Hex(), "error", err)
		response.Error(w, http.StatusInternalServerError, "could not confirm payment")
		return
	}
	response.Success(w, order)
}
