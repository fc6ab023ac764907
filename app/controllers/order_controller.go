package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/app/services"
	"github.com/threadline/threadline/pkg/auth"
	"github.com/threadline/threadline/pkg/response"
	"github.com/threadline/threadline/pkg/validation"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type createOrderRequest struct {
	Items           []models.OrderItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.Address     `json:"shippingAddress" validate:"required"`
	TotalAmount     float64            `json:"totalAmount" validate:"required,gt=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requesterObjectID(w, r)
	if !ok {
		return
	}

	var body createOrderRequest
	if !validation.Bind(w, r, &body) {
		return
	}

	order, err := c.orders.Place(r.Context(), userID, body.Items, body.ShippingAddress, body.TotalAmount)
	if err != nil {
		var stockErr *services.InsufficientStockError
		switch {
		case errors.As(err, &stockErr), errors.Is(err, services.ErrEmptyOrder):
			response.Error(w, http.StatusBadRequest, err.Error())
		default:
			response.ServerError(w, err)
		}
		return
	}

	response.Created(w, map[string]interface{}{
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (c *OrderController) ListByUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	orders, err := c.orders.ListByUser(r.Context(), requester, targetID)
	if err != nil {
		if errors.Is(err, services.ErrAccessDenied) {
			response.Forbidden(w)
			return
		}
		response.ServerError(w, err)
		return
	}

	response.OK(w, orders)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "Order not found")
		return
	}

	order, err := c.orders.GetByID(r.Context(), requester, orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, services.ErrAccessDenied):
			response.Forbidden(w)
		default:
			response.ServerError(w, err)
		}
		return
	}

	response.OK(w, order)
}

func (c *OrderController) ListAll(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orders, err := c.orders.ListAll(r.Context(), requester)
	if err != nil {
		if errors.Is(err, services.ErrAccessDenied) {
			response.Forbidden(w)
			return
		}
		response.ServerError(w, err)
		return
	}

	response.OK(w, orders)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "Order not found")
		return
	}

	var body updateStatusRequest
	if !validation.Bind(w, r, &body) {
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), requester, orderID, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, services.ErrAccessDenied):
			response.Forbidden(w)
		default:
			response.ServerError(w, err)
		}
		return
	}

	response.OK(w, map[string]interface{}{
		"message": "Order status updated successfully",
		"order":   order,
	})
}
