package client

import (
	"context"

	"github.com/threadline/threadline/app/models"
)

// OrderHistory is the view model behind the order history page: loading,
// empty, and list states over a user's past orders.
type OrderHistory struct {
	api     *Client
	loading bool
	loaded  bool
	orders  []models.Order
}

func NewOrderHistory(api *Client) *OrderHistory {
	return &OrderHistory{api: api}
}

// Fetch loads the user's orders. The server returns them newest first.
func (h *OrderHistory) Fetch(ctx context.Context, userID string) error {
	h.loading = true
	defer func() { h.loading = false }()

	orders, err := h.api.OrdersByUser(ctx, userID)
	if err != nil {
		return err
	}

	h.orders = orders
	h.loaded = true
	return nil
}

// Loading reports whether a fetch is in progress.
func (h *OrderHistory) Loading() bool { return h.loading }

// Empty reports whether the history loaded and came back with no orders.
func (h *OrderHistory) Empty() bool { return h.loaded && len(h.orders) == 0 }

// Orders returns the loaded orders.
func (h *OrderHistory) Orders() []models.Order { return h.orders }

// LinePrice is the extended price for one order line.
func LinePrice(item models.OrderItem) float64 {
	return float64(item.Quantity) * item.Price
}

// StatusBadgeClass maps an order status to its display badge class.
func StatusBadgeClass(status string) string {
	switch status {
	case models.StatusProcessing, models.StatusShipped, models.StatusDelivered, models.StatusCancelled:
		return "status-" + status
	default:
		return "status-unknown"
	}
}
