package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadline/threadline/app/models"
)

func historyServer(t *testing.T, orders []models.Order) *Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(orders)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestFetchOrders(t *testing.T) {
	orders := []models.Order{
		{OrderID: models.NewOrderID(), Status: models.StatusShipped},
		{OrderID: models.NewOrderID(), Status: models.StatusProcessing},
	}
	h := NewOrderHistory(historyServer(t, orders))

	require.NoError(t, h.Fetch(context.Background(), "66f0c1d2e3a4b5c6d7e8f901"))
	assert.False(t, h.Loading())
	assert.False(t, h.Empty())
	assert.Len(t, h.Orders(), 2)
}

func TestFetchEmptyHistory(t *testing.T) {
	h := NewOrderHistory(historyServer(t, []models.Order{}))

	require.NoError(t, h.Fetch(context.Background(), "66f0c1d2e3a4b5c6d7e8f901"))
	assert.True(t, h.Empty())
}

func TestEmptyBeforeFetchIsFalse(t *testing.T) {
	h := NewOrderHistory(historyServer(t, nil))
	assert.False(t, h.Empty())
}

func TestLinePrice(t *testing.T) {
	assert.InDelta(t, 72.00, LinePrice(models.OrderItem{Quantity: 3, Price: 24.00}), 1e-9)
}

func TestStatusBadgeClass(t *testing.T) {
	assert.Equal(t, "status-processing", StatusBadgeClass(models.StatusProcessing))
	assert.Equal(t, "status-shipped", StatusBadgeClass(models.StatusShipped))
	assert.Equal(t, "status-delivered", StatusBadgeClass(models.StatusDelivered))
	assert.Equal(t, "status-cancelled", StatusBadgeClass(models.StatusCancelled))
	assert.Equal(t, "status-unknown", StatusBadgeClass("backordered"))
}
