package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadline/threadline/app/models"
)

type apiStub struct {
	requests []string
	user     models.User
	orderErr int
}

func newAPIStub(t *testing.T, user models.User) (*apiStub, *Client) {
	stub := &apiStub{user: user}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.requests = append(stub.requests, r.Method+" "+r.URL.Path)

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/auth/profile":
			json.NewEncoder(w).Encode(stub.user)

		case r.Method == http.MethodPut && r.URL.Path == "/api/auth/profile":
			var body struct {
				Addresses []models.Address `json:"addresses"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			stub.user.Addresses = body.Addresses
			json.NewEncoder(w).Encode(stub.user)

		case r.Method == http.MethodPost && r.URL.Path == "/api/orders":
			if stub.orderErr != 0 {
				w.WriteHeader(stub.orderErr)
				json.NewEncoder(w).Encode(map[string]string{"message": "Insufficient stock for Classic Crew Tee (M, White)"})
				return
			}
			var body CreateOrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message": "Order placed successfully",
				"order": models.Order{
					OrderID:         models.NewOrderID(),
					Items:           body.Items,
					ShippingAddress: body.ShippingAddress,
					TotalAmount:     body.TotalAmount,
					Status:          models.StatusProcessing,
					PaymentStatus:   models.PaymentPaid,
				},
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	api := New(srv.URL)
	api.SetToken("test-token")
	return stub, api
}

func cartItems() []models.OrderItem {
	return []models.OrderItem{
		{ProductID: primitive.NewObjectID(), Name: "Classic Crew Tee", Size: "M", Color: "White", Quantity: 2, Price: 20.00},
		{ProductID: primitive.NewObjectID(), Name: "Everyday Beanie", Size: "OS", Color: "Black", Quantity: 1, Price: 10.00},
	}
}

func twoAddresses() []models.Address {
	return []models.Address{
		{AddressLine1: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701", Country: "USA"},
		{AddressLine1: "9 Elm St", City: "Dallas", State: "TX", ZipCode: "75201", Country: "USA", IsDefault: true},
	}
}

func TestBeginEmptyCartSkipsNetwork(t *testing.T) {
	stub, api := newAPIStub(t, models.User{})
	flow := NewCheckout(api, nil)

	err := flow.Begin(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, stub.requests)
}

func TestBeginPreselectsDefaultAddress(t *testing.T) {
	_, api := newAPIStub(t, models.User{Addresses: twoAddresses()})
	flow := NewCheckout(api, cartItems())

	require.NoError(t, flow.Begin(context.Background()))
	require.Len(t, flow.Addresses(), 2)

	sel := flow.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, "9 Elm St", sel.AddressLine1)
}

func TestBeginWithoutDefaultSelectsNothing(t *testing.T) {
	addrs := twoAddresses()
	addrs[1].IsDefault = false
	_, api := newAPIStub(t, models.User{Addresses: addrs})
	flow := NewCheckout(api, cartItems())

	require.NoError(t, flow.Begin(context.Background()))
	assert.Nil(t, flow.Selected())
}

func TestTotals(t *testing.T) {
	_, api := newAPIStub(t, models.User{})
	flow := NewCheckout(api, cartItems())

	assert.InDelta(t, 50.00, flow.Subtotal(), 1e-9)
	assert.InDelta(t, 10.00, flow.Shipping(), 1e-9)
	assert.InDelta(t, 4.00, flow.Tax(), 1e-9)
	assert.InDelta(t, 64.00, flow.Total(), 1e-9)
}

func TestPlaceOrderWithoutAddressSkipsNetwork(t *testing.T) {
	stub, api := newAPIStub(t, models.User{})
	flow := NewCheckout(api, cartItems())

	_, err := flow.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrNoAddress)
	assert.Empty(t, stub.requests)
}

func TestPlaceOrderClearsCartOnSuccess(t *testing.T) {
	stub, api := newAPIStub(t, models.User{Addresses: twoAddresses()})
	flow := NewCheckout(api, cartItems())
	require.NoError(t, flow.Begin(context.Background()))

	order, err := flow.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.InDelta(t, 64.00, order.TotalAmount, 1e-9)
	assert.Equal(t, "9 Elm St", order.ShippingAddress.AddressLine1)
	assert.Empty(t, flow.Items())
	assert.Contains(t, stub.requests, "POST /api/orders")
}

func TestPlaceOrderKeepsCartOnFailure(t *testing.T) {
	stub, api := newAPIStub(t, models.User{Addresses: twoAddresses()})
	stub.orderErr = http.StatusBadRequest
	flow := NewCheckout(api, cartItems())
	require.NoError(t, flow.Begin(context.Background()))

	_, err := flow.PlaceOrder(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Insufficient stock")

	// Cart and selection survive so the flow can be retried.
	assert.Len(t, flow.Items(), 2)
	assert.NotNil(t, flow.Selected())
}

func TestAddAddressPersistsAndSelects(t *testing.T) {
	stub, api := newAPIStub(t, models.User{Addresses: twoAddresses()})
	flow := NewCheckout(api, cartItems())
	require.NoError(t, flow.Begin(context.Background()))
	flow.SetAddingNew(true)

	err := flow.AddAddress(context.Background(), models.Address{
		AddressLine1: "5 Oak Ave", City: "Houston", State: "TX", ZipCode: "77002",
	})
	require.NoError(t, err)

	require.Len(t, flow.Addresses(), 3)
	sel := flow.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, "5 Oak Ave", sel.AddressLine1)
	assert.Equal(t, "USA", sel.Country)
	assert.False(t, flow.AddingNew())
	assert.Contains(t, stub.requests, "PUT /api/auth/profile")
}
