package client

import (
	"context"
	"errors"

	"github.com/threadline/threadline/app/models"
)

const (
	shippingFlat = 10.00
	taxRate      = 0.08
)

var (
	// ErrEmptyCart means checkout was started with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNoAddress means no shipping address is selected.
	ErrNoAddress = errors.New("no shipping address selected")

	// ErrCheckoutInFlight means an order submission is already running.
	ErrCheckoutInFlight = errors.New("order submission already in progress")
)

// Checkout drives the checkout flow for one cart: load the saved
// addresses, pick or add one, then place the order. The flow is
// single-threaded; the in-flight flag only guards against re-entrant
// PlaceOrder calls on the same instance.
type Checkout struct {
	api       *Client
	items     []models.OrderItem
	addresses []models.Address
	selected  int
	addingNew bool
	inFlight  bool
}

// NewCheckout builds a flow over the given cart contents.
func NewCheckout(api *Client, items []models.OrderItem) *Checkout {
	return &Checkout{
		api:      api,
		items:    append([]models.OrderItem(nil), items...),
		selected: -1,
	}
}

// Begin verifies the cart and loads the saved addresses, preselecting the
// default one. An empty cart fails before any network call so the caller
// can redirect back to the cart page.
func (c *Checkout) Begin(ctx context.Context) error {
	if len(c.items) == 0 {
		return ErrEmptyCart
	}

	user, err := c.api.Profile(ctx)
	if err != nil {
		return err
	}

	c.addresses = user.Addresses
	c.selected = -1
	for i := range c.addresses {
		if c.addresses[i].IsDefault {
			c.selected = i
			break
		}
	}
	return nil
}

// Items returns the cart contents.
func (c *Checkout) Items() []models.OrderItem { return c.items }

// Addresses returns the loaded address book.
func (c *Checkout) Addresses() []models.Address { return c.addresses }

// Selected returns the chosen address, or nil when none is selected.
func (c *Checkout) Selected() *models.Address {
	if c.selected < 0 || c.selected >= len(c.addresses) {
		return nil
	}
	return &c.addresses[c.selected]
}

// Select picks an address by position.
func (c *Checkout) Select(i int) error {
	if i < 0 || i >= len(c.addresses) {
		return errors.New("address index out of range")
	}
	c.selected = i
	c.addingNew = false
	return nil
}

// AddingNew reports whether the new-address form is open.
func (c *Checkout) AddingNew() bool { return c.addingNew }

// SetAddingNew toggles the new-address form.
func (c *Checkout) SetAddingNew(on bool) { c.addingNew = on }

// AddAddress appends the address to the profile, persists the whole
// collection, and selects the new entry.
func (c *Checkout) AddAddress(ctx context.Context, addr models.Address) error {
	addr.Normalize()
	updated := append(append([]models.Address(nil), c.addresses...), addr)

	user, err := c.api.UpdateAddresses(ctx, updated)
	if err != nil {
		return err
	}

	c.addresses = user.Addresses
	c.selected = len(c.addresses) - 1
	c.addingNew = false
	return nil
}

// Subtotal sums quantity times unit price across the cart.
func (c *Checkout) Subtotal() float64 {
	var total float64
	for _, item := range c.items {
		total += float64(item.Quantity) * item.Price
	}
	return total
}

// Shipping is the flat shipping charge.
func (c *Checkout) Shipping() float64 { return shippingFlat }

// Tax is 8% of the subtotal.
func (c *Checkout) Tax() float64 { return c.Subtotal() * taxRate }

// Total is subtotal plus shipping plus tax.
func (c *Checkout) Total() float64 { return c.Subtotal() + c.Shipping() + c.Tax() }

// PlaceOrder submits the order to the selected address. Without a
// selection it fails before any network call. On success the cart is
// cleared; on failure cart and selection are untouched so the flow can be
// retried.
func (c *Checkout) PlaceOrder(ctx context.Context) (*models.Order, error) {
	if c.inFlight {
		return nil, ErrCheckoutInFlight
	}

	addr := c.Selected()
	if addr == nil {
		return nil, ErrNoAddress
	}

	c.inFlight = true
	defer func() { c.inFlight = false }()

	order, err := c.api.CreateOrder(ctx, CreateOrderRequest{
		Items:           c.items,
		ShippingAddress: *addr,
		TotalAmount:     c.Total(),
	})
	if err != nil {
		return nil, err
	}

	c.items = nil
	return order, nil
}
