package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/app/repositories"
	"github.com/threadline/threadline/pkg/auth"
	"github.com/threadline/threadline/pkg/logger"
	"github.com/threadline/threadline/pkg/metrics"
	"github.com/threadline/threadline/pkg/ws"
)

// ProductStore is the slice of product persistence the order flow needs.
type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, size, color string, qty int) (bool, error)
}

// OrderStore is the order persistence surface.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
}

// UserStore provides the owner lookup for the name/email join.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Notifier pushes order events to connected clients. May be nil.
type Notifier interface {
	NotifyUser(userID string, v interface{})
}

// InsufficientStockError names the first line item whose requested quantity
// exceeded the variant's available stock.
type InsufficientStockError struct {
	Name  string
	Size  string
	Color string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s (%s, %s)", e.Name, e.Size, e.Color)
}

// OrderService orchestrates order placement and the authorized read/update
// operations over placed orders.
//
// Placement processes line items strictly in the supplied order. Each
// variant decrement is a single conditional write, so one variant can never
// be driven negative — but the multi-item flow is deliberately not wrapped
// in a transaction: when item N fails the stock check, decrements already
// applied for items 1..N-1 stay committed. There is no compensation step;
// this matches the system's documented behavior. Placement is not
// idempotent: repeating the same request creates a second order and
// decrements stock again.
type OrderService struct {
	products ProductStore
	orders   OrderStore
	users    UserStore
	notifier Notifier
}

func NewOrderService(products ProductStore, orders OrderStore, users UserStore, notifier Notifier) *OrderService {
	return &OrderService{products: products, orders: orders, users: users, notifier: notifier}
}

// Place validates stock for each line item, decrements the matching variant
// counters, and persists the order snapshot with paymentStatus "paid"
// (payment processing is stubbed).
//
// Items whose product or variant cannot be found are skipped without error —
// no stock is adjusted and the item still appears in the order snapshot.
// That silent skip mirrors the established storefront behavior; it is logged
// at WARN since it is almost certainly a client-side data problem.
func (s *OrderService) Place(ctx context.Context, userID primitive.ObjectID, items []models.OrderItem, shipping models.Address, totalAmount float64) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	log := logger.WithCtx(ctx)

	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if repositories.IsNotFound(err) {
				log.Warn("order: skipping unknown product", "product_id", item.ProductID.Hex())
				continue
			}
			return nil, fmt.Errorf("load product %s: %w", item.ProductID.Hex(), err)
		}

		variant := product.FindVariant(item.Size, item.Color)
		if variant == nil {
			log.Warn("order: skipping unmatched variant",
				"product", product.Name, "size", item.Size, "color", item.Color)
			continue
		}

		if variant.StockQuantity < item.Quantity {
			metrics.StockRejections.Inc()
			return nil, &InsufficientStockError{Name: product.Name, Size: item.Size, Color: item.Color}
		}

		ok, err := s.products.DecrementStock(ctx, product.ID, item.Size, item.Color, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for %s: %w", product.Name, err)
		}
		if !ok {
			// A concurrent placement drained the variant between the read
			// and the conditional write.
			metrics.StockRejections.Inc()
			return nil, &InsufficientStockError{Name: product.Name, Size: item.Size, Color: item.Color}
		}
	}

	order := &models.Order{
		OrderID:         models.NewOrderID(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: shipping,
		TotalAmount:     totalAmount,
		Status:          models.StatusProcessing,
		PaymentStatus:   models.PaymentPaid,
		OrderDate:       nowUTC(),
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	metrics.OrdersPlaced.Inc()
	log.Info("order placed", "order_id", order.OrderID, "user_id", userID.Hex(), "items", len(items))
	return order, nil
}

// ListByUser returns targetUserID's orders, newest first, with the owner's
// name and email joined in. Only the user themselves or an admin may call it.
func (s *OrderService) ListByUser(ctx context.Context, requester auth.Requester, targetUserID primitive.ObjectID) ([]models.Order, error) {
	if requester.ID != targetUserID.Hex() && !requester.IsAdmin() {
		return nil, ErrAccessDenied
	}

	orders, err := s.orders.FindByUser(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	s.joinOwners(ctx, orders)
	return orders, nil
}

// GetByID returns one order. Absent orders are reported before
// authorization; a non-owner, non-admin requester is denied either way.
func (s *OrderService) GetByID(ctx context.Context, requester auth.Requester, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID.Hex() != requester.ID && !requester.IsAdmin() {
		return nil, ErrAccessDenied
	}

	order.User = s.ownerSummary(ctx, order.UserID)
	return order, nil
}

// ListAll returns every order, newest first. Admin only.
func (s *OrderService) ListAll(ctx context.Context, requester auth.Requester) ([]models.Order, error) {
	if !requester.IsAdmin() {
		return nil, ErrAccessDenied
	}

	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	s.joinOwners(ctx, orders)
	return orders, nil
}

// UpdateStatus sets an order's status and notifies the owner's connected
// clients. Admin only. Any non-empty status value is accepted; there is no
// transition table.
func (s *OrderService) UpdateStatus(ctx context.Context, requester auth.Requester, orderID primitive.ObjectID, status string) (*models.Order, error) {
	if !requester.IsAdmin() {
		return nil, ErrAccessDenied
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyUser(order.UserID.Hex(), ws.OrderEvent{
			Type:    "order.status",
			OrderID: order.OrderID,
			Status:  order.Status,
		})
	}

	return order, nil
}

// joinOwners fills the User summary on each order. Lookups are memoised per
// call; a missing owner just leaves the summary nil.
func (s *OrderService) joinOwners(ctx context.Context, orders []models.Order) {
	seen := map[primitive.ObjectID]*models.OrderUser{}
	for i := range orders {
		owner, ok := seen[orders[i].UserID]
		if !ok {
			owner = s.ownerSummary(ctx, orders[i].UserID)
			seen[orders[i].UserID] = owner
		}
		orders[i].User = owner
	}
}

func (s *OrderService) ownerSummary(ctx context.Context, userID primitive.ObjectID) *models.OrderUser {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil
	}
	return &models.OrderUser{Name: user.Name, Email: user.Email}
}
