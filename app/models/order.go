package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Status transitions are not validated: the admin
// status-update operation accepts any non-empty value.
const (
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment statuses. Payment processing is stubbed: orders are created paid.
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
	PaymentFailed  = "failed"
)

// OrderItem is a point-in-time snapshot of a purchased variant. Name, image
// and price are copied at placement and never track later catalogue changes.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId" validate:"required"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Size      string             `bson:"size" json:"size"`
	Color     string             `bson:"color" json:"color"`
	Quantity  int                `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Price     float64            `bson:"price" json:"price"`
}

// OrderUser is the owner summary joined onto query results.
type OrderUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order is the persisted order document. Items and the shipping address are
// immutable snapshots; only status and paymentStatus change after creation.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID         string             `bson:"orderId" json:"orderId"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress Address            `bson:"shippingAddress" json:"shippingAddress"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	Status          string             `bson:"status" json:"status"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	OrderDate       time.Time          `bson:"orderDate" json:"orderDate"`

	// User is filled by the query service from the owning user document.
	User *OrderUser `bson:"-" json:"user,omitempty"`
}

// NewOrderID generates a human-readable unique order id:
// fixed prefix, millisecond timestamp, 9-character upper-case random suffix.
func NewOrderID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
