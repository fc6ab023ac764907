package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Address is a postal address embedded in a user document. Addresses have no
// identity of their own beyond array position; at most one should carry the
// default flag.
type Address struct {
	AddressLine1 string `bson:"addressLine1" json:"addressLine1" validate:"required"`
	AddressLine2 string `bson:"addressLine2,omitempty" json:"addressLine2,omitempty"`
	City         string `bson:"city" json:"city" validate:"required"`
	State        string `bson:"state" json:"state" validate:"required"`
	ZipCode      string `bson:"zipCode" json:"zipCode" validate:"required"`
	Country      string `bson:"country" json:"country"`
	IsDefault    bool   `bson:"isDefault" json:"isDefault"`
}

// Normalize fills defaulted fields.
func (a *Address) Normalize() {
	if a.Country == "" {
		a.Country = "USA"
	}
}

// User is the account document. Email is unique across all users (enforced
// by index); Password holds the bcrypt hash and is never serialised.
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password" json:"-"`
	Role      string               `bson:"role" json:"role"`
	Phone     string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Addresses []Address            `bson:"addresses" json:"addresses"`
	Wishlist  []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// DefaultAddress returns the address flagged as default, or nil.
func (u *User) DefaultAddress() *Address {
	for i := range u.Addresses {
		if u.Addresses[i].IsDefault {
			return &u.Addresses[i]
		}
	}
	return nil
}
