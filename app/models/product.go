package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant is one purchasable size/color combination of a product, with its
// own stock counter. stockQuantity never goes below zero: it is only
// decremented through a conditional update during order placement.
type Variant struct {
	Size          string `bson:"size" json:"size"`
	Color         string `bson:"color" json:"color"`
	StockQuantity int    `bson:"stockQuantity" json:"stockQuantity"`
}

// Product is a catalogue item.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Variants    []Variant          `bson:"variants" json:"variants"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindVariant locates the variant matching size and color, or nil.
func (p *Product) FindVariant(size, color string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Size == size && p.Variants[i].Color == color {
			return &p.Variants[i]
		}
	}
	return nil
}
