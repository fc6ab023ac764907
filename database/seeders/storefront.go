package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/pkg/auth"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("products", SeedProducts)
}

// SeedAdminUser upserts the bootstrap admin account. Idempotent; rerunning
// never duplicates the user or resets a changed password.
func SeedAdminUser(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Collection("users").UpdateOne(ctx,
		bson.M{"email": "admin@threadline.dev"},
		bson.M{"$setOnInsert": models.User{
			Name:      "Threadline Admin",
			Email:     "admin@threadline.dev",
			Password:  hash,
			Role:      models.RoleAdmin,
			Addresses: []models.Address{},
			Wishlist:  nil,
			CreatedAt: now,
			UpdatedAt: now,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// SeedProducts inserts the demo catalog once; a non-empty collection is
// left untouched.
func SeedProducts(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	col := db.Collection("products")
	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(demoProducts))
	for _, p := range demoProducts {
		p.CreatedAt = now
		p.UpdatedAt = now
		docs = append(docs, p)
	}

	_, err = col.InsertMany(ctx, docs)
	return err
}

var demoProducts = []models.Product{
	{
		Name:        "Classic Crew Tee",
		Description: "Midweight combed cotton tee with a ribbed crew neck.",
		Price:       24.00,
		Category:    "tops",
		Variants: []models.Variant{
			{Size: "S", Color: "White", StockQuantity: 40},
			{Size: "M", Color: "White", StockQuantity: 55},
			{Size: "L", Color: "White", StockQuantity: 30},
			{Size: "M", Color: "Black", StockQuantity: 50},
			{Size: "L", Color: "Black", StockQuantity: 25},
		},
	},
	{
		Name:        "Fleece Pullover Hoodie",
		Description: "Brushed-back fleece hoodie with kangaroo pocket.",
		Price:       58.00,
		Category:    "tops",
		Variants: []models.Variant{
			{Size: "M", Color: "Heather Grey", StockQuantity: 20},
			{Size: "L", Color: "Heather Grey", StockQuantity: 18},
			{Size: "XL", Color: "Navy", StockQuantity: 12},
		},
	},
	{
		Name:        "Slim Stretch Chino",
		Description: "Slim-fit chino in a cotton blend with two-way stretch.",
		Price:       64.00,
		Category:    "bottoms",
		Variants: []models.Variant{
			{Size: "30", Color: "Khaki", StockQuantity: 15},
			{Size: "32", Color: "Khaki", StockQuantity: 22},
			{Size: "34", Color: "Olive", StockQuantity: 10},
		},
	},
	{
		Name:        "Everyday Beanie",
		Description: "Rib-knit beanie, one size.",
		Price:       18.00,
		Category:    "accessories",
		Variants: []models.Variant{
			{Size: "OS", Color: "Black", StockQuantity: 60},
			{Size: "OS", Color: "Rust", StockQuantity: 35},
		},
	},
}
