package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/pkg/cache"
	"github.com/threadline/threadline/pkg/database"
	"github.com/threadline/threadline/pkg/metrics"
)

const productCacheTTL = 5 * time.Minute

// ProductRepository handles persistence for catalogue documents, with a
// Redis read-through cache on single-product lookups.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{col: database.DB().Collection("products")}
}

func productCacheKey(id primitive.ObjectID) string {
	return "product:" + id.Hex()
}

// FindByID looks up a product, consulting the cache first.
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if cache.Get(ctx, productCacheKey(id), &product) {
		metrics.CacheHits.Inc()
		return &product, nil
	}
	metrics.CacheMisses.Inc()

	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, err
	}

	_ = cache.Set(ctx, productCacheKey(id), &product, productCacheTTL)
	return &product, nil
}

// All returns every catalogue product, newest first.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Create persists a new product document.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Variants == nil {
		product.Variants = []models.Variant{}
	}

	res, err := r.col.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

// DecrementStock subtracts qty from the matching variant's stock counter in
// one conditional update: the write only matches while the variant still has
// at least qty units, so a single variant can never go negative even under
// concurrent placements. Returns false when no variant had enough stock at
// write time.
func (r *ProductRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, size, color string, qty int) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"_id": id,
			"variants": bson.M{"$elemMatch": bson.M{
				"size":          size,
				"color":         color,
				"stockQuantity": bson.M{"$gte": qty},
			}},
		},
		bson.M{
			"$inc": bson.M{"variants.$.stockQuantity": -qty},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}

	if res.ModifiedCount == 0 {
		return false, nil
	}

	// Stock changed; stale cached copies must go.
	_ = cache.Del(ctx, productCacheKey(id))
	return true, nil
}
