package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/pkg/database"
)

// OrderRepository handles persistence for order documents.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{col: database.DB().Collection("orders")}
}

var orderSort = options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})

// Insert persists a newly placed order.
func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// FindByID looks up one order by document id.
func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUser returns a user's orders, most recent first.
func (r *OrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, orderSort)
	if err != nil {
		return nil, err
	}

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll returns every order, most recent first.
func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	cur, err := r.col.Find(ctx, bson.M{}, orderSort)
	if err != nil {
		return nil, err
	}

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the order status and returns the updated document.
// Returns mongo.ErrNoDocuments when the order does not exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	var order models.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// IsNotFound reports whether err means the document was absent.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
