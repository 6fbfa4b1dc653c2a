package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/domain/repositories"
	"github.com/227007/E-commerce-backend/internal/infrastructure/logger"
)

// CatalogRepositoryMongo reads products and adjusts stock in the products
// collection. Stock writes are guarded in the filter so the decrement only
// happens while enough stock remains.
type CatalogRepositoryMongo struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewCatalogRepositoryMongo(db *mongo.Database, logger *logger.Logger) (*CatalogRepositoryMongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection("products")

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product index: %w", err)
	}

	return &CatalogRepositoryMongo{
		collection: collection,
		logger:     logger,
	}, nil
}

func (r *CatalogRepositoryMongo) FindProduct(ctx context.Context, productID string) (*entities.Product, error) {
	var doc ProductDocument
	err := r.collection.FindOne(ctx, bson.M{"product_id": productID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repositories.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return toProductEntity(&doc), nil
}

// DecrementStock takes quantity units if and only if the product still has
// them. The stock guard lives in the filter, not in application code, so
// two concurrent orders cannot both pass a stale check.
func (r *CatalogRepositoryMongo) DecrementStock(ctx context.Context, productID string, quantity int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"product_id": productID, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if result.MatchedCount == 0 {
		count, cerr := r.collection.CountDocuments(ctx, bson.M{"product_id": productID})
		if cerr != nil {
			return fmt.Errorf("failed to check product existence: %w", cerr)
		}
		if count == 0 {
			return repositories.ErrProductNotFound
		}
		return repositories.ErrInsufficientStock
	}

	return nil
}

func (r *CatalogRepositoryMongo) IncrementStock(ctx context.Context, productID string, quantity int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"product_id": productID},
		bson.M{"$inc": bson.M{"stock": quantity}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrProductNotFound
	}

	r.logger.Info("Stock restored", "product_id", productID, "quantity", quantity)
	return nil
}
