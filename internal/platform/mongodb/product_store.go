package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchFields are matched by Search.
var searchFields = []string{"name", "description", "category"}

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d productDocument) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoProductStore implements the store.ProductStore interface
// using a MongoDB collection as the storage backend.
type MongoProductStore struct {
	coll    Collection
	timeout time.Duration
	logger  *slog.Logger
}

// NewMongoProductStore creates a new MongoDB implementation of the ProductStore interface.
// If logger is nil, a default logger will be used.
func NewMongoProductStore(coll Collection, timeout time.Duration, logger *slog.Logger) *MongoProductStore {
	if coll == nil {
		panic("collection cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoProductStore{
		coll:    coll,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "product_store")),
	}
}

// Ensure MongoProductStore implements store.ProductStore interface
var _ store.ProductStore = (*MongoProductStore)(nil)

func (s *MongoProductStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func mapProductError(err error) error {
	return MapError(err, store.ErrProductNotFound, store.ErrProductNameExists)
}

// Create implements store.ProductStore.Create
func (s *MongoProductStore) Create(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return store.NewStoreError("product", "create", "validation failed",
			errors.Join(store.ErrInvalidEntity, err))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = product.CreatedAt

	res, err := s.coll.InsertOne(ctx, productDocument{
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Price:       product.Price,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrProductNameExists
		}
		return store.NewStoreError("product", "create", "insert failed", mapProductError(err))
	}

	oid, ok := insertedID(res)
	if !ok {
		return store.NewStoreError("product", "create", "insert not acknowledged", store.ErrStorageFailure)
	}
	product.ID = oid.Hex()

	logger.FromContextOrDefault(ctx, s.logger).Debug("product created",
		slog.String("product_id", product.ID))
	return nil
}

// GetByID implements store.ProductStore.GetByID
func (s *MongoProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := parseObjectID(id, store.ErrProductNotFound)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// GetByName implements store.ProductStore.GetByName
func (s *MongoProductStore) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

func (s *MongoProductStore) findOne(ctx context.Context, filter bson.M) (*domain.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc productDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrProductNotFound
		}
		return nil, store.NewStoreError("product", "get", "find failed", mapProductError(err))
	}
	return doc.toDomain(), nil
}

// List implements store.ProductStore.List
func (s *MongoProductStore) List(ctx context.Context, skip, limit int64) ([]*domain.Product, error) {
	opts := options.Find()
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.find(ctx, "list", bson.M{}, opts)
}

// Count implements store.ProductStore.Count
func (s *MongoProductStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, store.NewStoreError("product", "count", "count failed", mapProductError(err))
	}
	return n, nil
}

// Update implements store.ProductStore.Update
func (s *MongoProductStore) Update(ctx context.Context, product *domain.Product) error {
	oid, err := parseObjectID(product.ID, store.ErrProductNotFound)
	if err != nil {
		return err
	}
	if err := product.Validate(); err != nil {
		return store.NewStoreError("product", "update", "validation failed",
			errors.Join(store.ErrInvalidEntity, err))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	product.UpdatedAt = time.Now().UTC()
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"name":        product.Name,
			"description": product.Description,
			"category":    product.Category,
			"price":       product.Price,
			"updatedAt":   product.UpdatedAt,
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrProductNameExists
		}
		return store.NewStoreError("product", "update", "update failed", mapProductError(err))
	}
	if res.MatchedCount == 0 {
		return store.ErrProductNotFound
	}
	return nil
}

// Delete implements store.ProductStore.Delete
func (s *MongoProductStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, store.ErrProductNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return store.NewStoreError("product", "delete", "delete failed", mapProductError(err))
	}
	if res.DeletedCount == 0 {
		return store.ErrProductNotFound
	}
	return nil
}

// Search implements store.ProductStore.Search
func (s *MongoProductStore) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.find(ctx, "search", SearchFilter(query), options.Find())
}

// SearchFilter builds a case-insensitive literal substring filter over
// name, description and category. An empty query matches everything.
func SearchFilter(query string) bson.M {
	if query == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	clauses := make(bson.A, 0, len(searchFields))
	for _, field := range searchFields {
		clauses = append(clauses, bson.M{field: pattern})
	}
	return bson.M{"$or": clauses}
}

func (s *MongoProductStore) find(
	ctx context.Context,
	operation string,
	filter bson.M,
	opts *options.FindOptions,
) ([]*domain.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, store.NewStoreError("product", operation, "find failed", mapProductError(err))
	}
	defer func() {
		_ = cursor.Close(context.Background())
	}()

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError("product", operation, "decode failed", mapProductError(err))
	}

	products := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toDomain())
	}
	return products, nil
}
