package mongodb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cartUpsertAttempts bounds the set-then-push loop when a concurrent writer
// adds or removes the same line between the two conditional updates.
const cartUpsertAttempts = 2

type cartLineDocument struct {
	ProductID string `bson:"productId"`
	Quantity  int    `bson:"quantity"`
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	Cart      []cartLineDocument `bson:"cart"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		HashedPassword: d.Password,
		Cart:           cartFromDocuments(d.Cart),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func cartFromDocuments(lines []cartLineDocument) []domain.CartLine {
	cart := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		cart = append(cart, domain.CartLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return cart
}

// MongoUserStore implements the store.UserStore interface
// using a MongoDB collection as the storage backend.
type MongoUserStore struct {
	coll    Collection
	timeout time.Duration
	logger  *slog.Logger
}

// NewMongoUserStore creates a new MongoDB implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewMongoUserStore(coll Collection, timeout time.Duration, logger *slog.Logger) *MongoUserStore {
	if coll == nil {
		panic("collection cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoUserStore{
		coll:    coll,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "user_store")),
	}
}

// Ensure MongoUserStore implements store.UserStore interface
var _ store.UserStore = (*MongoUserStore)(nil)

func (s *MongoUserStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoUserStore) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Create implements store.UserStore.Create
func (s *MongoUserStore) Create(ctx context.Context, user *domain.User) error {
	if user.Username == "" || user.HashedPassword == "" {
		return store.NewStoreError("user", "create", "username and hashed password are required",
			store.ErrInvalidEntity)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	doc := userDocument{
		Username:  user.Username,
		Password:  user.HashedPassword,
		Cart:      []cartLineDocument{},
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			s.log(ctx).Debug("username already taken", slog.String("username", user.Username))
			return store.ErrUsernameExists
		}
		return store.NewStoreError("user", "create", "insert failed",
			MapError(err, store.ErrUserNotFound, store.ErrUsernameExists))
	}

	oid, ok := insertedID(res)
	if !ok {
		return store.NewStoreError("user", "create", "insert not acknowledged", store.ErrStorageFailure)
	}

	user.ID = oid.Hex()
	user.Cart = []domain.CartLine{}
	s.log(ctx).Debug("user created", slog.String("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseObjectID(id, store.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *MongoUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "find failed",
			MapError(err, store.ErrUserNotFound, store.ErrUsernameExists))
	}
	return doc.toDomain(), nil
}

// UpsertCartLine implements store.UserStore.UpsertCartLine.
// It first sets the quantity of an existing line, then pushes the line if no
// line for the product exists. Each step is a single conditional document
// update, so no duplicate line can be created by concurrent callers.
func (s *MongoUserStore) UpsertCartLine(ctx context.Context, userID string, line domain.CartLine) error {
	oid, err := parseObjectID(userID, store.ErrUserNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	for attempt := 0; attempt < cartUpsertAttempts; attempt++ {
		now := time.Now().UTC()

		res, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": oid, "cart.productId": line.ProductID},
			bson.M{"$set": bson.M{"cart.$.quantity": line.Quantity, "updatedAt": now}},
		)
		if err != nil {
			return store.NewStoreError("user", "upsert cart line", "set quantity failed",
				MapError(err, store.ErrUserNotFound, store.ErrDuplicate))
		}
		if res.MatchedCount > 0 {
			return nil
		}

		res, err = s.coll.UpdateOne(ctx,
			bson.M{"_id": oid, "cart.productId": bson.M{"$ne": line.ProductID}},
			bson.M{
				"$push": bson.M{"cart": cartLineDocument{ProductID: line.ProductID, Quantity: line.Quantity}},
				"$set":  bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return store.NewStoreError("user", "upsert cart line", "append line failed",
				MapError(err, store.ErrUserNotFound, store.ErrDuplicate))
		}
		if res.MatchedCount > 0 {
			return nil
		}

		// Neither update matched: the user is gone, or another request
		// changed this line in between.
		count, err := s.coll.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return store.NewStoreError("user", "upsert cart line", "existence check failed",
				MapError(err, store.ErrUserNotFound, store.ErrDuplicate))
		}
		if count == 0 {
			return store.ErrUserNotFound
		}

		s.log(ctx).Debug("cart line changed concurrently, retrying",
			slog.String("user_id", userID),
			slog.String("product_id", line.ProductID),
			slog.Int("attempt", attempt+1))
	}

	return store.NewStoreError("user", "upsert cart line", "concurrent modification", store.ErrStorageFailure)
}

// RemoveCartLine implements store.UserStore.RemoveCartLine
func (s *MongoUserStore) RemoveCartLine(ctx context.Context, userID, productID string) ([]domain.CartLine, error) {
	oid, err := parseObjectID(userID, store.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$pull": bson.M{"cart": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "remove cart line", "find and update failed",
			MapError(err, store.ErrUserNotFound, store.ErrDuplicate))
	}

	return cartFromDocuments(doc.Cart), nil
}

