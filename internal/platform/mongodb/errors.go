package mongodb

import (
	"errors"
	"fmt"

	"github.com/phrazzld/storefront-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MapError maps a driver error to the matching store error, wrapping the
// original to keep context for logs.
func MapError(err error, notFound, duplicate error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", notFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", duplicate, err)
	default:
		return fmt.Errorf("%w: %v", store.ErrStorageFailure, err)
	}
}

// parseObjectID converts a hex identifier. Malformed identifiers cannot name
// any stored document, so they map to notFound.
func parseObjectID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed id %q", notFound, id)
	}
	return oid, nil
}

// insertedID extracts the ObjectID of an acknowledged insert.
func insertedID(res *mongo.InsertOneResult) (primitive.ObjectID, bool) {
	if res == nil {
		return primitive.NilObjectID, false
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	return oid, ok && !oid.IsZero()
}
