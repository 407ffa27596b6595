package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection is a hand-written Collection double. Unset functions fail
// loudly so tests only exercise the calls they expect.
type fakeCollection struct {
	FindOneFn          func(ctx context.Context, filter interface{}) *mongo.SingleResult
	FindFn             func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocumentsFn   func(ctx context.Context, filter interface{}) (int64, error)
	InsertOneFn        func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	UpdateOneFn        func(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error)
	DeleteOneFn        func(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)
	FindOneAndUpdateFn func(
		ctx context.Context,
		filter, update interface{},
		opts ...*options.FindOneAndUpdateOptions,
	) *mongo.SingleResult

	updateCalls int
}

var _ Collection = (*fakeCollection)(nil)

var errUnexpectedCall = mongo.CommandError{Code: 1, Message: "unexpected call"}

func (f *fakeCollection) FindOne(
	ctx context.Context,
	filter interface{},
	_ ...*options.FindOneOptions,
) *mongo.SingleResult {
	if f.FindOneFn == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, errUnexpectedCall, nil)
	}
	return f.FindOneFn(ctx, filter)
}

func (f *fakeCollection) Find(
	ctx context.Context,
	filter interface{},
	opts ...*options.FindOptions,
) (*mongo.Cursor, error) {
	if f.FindFn == nil {
		return nil, errUnexpectedCall
	}
	return f.FindFn(ctx, filter, opts...)
}

func (f *fakeCollection) CountDocuments(
	ctx context.Context,
	filter interface{},
	_ ...*options.CountOptions,
) (int64, error) {
	if f.CountDocumentsFn == nil {
		return 0, errUnexpectedCall
	}
	return f.CountDocumentsFn(ctx, filter)
}

func (f *fakeCollection) InsertOne(
	ctx context.Context,
	document interface{},
	_ ...*options.InsertOneOptions,
) (*mongo.InsertOneResult, error) {
	if f.InsertOneFn == nil {
		return nil, errUnexpectedCall
	}
	return f.InsertOneFn(ctx, document)
}

func (f *fakeCollection) UpdateOne(
	ctx context.Context,
	filter interface{},
	update interface{},
	_ ...*options.UpdateOptions,
) (*mongo.UpdateResult, error) {
	f.updateCalls++
	if f.UpdateOneFn == nil {
		return nil, errUnexpectedCall
	}
	return f.UpdateOneFn(ctx, filter, update)
}

func (f *fakeCollection) DeleteOne(
	ctx context.Context,
	filter interface{},
	_ ...*options.DeleteOptions,
) (*mongo.DeleteResult, error) {
	if f.DeleteOneFn == nil {
		return nil, errUnexpectedCall
	}
	return f.DeleteOneFn(ctx, filter)
}

func (f *fakeCollection) FindOneAndUpdate(
	ctx context.Context,
	filter interface{},
	update interface{},
	opts ...*options.FindOneAndUpdateOptions,
) *mongo.SingleResult {
	if f.FindOneAndUpdateFn == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, errUnexpectedCall, nil)
	}
	return f.FindOneAndUpdateFn(ctx, filter, update, opts...)
}

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
}

func noDocuments() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}
