// Package mongodb provides MongoDB implementations of the store interfaces.
//
// Stores operate on the Collection interface, which *mongo.Collection
// satisfies, and apply a per-operation timeout to every call. Uniqueness of
// usernames and product names is backed by indexes created with EnsureIndexes.
package mongodb
