// Package domain contains the core business entities, value objects, and
// domain logic of the application: users with their carts, and catalog
// products. It is independent of any specific storage or delivery mechanism.
package domain
