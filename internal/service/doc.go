// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
//   - AuthService registers users and issues bearer tokens on login.
//   - CatalogService manages products, reading single products through a
//     cache and collapsing concurrent misses.
//   - CartService maintains each user's cart as one line per product.
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
