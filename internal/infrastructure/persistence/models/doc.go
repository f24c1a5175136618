// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, SellerModel)
// - credential.go: Provider credentials (encrypted payloads only)
// - sync.go: Sync schedules, sync runs and lease locks
// - inventory.go: Warehouses, product listings and stock levels
// - transfer.go: Warehouse transfers
// - webhook.go: Inbound webhook events, subscriptions and deliveries
package models
