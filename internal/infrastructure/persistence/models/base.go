package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// SellerModel provides common persistence fields for seller-owned rows.
type SellerModel struct {
	BaseModel
	SellerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainSellerEntity populates SellerModel from domain SellerEntity
func (m *SellerModel) FromDomainSellerEntity(e shared.SellerEntity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.SellerID = e.SellerID
}

// ToSellerEntity converts SellerModel to domain SellerEntity
func (m *SellerModel) ToSellerEntity() shared.SellerEntity {
	return shared.SellerEntity{
		BaseEntity: m.BaseModel.ToDomain(),
		SellerID:   m.SellerID,
	}
}
