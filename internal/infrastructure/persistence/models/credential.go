package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
)

// ProviderCredentialModel is the persistence model for ProviderCredential.
// Only the encrypted payload is stored; plaintext secrets never reach this table.
type ProviderCredentialModel struct {
	BaseModel
	SellerID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_provider_credentials_key,priority:1"`
	ProviderName     string     `gorm:"type:varchar(32);not null;uniqueIndex:uq_provider_credentials_key,priority:2"`
	Sandbox          bool       `gorm:"not null;uniqueIndex:uq_provider_credentials_key,priority:3"`
	EncryptedPayload []byte     `gorm:"type:bytea"`
	ExpiresAt        *time.Time `gorm:"index"`
	ConnectionType   string     `gorm:"type:varchar(20);not null"`
	Status           string     `gorm:"type:varchar(20);not null;index"`
	ConnectedAt      *time.Time
	DisconnectedAt   *time.Time
}

// TableName returns the table name for GORM
func (ProviderCredentialModel) TableName() string {
	return "provider_credentials"
}

// ToDomain converts the persistence model to a domain ProviderCredential
func (m *ProviderCredentialModel) ToDomain() *fulfillment.ProviderCredential {
	return &fulfillment.ProviderCredential{
		SellerEntity:     shared.SellerEntity{BaseEntity: m.BaseModel.ToDomain(), SellerID: m.SellerID},
		ProviderName:     fulfillment.ProviderName(m.ProviderName),
		Sandbox:          m.Sandbox,
		EncryptedPayload: m.EncryptedPayload,
		ExpiresAt:        m.ExpiresAt,
		ConnectionType:   fulfillment.ConnectionType(m.ConnectionType),
		Status:           fulfillment.CredentialStatus(m.Status),
		ConnectedAt:      m.ConnectedAt,
		DisconnectedAt:   m.DisconnectedAt,
	}
}

// FromDomain populates the persistence model from a domain ProviderCredential
func (m *ProviderCredentialModel) FromDomain(c *fulfillment.ProviderCredential) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.SellerID = c.SellerID
	m.ProviderName = string(c.ProviderName)
	m.Sandbox = c.Sandbox
	m.EncryptedPayload = c.EncryptedPayload
	m.ExpiresAt = c.ExpiresAt
	m.ConnectionType = string(c.ConnectionType)
	m.Status = string(c.Status)
	m.ConnectedAt = c.ConnectedAt
	m.DisconnectedAt = c.DisconnectedAt
}

// ProviderCredentialModelFromDomain creates a new persistence model from a domain ProviderCredential
func ProviderCredentialModelFromDomain(c *fulfillment.ProviderCredential) *ProviderCredentialModel {
	m := &ProviderCredentialModel{}
	m.FromDomain(c)
	return m
}
