package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/persistence/models"
)

// GormCredentialRepository implements CredentialRepository using GORM
type GormCredentialRepository struct {
	db *gorm.DB
}

// NewGormCredentialRepository creates a new GormCredentialRepository
func NewGormCredentialRepository(db *gorm.DB) *GormCredentialRepository {
	return &GormCredentialRepository{db: db}
}

// FindBySellerAndProvider finds the credential row for one (seller, provider, sandbox) key
func (r *GormCredentialRepository) FindBySellerAndProvider(ctx context.Context, sellerID uuid.UUID, provider fulfillment.ProviderName, sandbox bool) (*fulfillment.ProviderCredential, error) {
	var model models.ProviderCredentialModel
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND provider_name = ? AND sandbox = ?", sellerID, string(provider), sandbox).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySeller finds every credential row of a seller, including disconnected ones
func (r *GormCredentialRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]fulfillment.ProviderCredential, error) {
	var rows []models.ProviderCredentialModel
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("provider_name ASC, sandbox ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	creds := make([]fulfillment.ProviderCredential, len(rows))
	for i, model := range rows {
		creds[i] = *model.ToDomain()
	}
	return creds, nil
}

// Save upserts on (seller_id, provider_name, sandbox) so concurrent connects
// converge on one row. The stored id is written back to the credential.
func (r *GormCredentialRepository) Save(ctx context.Context, credential *fulfillment.ProviderCredential) error {
	model := models.ProviderCredentialModelFromDomain(credential)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "seller_id"}, {Name: "provider_name"}, {Name: "sandbox"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"encrypted_payload", "expires_at", "connection_type", "status",
			"connected_at", "disconnected_at", "updated_at",
		}),
	}).Create(model).Error
	if err != nil {
		return err
	}

	var stored models.ProviderCredentialModel
	if err := r.db.WithContext(ctx).
		Select("id", "created_at").
		Where("seller_id = ? AND provider_name = ? AND sandbox = ?", model.SellerID, model.ProviderName, model.Sandbox).
		First(&stored).Error; err != nil {
		return err
	}
	credential.ID = stored.ID
	credential.CreatedAt = stored.CreatedAt
	return nil
}

// Ensure GormCredentialRepository implements CredentialRepository
var _ fulfillment.CredentialRepository = (*GormCredentialRepository)(nil)
