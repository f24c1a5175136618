package fulfillment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fulfillsync/backend/internal/domain/fulfillment"
	"github.com/fulfillsync/backend/internal/domain/shared"
	"github.com/fulfillsync/backend/internal/infrastructure/provider"
)

type catalogFixture struct {
	service    *CatalogService
	warehouses *MockWarehouseRepository
	listings   *MockListingRepository
	stock      *MockStockRepository
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	registry, err := provider.NewRegistry(newMockProvider("shiphub"))
	require.NoError(t, err)
	f := &catalogFixture{
		warehouses: new(MockWarehouseRepository),
		listings:   new(MockListingRepository),
		stock:      new(MockStockRepository),
	}
	f.service = NewCatalogService(f.warehouses, f.listings, f.stock, registry, zap.NewNop())
	return f
}

func TestCatalogService_RegisterWarehouse(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()

	tests := []struct {
		name     string
		provider fulfillment.ProviderName
		ref      string
		wantErr  error
	}{
		{"registered provider", "shiphub", " WH-1 ", nil},
		{"provider not enabled", "marketplace", "WH-1", fulfillment.ErrUnknownProvider},
		{"blank reference", "shiphub", "  ", shared.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogFixture(t)
			f.warehouses.On("Save", ctx, mock.Anything).Return(nil).Maybe()

			w, err := f.service.RegisterWarehouse(ctx, seller, tt.provider, tt.ref, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.warehouses.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "WH-1", w.ProviderRef)
			assert.Equal(t, "WH-1", w.Name)
			assert.True(t, w.Active)
			f.warehouses.AssertCalled(t, "Save", ctx, w)
		})
	}
}

func TestCatalogService_DeactivateWarehouse(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	f := newCatalogFixture(t)
	w := newTestWarehouse(t, seller, "shiphub", "WH-1")
	f.warehouses.On("FindByID", ctx, w.ID).Return(w, nil)
	f.warehouses.On("Save", ctx, w).Return(nil).Once()

	_, err := f.service.DeactivateWarehouse(ctx, uuid.New(), w.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.True(t, w.Active)

	got, err := f.service.DeactivateWarehouse(ctx, seller, w.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	f.warehouses.AssertExpectations(t)
}

func TestCatalogService_CreateListing(t *testing.T) {
	ctx := context.Background()
	seller := uuid.New()
	product := uuid.New()

	t.Run("creates one listing per product and warehouse", func(t *testing.T) {
		f := newCatalogFixture(t)
		w := newTestWarehouse(t, seller, "shiphub", "WH-1")
		f.warehouses.On("FindByID", ctx, w.ID).Return(w, nil)
		f.listings.On("FindByProductAndWarehouse", ctx, product, w.ID).Return(nil, shared.ErrNotFound).Once()
		f.listings.On("Save", ctx, mock.AnythingOfType("*fulfillment.ProductListing")).Return(nil).Once()

		l, err := f.service.CreateListing(ctx, ListingInput{
			SellerID: seller, ProductID: product, WarehouseID: w.ID, SKU: "SKU-1", Category: "apparel",
		})
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", l.SKU)
		assert.Equal(t, "SKU-1", l.ProviderRef)
		assert.Equal(t, w.ID, l.WarehouseID)

		existing := newTestListing(t, seller, w, "SKU-1")
		f.listings.On("FindByProductAndWarehouse", ctx, product, w.ID).Return(&existing, nil).Once()
		_, err = f.service.CreateListing(ctx, ListingInput{
			SellerID: seller, ProductID: product, WarehouseID: w.ID, SKU: "SKU-1",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		f.listings.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("rejects unknown and foreign warehouses", func(t *testing.T) {
		f := newCatalogFixture(t)
		missing := uuid.New()
		foreign := newTestWarehouse(t, uuid.New(), "shiphub", "WH-9")
		f.warehouses.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
		f.warehouses.On("FindByID", ctx, foreign.ID).Return(foreign, nil)
		f.listings.On("FindByProductAndWarehouse", ctx, product, foreign.ID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateListing(ctx, ListingInput{SellerID: seller, ProductID: product, WarehouseID: missing, SKU: "SKU-1"})
		assert.ErrorIs(t, err, fulfillment.ErrInvalidWarehouse)

		_, err = f.service.CreateListing(ctx, ListingInput{SellerID: seller, ProductID: product, WarehouseID: foreign.ID, SKU: "SKU-1"})
		assert.ErrorIs(t, err, fulfillment.ErrInvalidWarehouse)
		f.listings.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
