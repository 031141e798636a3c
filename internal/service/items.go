package service

import (
	"context"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/models"
)

// itemService implements ItemService. It is deliberately thin: validation
// and conditional-write semantics live in the driver, authentication in the
// HTTP middleware; this layer only routes and logs.
type itemService struct {
	driver store.Driver
	logger *logger.Logger
}

// NewItemService constructs an ItemService backed by the given driver.
func NewItemService(driver store.Driver, logger *logger.Logger) ItemService {
	return &itemService{
		driver: driver,
		logger: logger,
	}
}

func (s *itemService) Set(ctx context.Context, item models.Item) error {
	return s.driver.SetItem(ctx, item)
}

func (s *itemService) Get(ctx context.Context, accountID, itemID string) (models.Item, error) {
	return s.driver.GetItem(ctx, accountID, itemID)
}

func (s *itemService) FetchAll(ctx context.Context, accountID string) ([]models.Item, error) {
	items, err := s.driver.FetchAllItems(ctx, accountID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("account", accountID).Msg("fetching all items failed")
		return nil, err
	}
	return items, nil
}

func (s *itemService) Delete(ctx context.Context, accountID, itemID string) error {
	return s.driver.DeleteItem(ctx, accountID, itemID)
}
