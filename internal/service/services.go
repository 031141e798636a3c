package service

import (
	"github.com/MKhiriev/go-flock-vault/internal/config"
	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/store"
)

type Services struct {
	AuthService         AuthService
	AccountService      AccountService
	ItemService         ItemService
	SubscriptionService SubscriptionService
}

func NewServices(driver store.Driver, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:         NewAuthService(driver, logger),
		AccountService:      NewAccountService(driver, logger),
		ItemService:         NewItemService(driver, logger),
		SubscriptionService: NewSubscriptionService(driver, cfg.Push.MaxFailures, logger),
	}
}
