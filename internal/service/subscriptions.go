package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/store"
	"github.com/MKhiriev/go-flock-vault/models"
)

// subscriptionService implements SubscriptionService. The failure threshold
// is fixed at construction from server configuration.
type subscriptionService struct {
	driver      store.Driver
	maxFailures int
	logger      *logger.Logger
}

// NewSubscriptionService constructs a SubscriptionService. maxFailures is
// the number of delivery-failure reports after which a subscription is
// evicted.
func NewSubscriptionService(driver store.Driver, maxFailures int, logger *logger.Logger) SubscriptionService {
	return &subscriptionService{
		driver:      driver,
		maxFailures: maxFailures,
		logger:      logger,
	}
}

// Set registers or replaces a subscription. Re-registering an existing
// (account, token) pair resets its failure counter to zero.
func (s *subscriptionService) Set(ctx context.Context, sub models.Subscription) error {
	if sub.Account == "" || sub.Token == "" {
		return ErrInvalidDataProvided
	}

	return s.driver.SetSubscription(ctx, sub)
}

func (s *subscriptionService) Get(ctx context.Context, accountID, token string) (models.Subscription, error) {
	return s.driver.GetSubscription(ctx, accountID, token)
}

// ReportFailure counts one failed delivery against (account, token). Once
// the threshold is reached the subscription is deleted in the same call.
func (s *subscriptionService) ReportFailure(ctx context.Context, accountID, token string) error {
	if err := s.driver.CountSubscriptionFailure(ctx, accountID, token, s.maxFailures); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("account", accountID).
			Msg("counting subscription failure ended with error")
		return fmt.Errorf("counting subscription failure ended with error: %w", err)
	}
	return nil
}

// All enumerates every subscription across all accounts. The driver retains
// pages fetched before a mid-scan failure, so a partial result with err ==
// nil is possible; only a scan that produced nothing at all fails.
func (s *subscriptionService) All(ctx context.Context) ([]models.Subscription, error) {
	subs, err := s.driver.EverySubscription(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("enumerating subscriptions failed")
		return nil, err
	}
	return subs, nil
}
