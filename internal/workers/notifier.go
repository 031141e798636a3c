// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"slices"
	"time"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/service"
	"github.com/MKhiriev/go-flock-vault/models"
)

// Notifier is the background worker that drives push-notification delivery.
// On every tick it enumerates all subscriptions, selects the ones whose
// schedule matches the current hour in their own timezone, and hands them to
// the Sender. A failed delivery (or an unparseable timezone) is reported to
// the subscription service, which evicts the record once the failure
// threshold is reached.
type Notifier struct {
	subscriptions service.SubscriptionService
	sender        Sender
	interval      time.Duration

	// now is stubbed in tests.
	now func() time.Time

	logger *logger.Logger
}

func NewNotifier(subscriptions service.SubscriptionService, sender Sender, interval time.Duration, logger *logger.Logger) *Notifier {
	if interval <= 0 {
		interval = time.Hour
	}

	return &Notifier{
		subscriptions: subscriptions,
		sender:        sender,
		interval:      interval,
		now:           time.Now,
		logger:        logger,
	}
}

// Run blocks, delivering one notification pass per interval, until ctx is
// cancelled.
func (n *Notifier) Run(ctx context.Context) {
	n.logger.Info().Dur("interval", n.interval).Msg("notifier started")

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.logger.Info().Msg("notifier stopped")
			return
		case <-ticker.C:
			n.deliverPass(ctx)
		}
	}
}

// deliverPass runs one full delivery sweep over all subscriptions.
func (n *Notifier) deliverPass(ctx context.Context) {
	subs, err := n.subscriptions.All(ctx)
	if err != nil {
		n.logger.Err(err).Msg("notifier could not enumerate subscriptions")
		return
	}

	now := n.now()
	delivered, failed := 0, 0

	for _, sub := range subs {
		due, err := scheduleMatches(sub, now)
		if err != nil {
			// A record with an unparseable timezone can never be delivered;
			// counting it as a failure lets the threshold evict it.
			n.logger.Err(err).Str("account", sub.Account).Msg("invalid subscription timezone")
			n.reportFailure(ctx, sub)
			failed++
			continue
		}
		if !due {
			continue
		}

		if err := n.sender.Send(ctx, sub); err != nil {
			n.logger.Err(err).Str("account", sub.Account).Msg("push delivery failed")
			n.reportFailure(ctx, sub)
			failed++
			continue
		}
		delivered++
	}

	n.logger.Info().
		Int("subscriptions", len(subs)).
		Int("delivered", delivered).
		Int("failed", failed).
		Msg("notification pass finished")
}

func (n *Notifier) reportFailure(ctx context.Context, sub models.Subscription) {
	if err := n.subscriptions.ReportFailure(ctx, sub.Account, sub.Token); err != nil {
		n.logger.Err(err).Str("account", sub.Account).Msg("could not report delivery failure")
	}
}

// scheduleMatches reports whether the subscription wants a notification at
// the given instant: the hour in the subscriber's own timezone must appear
// in its Hours list.
func scheduleMatches(sub models.Subscription, now time.Time) (bool, error) {
	loc, err := time.LoadLocation(sub.Timezone)
	if err != nil {
		return false, err
	}

	return slices.Contains(sub.Hours, now.In(loc).Hour()), nil
}
