package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/internal/validators"
	"github.com/MKhiriev/go-flock-vault/models"
)

// Pagination bounds for EverySubscription. The enumeration stops once
// maxScanItems records have been collected even if more pages remain.
const (
	subscriptionPageSize = 100
	maxScanItems         = 1000
)

// postgresDriver is the PostgreSQL-backed implementation of [Driver].
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type postgresDriver struct {
	logger *logger.Logger
	db     *DB
}

// NewPostgresDriver constructs a [Driver] backed by the provided database
// connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewPostgresDriver(db *DB, logger *logger.Logger) Driver {
	logger.Debug().Msg("creating postgres vault driver")
	return &postgresDriver{
		db:     db,
		logger: logger,
	}
}

// Init applies the embedded schema migrations. Goose tracks applied versions
// and every table is created with IF NOT EXISTS, so only genuinely new
// migrations run; an already-provisioned schema is success, anything else
// propagates.
func (d *postgresDriver) Init(ctx context.Context) error {
	if err := d.db.Migrate(); err != nil {
		d.logger.Err(err).Str("func", "*postgresDriver.Init").Msg("error applying migrations")
		return err
	}
	return nil
}

// CreateAccount persists a new account record via a conditional insert.
//
// The accounts primary key makes the INSERT conditional: a duplicate account
// trips unique_violation, which is reported as (false, nil) because "already
// taken" is an expected outcome with a defined caller next step. The stored
// record is left untouched in that case.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → (false, nil).
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (d *postgresDriver) CreateAccount(ctx context.Context, account models.Account) (bool, error) {
	log := logger.FromContext(ctx)

	metadata := account.Metadata
	if metadata == nil {
		metadata = json.RawMessage("{}")
	}

	_, err := d.db.ExecContext(ctx, createAccount, account.Account, account.AuthToken, []byte(metadata))
	if err != nil {
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			log.Debug().Str("account", account.Account).Msg("account already exists")
			return false, nil
		default:
			log.Err(err).Str("func", "*postgresDriver.CreateAccount").
				Bool("retryable", d.db.errorClassificator.Classify(err) == Retryable).
				Msg("error: account insert failed")
			return false, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return true, nil
}

// GetAccount retrieves the raw account row including the stored auth token.
// The caller (the auth gate) is responsible for the constant-time token
// comparison; this method deliberately does not authenticate.
func (d *postgresDriver) GetAccount(ctx context.Context, accountID string) (models.Account, error) {
	log := logger.FromContext(ctx)

	var account models.Account
	var metadata []byte
	row := d.db.QueryRowContext(ctx, findAccount, accountID)
	if err := row.Scan(&account.Account, &account.AuthToken, &metadata); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*postgresDriver.GetAccount").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	account.Metadata = metadata

	return account, nil
}

// SetMetadata unconditionally replaces the account's metadata document.
func (d *postgresDriver) SetMetadata(ctx context.Context, accountID string, metadata json.RawMessage) error {
	log := logger.FromContext(ctx)

	if _, err := d.db.ExecContext(ctx, setAccountMetadata, accountID, []byte(metadata)); err != nil {
		log.Err(err).Str("func", "*postgresDriver.SetMetadata").Msg("error: metadata update failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// SetItem validates the record and upserts it. Validation runs before any
// write, so a rejected item has no persistence side effect. Writes to an
// existing (account, item) key replace the stored ciphertext: last write
// wins, there is no version check.
func (d *postgresDriver) SetItem(ctx context.Context, item models.Item) error {
	log := logger.FromContext(ctx)

	if err := validators.ValidateItem(item); err != nil {
		log.Debug().Err(err).Str("item", item.ItemID).Msg("item rejected by validation")
		return err
	}

	if _, err := d.db.ExecContext(ctx, upsertItem, item.Account, item.ItemID, item.Cipher, item.IV, item.Type); err != nil {
		log.Err(err).Str("func", "*postgresDriver.SetItem").Msg("error: item upsert failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// GetItem is a point lookup by (account, item).
func (d *postgresDriver) GetItem(ctx context.Context, accountID, itemID string) (models.Item, error) {
	log := logger.FromContext(ctx)

	var item models.Item
	row := d.db.QueryRowContext(ctx, findItem, accountID, itemID)
	if err := row.Scan(&item.Account, &item.ItemID, &item.Cipher, &item.IV, &item.Type); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, ErrItemNotFound
		}
		log.Err(err).Str("func", "*postgresDriver.GetItem").Msg("error: scanning error")
		return models.Item{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return item, nil
}

// FetchAllItems returns every item in the account's partition. The read is
// a single range query over the (account, item) key but it is not a snapshot
// with respect to concurrent writes.
func (d *postgresDriver) FetchAllItems(ctx context.Context, accountID string) ([]models.Item, error) {
	log := logger.FromContext(ctx)

	rows, err := d.db.QueryContext(ctx, findAllItems, accountID)
	if err != nil {
		log.Err(err).Str("func", "*postgresDriver.FetchAllItems").Msg("error: query failed")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.Account, &item.ItemID, &item.Cipher, &item.IV, &item.Type); err != nil {
			log.Err(err).Str("func", "*postgresDriver.FetchAllItems").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

// DeleteItem unconditionally removes an item; deleting an absent item
// affects zero rows and is not an error.
func (d *postgresDriver) DeleteItem(ctx context.Context, accountID, itemID string) error {
	log := logger.FromContext(ctx)

	if _, err := d.db.ExecContext(ctx, deleteItem, accountID, itemID); err != nil {
		log.Err(err).Str("func", "*postgresDriver.DeleteItem").Msg("error: delete failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// SetSubscription upserts the full subscription record. The upsert always
// writes failures = 0, so re-registering a push endpoint resets its
// delivery-failure accounting.
func (d *postgresDriver) SetSubscription(ctx context.Context, sub models.Subscription) error {
	log := logger.FromContext(ctx)

	hours, err := json.Marshal(sub.Hours)
	if err != nil {
		return fmt.Errorf("marshal hours: %w", err)
	}

	if _, err := d.db.ExecContext(ctx, upsertSubscription, sub.Token, sub.Account, hours, sub.Timezone); err != nil {
		log.Err(err).Str("func", "*postgresDriver.SetSubscription").Msg("error: subscription upsert failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// GetSubscription is a point lookup by (account, token).
func (d *postgresDriver) GetSubscription(ctx context.Context, accountID, token string) (models.Subscription, error) {
	log := logger.FromContext(ctx)

	var sub models.Subscription
	var hours []byte
	row := d.db.QueryRowContext(ctx, findSubscription, accountID, token)
	if err := row.Scan(&sub.Token, &sub.Account, &hours, &sub.Timezone, &sub.Failures); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Subscription{}, ErrSubscriptionNotFound
		}
		log.Err(err).Str("func", "*postgresDriver.GetSubscription").Msg("error: scanning error")
		return models.Subscription{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if err := json.Unmarshal(hours, &sub.Hours); err != nil {
		return models.Subscription{}, fmt.Errorf("unmarshal hours: %w", err)
	}

	return sub, nil
}

// CountSubscriptionFailure records one delivery failure for (account, token)
// using single-row conditional statements instead of a lock:
//
//  1. increment failures, guarded by failures < maxFailures;
//  2. if the incremented counter reached the threshold, or if the guard
//     matched no row at all (already at threshold), delete the record,
//     guarded by failures >= maxFailures.
//
// A record therefore never survives with failures >= maxFailures: the call
// that brings the counter to the threshold is the one that evicts. Two
// concurrent failure reports may both observe the threshold and both attempt
// the delete; the guard makes the second attempt a zero-row no-op rather
// than an error. A report against a subscription that never existed matches
// zero rows in every phase and is silently ignored, mirroring the
// conditional-write behaviour of the original table store.
func (d *postgresDriver) CountSubscriptionFailure(ctx context.Context, accountID, token string, maxFailures int) error {
	log := logger.FromContext(ctx)

	var failures int
	err := d.db.QueryRowContext(ctx, countSubscriptionFailure, accountID, token, maxFailures).Scan(&failures)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Err(err).Str("func", "*postgresDriver.CountSubscriptionFailure").Msg("error: failure increment failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	incremented := err == nil
	if incremented && failures < maxFailures {
		return nil
	}

	// Threshold reached (or subscription gone): evict under guard.
	if _, err := d.db.ExecContext(ctx, evictSubscription, accountID, token, maxFailures); err != nil {
		log.Err(err).Str("func", "*postgresDriver.CountSubscriptionFailure").Msg("error: eviction failed")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if incremented {
		log.Info().Str("token", token).Int("max_failures", maxFailures).
			Msg("deleting subscription after failing to push too many times")
	}

	return nil
}

// EverySubscription enumerates the whole subscriptions table in keyset-
// paginated pages of subscriptionPageSize rows, up to maxScanItems in total.
//
// Pages already collected survive a mid-scan failure: the partial result is
// returned without error, and only a failure before the first page completes
// is reported (as ErrSubscriptionScan). The enumeration is eventually
// consistent and may interleave with concurrent writes.
func (d *postgresDriver) EverySubscription(ctx context.Context) ([]models.Subscription, error) {
	log := logger.FromContext(ctx)

	subs := make([]models.Subscription, 0)
	var lastToken, lastAccount string

	for len(subs) < maxScanItems {
		page, err := d.subscriptionPage(ctx, lastToken, lastAccount)
		if err != nil {
			log.Err(err).Str("func", "*postgresDriver.EverySubscription").
				Bool("retryable", d.db.errorClassificator.Classify(err) == Retryable).
				Int("collected", len(subs)).
				Msg("error: subscription page fetch failed")
			if len(subs) == 0 {
				return nil, fmt.Errorf("%w: %w", ErrSubscriptionScan, err)
			}
			// Keep what we already fetched.
			break
		}

		subs = append(subs, page...)
		if len(page) < subscriptionPageSize {
			break
		}
		lastToken = page[len(page)-1].Token
		lastAccount = page[len(page)-1].Account
	}

	return subs, nil
}

func (d *postgresDriver) subscriptionPage(ctx context.Context, afterToken, afterAccount string) ([]models.Subscription, error) {
	query, args, err := buildSubscriptionPageQuery(afterToken, afterAccount, subscriptionPageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	page := make([]models.Subscription, 0, subscriptionPageSize)
	for rows.Next() {
		var sub models.Subscription
		var hours []byte
		if err := rows.Scan(&sub.Token, &sub.Account, &hours, &sub.Timezone, &sub.Failures); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if err := json.Unmarshal(hours, &sub.Hours); err != nil {
			return nil, fmt.Errorf("unmarshal hours: %w", err)
		}
		page = append(page, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return page, nil
}
