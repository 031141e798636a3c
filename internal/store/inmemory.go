package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/MKhiriev/go-flock-vault/internal/validators"
	"github.com/MKhiriev/go-flock-vault/models"
)

// memoryDriver is an in-memory [Driver] used by tests and local development
// runs (empty database DSN). It reproduces the conditional-write semantics of
// the Postgres driver (create-once accounts, guarded failure counting) with
// a single mutex standing in for per-row atomicity.
type memoryDriver struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	items    map[string]map[string]models.Item        // account → item id → item
	subs     map[string]map[string]models.Subscription // account → token → sub
}

// NewMemoryDriver constructs an empty in-memory [Driver].
func NewMemoryDriver() Driver {
	return &memoryDriver{
		accounts: make(map[string]models.Account),
		items:    make(map[string]map[string]models.Item),
		subs:     make(map[string]map[string]models.Subscription),
	}
}

func (d *memoryDriver) Init(ctx context.Context) error {
	return nil
}

func (d *memoryDriver) CreateAccount(ctx context.Context, account models.Account) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[account.Account]; exists {
		return false, nil
	}
	if account.Metadata == nil {
		account.Metadata = json.RawMessage("{}")
	}
	d.accounts[account.Account] = account
	return true, nil
}

func (d *memoryDriver) GetAccount(ctx context.Context, accountID string) (models.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	account, exists := d.accounts[accountID]
	if !exists {
		return models.Account{}, ErrAccountNotFound
	}
	return account, nil
}

func (d *memoryDriver) SetMetadata(ctx context.Context, accountID string, metadata json.RawMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	account, exists := d.accounts[accountID]
	if !exists {
		// Unconditional update semantics: updating a missing row touches
		// nothing and reports no error.
		return nil
	}
	account.Metadata = metadata
	d.accounts[accountID] = account
	return nil
}

func (d *memoryDriver) SetItem(ctx context.Context, item models.Item) error {
	if err := validators.ValidateItem(item); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.items[item.Account] == nil {
		d.items[item.Account] = make(map[string]models.Item)
	}
	d.items[item.Account][item.ItemID] = item
	return nil
}

func (d *memoryDriver) GetItem(ctx context.Context, accountID, itemID string) (models.Item, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	item, exists := d.items[accountID][itemID]
	if !exists {
		return models.Item{}, ErrItemNotFound
	}
	return item, nil
}

func (d *memoryDriver) FetchAllItems(ctx context.Context, accountID string) ([]models.Item, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	items := make([]models.Item, 0, len(d.items[accountID]))
	for _, item := range d.items[accountID] {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return items, nil
}

func (d *memoryDriver) DeleteItem(ctx context.Context, accountID, itemID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.items[accountID], itemID)
	return nil
}

func (d *memoryDriver) SetSubscription(ctx context.Context, sub models.Subscription) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sub.Failures = 0
	if d.subs[sub.Account] == nil {
		d.subs[sub.Account] = make(map[string]models.Subscription)
	}
	d.subs[sub.Account][sub.Token] = sub
	return nil
}

func (d *memoryDriver) GetSubscription(ctx context.Context, accountID, token string) (models.Subscription, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sub, exists := d.subs[accountID][token]
	if !exists {
		return models.Subscription{}, ErrSubscriptionNotFound
	}
	return sub, nil
}

func (d *memoryDriver) CountSubscriptionFailure(ctx context.Context, accountID, token string, maxFailures int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	sub, exists := d.subs[accountID][token]
	if !exists {
		return nil
	}
	if sub.Failures < maxFailures {
		sub.Failures++
		if sub.Failures >= maxFailures {
			delete(d.subs[accountID], token)
			return nil
		}
		d.subs[accountID][token] = sub
		return nil
	}
	delete(d.subs[accountID], token)
	return nil
}

func (d *memoryDriver) EverySubscription(ctx context.Context) ([]models.Subscription, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs := make([]models.Subscription, 0)
	for _, byToken := range d.subs {
		for _, sub := range byToken {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Token != subs[j].Token {
			return subs[i].Token < subs[j].Token
		}
		return subs[i].Account < subs[j].Account
	})
	return subs, nil
}
