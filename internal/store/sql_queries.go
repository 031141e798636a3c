// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	createAccount = `INSERT INTO accounts (account, auth_token, metadata)
    VALUES ($1, $2, $3);`

	findAccount = `SELECT account, auth_token, metadata
    FROM accounts
    WHERE account = $1;`

	setAccountMetadata = `UPDATE accounts
    SET metadata = $2
    WHERE account = $1;`

	upsertItem = `INSERT INTO items (account, item, cipher, iv, type)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (account, item) DO UPDATE
    SET cipher = EXCLUDED.cipher, iv = EXCLUDED.iv, type = EXCLUDED.type;`

	findItem = `SELECT account, item, cipher, iv, type
    FROM items
    WHERE account = $1 AND item = $2;`

	findAllItems = `SELECT account, item, cipher, iv, type
    FROM items
    WHERE account = $1;`

	deleteItem = `DELETE FROM items
    WHERE account = $1 AND item = $2;`

	upsertSubscription = `INSERT INTO subscriptions (token, account, hours, timezone, failures)
    VALUES ($1, $2, $3, $4, 0)
    ON CONFLICT (token, account) DO UPDATE
    SET hours = EXCLUDED.hours, timezone = EXCLUDED.timezone, failures = 0;`

	findSubscription = `SELECT token, account, hours, timezone, failures
    FROM subscriptions
    WHERE account = $1 AND token = $2;`

	// Conditional increment: only rows still below the threshold are touched,
	// so the counter can never pass maxFailures. RETURNING exposes the new
	// value so the caller can evict the row that just reached the threshold.
	countSubscriptionFailure = `UPDATE subscriptions
    SET failures = failures + 1
    WHERE account = $1 AND token = $2 AND failures < $3
    RETURNING failures;`

	// Guarded delete: the failures >= $3 condition makes the two-phase
	// compare-and-act race-safe; a second concurrent delete attempt matches
	// zero rows instead of erroring.
	evictSubscription = `DELETE FROM subscriptions
    WHERE account = $1 AND token = $2 AND failures >= $3;`
)

// buildSubscriptionPageQuery builds one page of the full-subscription
// enumeration as a keyset-paginated SELECT. afterToken/afterAccount carry the
// last key of the previous page; both empty means the first page.
//
// Keyset pagination over the (token, account) primary key keeps each page an
// index range scan regardless of table size, and unlike OFFSET it does not
// re-read rows when concurrent writes shift the set; the enumeration is
// eventually consistent, matching the driver contract.
func buildSubscriptionPageQuery(afterToken, afterAccount string, pageSize uint64) (string, []any, error) {
	builder := sq.
		Select("token", "account", "hours", "timezone", "failures").
		From("subscriptions").
		OrderBy("token", "account").
		Limit(pageSize).
		PlaceholderFormat(sq.Dollar)

	if afterToken != "" || afterAccount != "" {
		builder = builder.Where(sq.Expr("(token, account) > (?, ?)", afterToken, afterAccount))
	}

	return builder.ToSql()
}
