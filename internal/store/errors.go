package store

import "errors"

// Sentinel errors returned by driver methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountNotFound is returned when an account lookup matches no row.
	// The auth gate collapses this with "wrong token" before it ever reaches
	// a client, so the sentinel stays server-internal.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrItemNotFound is returned when a point lookup targets an item
	// (identified by account and item id) that does not exist.
	ErrItemNotFound = errors.New("item was not found")

	// ErrSubscriptionNotFound is returned when a point lookup targets a
	// subscription (identified by account and push token) that does not
	// exist, including one that was just evicted for repeated failures.
	ErrSubscriptionNotFound = errors.New("subscription was not found")

	// ErrSubscriptionScan is returned by EverySubscription when not a single
	// page of the enumeration could be fetched. Partial results suppress it:
	// pages collected before a failure are always returned.
	ErrSubscriptionScan = errors.New("could not scan for subscriptions")
)

// Low-level database operation errors. These are returned (or wrapped) by
// driver methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
