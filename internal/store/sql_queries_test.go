// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_buildSubscriptionPageQuery_FirstPage(t *testing.T) {
	query, args, err := buildSubscriptionPageQuery("", "", subscriptionPageSize)
	require.NoError(t, err)

	// args checks
	require.Empty(t, args)

	// query checks (contains parts)
	q := strings.ToLower(query)

	require.Contains(t, q, "select")
	require.Contains(t, q, "from subscriptions")
	require.Contains(t, q, "order by token, account")
	require.Contains(t, q, "limit 100")
	require.NotContains(t, q, "where")
}

func Test_buildSubscriptionPageQuery_KeysetContinuation(t *testing.T) {
	query, args, err := buildSubscriptionPageQuery("last-token", "last-account", subscriptionPageSize)
	require.NoError(t, err)

	require.Len(t, args, 2)
	require.Equal(t, "last-token", args[0])
	require.Equal(t, "last-account", args[1])

	q := strings.ToLower(query)
	require.Contains(t, q, "where")
	require.Contains(t, q, "(token, account) >")

	// placeholder format should be $1 (Postgres)
	require.Contains(t, query, "$1")
	require.Contains(t, query, "$2")
}

func Test_buildSubscriptionPageQuery_SelectsAllColumns(t *testing.T) {
	query, _, err := buildSubscriptionPageQuery("", "", 10)
	require.NoError(t, err)

	q := strings.ToLower(query)
	for _, col := range []string{"token", "account", "hours", "timezone", "failures"} {
		require.Contains(t, q, col)
	}
}
