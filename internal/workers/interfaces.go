// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import (
	"context"

	"github.com/MKhiriev/go-flock-vault/models"
)

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Implementations are expected to block until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// Sender delivers one push notification to the device behind a
// subscription's token. An error return counts as a delivery failure against
// that subscription.
type Sender interface {
	Send(ctx context.Context, sub models.Subscription) error
}
