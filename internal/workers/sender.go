package workers

import (
	"context"

	"github.com/MKhiriev/go-flock-vault/internal/logger"
	"github.com/MKhiriev/go-flock-vault/models"
)

// logSender writes the delivery intent to the log instead of contacting a
// push gateway. It stands in until a real web-push sender is wired up.
type logSender struct {
	logger *logger.Logger
}

// NewLogSender returns a Sender that records deliveries in the log and
// always succeeds.
func NewLogSender(logger *logger.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(_ context.Context, sub models.Subscription) error {
	s.logger.Info().
		Str("account", sub.Account).
		Str("token", sub.Token).
		Msg("push notification due")
	return nil
}
