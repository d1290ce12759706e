package pipeline

import (
	"context"

	"github.com/couchcryptid/lightning-alert-service/internal/domain"
)

// AlertLoader writes alerts to a destination.
type AlertLoader interface {
	LoadAlerts(ctx context.Context, alerts []domain.Alert) error
}

// StrikeMatcher classifies a parsed strike.
type StrikeMatcher interface {
	Match(s domain.Strike) (domain.Alert, domain.Outcome)
}

// MultiLoader loads alerts into each loader in order, stopping at the first
// error.
type MultiLoader []AlertLoader

func (m MultiLoader) LoadAlerts(ctx context.Context, alerts []domain.Alert) error {
	for _, l := range m {
		if err := l.LoadAlerts(ctx, alerts); err != nil {
			return err
		}
	}
	return nil
}
