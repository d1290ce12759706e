// Package console writes alert lines to a terminal stream.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/couchcryptid/lightning-alert-service/internal/domain"
)

// Writer prints one line per alert, e.g. "lightning alert for 6720:Dante Street".
// It implements pipeline.AlertLoader.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a Writer over w, typically os.Stdout.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// LoadAlerts writes the alerts in order and flushes before returning, so each
// line is visible as soon as its strike has been processed.
func (c *Writer) LoadAlerts(_ context.Context, alerts []domain.Alert) error {
	for i := range alerts {
		if _, err := fmt.Fprintln(c.w, alerts[i].Message()); err != nil {
			return fmt.Errorf("write alert: %w", err)
		}
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("flush alerts: %w", err)
	}
	return nil
}
