package file

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// DeletionListener is told that a record it depends on was deleted upstream.
// It translates the ID into its own deletion criterion.
type DeletionListener interface {
	OnEntityDeleted(ctx context.Context, deletedID int64) error
}

type registration struct {
	name     string
	listener DeletionListener
}

// Cascade stands in for ON DELETE CASCADE. Listeners run synchronously in
// registration order; the first failure stops the chain and is returned.
// Rows already removed by earlier listeners stay removed.
type Cascade struct {
	registrations []registration
	logger        *log.Logger
}

func newCascade(logger *log.Logger) *Cascade {
	return &Cascade{logger: logger}
}

// Register appends a listener. A listener whose rows are reached through
// another listener's rows must be registered first.
func (c *Cascade) Register(name string, l DeletionListener) {
	c.registrations = append(c.registrations, registration{name: name, listener: l})
}

// Listeners returns the registered listener names in firing order.
func (c *Cascade) Listeners() []string {
	names := make([]string, len(c.registrations))
	for i, r := range c.registrations {
		names[i] = r.name
	}
	return names
}

// Notify fires every listener for deletedID and returns once all have finished.
func (c *Cascade) Notify(ctx context.Context, deletedID int64) error {
	for _, r := range c.registrations {
		c.logger.WithFields(log.Fields{"listener": r.name, "board_id": deletedID}).
			Info("board deleted, purging dependents")
		if err := r.listener.OnEntityDeleted(ctx, deletedID); err != nil {
			return fmt.Errorf("cascade to %s for board %d: %w", r.name, deletedID, err)
		}
	}
	return nil
}
