// Package storage defines the journal interface and its SQLite implementation.
package storage

import (
	"context"

	"homework_bot/internal/model"
)

// Storage is the interface for all journal operations.
type Storage interface {
	RecordCycle(ctx context.Context, c *model.Cycle) error
	RecordNotification(ctx context.Context, n *model.Notification) error

	ListCycles(ctx context.Context, limit int) ([]model.Cycle, error)
	ListNotifications(ctx context.Context, limit int) ([]model.Notification, error)

	Close() error
}
