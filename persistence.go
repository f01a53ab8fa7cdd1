package parceltrack

import (
	"context"

	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence reads notifications archived at logout.
type Persistence interface {
	// Archived returns the archived notifications of userID, most recent
	// first. A limit of zero returns everything. It fails with
	// errors.ErrInvalidInput when the storage keeps no archive.
	Archived(ctx context.Context, userID string, limit int) ([]types.Notification, error)
}

// Archived returns archived notifications.
func (c *client) Archived(ctx context.Context, userID string, limit int) ([]types.Notification, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user_id", userID, "must not be empty")
	}
	return c.persister.Archived(ctx, userID, limit)
}
