// Package deadline bounds every store call made by the core services.
package deadline

import (
	"context"
	"time"
)

// Default is used when no store timeout is configured
const Default = 5 * time.Second

// Store derives a child context that expires after d (Default when d <= 0).
// An earlier deadline already on ctx wins.
func Store(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = Default
	}
	return context.WithTimeout(ctx, d)
}
