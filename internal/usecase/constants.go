package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/evka/tripledger/internal/domain"
)

const (
	// DefaultStoreTimeout caps how long a single store operation may run
	// before it fails with domain.ErrStoreTimeout instead of hanging.
	DefaultStoreTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// TripCacheTTL bounds how long a cached trip document may live even
	// without an invalidating write.
	TripCacheTTL = 5 * time.Minute
)

// withStoreTimeout applies the per-operation store budget to ctx.
func withStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultStoreTimeout
	}

	return context.WithTimeout(ctx, d)
}

// storeErr translates a context deadline into the domain timeout error so
// callers see a retryable Timeout rather than a raw context error.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStoreTimeout
	}

	return err
}
