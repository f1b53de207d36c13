package hybrid

import (
	"context"

	"github.com/sparsedd/ddsolve/errs"
)

// checkSafepoint mirrors iterative's cooperative-cancellation check: call
// only at an iteration boundary, never mid-sweep.
func checkSafepoint(ctx context.Context) error {
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return errs.ErrTimedOut
		}
		return errs.ErrCancelled
	default:
		return nil
	}
}
