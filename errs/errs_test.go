package errs_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/errs"
)

func TestRecoverableIsFalseForIntegrityErrors(t *testing.T) {
	require.False(t, errs.Recoverable(errs.ErrInvalidShape))
	require.False(t, errs.Recoverable(errs.ErrNonFinite))
	require.False(t, errs.Recoverable(fmt.Errorf("wrapped: %w", errs.ErrInvalidShape)))
}

func TestRecoverableIsTrueForMethodLocalErrors(t *testing.T) {
	require.True(t, errs.Recoverable(errs.ErrBreakdown))
	require.True(t, errs.Recoverable(errs.ErrSingularDiagonal))
	require.True(t, errs.Recoverable(errs.ErrDiverged))
	require.True(t, errs.Recoverable(errs.ErrCancelled))
	require.True(t, errs.Recoverable(errs.ErrTimedOut))
	require.True(t, errs.Recoverable(errs.ErrBudgetExceeded))
}
