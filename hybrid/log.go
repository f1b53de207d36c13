package hybrid

import (
	"context"
	"log/slog"
)

// logger is the package-wide structured logger for HybridDriver lifecycle
// events (method selection, demotion). Defaults to slog.Default() so a
// caller gets sensible output with no setup; SetLogger redirects it to a
// caller-supplied handler.
var logger = slog.Default()

// SetLogger redirects HybridDriver's lifecycle logging to l. Passing nil
// restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

func logMethodSelected(ctx context.Context, method string, rows int) {
	logger.DebugContext(ctx, "hybrid: method selected", "method", method, "rows", rows)
}

func logMethodDemoted(ctx context.Context, method string, err error) {
	logger.WarnContext(ctx, "hybrid: method demoted", "method", method, "error", err)
}
