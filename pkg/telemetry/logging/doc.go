// Package logging provides structured logger construction for knox-core.
//
// The package is a thin layer over log/slog: it translates a small Config
// (level, format, output) into a ready-to-use *slog.Logger and provides
// context helpers for the fields knox components attach to their log lines.
//
// # Basic Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//
//	catalogLogger := logger.With("component", "catalog")
//
// Components accept a *slog.Logger directly and fall back to slog.Default()
// when handed nil, so the package never needs to be on a caller's import
// path.
//
// # Context Fields
//
// Policy operations carry an operation ID, the policy name, and an origin
// through context.Context. ContextAttrs collects whichever of these are
// present:
//
//	ctx = logging.WithOperationID(ctx, id)
//	logger.InfoContext(ctx, "policy toggled", logging.ContextAttrs(ctx)...)
package logging
