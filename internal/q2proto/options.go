// Package q2proto is the facade every caller programs against: a
// ClientContext or ServerContext is constructed once, handed to the
// handshake/dialect packages to have a concrete wire codec bound to
// it, and from then on the caller only calls the context's own
// methods -- it never touches internal/dialect directly. This mirrors
// the teacher's internal/rdp/client.go, which is likewise the single
// type application code holds onto while internal/protocol/... PDU
// codecs do the actual byte pushing underneath.
package q2proto

import "github.com/kulaginds/q2proto-go/internal/logging"

// Options carries the run-time knobs spec.md §6.4 describes as
// build-time options in the original: logging, diagnostic tracing
// verbosity, and whether extended-limits constants (64 stats, 256
// inventory items) are in effect for dialect selection.
type Options struct {
	// Logger receives Debug-level shownet-style tracing from contexts
	// that opt in; nil means silent (the codec packages never log on
	// their own, per spec.md §5 "no background tasks").
	Logger *logging.Logger
	// ShownetLevel mirrors the source's shownet_check(level) gate; 0
	// disables tracing regardless of Logger.
	ShownetLevel int
	// ExtendedLimits gates MaxStats/MaxInventoryItems widening at the
	// dialect-selection boundary (spec.md §6.4).
	ExtendedLimits bool
}

func (o Options) trace(level int, format string, args ...any) {
	if o.Logger == nil || level > o.ShownetLevel {
		return
	}
	o.Logger.Debug(format, args...)
}
