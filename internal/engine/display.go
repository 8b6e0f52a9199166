package engine

import (
	"errors"
	"time"

	"github.com/tartampluch/go-clock/internal/config"
)

// Formatter is a configured, stateless rule rendering a moment as a
// locale-specific human-readable string. Implementations are built once and
// reused on every tick.
type Formatter interface {
	Format(t time.Time) string
}

// DisplayTarget is an externally supplied handle to a text-bearing UI
// element. The updater is its exclusive writer.
type DisplayTarget interface {
	SetText(s string)
}

// TimestampCarrier is optionally implemented by the time target to carry a
// machine-readable ISO-8601 representation of the displayed moment.
type TimestampCarrier interface {
	SetTimestamp(stamp string)
}

// Sentinel errors for the two failure modes of updater construction. Both
// are configuration/environment failures: there is no recovery and no retry.
var (
	// ErrMissingTarget indicates a required display handle was not supplied.
	ErrMissingTarget = errors.New(config.ErrTargetMissing)

	// ErrFormattingUnavailable indicates the locale formatting capability
	// could not be built (missing locale data or formatter).
	ErrFormattingUnavailable = errors.New(config.ErrFormatUnavailable)
)
