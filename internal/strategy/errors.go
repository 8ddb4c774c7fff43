package strategy

import "errors"

// Configuration errors are fatal at construction; no decision can run
// until the configuration is fixed.
var (
	ErrUnknownKind           = errors.New("unknown strategy kind")
	ErrShortPeriodTooLong    = errors.New("short period must be less than long period")
	ErrInvalidMomentumWindow = errors.New("momentum lookback period must be positive")
	ErrInvalidVWAPWindow     = errors.New("vwap window must be positive")
)
