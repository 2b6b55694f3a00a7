package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingLedger   = errors.New("service requires a vote ledger")
	ErrMissingRegistry = errors.New("service requires a reviewer registry")
	ErrMissingCatalog  = errors.New("service requires a match catalog")
	ErrUnknownView     = errors.New("unknown view key")
)
