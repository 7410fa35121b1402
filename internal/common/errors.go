// Package common defines shared constants and sentinel errors used across
// client and server layers of partage. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Upload validation errors.
	ErrHashMismatch    = errors.New("hash mismatch")
	ErrPayloadTooLarge = errors.New("payload too large")

	// Finalization validation errors.
	ErrInvalidExpiry = errors.New("invalid expiry spec")

	// Client-side integrity check on downloaded parts.
	ErrIntegrity = errors.New("integrity violation")

	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")
)
