package cache

import "errors"

var (
	// ErrCorruptEntry is returned when a stored value is too short to hold an expiry header.
	ErrCorruptEntry = errors.New("cache entry is corrupt")
)
