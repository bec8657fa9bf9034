package config

import "time"

const (
	// MaxNodeNameLength is the maximum length for folder and file names.
	// Limited to 255 to match common filesystem limits, so a tree can be
	// exported to disk without truncation.
	MaxNodeNameLength = 255

	// MaxContentBytes bounds a single file body accepted over HTTP.
	MaxContentBytes = 10 << 20

	// DefaultLockTimeout bounds how long an operation waits for the store.
	// Transactions are small, so contention should clear in milliseconds.
	DefaultLockTimeout = 5 * time.Second

	// MaxTreeDepth bounds the ancestor walk on move. A chain longer than this
	// can only come from a corrupted store.
	MaxTreeDepth = 4096
)
