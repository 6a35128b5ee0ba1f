package shard

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrNoFiles indicates Open was called with an empty file list.
	ErrNoFiles = errors.New("shard: no files")

	// ErrOpen indicates one of the listed files could not be opened for reading.
	ErrOpen = errors.New("shard: cannot open file")

	// ErrInvalidShard indicates a shard index, shard count or logical offset out of range.
	ErrInvalidShard = errors.New("shard: invalid shard")
)
