// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package caching declares the narrow interfaces a host implements to
// plug its own record type into an entrycache.Cache, and that a
// persistent record store implements to sit behind one.
package caching

import (
	"context"
)

// Record is anything an entrycache.Cache can hold resident. The cache
// itself never interprets the payload beyond these two accessors; see
// entrycache.Record for the full contract (including the lifecycle
// that applies once a Record is resident).
type Record interface {
	// CacheID returns the record's identifier. It must be stable
	// for the lifetime of the record's residency.
	CacheID() uint64

	// CacheName returns the record's normalized name key. Compared
	// as a raw byte string; the cache does not interpret it.
	CacheName() []byte
}

// Store is the persistent backing store that a host keeps behind its
// cache. It is not used by entrycache.Cache itself -- per the cache's
// non-goals, it has no notion of persistence -- but it is the
// external collaborator a host wires the cache up to: load a record
// on a cache miss, flush it back on eviction or shutdown.
type Store[R Record] interface {
	// Load fetches the record for id from persistent storage. It
	// returns an error if no such record exists.
	Load(ctx context.Context, id uint64) (R, error)

	// Flush ensures that if the process exited right now, no one
	// would be upset about the state of rec. It does not remove
	// rec from the store.
	Flush(ctx context.Context, rec R) error
}
