// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package entrycache is an in-memory cache of directory-service
// entries, indexed by both name and numeric id, with per-entry
// reader/writer locking and approximate-LRU eviction.
//
// The cache holds no opinion about what an entry actually is; it
// deals in Record, a two-field view (id, name) that a host's real
// entry type implements.  Persistence, replication, and query
// planning are all the host's problem -- see caching.Store for the
// seam where a host plugs in its own backing store.
package entrycache

import (
	"github.com/dirsvc-oss/entrycache/lib/caching"
)

// Id is a directory entry's numeric identifier.  Ids are assigned by
// the host and are assumed unique and stable for the lifetime of the
// entry; the cache only ever compares and orders them.
type Id = uint64

// NOID is the reserved id meaning "no such entry".  A host must never
// hand the cache a Record whose CacheID() is NOID.
const NOID Id = 0

// Record is the contract a host's entry type must satisfy to be held
// resident in a Cache.  It is exactly caching.Record; the alias
// exists so that callers of this package don't also need to import
// lib/caching just to spell the type.
type Record = caching.Record

// FreeFunc is called by the cache when a Record is no longer resident
// -- either because it was deleted and its last borrow released, or
// because it was evicted to make room.  It is never called for an
// entry whose insertion was aborted (see Cache.Release); in that case
// ownership of the Record reverts to whichever goroutine called
// Insert.
type FreeFunc func(Record)

// Mode is the kind of lock a borrower holds on a resident entry.
type Mode int

const (
	// Read grants shared access; any number of readers may hold an
	// entry at once.
	Read Mode = iota
	// Write grants exclusive access.
	Write
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "invalid"
	}
}
