// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache

// state is where a slot sits in its lifecycle.  Transitions happen
// only while the cache-wide mutex is held; see cache.go.
type state int32

const (
	// stateUndefined is the zero value; a slot fresh out of the pool
	// (or never used) is never visible outside of it, so this should
	// never be observed by a lookup.
	stateUndefined state = iota

	// stateCreating is an entry reserved by Insert but not yet
	// committed.  It is invisible to LookupID/LookupName; only the
	// inserter holds it.
	stateCreating

	// stateCommitted is an entry whose data is final but that hasn't
	// been made visible to lookups yet.  Commit moves Creating here;
	// Release moves it on to Ready.
	stateCommitted

	// stateReady is a normal, lookup-visible, LRU-eligible entry.
	stateReady

	// stateDeleted is an entry that has been removed from both
	// indexes and the LRU list, waiting only for its last borrow to
	// be released before its slot is returned to the pool.
	stateDeleted
)

func (s state) String() string {
	switch s {
	case stateUndefined:
		return "undefined"
	case stateCreating:
		return "creating"
	case stateCommitted:
		return "committed"
	case stateReady:
		return "ready"
	case stateDeleted:
		return "deleted"
	default:
		return "invalid"
	}
}
