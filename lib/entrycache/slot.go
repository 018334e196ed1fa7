// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache

import (
	"sync"

	"github.com/dirsvc-oss/entrycache/lib/containers"
)

// entrySlot is the cache's private bookkeeping for one resident
// Record.  Its state, refcount, and lru fields are only ever touched
// while the owning Cache's mutex is held; rwlock guards the Record
// itself and is taken independently (see Cache.LookupID).
type entrySlot struct {
	id   Id
	name nameKey
	rec  Record

	state    state
	refcount uint
	rwlock   sync.RWMutex

	lru *containers.LinkedListEntry[*entrySlot]
}

// reset prepares a slot for reuse, dropping any reference to a
// previous occupant's Record.
func (s *entrySlot) reset(id Id, name nameKey, rec Record) {
	s.id = id
	s.name = name
	s.rec = rec
	s.state = stateUndefined
	s.refcount = 0
	s.lru = nil
}
