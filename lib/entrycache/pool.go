// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache

import (
	"git.lukeshu.com/go/typedsync"
)

// slotPool recycles entrySlot objects across insert/evict cycles, so
// that a slot and the rwlock embedded in it are not reallocated on
// every insert under load.  The slot's LRU list entry is not recycled:
// put clears it and Insert allocates a fresh one.
type slotPool struct {
	inner typedsync.Pool[*entrySlot]
}

func newSlotPool() *slotPool {
	return &slotPool{
		inner: typedsync.Pool[*entrySlot]{
			New: func() *entrySlot {
				return new(entrySlot)
			},
		},
	}
}

func (p *slotPool) get() *entrySlot {
	slot, _ := p.inner.Get()
	return slot
}

// put returns a slot to the pool.  The slot must not be reachable
// from either index, the LRU list, or any outstanding Borrow.
func (p *slotPool) put(slot *entrySlot) {
	slot.rec = nil
	slot.lru = nil
	p.inner.Put(slot)
}
