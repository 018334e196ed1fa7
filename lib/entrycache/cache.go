// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/datawire/dlib/dlog"

	"github.com/dirsvc-oss/entrycache/lib/containers"
)

// maxEvictionSkips bounds how many pinned entries a single eviction
// pass will shuffle out of the way before giving up on making room.
// Past this, a caller over its MaxSize with a working set of mostly
// pinned entries just has to live with it; we don't spin forever.
const maxEvictionSkips = 10

// Borrow is a caller's handle on a resident entry, obtained from
// Insert or LookupID.  It must eventually be passed to exactly one of
// Commit+Release, Release, or Delete.
type Borrow struct {
	slot     *entrySlot
	mode     Mode
	released bool
}

// Record returns the borrowed entry's payload.
func (b *Borrow) Record() Record { return b.slot.rec }

// Mode returns the lock mode the borrow was acquired with.
func (b *Borrow) Mode() Mode { return b.mode }

// Cache is an in-memory, concurrency-safe cache of directory entries,
// indexed by both name and id, with approximate-LRU eviction.
//
// A Cache's exported methods are all safe for concurrent use, and
// none of them returns with the cache mutex held, so a goroutine may
// call back into the Cache while it holds a Borrow.  A LookupID for an
// entry that the same goroutine already holds in a conflicting mode
// keeps retrying until that Borrow is released, so it never returns.
type Cache struct {
	mu    sync.Mutex
	names containers.SortedMap[nameKey, *entrySlot]
	ids   containers.SortedMap[idKey, *entrySlot]
	lru   containers.LinkedList[*entrySlot]

	cursize int
	maxsize int

	pool *slotPool
	neg  *negCache
	free FreeFunc

	evictions      uint64
	lastEvictionAt containers.SyncValue[time.Time]
}

// Open creates a Cache ready to accept entries.  free is called for
// every Record the cache stops holding by deleting or evicting it; it
// is never called for a Record whose insertion the host aborts (see
// Release).
func Open(cfg Config, free FreeFunc) *Cache {
	return &Cache{
		maxsize: cfg.MaxSize,
		pool:    newSlotPool(),
		neg:     newNegCache(cfg.NegativeCacheSize),
		free:    free,
	}
}

// Insert reserves a new slot for rec and locks it in the given mode.
// If an entry already exists under rec's name or id, Insert returns
// (Duplicate, nil, nil) and rec is untouched -- ownership stays with
// the caller.
//
// On (Inserted, b, nil), the caller owns b and must eventually call
// Commit(ctx, b) followed by Release(ctx, b), or -- to abort the
// insertion -- Release(ctx, b) alone.  Either way the Record passed
// in here is what Release may hand to FreeFunc, except in the abort
// case, where the caller keeps owning it.
func (c *Cache) Insert(ctx context.Context, rec Record, mode Mode) (Outcome, *Borrow, error) {
	id := rec.CacheID()
	if id == NOID {
		return Duplicate, nil, ErrInvalidID
	}
	name := nameKey(rec.CacheName())

	c.mu.Lock()
	if _, exists := c.names.Load(name); exists {
		c.mu.Unlock()
		dlog.Debugf(ctx, "entrycache: insert of %q rejected, name already resident", name)
		return Duplicate, nil, nil
	}
	if _, exists := c.ids.Load(idKey(id)); exists {
		c.mu.Unlock()
		dlog.Debugf(ctx, "entrycache: insert of id %d rejected, id already resident", id)
		return Duplicate, nil, nil
	}

	slot := c.pool.get()
	slot.reset(id, name, rec)
	slot.state = stateCreating
	slot.refcount = 1

	c.names.Store(name, slot)
	c.ids.Store(idKey(id), slot)
	c.neg.forget(name)

	slot.lru = &containers.LinkedListEntry[*entrySlot]{Value: slot}
	c.lru.Store(slot.lru)
	c.cursize++

	if mode == Write {
		slot.rwlock.Lock()
	} else {
		slot.rwlock.RLock()
	}

	c.evictLocked(ctx)
	c.mu.Unlock()

	dlog.Tracef(ctx, "entrycache: inserted id=%d name=%q mode=%s", id, name, mode)
	return Inserted, &Borrow{slot: slot, mode: mode}, nil
}

// LookupID finds the entry with the given id, blocking (in the sense
// of retrying) until it settles into a state where it is either
// lockable or gone. It never observes a Creating or Committed entry
// as "not found" -- it waits the entry out.
func (c *Cache) LookupID(ctx context.Context, id Id, mode Mode) (*Borrow, error) {
	for {
		c.mu.Lock()
		slot, exists := c.ids.Load(idKey(id))
		if !exists {
			c.mu.Unlock()
			return nil, ErrNotFound
		}
		if slot.state != stateReady {
			c.mu.Unlock()
			runtime.Gosched()
			continue
		}
		locked := tryLock(slot, mode)
		if !locked {
			c.mu.Unlock()
			runtime.Gosched()
			continue
		}
		c.lru.MoveToNewest(slot.lru)
		slot.refcount++
		c.mu.Unlock()
		return &Borrow{slot: slot, mode: mode}, nil
	}
}

// LookupName resolves a name to its id without acquiring any
// per-entry lock. A recent negative result may be served from the
// negative-lookup cache without touching the index at all.
func (c *Cache) LookupName(ctx context.Context, name []byte) (Id, error) {
	key := nameKey(name)
	if c.neg.contains(key) {
		return NOID, ErrNotFound
	}
	for {
		c.mu.Lock()
		slot, exists := c.names.Load(key)
		if !exists {
			c.mu.Unlock()
			c.neg.remember(key)
			return NOID, ErrNotFound
		}
		if slot.state != stateReady {
			c.mu.Unlock()
			runtime.Gosched()
			continue
		}
		id := slot.id
		c.mu.Unlock()
		return id, nil
	}
}

// Commit marks a just-inserted entry's payload as final. The caller
// must already hold b's write lock, acquired from the Insert call
// that produced b -- an Insert made with mode Read can never be
// Committed, since nothing short of a write lock may publish an
// entry other borrowers will read.
func (c *Cache) Commit(ctx context.Context, b *Borrow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b.slot.state != stateCreating {
		panic("entrycache: Commit called on a non-Creating entry")
	}
	if b.mode != Write {
		panic("entrycache: Commit called on a Borrow that isn't write-locked")
	}
	b.slot.state = stateCommitted
	dlog.Tracef(ctx, "entrycache: committed id=%d", b.slot.id)
}

// Release gives back the lock a Borrow holds. Exactly one of
// Commit+Release or Release alone ends the lifecycle of a Borrow
// obtained from Insert; a Borrow obtained from LookupID is always
// ended with a plain Release.
func (c *Cache) Release(ctx context.Context, b *Borrow) {
	if b.released {
		panic("entrycache: Release called twice on the same Borrow")
	}
	slot := b.slot

	c.mu.Lock()
	defer c.mu.Unlock()
	unlock(slot, b.mode)
	slot.refcount--
	b.released = true

	switch slot.state {
	case stateCreating:
		// Insertion aborted: the caller never Committed. Tear the
		// slot's bookkeeping down, but the payload reverts to the
		// caller -- we must not call free() on it.
		c.detachLocked(slot)
		slot.state = stateDeleted
		if slot.refcount == 0 {
			c.destroySlotLocked(ctx, slot, false)
		}
	case stateCommitted:
		slot.state = stateReady
		dlog.Tracef(ctx, "entrycache: id=%d now ready", slot.id)
	case stateDeleted:
		if slot.refcount == 0 {
			c.destroySlotLocked(ctx, slot, true)
		}
	case stateReady:
		// Nothing further to do; the entry stays resident.
	}
}

// Delete removes an entry from both indexes and the LRU list, and
// releases the caller's borrow on it in the same step -- a host never
// calls Release after Delete for the same Borrow. This is valid on any
// Borrow, including one still Creating or Committed (an insert that
// never should have been made durable); the slot is detached from the
// indexes regardless of which state it was in. The entry's slot isn't
// actually returned to the pool (and its Record isn't freed) until
// every other outstanding Borrow on it is also released.
func (c *Cache) Delete(ctx context.Context, b *Borrow) {
	if b.released {
		panic("entrycache: Delete called on an already-released Borrow")
	}
	slot := b.slot

	c.mu.Lock()
	defer c.mu.Unlock()
	if slot.state != stateDeleted {
		c.detachLocked(slot)
	}
	slot.state = stateDeleted

	unlock(slot, b.mode)
	slot.refcount--
	b.released = true

	if slot.refcount == 0 {
		c.destroySlotLocked(ctx, slot, true)
	}
	dlog.Tracef(ctx, "entrycache: deleted id=%d", slot.id)
}

// Drain evicts entries from the LRU tail, oldest first and ignoring
// MaxSize, until the tail is pinned or the cache is empty. It stops at
// the first pinned entry, so unpinned entries newer than it stay
// resident. If any entries remain when Drain returns, their count is
// logged, since a leaked pin keeps a Record (and its slot) alive
// indefinitely.
func (c *Cache) Drain(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		tail := c.lru.Oldest
		if tail == nil || tail.Value.refcount != 0 {
			break
		}
		slot := tail.Value
		c.detachLocked(slot)
		slot.state = stateDeleted
		c.destroySlotLocked(ctx, slot, true)
	}
	c.neg.purge()
	if c.lru.Len > 0 {
		dlog.Errorf(ctx, "entrycache: drain stopped at a pinned entry, %d entries still resident", c.lru.Len)
	}
}

// evictLocked runs the approximate-LRU eviction algorithm. c.mu must
// be held. It walks the LRU tail, first relocating up to
// maxEvictionSkips pinned entries out of the way (second chance),
// then evicting unpinned entries from the (possibly new) tail until
// residency is back within budget or every remaining entry is pinned.
func (c *Cache) evictLocked(ctx context.Context) {
	skipped := 0
	for skipped < maxEvictionSkips && c.cursize > c.maxsize {
		tail := c.lru.Oldest
		if tail == nil {
			return
		}
		if tail.Value.refcount == 0 {
			break
		}
		c.lru.MoveToNewest(tail)
		skipped++
	}

	for c.cursize > c.maxsize {
		tail := c.lru.Oldest
		if tail == nil || tail.Value.refcount != 0 {
			break
		}
		slot := tail.Value
		c.detachLocked(slot)
		slot.state = stateDeleted
		c.destroySlotLocked(ctx, slot, true)
		c.evictions++
		c.lastEvictionAt.Store(time.Now())
	}
}

// detachLocked removes slot from both indexes and the LRU list.
// c.mu must be held. It does not touch slot.state or refcount.
func (c *Cache) detachLocked(slot *entrySlot) {
	c.names.Delete(slot.name)
	c.ids.Delete(idKey(slot.id))
	c.lru.Delete(slot.lru)
	c.cursize--
}

// destroySlotLocked frees rec (if freePayload) and returns slot to
// the pool. c.mu must be held, and slot must already be detached from
// the indexes and LRU list with refcount == 0.
func (c *Cache) destroySlotLocked(ctx context.Context, slot *entrySlot, freePayload bool) {
	if freePayload && c.free != nil {
		c.free(slot.rec)
	}
	dlog.Tracef(ctx, "entrycache: destroying slot id=%d freePayload=%v", slot.id, freePayload)
	c.pool.put(slot)
}

func tryLock(slot *entrySlot, mode Mode) bool {
	if mode == Write {
		return slot.rwlock.TryLock()
	}
	return slot.rwlock.TryRLock()
}

func unlock(slot *entrySlot, mode Mode) {
	if mode == Write {
		slot.rwlock.Unlock()
	} else {
		slot.rwlock.RUnlock()
	}
}
