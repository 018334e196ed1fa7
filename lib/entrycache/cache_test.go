// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dirsvc-oss/entrycache/lib/entrycache"
)

type testRecord struct {
	id   uint64
	name string
}

func (r *testRecord) CacheID() uint64   { return r.id }
func (r *testRecord) CacheName() []byte { return []byte(r.name) }

func newCache(t *testing.T, maxSize int) (*entrycache.Cache, *[]entrycache.Record) {
	t.Helper()
	var freed []entrycache.Record
	var mu sync.Mutex
	c := entrycache.Open(entrycache.Config{MaxSize: maxSize, NegativeCacheSize: 16}, func(r entrycache.Record) {
		mu.Lock()
		defer mu.Unlock()
		freed = append(freed, r)
	})
	return c, &freed
}

// Insert, Commit, Release, then find it again by both name and id.
func TestInsertCommitLookup(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, 16)

	rec := &testRecord{id: 1, name: "alice"}
	outcome, b, err := c.Insert(ctx, rec, entrycache.Write)
	require.NoError(t, err)
	require.Equal(t, entrycache.Inserted, outcome)
	require.NotNil(t, b)

	c.Commit(ctx, b)
	c.Release(ctx, b)

	id, err := c.LookupName(ctx, []byte("alice"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	b2, err := c.LookupID(ctx, 1, entrycache.Read)
	require.NoError(t, err)
	require.Equal(t, rec, b2.Record())
	c.Release(ctx, b2)
}

// Insert then abort (Release without Commit): the name/id must not
// resolve afterward, and the payload must not be handed to FreeFunc.
func TestAbortedInsertNotFreed(t *testing.T) {
	ctx := context.Background()
	c, freed := newCache(t, 16)

	rec := &testRecord{id: 2, name: "bob"}
	outcome, b, err := c.Insert(ctx, rec, entrycache.Write)
	require.NoError(t, err)
	require.Equal(t, entrycache.Inserted, outcome)

	c.Release(ctx, b) // abort: no Commit

	_, err = c.LookupName(ctx, []byte("bob"))
	require.ErrorIs(t, err, entrycache.ErrNotFound)
	_, err = c.LookupID(ctx, 2, entrycache.Read)
	require.ErrorIs(t, err, entrycache.ErrNotFound)
	require.Empty(t, *freed)
}

// A second insert reusing a resident entry's name, or its id, must
// report Duplicate and not disturb the first.
func TestDuplicateInsertRejected(t *testing.T) {
	ctx := context.Background()
	c, _ := newCache(t, 16)

	rec1 := &testRecord{id: 3, name: "carol"}
	outcome, b1, err := c.Insert(ctx, rec1, entrycache.Write)
	require.NoError(t, err)
	require.Equal(t, entrycache.Inserted, outcome)
	c.Commit(ctx, b1)
	c.Release(ctx, b1)

	rec2 := &testRecord{id: 4, name: "carol"}
	outcome, b2, err := c.Insert(ctx, rec2, entrycache.Write)
	require.NoError(t, err)
	require.Equal(t, entrycache.Duplicate, outcome)
	require.Nil(t, b2)

	rec3 := &testRecord{id: 3, name: "carol2"}
	outcome, b3, err := c.Insert(ctx, rec3, entrycache.Write)
	require.NoError(t, err)
	require.Equal(t, entrycache.Duplicate, outcome)
	require.Nil(t, b3)
}

// Insert past MaxSize evicts the oldest unpinned entry.
func TestEvictionUnderPressure(t *testing.T) {
	ctx := context.Background()
	c, freed := newCache(t, 2)

	insertReady := func(id uint64, name string) {
		_, b, err := c.Insert(ctx, &testRecord{id: id, name: name}, entrycache.Write)
		require.NoError(t, err)
		c.Commit(ctx, b)
		c.Release(ctx, b)
	}

	insertReady(1, "a")
	insertReady(2, "b")
	require.Equal(t, 2, c.Len())

	insertReady(3, "c")
	require.Equal(t, 2, c.Len())
	require.Len(t, *freed, 1)

	_, err := c.LookupName(ctx, []byte("a"))
	require.ErrorIs(t, err, entrycache.ErrNotFound)

	id, err := c.LookupName(ctx, []byte("c"))
	require.NoError(t, err)
	require.Equal(t, uint64(3), id)
}

// A pinned entry survives eviction pressure that would otherwise
// claim it as the LRU tail.
func TestPinnedEntrySurvivesEviction(t *testing.T) {
	ctx := context.Background()
	c, freed := newCache(t, 2)

	_, b1, err := c.Insert(ctx, &testRecord{id: 1, name: "a"}, entrycache.Write)
	require.NoError(t, err)
	c.Commit(ctx, b1)
	// Hold a second borrow on id 1 so it stays pinned past Release.
	c.Release(ctx, b1)
	pinned, err := c.LookupID(ctx, 1, entrycache.Read)
	require.NoError(t, err)

	_, b2, err := c.Insert(ctx, &testRecord{id: 2, name: "b"}, entrycache.Write)
	require.NoError(t, err)
	c.Commit(ctx, b2)
	c.Release(ctx, b2)

	_, b3, err := c.Insert(ctx, &testRecord{id: 3, name: "c"}, entrycache.Write)
	require.NoError(t, err)
	c.Commit(ctx, b3)
	c.Release(ctx, b3)

	// id 1 is pinned, so the cache should have evicted id 2 instead,
	// even though id 1 was least-recently-used at the time.
	_, err = c.LookupName(ctx, []byte("a"))
	require.NoError(t, err)
	require.Len(t, *freed, 1)
	require.Equal(t, uint64(2), (*freed)[0].CacheID())

	c.Release(ctx, pinned)
}

// Delete on an entry that another Borrow still holds defers the actual
// teardown until the last borrow releases.
func TestDeleteWhileHeld(t *testing.T) {
	ctx := context.Background()
	c, freed := newCache(t, 16)

	_, b, err := c.Insert(ctx, &testRecord{id: 1, name: "a"}, entrycache.Write)
	require.NoError(t, err)
	c.Commit(ctx, b)
	c.Release(ctx, b)

	reader, err := c.LookupID(ctx, 1, entrycache.Read)
	require.NoError(t, err)

	deleter, err := c.LookupID(ctx, 1, entrycache.Read)
	require.NoError(t, err)
	c.Delete(ctx, deleter)

	// The name/id no longer resolve even though one reader is still
	// holding the entry.
	_, err = c.LookupName(ctx, []byte("a"))
	require.ErrorIs(t, err, entrycache.ErrNotFound)
	require.Empty(t, *freed)

	c.Release(ctx, reader)
	require.Len(t, *freed, 1)
}

// Delete on a Borrow still in Creating state (Insert called, never
// Committed or Released) must detach the slot from both indexes and
// the LRU list just as it would for a Ready entry -- there must be no
// way to end up with a freed/pooled slot that LookupID or LookupName
// can still find.
func TestDeleteOnCreatingBorrow(t *testing.T) {
	ctx := context.Background()
	c, freed := newCache(t, 16)

	_, b, err := c.Insert(ctx, &testRecord{id: 1, name: "a"}, entrycache.Write)
	require.NoError(t, err)

	c.Delete(ctx, b) // no Commit, no Release: delete the raw insert

	require.Equal(t, 0, c.Len())
	require.Len(t, *freed, 1)
	require.Equal(t, uint64(1), (*freed)[0].CacheID())

	_, err = c.LookupName(ctx, []byte("a"))
	require.ErrorIs(t, err, entrycache.ErrNotFound)
	_, err = c.LookupID(ctx, 1, entrycache.Read)
	require.ErrorIs(t, err, entrycache.ErrNotFound)

	// The slot must have made it back to the pool in reusable shape:
	// a fresh insert of the same id/name must succeed cleanly rather
	// than colliding with index/LRU state left behind by the pooled
	// slot.
	_, b2, err := c.Insert(ctx, &testRecord{id: 1, name: "a"}, entrycache.Write)
	require.NoError(t, err)
	c.Commit(ctx, b2)
	c.Release(ctx, b2)
	require.Equal(t, 1, c.Len())
}

// Delete on a Borrow that has been Committed but not yet Released
// (still invisible to lookups) must also detach cleanly.
func TestDeleteOnCommittedBorrow(t *testing.T) {
	ctx := context.Background()
	c, freed := newCache(t, 16)

	_, b, err := c.Insert(ctx, &testRecord{id: 1, name: "a"}, entrycache.Write)
	require.NoError(t, err)
	c.Commit(ctx, b)

	c.Delete(ctx, b)

	require.Equal(t, 0, c.Len())
	require.Len(t, *freed, 1)

	_, err = c.LookupName(ctx, []byte("a"))
	require.ErrorIs(t, err, entrycache.ErrNotFound)
}

func TestDrainEvictsUnpinned(t *testing.T) {
	ctx := context.Background()
	c, freed := newCache(t, 16)

	for i := uint64(1); i <= 3; i++ {
		_, b, err := c.Insert(ctx, &testRecord{id: i, name: string(rune('a' + i))}, entrycache.Write)
		require.NoError(t, err)
		c.Commit(ctx, b)
		c.Release(ctx, b)
	}
	require.Equal(t, 3, c.Len())

	c.Drain(ctx)
	require.Equal(t, 0, c.Len())
	require.Len(t, *freed, 3)
}
