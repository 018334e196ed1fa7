// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache

import (
	"io"
	"time"

	"github.com/dirsvc-oss/entrycache/lib/containers"
)

// Stats is a snapshot of cache-lifetime counters, useful for exposing
// on a debug endpoint.
type Stats struct {
	CurSize        int
	MaxSize        int
	Evictions      uint64
	LastEvictionAt time.Time
}

// Stats returns a snapshot of the cache's running counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	lastEvictionAt, _ := c.lastEvictionAt.Load()
	return Stats{
		CurSize:        c.cursize,
		MaxSize:        c.maxsize,
		Evictions:      c.evictions,
		LastEvictionAt: lastEvictionAt,
	}
}

// Len returns the number of currently-resident entries, including
// ones still in Creating or Committed state.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursize
}

// DumpResidentNames writes the names of every Ready entry to w as a
// sorted JSON array, for operators diffing cache contents across a
// restart.
func (c *Cache) DumpResidentNames(w io.Writer) error {
	c.mu.Lock()
	names := make(containers.Set[string], c.cursize)
	c.names.Range(func(key nameKey, slot *entrySlot) bool {
		if slot.state == stateReady {
			names.Insert(string(key))
		}
		return true
	})
	c.mu.Unlock()

	return names.EncodeJSON(w)
}
