// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package entrystore is a minimal host implementation that plugs a
// trivial directory-entry type into entrycache.Cache: a record type
// satisfying caching.Record, and an in-memory Store behind it. It
// exists for tests and for the entrycachectl demo CLI, not as
// something a real directory service would deploy.
package entrystore

import (
	"sync"
)

// Entry is the smallest record entrycache.Cache can hold: an id, a
// name, and an opaque attribute bag.
type Entry struct {
	ID    uint64
	Name  string
	Attrs map[string]string
}

func (e *Entry) CacheID() uint64   { return e.ID }
func (e *Entry) CacheName() []byte { return []byte(e.Name) }

// Clone returns a deep-enough copy of e suitable for handing to
// Cache.Insert independently of the copy kept in a Store.
func (e *Entry) Clone() *Entry {
	attrs := make(map[string]string, len(e.Attrs))
	for k, v := range e.Attrs {
		attrs[k] = v
	}
	return &Entry{ID: e.ID, Name: e.Name, Attrs: attrs}
}

// idSeq hands out ids for NewEntry, starting above entrycache.NOID.
type idSeq struct {
	mu   sync.Mutex
	next uint64
}

func (s *idSeq) take() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

var defaultIDs = &idSeq{}

// NewEntry builds an Entry with a freshly allocated id.
func NewEntry(name string, attrs map[string]string) *Entry {
	return &Entry{ID: defaultIDs.take(), Name: name, Attrs: attrs}
}
