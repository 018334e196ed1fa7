// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrystore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Store.Load when no entry has the given
// id.
var ErrNotFound = errors.New("entrystore: no such entry")

// Store is a process-memory stand-in for a real persistent backing
// store, implementing caching.Store[*Entry]. A host wires this (or
// its real on-disk equivalent) in behind an entrycache.Cache: Load on
// a miss, Flush when an entry is evicted or deleted.
type Store struct {
	mu   sync.RWMutex
	byID map[uint64]*Entry
}

func NewStore() *Store {
	return &Store{byID: make(map[uint64]*Entry)}
}

// Put seeds the store with an entry, as if it had been written by
// some earlier, unmodeled write path.
func (s *Store) Put(e *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[e.ID] = e
}

func (s *Store) Load(ctx context.Context, id uint64) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.Clone(), nil
}

// Flush persists rec's current contents. Since Store is already
// in-memory, this just replaces whatever was there -- a real backing
// store would fsync or issue a write RPC here.
func (s *Store) Flush(ctx context.Context, rec *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[rec.ID] = rec.Clone()
	return nil
}
