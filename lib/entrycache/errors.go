// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache

import (
	"github.com/pkg/errors"
)

// Outcome discriminates the result of Insert.
type Outcome int

const (
	// Inserted means a new entry was reserved and the returned Borrow
	// is the caller's exclusive handle on it through Commit/Release.
	Inserted Outcome = iota
	// Duplicate means an entry already occupies the requested name or
	// id; no slot was allocated and the returned Borrow is nil.
	Duplicate
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Duplicate:
		return "duplicate"
	default:
		return "invalid"
	}
}

// ErrInvalidID is returned by Insert when a Record reports NOID.
var ErrInvalidID = errors.New("entrycache: record has no id")

// ErrNotFound is returned by LookupID and LookupName when no entry
// (not even a transient one) matches.
var ErrNotFound = errors.New("entrycache: no such entry")

// ErrInitFailure marks an entry whose slot could not be brought up.
// The reference implementation this cache is modeled on can hit this
// when the backing allocator is out of memory; in Go, entrySlot
// allocation and index insertion don't fail short of a fatal OOM, so
// no code path in this package currently returns it. It is kept as
// part of the host contract for parity with that design, and so a
// future host-supplied allocator hook has somewhere to report into.
var ErrInitFailure = errors.New("entrycache: slot initialization failed")
