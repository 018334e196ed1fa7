// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache

import (
	"bytes"

	"github.com/dirsvc-oss/entrycache/lib/containers"
)

// nameKey is the name index's key.  Names are compared as raw bytes,
// never case-folded or locale-aware -- that normalization, if a host
// wants one, happens before a Record's CacheName() is ever called.
type nameKey string

func (a nameKey) Cmp(b nameKey) int {
	return bytes.Compare([]byte(a), []byte(b))
}

var _ containers.Ordered[nameKey] = nameKey("")

// idKey is the id index's key.
type idKey uint64

func (a idKey) Cmp(b idKey) int {
	return containers.CmpUint(uint64(a), uint64(b))
}

var _ containers.Ordered[idKey] = idKey(0)
