// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache

import (
	"github.com/dirsvc-oss/entrycache/lib/containers"
)

// negCache remembers recent "no entry by this name" results so that
// repeated failed lookups (a common pattern when a host is probing
// for whether a name is free) don't each pay for a walk of the name
// index. It is never consulted for ids, since id lookups in this
// cache are rarer and always host-driven rather than probing.
type negCache struct {
	inner *containers.LRUCache[nameKey, struct{}]
}

func newNegCache(size int) *negCache {
	if size <= 0 {
		return &negCache{}
	}
	return &negCache{inner: containers.NewLRUCache[nameKey, struct{}](size)}
}

func (n *negCache) remember(name nameKey) {
	if n.inner == nil {
		return
	}
	n.inner.Add(name, struct{}{})
}

func (n *negCache) forget(name nameKey) {
	if n.inner == nil {
		return
	}
	n.inner.Remove(name)
}

func (n *negCache) contains(name nameKey) bool {
	if n.inner == nil {
		return false
	}
	return n.inner.Contains(name)
}

func (n *negCache) purge() {
	if n.inner == nil {
		return
	}
	n.inner.Purge()
}
