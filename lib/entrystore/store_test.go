// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrystore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dirsvc-oss/entrycache/lib/entrystore"
)

func TestStoreLoadMiss(t *testing.T) {
	s := entrystore.NewStore()
	_, err := s.Load(context.Background(), 1)
	require.ErrorIs(t, err, entrystore.ErrNotFound)
}

func TestStorePutLoadFlush(t *testing.T) {
	ctx := context.Background()
	s := entrystore.NewStore()
	e := entrystore.NewEntry("alice", map[string]string{"uid": "1000"})
	s.Put(e)

	got, err := s.Load(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, e.Name, got.Name)

	got.Attrs["uid"] = "2000"
	require.NoError(t, s.Flush(ctx, got))

	reloaded, err := s.Load(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "2000", reloaded.Attrs["uid"])
}
