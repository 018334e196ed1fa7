// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package containers_test

import (
	"github.com/dirsvc-oss/entrycache/lib/containers"
)

var _ containers.Ordered[containers.NativeOrdered[string]] = containers.NativeOrdered[string]{}
