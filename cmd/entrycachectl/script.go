// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/datawire/dlib/dlog"
	"github.com/pkg/errors"

	"github.com/dirsvc-oss/entrycache/lib/entrycache"
	"github.com/dirsvc-oss/entrycache/lib/entrystore"
)

// op is one line of a script: a verb plus its arguments. Blank lines
// and lines starting with '#' are ignored.
type op struct {
	verb string
	args []string
}

func (o op) String() string {
	return strings.Join(append([]string{o.verb}, o.args...), " ")
}

func parseScript(path string) ([]op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening script")
	}
	defer f.Close()

	var ops []op
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		ops = append(ops, op{verb: fields[0], args: fields[1:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading script at line %d", lineNo)
	}
	return ops, nil
}

// run dispatches a single scripted operation against cache/store,
// printing a line of output for anything a human watching the script
// run would want to see.
func (o op) run(ctx context.Context, cache *entrycache.Cache, store *entrystore.Store) error {
	switch o.verb {
	case "insert":
		if len(o.args) == 0 {
			return errors.New("insert requires a name")
		}
		e := entrystore.NewEntry(o.args[0], parseAttrs(o.args[1:]))
		outcome, b, err := cache.Insert(ctx, e, entrycache.Write)
		if err != nil {
			return err
		}
		if outcome != entrycache.Inserted {
			fmt.Printf("insert %s: %s\n", o.args[0], outcome)
			return nil
		}
		cache.Commit(ctx, b)
		cache.Release(ctx, b)
		fmt.Printf("insert %s: ok id=%d\n", o.args[0], e.ID)

	case "lookup":
		if len(o.args) == 0 {
			return errors.New("lookup requires a name")
		}
		id, err := cache.LookupName(ctx, []byte(o.args[0]))
		if err != nil {
			fmt.Printf("lookup %s: not found\n", o.args[0])
			return nil
		}
		b, err := cache.LookupID(ctx, id, entrycache.Read)
		if err != nil {
			return err
		}
		defer cache.Release(ctx, b)
		e := b.Record().(*entrystore.Entry)
		fmt.Printf("lookup %s: id=%d attrs=%v\n", o.args[0], e.ID, e.Attrs)

	case "delete":
		if len(o.args) == 0 {
			return errors.New("delete requires a name")
		}
		id, err := cache.LookupName(ctx, []byte(o.args[0]))
		if err != nil {
			fmt.Printf("delete %s: not found\n", o.args[0])
			return nil
		}
		b, err := cache.LookupID(ctx, id, entrycache.Write)
		if err != nil {
			return err
		}
		cache.Delete(ctx, b)
		fmt.Printf("delete %s: ok\n", o.args[0])

	case "drain":
		cache.Drain(ctx)
		fmt.Printf("drain: ok, %d entries resident\n", cache.Len())

	case "dump":
		if err := cache.DumpResidentNames(os.Stdout); err != nil {
			return err
		}
		fmt.Println()

	case "spew":
		if len(o.args) == 0 {
			return errors.New("spew requires a name")
		}
		id, err := cache.LookupName(ctx, []byte(o.args[0]))
		if err != nil {
			fmt.Printf("spew %s: not found\n", o.args[0])
			return nil
		}
		b, err := cache.LookupID(ctx, id, entrycache.Read)
		if err != nil {
			return err
		}
		defer cache.Release(ctx, b)
		cfg := spew.NewDefaultConfig()
		cfg.DisablePointerAddresses = true
		cfg.Dump(b.Record())

	default:
		dlog.Errorf(ctx, "unknown op %q", o.verb)
	}
	return nil
}

func parseAttrs(fields []string) map[string]string {
	attrs := make(map[string]string, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		attrs[k] = v
	}
	return attrs
}
