// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Command entrycachectl drives an entrycache.Cache from a scripted
// list of operations, for manual exercise of the cache without
// standing up a whole directory service around it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/datawire/dlib/derror"
	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dirsvc-oss/entrycache/lib/entrycache"
	"github.com/dirsvc-oss/entrycache/lib/entrystore"
)

type logLevelFlag struct {
	logrus.Level
}

func (lvl *logLevelFlag) Type() string { return "loglevel" }
func (lvl *logLevelFlag) Set(str string) error {
	var err error
	lvl.Level, err = logrus.ParseLevel(str)
	return err
}

var _ pflag.Value = (*logLevelFlag)(nil)

func main() {
	logLevel := logLevelFlag{Level: logrus.InfoLevel}
	var configPath string
	var idleReap time.Duration

	argparser := &cobra.Command{
		Use:           "entrycachectl SCRIPT",
		Short:         "Drive an entry cache from a scripted list of operations",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	argparser.PersistentFlags().Var(&logLevel, "verbosity", "set the verbosity")
	argparser.PersistentFlags().StringVar(&configPath, "config", "", "load cache settings from `config.yaml`")
	argparser.PersistentFlags().DurationVar(&idleReap, "idle-reap", 0, "drain unpinned entries every `duration` (0 disables)")

	argparser.RunE = func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		logger := logrus.New()
		logger.SetLevel(logLevel.Level)
		ctx = dlog.WithLogger(ctx, dlog.WrapLogrus(logger))

		cfg := entrycache.DefaultConfig()
		if configPath != "" {
			cfg, err = entrycache.LoadConfig(configPath)
			if err != nil {
				return err
			}
		}

		grp := dgroup.NewGroup(ctx, dgroup.GroupConfig{
			EnableSignalHandling: true,
		})
		grp.Go("main", func(ctx context.Context) (err error) {
			defer func() {
				if r := derror.PanicToError(recover()); r != nil {
					dlog.Errorf(ctx, "panic: %+v", r)
					err = r
				}
			}()
			return runScript(ctx, grp, cfg, idleReap, args[0])
		})
		return grp.Wait()
	}

	if err := argparser.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runScript wires up a Cache backed by an in-memory Store, spawns an
// idle-reaper goroutine under grp if idleReap > 0, and executes the
// operations in scriptPath against it.
func runScript(ctx context.Context, grp *dgroup.Group, cfg entrycache.Config, idleReap time.Duration, scriptPath string) error {
	store := entrystore.NewStore()
	cache := entrycache.Open(cfg, func(rec entrycache.Record) {
		e := rec.(*entrystore.Entry)
		if err := store.Flush(ctx, e); err != nil {
			dlog.Errorf(ctx, "flush id=%d on eviction: %v", e.ID, err)
		}
	})

	if idleReap > 0 {
		grp.Go("idle-reap", func(ctx context.Context) error {
			ticker := time.NewTicker(idleReap)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					cache.Drain(ctx)
				}
			}
		})
	}

	ops, err := parseScript(scriptPath)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err := op.run(ctx, cache, store); err != nil {
			dlog.Errorf(ctx, "%s: %v", op, err)
		}
	}
	cache.Drain(ctx)
	return nil
}
