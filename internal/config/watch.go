// Copyright (c) 2025 Drift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the write bursts editors produce when saving.
const watchDebounce = 200 * time.Millisecond

// Watch reloads the config file whenever it changes on disk and delivers
// the result to onChange. Reloads that fail validation are dropped; the
// last good config stays in effect. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself, so
// atomic-rename saves (which replace the inode) keep being observed.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var pending *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(watchDebounce)
				fire = pending.C
			} else {
				pending.Reset(watchDebounce)
			}

		case <-fire:
			pending = nil
			fire = nil
			cfg, err := LoadFromPath(path)
			if err != nil {
				continue
			}
			onChange(cfg)

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
