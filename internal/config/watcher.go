// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// ReloadedMsg is delivered to the UI when the config file changed on disk
// and was reloaded successfully.
type ReloadedMsg struct {
	Config *Config
}

// ReloadFailedMsg is delivered when the changed file could not be loaded.
// The previous configuration stays in effect.
type ReloadFailedMsg struct {
	Err error
}

// Watcher watches the config file and reloads it on change.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	events   chan interface{}
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWatcher creates a watcher for the default config path.
func NewWatcher() (*Watcher, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return NewWatcherForPath(path)
}

// NewWatcherForPath creates a watcher for a specific config file.
func NewWatcherForPath(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		watcher:  fw,
		debounce: 250 * time.Millisecond,
		events:   make(chan interface{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	return w, nil
}

// Watch starts watching for config changes.
//
// The parent directory is watched rather than the file itself: editors and
// AtomicWriteFile replace the file by rename, which would otherwise detach
// a file-level watch after the first change.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Events returns the channel on which ReloadedMsg / ReloadFailedMsg values
// are delivered. The Bubble Tea program forwards these with a listener Cmd.
func (w *Watcher) Events() <-chan interface{} {
	return w.events
}

// processEvents coalesces bursts of file events into a single reload.
func (w *Watcher) processEvents() {
	defer func() {
		if r := recover(); r != nil {
			_ = r
		}
	}()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			_ = err
		}
	}
}

// reload loads the file and publishes the result, dropping the event if the
// UI has not drained the previous one yet.
func (w *Watcher) reload() {
	var msg interface{}
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		msg = ReloadFailedMsg{Err: err}
	} else {
		SetGlobal(cfg)
		msg = ReloadedMsg{Config: cfg}
	}

	select {
	case w.events <- msg:
	default:
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
