// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

// DefaultSettle - quiet time after the last change before re-reading
const DefaultSettle = time.Second

// ReloadFunc - receives each successfully re-read configuration
type ReloadFunc func(configuration *Configuration)

// Watcher - re-read the configuration file when it changes
//
// the containing directory is watched so that editors which replace
// the file are still seen
type Watcher struct {
	log       *logger.L
	fileName  string
	variables map[string]string
	settle    time.Duration
	reload    ReloadFunc
	watcher   *fsnotify.Watcher
}

// NewWatcher - watch fileName, calling reload after each change
func NewWatcher(log *logger.L, fileName string, variables map[string]string, settle time.Duration, reload ReloadFunc) (*Watcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	err = watcher.Add(filepath.Dir(filePath))
	if nil != err {
		watcher.Close()
		return nil, err
	}

	return &Watcher{
		log:       log,
		fileName:  filePath,
		variables: variables,
		settle:    settle,
		reload:    reload,
		watcher:   watcher,
	}, nil
}

// Run - background process body
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Info("starting…")

	base := filepath.Base(w.fileName)
	var settled <-chan time.Time

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			log.Debugf("file event: %v", event)
			if isChange(event) {
				settled = time.After(w.settle)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watch error: %s", err)

		case <-settled:
			settled = nil
			w.refresh()
		}
	}

	w.watcher.Close()
	log.Info("shutting down…")
	log.Flush()
}

// a bad edit keeps the running configuration
func (w *Watcher) refresh() {
	configuration, err := Get(w.fileName, w.variables)
	if nil != err {
		w.log.Errorf("failed to read configuration from: %q  error: %s", w.fileName, err)
		return
	}
	w.log.Info("configuration reloaded")
	w.reload(configuration)
}

func isChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}
