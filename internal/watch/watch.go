// Package watch re-runs active detection when the CLI files change on disk.
// Edits made by other tools (or other instances of this program) show up in
// the next rendered state without a restart.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"ccswitch/config"
)

const debounceInterval = 500 * time.Millisecond

// Watcher observes the directories holding the live CLI files and triggers
// re-detection after changes settle.
type Watcher struct {
	mgr      *config.Manager
	onChange func()
}

// New builds a Watcher over mgr. onChange, when non-nil, runs after each
// re-detection so a UI can repaint.
func New(mgr *config.Manager, onChange func()) *Watcher {
	return &Watcher{mgr: mgr, onChange: onChange}
}

// Run blocks until ctx is cancelled. Watching the parent directories rather
// than the files themselves survives the rename dance editors and atomic
// writers do.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	paths := w.mgr.Paths()
	dirs := map[string]struct{}{
		filepath.Dir(paths.ClaudeSettings): {},
		filepath.Dir(paths.CodexAuth):      {},
		filepath.Dir(paths.CodexConfig):    {},
	}
	watched := 0
	for dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			log.Debugf("watch: skipping missing directory %s", dir)
			continue
		}
		if err := fw.Add(dir); err != nil {
			log.Warnf("watch: cannot watch %s: %v", dir, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		log.Warnf("watch: no CLI directories exist yet, live detection disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	interesting := map[string]struct{}{
		paths.ClaudeSettings: {},
		paths.CodexAuth:      {},
		paths.CodexConfig:    {},
	}

	var debounce *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if _, want := interesting[filepath.Clean(ev.Name)]; !want {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			// Editors produce bursts of events; collapse them.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceInterval, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch: %v", err)

		case <-fire:
			log.Debugf("watch: CLI files changed, re-detecting")
			w.mgr.Redetect()
			if w.onChange != nil {
				w.onChange()
			}
		}
	}
}
