package policy

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reloads a Repository whenever the bundled pack directory or one
// of the extra policy-pack paths it was constructed from changes on disk,
// per spec.md §4.2's
// policyPackPaths settings change triggering a reload.
type Watcher struct {
	fsw        *fsnotify.Watcher
	repo       *Repository
	bundledDir string
	extraPaths []string
	log        *logrus.Logger
}

// NewWatcher builds a Watcher over repo, watching bundledDir and every
// path in extraPaths. The caller owns calling Run and Close.
func NewWatcher(repo *Repository, bundledDir string, extraPaths []string, log *logrus.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fsw: fsw, repo: repo, bundledDir: bundledDir, extraPaths: extraPaths, log: log}

	if bundledDir != "" {
		if err := fsw.Add(bundledDir); err != nil {
			log.WithError(err).WithField("dir", bundledDir).Warn("policy: failed to watch bundled pack directory")
		}
	}
	for _, p := range extraPaths {
		if err := fsw.Add(p); err != nil {
			log.WithError(err).WithField("path", p).Warn("policy: failed to watch extra policy-pack path")
		}
	}
	return w, nil
}

// Run blocks, reloading repo on every write/create/remove/rename event until ctx
// is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.WithField("path", ev.Name).Info("policy: rule pack changed, reloading")
			w.repo.Reload(Load(w.bundledDir, w.extraPaths, w.log))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("policy: watcher error")
		}
	}
}

// Close stops watching and releases the underlying inotify/kqueue handle.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
