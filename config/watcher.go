package config

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	"github.com/a8m/envsubst"
	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/cbrobotics/regionplanner/logging"
	rutils "github.com/cbrobotics/regionplanner/utils"
)

// bursts of events closer together than this are handled once.
const debounceInterval = 100 * time.Millisecond

// A Watcher delivers a fresh config every time the watched file changes to valid content.
type Watcher interface {
	Config() <-chan *Config
	Close() error
}

type fsConfigWatcher struct {
	fsWatcher *fsnotify.Watcher
	configCh  chan *Config
	workers   rutils.StoppableWorkers
}

// NewWatcher watches the config file at path. The directory is watched rather than the file so
// that editors that replace the file on save are followed. Invalid contents are logged and
// skipped.
func NewWatcher(path string, logger logging.Logger) (Watcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		return nil, multierr.Combine(errors.Wrapf(err, "cannot watch %q", path), fsWatcher.Close())
	}

	w := &fsConfigWatcher{
		fsWatcher: fsWatcher,
		configCh:  make(chan *Config),
	}
	// editors emit several events per save
	trigger := make(chan struct{}, 1)
	debounced := debounce.New(debounceInterval)
	var last []byte
	w.workers = rutils.NewStoppableWorkers(func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
				logger.Errorw("config watcher error", "error", err)
			case event, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					continue
				}
				debounced(func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			case <-trigger:
				buf, err := envsubst.ReadFile(path)
				if err != nil {
					logger.Errorw("cannot read changed config", "path", path, "error", err)
					continue
				}
				if bytes.Equal(buf, last) {
					continue
				}
				cfg, err := FromReader(path, bytes.NewReader(buf), logger)
				if err != nil {
					logger.Errorw("ignoring invalid config", "path", path, "error", err)
					continue
				}
				last = buf
				select {
				case <-ctx.Done():
					return
				case w.configCh <- cfg:
				}
			}
		}
	})
	return w, nil
}

func (w *fsConfigWatcher) Config() <-chan *Config {
	return w.configCh
}

func (w *fsConfigWatcher) Close() error {
	w.workers.Stop()
	return w.fsWatcher.Close()
}
