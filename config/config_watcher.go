package config

import (
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/nanograph-ai/nanograph/errors"
)

// Verify at compile time that ConfigWatcher implements Watcher
var _ Watcher = (*ConfigWatcher)(nil)

// ConfigWatcher hot-reloads the configuration file. The current config is
// held in an atomic.Value so readers never block, and subscribers receive
// each successfully validated reload on their channel.
type ConfigWatcher struct {
	currentConfig atomic.Value
	configPath    string
	watcher       *fsnotify.Watcher
	logger        *zap.Logger

	mu          sync.Mutex
	subscribers []chan<- *Config
}

// NewConfigWatcher loads configPath and starts watching it for writes.
func NewConfigWatcher(configPath string, logger *zap.Logger) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewConfigError("create file watcher", err)
	}

	cw := &ConfigWatcher{
		configPath: configPath,
		watcher:    watcher,
		logger:     logger,
	}

	initial, err := LoadFile(configPath)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	cw.currentConfig.Store(initial)

	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, errors.NewConfigError("watch config file", err)
	}

	go cw.watch()
	return cw, nil
}

// Subscribe returns a channel that receives each reloaded configuration.
// Slow subscribers miss updates rather than blocking the watcher.
func (cw *ConfigWatcher) Subscribe() <-chan *Config {
	ch := make(chan *Config, 1)
	cw.mu.Lock()
	cw.subscribers = append(cw.subscribers, ch)
	cw.mu.Unlock()
	return ch
}

// GetCurrentConfig returns the current configuration.
func (cw *ConfigWatcher) GetCurrentConfig() *Config {
	return cw.currentConfig.Load().(*Config)
}

func (cw *ConfigWatcher) watch() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			// editors often replace the file instead of writing in place
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				cw.reload()
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("config watcher error", zap.Error(err))
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cw.logger.Info("config file changed, reloading", zap.String("path", cw.configPath))

	newConfig, err := LoadFile(cw.configPath)
	if err != nil {
		// keep serving the last good config
		cw.logger.Error("failed to reload config", zap.Error(err))
		return
	}

	cw.currentConfig.Store(newConfig)

	cw.mu.Lock()
	subs := cw.subscribers
	cw.mu.Unlock()
	for _, sub := range subs {
		select {
		case sub <- newConfig:
		default:
		}
	}

	cw.logger.Info("configuration reloaded")
}

// Close stops the watcher.
func (cw *ConfigWatcher) Close() error {
	return cw.watcher.Close()
}
