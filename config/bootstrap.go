package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/nanograph-ai/nanograph/errors"
)

var (
	bootstrapMu   sync.Mutex
	bootstrapped  bool
	bootstrapPath string
)

// Resolve returns the absolute cache directory and log file path,
// defaulting to ~/.cache/nanograph/nanograph.log when unset.
func (c CacheConfig) Resolve() (string, string, error) {
	dir := c.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", errors.NewConfigError("resolve home directory", err)
		}
		dir = filepath.Join(home, ".cache", "nanograph")
	}

	logFile := c.LogFile
	if logFile == "" {
		logFile = "nanograph.log"
	}
	return dir, filepath.Join(dir, logFile), nil
}

// Bootstrap ensures the cache directory and log file exist and returns
// the log file path. The work runs at most once per process; later calls
// return the path recorded by the first, regardless of their argument.
// Core normalization never depends on Bootstrap having run.
func Bootstrap(c CacheConfig) (string, error) {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()

	if bootstrapped {
		return bootstrapPath, nil
	}

	dir, logPath, err := c.Resolve()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewConfigError("create cache directory", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errors.NewConfigError("create log file", err)
	}
	if err := f.Close(); err != nil {
		return "", errors.NewConfigError("close log file", err)
	}

	bootstrapped = true
	bootstrapPath = logPath
	return logPath, nil
}

// resetBootstrap clears the once-guard. Tests only.
func resetBootstrap() {
	bootstrapMu.Lock()
	bootstrapped = false
	bootstrapPath = ""
	bootstrapMu.Unlock()
}
