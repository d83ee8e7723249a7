package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// FileWatcher polls the configuration file for mtime changes and
// triggers a reload through Manager.ReloadFromDisk, which runs the
// Manager's OnChange hooks. What a reload changes in a running reduction
// is up to those hooks (the CLI's hook applies the stage sequence).
type FileWatcher struct {
	manager     *Manager
	watchedPath string
	lastModTime time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	interval    time.Duration
	logger      Logger
}

// Logger is the minimal logging interface FileWatcher needs.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// DefaultLogger implements Logger using the standard log package.
type DefaultLogger struct{}

func (l DefaultLogger) Infof(format string, args ...interface{}) {
	log.Printf("[INFO] "+format, args...)
}

func (l DefaultLogger) Errorf(format string, args ...interface{}) {
	log.Printf("[ERROR] "+format, args...)
}

func (l DefaultLogger) Debugf(format string, args ...interface{}) {
	log.Printf("[DEBUG] "+format, args...)
}

// NewFileWatcher creates a file watcher for manager, polling every 2
// seconds by default.
func NewFileWatcher(manager *Manager, logger Logger) *FileWatcher {
	if logger == nil {
		logger = DefaultLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &FileWatcher{
		manager:  manager,
		ctx:      ctx,
		cancel:   cancel,
		interval: 2 * time.Second,
		logger:   logger,
	}
}

// Watch starts watching configPath for changes.
func (fw *FileWatcher) Watch(configPath string) error {
	expandedPath, err := expandPath(configPath)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	stat, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}

	fw.watchedPath = expandedPath
	fw.lastModTime = stat.ModTime()
	fw.logger.Infof("watching config file: %s", expandedPath)

	fw.wg.Add(1)
	go fw.watchLoop()
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (fw *FileWatcher) Stop() {
	fw.logger.Infof("stopping config file watcher")
	fw.cancel()
	fw.wg.Wait()
}

// SetInterval sets the polling interval. Must be called before Watch.
func (fw *FileWatcher) SetInterval(interval time.Duration) {
	fw.interval = interval
}

func (fw *FileWatcher) watchLoop() {
	defer fw.wg.Done()

	ticker := time.NewTicker(fw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			fw.logger.Debugf("config watcher stopped")
			return
		case <-ticker.C:
			if err := fw.checkForChanges(); err != nil {
				fw.logger.Errorf("checking for config changes: %v", err)
			}
		}
	}
}

func (fw *FileWatcher) checkForChanges() error {
	stat, err := os.Stat(fw.watchedPath)
	if err != nil {
		if os.IsNotExist(err) {
			fw.logger.Errorf("config file no longer exists: %s", fw.watchedPath)
			return nil
		}
		return err
	}

	modTime := stat.ModTime()
	if modTime.After(fw.lastModTime) {
		fw.logger.Infof("config file changed, reloading: %s", fw.watchedPath)
		if err := fw.manager.ReloadFromDisk(); err != nil {
			fw.logger.Errorf("failed to reload config, keeping current: %v", err)
			return err
		}
		fw.lastModTime = modTime
		fw.logger.Infof("config reloaded successfully")
	}

	return nil
}
