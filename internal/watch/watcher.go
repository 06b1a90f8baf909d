package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inletra/docsite/internal/logfields"
	"github.com/inletra/docsite/internal/store"
)

// enqueuer is the part of the queue the watcher needs.
type enqueuer interface {
	Enqueue(job *Job) error
}

// FileWatcher monitors the configuration file and the content tree and
// queues a check plus an emit job after a quiet period.
type FileWatcher struct {
	configPath string
	contentDir string
	queue      enqueuer
	watcher    *fsnotify.Watcher
	debounce   time.Duration

	mu          sync.Mutex
	stopChan    chan struct{}
	triggerChan chan struct{}
	lastEvent   string
}

// NewFileWatcher creates a watcher. Paths are resolved to absolute form so
// event names compare reliably.
func NewFileWatcher(configPath, contentDir string, debounce time.Duration, queue enqueuer) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	absContent, err := filepath.Abs(contentDir)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve content dir: %w", err)
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}

	return &FileWatcher{
		configPath:  absConfig,
		contentDir:  absContent,
		queue:       queue,
		watcher:     watcher,
		debounce:    debounce,
		stopChan:    make(chan struct{}),
		triggerChan: make(chan struct{}, 1),
	}, nil
}

// Start registers the watched directories and begins the event loops.
func (fw *FileWatcher) Start(ctx context.Context) error {
	// Watching the directory of the config file is more reliable than
	// watching the file itself; editors replace files on save.
	configDir := filepath.Dir(fw.configPath)
	if err := fw.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}

	if err := fw.addContentTree(); err != nil {
		return err
	}

	slog.Info("Starting file watcher",
		slog.String("config", fw.configPath),
		slog.String("content_dir", fw.contentDir),
		slog.Duration("debounce", fw.debounce))

	go fw.watchLoop(ctx)
	go fw.debounceLoop(ctx)

	return nil
}

// Stop closes the underlying watcher and stops both loops.
func (fw *FileWatcher) Stop(ctx context.Context) error {
	slog.Info("Stopping file watcher")

	close(fw.stopChan)

	if fw.watcher != nil {
		if err := fw.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
	}
	return nil
}

// addContentTree registers the content dir and every subdirectory; fsnotify
// watches are not recursive.
func (fw *FileWatcher) addContentTree() error {
	return filepath.WalkDir(fw.contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk content dir: %w", err)
		}
		if !d.IsDir() {
			return nil
		}
		if isHidden(d.Name()) && path != fw.contentDir {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(fw.configPath)
	configDir := filepath.Dir(fw.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopChan:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event, configDir, configFile)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event, configDir, configFile string) {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return
	}

	name := filepath.Clean(event.Name)

	// Events from the config directory count only when they hit the config
	// file itself; the directory may hold unrelated files.
	if filepath.Dir(name) == configDir && !strings.HasPrefix(name, fw.contentDir+string(filepath.Separator)) && name != fw.contentDir {
		if filepath.Base(name) != configFile {
			return
		}
		if event.Op&fsnotify.Remove == fsnotify.Remove {
			slog.Warn("Configuration file removed", logfields.Path(name))
			return
		}
		slog.Debug("Configuration file changed", logfields.Path(name))
		fw.trigger(name)
		return
	}

	if isHidden(filepath.Base(name)) {
		return
	}

	// New directories must be added to the watch set before files inside
	// them produce events.
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := fw.watcher.Add(name); err != nil {
				slog.Error("Failed to watch new directory", logfields.Path(name), logfields.Error(err))
			}
		}
	}

	slog.Debug("Content change detected", logfields.Path(name), slog.String("op", event.Op.String()))
	fw.trigger(name)
}

// trigger requests a debounced run; a pending trigger absorbs further events.
func (fw *FileWatcher) trigger(path string) {
	fw.mu.Lock()
	fw.lastEvent = path
	fw.mu.Unlock()

	select {
	case fw.triggerChan <- struct{}{}:
	default:
	}
}

func (fw *FileWatcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-fw.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-fw.triggerChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(fw.debounce, fw.enqueueJobs)
		}
	}
}

// enqueueJobs queues a check and an emit job for the settled change burst.
// A full queue means a queued pair already covers the change.
func (fw *FileWatcher) enqueueJobs() {
	fw.mu.Lock()
	reason := fw.lastEvent
	fw.mu.Unlock()

	for _, kind := range []JobKind{JobCheck, JobEmit} {
		job := &Job{
			ID:        store.NewRunID(),
			Kind:      kind,
			Trigger:   TriggerFileEvent,
			Reason:    reason,
			CreatedAt: time.Now(),
		}
		if err := fw.queue.Enqueue(job); err != nil {
			slog.Debug("Change coalesced into pending job",
				slog.String("kind", string(kind)),
				logfields.Error(err))
		}
	}
}

// isHidden reports dotfiles, which editors and VCS tooling write freely.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
