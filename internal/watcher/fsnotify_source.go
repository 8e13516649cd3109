package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FsnotifySource watches a tree using the OS's native file event API.
type FsnotifySource struct {
	watcher *fsnotify.Watcher
	root    string
	events  chan RawEvent
	errors  chan error
	stopCh  chan struct{}
}

// NewFsnotifySource creates the underlying OS watcher. Returns an error if
// fsnotify can't initialize (platform or resource-limit failure) so the
// caller can fall back to PollingSource.
func NewFsnotifySource() (*FsnotifySource, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FsnotifySource{
		watcher: w,
		events:  make(chan RawEvent, 256),
		errors:  make(chan error, 16),
		stopCh:  make(chan struct{}),
	}, nil
}

func (s *FsnotifySource) Start(rootPath string) error {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("fsnotify watcher: resolve root: %w", err)
	}
	s.root = abs

	if err := s.addRecursive(abs); err != nil {
		return fmt.Errorf("fsnotify watcher: watch directories: %w", err)
	}

	go s.loop()
	return nil
}

func (s *FsnotifySource) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if shouldSkipDir(path) {
			return filepath.SkipDir
		}
		return s.watcher.Add(path)
	})
}

func shouldSkipDir(path string) bool {
	base := filepath.Base(path)
	return base == ".git" || base == ".seekr"
}

func (s *FsnotifySource) loop() {
	for {
		select {
		case <-s.stopCh:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handle(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			select {
			case s.errors <- err:
			default:
			}
		}
	}
}

func (s *FsnotifySource) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	rel, err := filepath.Rel(s.root, ev.Name)
	if err != nil {
		rel = ev.Name
	}
	if strings.HasPrefix(rel, ".git"+string(filepath.Separator)) || strings.HasPrefix(rel, ".seekr"+string(filepath.Separator)) {
		return
	}

	if ev.Op&fsnotify.Create != 0 {
		if fi, err := statIsDir(ev.Name); err == nil && fi {
			if !shouldSkipDir(ev.Name) {
				_ = s.watcher.Add(ev.Name)
			}
			return
		}
	}

	select {
	case s.events <- RawEvent{Path: rel, Timestamp: time.Now()}:
	default:
	}
}

func statIsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (s *FsnotifySource) Events() <-chan RawEvent { return s.events }
func (s *FsnotifySource) Errors() <-chan error    { return s.errors }

func (s *FsnotifySource) Stop() error {
	close(s.stopCh)
	err := s.watcher.Close()
	close(s.events)
	close(s.errors)
	return err
}
