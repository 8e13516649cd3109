package watcher

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"
)

// PollingSource watches a tree by periodically re-scanning it, used when
// fsnotify can't be initialized (platform or resource-limit failure).
type PollingSource struct {
	interval time.Duration
	mu       sync.Mutex
	state    map[string]snapshot
	root     string
	events   chan RawEvent
	errors   chan error
	stopCh   chan struct{}
	stopped  bool
}

type snapshot struct {
	modTime time.Time
	size    int64
}

func NewPollingSource(interval time.Duration) *PollingSource {
	return &PollingSource{
		interval: interval,
		state:    make(map[string]snapshot),
		events:   make(chan RawEvent, 256),
		errors:   make(chan error, 16),
		stopCh:   make(chan struct{}),
	}
}

func (p *PollingSource) Start(rootPath string) error {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("polling watcher: resolve root: %w", err)
	}
	p.root = abs

	if err := p.scan(true); err != nil {
		return fmt.Errorf("polling watcher: initial scan: %w", err)
	}

	go p.loop()
	return nil
}

func (p *PollingSource) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.scan(false); err != nil {
				select {
				case p.errors <- err:
				default:
				}
			}
		}
	}
}

// scan re-walks the tree, diffing against the last snapshot. baseline
// suppresses event emission on the first call.
func (p *PollingSource) scan(baseline bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := make(map[string]snapshot)
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != p.root && shouldSkipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		snap := snapshot{modTime: info.ModTime(), size: info.Size()}
		current[rel] = snap

		if !baseline {
			if prev, ok := p.state[rel]; !ok || prev != snap {
				p.emit(rel)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !baseline {
		for rel := range p.state {
			if _, ok := current[rel]; !ok {
				p.emit(rel)
			}
		}
	}

	p.state = current
	return nil
}

func (p *PollingSource) emit(relPath string) {
	if p.stopped {
		return
	}
	select {
	case p.events <- RawEvent{Path: relPath, Timestamp: time.Now()}:
	default:
	}
}

func (p *PollingSource) Events() <-chan RawEvent { return p.events }
func (p *PollingSource) Errors() <-chan error    { return p.errors }

func (p *PollingSource) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return nil
	}
	p.stopped = true
	close(p.stopCh)
	close(p.events)
	close(p.errors)
	return nil
}
