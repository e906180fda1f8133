package sprite

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/vovakirdan/tui-stg/internal/core"
)

// Change reports that the file backing a texture was written, created,
// renamed or removed.
type Change struct {
	Texture core.TextureID
	Path    string
	Op      fsnotify.Op
}

// Watcher follows the data directory and reports sprite file changes.
type Watcher struct {
	fs      *fsnotify.Watcher
	changes chan Change
	done    chan struct{}
	logger  *log.Logger

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Watch starts watching dir.
func Watch(dir string, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("sprite: create watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("sprite: watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:      fs,
		changes: make(chan Change, 8),
		done:    make(chan struct{}),
		logger:  logger,
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Changes delivers sprite file changes. It is closed by Close.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.changes)

	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			id, ok := textureFor(e.Name)
			if !ok || e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("sprite file changed", "path", e.Name, "op", e.Op.String())
			select {
			case w.changes <- Change{Texture: id, Path: e.Name, Op: e.Op}:
			case <-w.done:
				return
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("sprite watcher", "error", err)

		case <-w.done:
			return
		}
	}
}

// textureFor maps a file name such as data/xchu.png to its texture.
func textureFor(path string) (core.TextureID, bool) {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	name := strings.TrimSuffix(base, filepath.Ext(base))

	known := false
	for _, e := range Extensions {
		if ext == e {
			known = true
		}
	}
	if !known {
		return 0, false
	}
	for _, id := range IDs {
		if strings.EqualFold(name, id.String()) {
			return id, true
		}
	}
	return 0, false
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
