// Package hostfs is the host's text capability: plain string reads over
// a billy filesystem, with an open-document overlay so an editor buffer
// shadows whatever is on disk. The core never touches a filesystem;
// it only ever sees the strings this package hands out.
package hostfs

import (
	"path/filepath"
	"sync"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Source reads file text for the organizer host.
type Source struct {
	fs billy.Filesystem

	mu   sync.RWMutex
	open map[string]string // path → editor buffer content
}

func New(fs billy.Filesystem) *Source {
	return &Source{fs: fs, open: make(map[string]string)}
}

// ReadText returns the current text of a file: the open-document buffer
// when one is registered, the on-disk bytes otherwise.
func (s *Source) ReadText(path string) (string, error) {
	s.mu.RLock()
	text, ok := s.open[path]
	s.mu.RUnlock()
	if ok {
		return text, nil
	}
	data, err := util.ReadFile(s.fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsOpen reports whether an editor buffer is registered for the path.
func (s *Source) IsOpen(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.open[path]
	return ok
}

// SetOpen registers (or refreshes) an open-document buffer.
func (s *Source) SetOpen(path, text string) {
	s.mu.Lock()
	s.open[path] = text
	s.mu.Unlock()
}

// ClearOpen drops an open-document buffer, e.g. after the editor closes
// or saves the file.
func (s *Source) ClearOpen(path string) {
	s.mu.Lock()
	delete(s.open, path)
	s.mu.Unlock()
}

// Walk traverses the underlying filesystem.
func (s *Source) Walk(root string, fn filepath.WalkFunc) error {
	return util.Walk(s.fs, root, fn)
}

// FS exposes the underlying filesystem for writes.
func (s *Source) FS() billy.Filesystem {
	return s.fs
}
