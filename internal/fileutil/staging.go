package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// ErrStagingClosed is returned when staging into an area that was already closed.
var ErrStagingClosed = errors.New("staging area is closed")

// stagedFilePermissions restricts staged images to the current user.
const stagedFilePermissions = 0o600

// StagingArea is a request-scoped temporary directory.
// File names are namespaced by the request id, so concurrent requests never collide.
type StagingArea struct {
	id  string
	dir string

	mu     sync.Mutex
	seq    int
	closed bool
}

// NewStagingArea creates a staging directory under the OS temp dir.
// An empty requestID gets a fresh UUID.
func NewStagingArea(requestID string) (*StagingArea, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if err := ValidateName(requestID); err != nil {
		return nil, fmt.Errorf("invalid request id %q: %w", requestID, err)
	}

	dir, err := os.MkdirTemp("", tempPrefix+requestID+"-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	return &StagingArea{id: requestID, dir: dir}, nil
}

// ID returns the request id the area is scoped to.
func (s *StagingArea) ID() string { return s.id }

// Dir returns the staging directory path.
func (s *StagingArea) Dir() string { return s.dir }

// Stage writes data to a new file in the area.
// The release function removes that file; it is idempotent.
func (s *StagingArea) Stage(data []byte) (path string, release func(), err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", nil, ErrStagingClosed
	}
	s.seq++
	name := fmt.Sprintf("%s-image-%d", s.id, s.seq)
	s.mu.Unlock()

	path = filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, stagedFilePermissions); err != nil {
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("writing staged file: %w", err)
	}

	var once sync.Once
	release = func() {
		once.Do(func() { _ = os.Remove(path) })
	}
	return path, release, nil
}

// Close removes the staging directory and anything left in it.
func (s *StagingArea) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("removing staging directory: %w", err)
	}
	return nil
}
