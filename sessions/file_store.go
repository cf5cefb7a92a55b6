package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var _ Store = (*FileStore)(nil)

// FileStore persists the session for the CLI client in a JSON file only the
// current user can read.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultSessionPath returns <user config dir>/nugudi/session.json.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("[sessions DefaultSessionPath] %w", err)
	}
	return filepath.Join(dir, "nugudi", "session.json"), nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() (Session, error) {
	var sess Session
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return sess, nil
	}
	if err != nil {
		return sess, fmt.Errorf("[FileStore load] %w", err)
	}
	if len(data) == 0 {
		return sess, nil
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return sess, fmt.Errorf("[FileStore load] decode %s: %w", s.path, err)
	}
	return sess, nil
}

func (s *FileStore) save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("[FileStore save] %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("[FileStore save] encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("[FileStore save] %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileStore save] write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileStore save] chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[FileStore save] %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) update(fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.load()
	if err != nil {
		return err
	}
	fn(&sess)
	return s.save(sess)
}

func (s *FileStore) Get(_ context.Context, f Field) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.load()
	if err != nil {
		return "", err
	}
	return sess.Get(f), nil
}

func (s *FileStore) Set(_ context.Context, f Field, value string) error {
	return s.update(func(sess *Session) { sess.Set(f, value) })
}

func (s *FileStore) ClearField(_ context.Context, f Field) error {
	return s.update(func(sess *Session) { sess.Set(f, "") })
}

func (s *FileStore) Session(_ context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) SetSession(_ context.Context, next Session) error {
	return s.update(func(sess *Session) {
		for _, f := range Fields {
			if v := next.Get(f); v != "" {
				sess.Set(f, v)
			}
		}
	})
}

// Clear drops the tokens and user id. The device id identifies the
// installation, not the login, so it survives a logout.
func (s *FileStore) Clear(_ context.Context) error {
	return s.update(func(sess *Session) {
		*sess = Session{DeviceID: sess.DeviceID}
	})
}

// EnsureDeviceID returns the stored device id, generating and persisting one if absent.
func (s *FileStore) EnsureDeviceID(_ context.Context) (string, error) {
	var id string
	err := s.update(func(sess *Session) {
		if sess.DeviceID == "" {
			sess.DeviceID = NewDeviceID()
		}
		id = sess.DeviceID
	})
	return id, err
}
