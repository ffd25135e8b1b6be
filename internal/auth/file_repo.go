package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type fileState struct {
	// Users keyed by normalized email, sessions by token hash.
	Users    map[string]User    `json:"users"`
	Sessions map[string]Session `json:"sessions"`
}

func newFileState() fileState {
	return fileState{
		Users:    map[string]User{},
		Sessions: map[string]Session{},
	}
}

// FileRepo persists users and sessions to a single JSON file.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path: filepath.Join(dataDir, "auth.json"),
		s:    newFileState(),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Users == nil {
		loaded.Users = map[string]User{}
	}
	if loaded.Sessions == nil {
		loaded.Sessions = map[string]Session{}
	}
	r.s = loaded
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o600)
}

func newID(prefix string) string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return prefix + "_" + hex.EncodeToString(b[:])
}

func (r *FileRepo) GetUserByEmail(email string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.s.Users[strings.ToLower(email)]
	return u, ok
}

func (r *FileRepo) GetUserByID(id string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (r *FileRepo) CreateUser(u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, exists := r.s.Users[key]; exists {
		return ErrEmailTaken
	}
	r.s.Users[key] = u
	return r.saveLocked()
}

func (r *FileRepo) CreateSession(s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Sessions[s.TokenHash] = s
	return r.saveLocked()
}

func (r *FileRepo) GetSessionByTokenHash(hash string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.s.Sessions[hash]
	return s, ok
}

func (r *FileRepo) TouchSession(tokenHash string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.s.Sessions[tokenHash]
	if !ok {
		return nil
	}
	s.LastSeen = now
	r.s.Sessions[tokenHash] = s
	return r.saveLocked()
}

func (r *FileRepo) DeleteSessionByTokenHash(hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.s.Sessions, hash)
	return r.saveLocked()
}
