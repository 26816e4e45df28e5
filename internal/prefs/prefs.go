// Package prefs persists per-device client state: the local user profile,
// theme choice and a snapshot of the chat history. Everything is stored as
// JSON under fixed keys inside one state directory, with timestamps
// round-tripping through RFC 3339.
package prefs

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kiyotox/starbridge/internal/history"
)

// Fixed storage keys.
const (
	userFile    = "app_user.json"
	historyFile = "app_chat_history.json"
	themeFile   = "app_theme.json"
)

// ErrNoUser is returned when no profile has been saved yet.
var ErrNoUser = errors.New("no user profile stored")

// Theme is the UI theme choice.
type Theme string

const (
	ThemeLight   Theme = "light"
	ThemeDark    Theme = "dark"
	ThemeDefault Theme = "default"
)

// ParseTheme maps a stored value to a Theme, falling back to the default
// for anything unknown.
func ParseTheme(s string) Theme {
	switch Theme(s) {
	case ThemeLight, ThemeDark, ThemeDefault:
		return Theme(s)
	default:
		return ThemeDefault
	}
}

// User is the locally captured profile. No verification happens anywhere;
// this is identity capture, not authentication.
type User struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    string `json:"age,omitempty"`
	Avatar string `json:"avatar,omitempty"` // base64 data URI
}

// Store reads and writes preference files in one directory.
type Store struct {
	dir string
}

// NewStore creates the state directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create prefs directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveUser persists the profile.
func (s *Store) SaveUser(u User) error {
	return s.writeJSON(userFile, u)
}

// LoadUser returns the stored profile, or ErrNoUser when none exists.
func (s *Store) LoadUser() (User, error) {
	var u User
	err := s.readJSON(userFile, &u)
	if errors.Is(err, os.ErrNotExist) {
		return User{}, ErrNoUser
	}
	return u, err
}

// SaveTheme persists the theme choice.
func (s *Store) SaveTheme(t Theme) error {
	return s.writeJSON(themeFile, string(t))
}

// LoadTheme returns the stored theme; absent or unknown values resolve to
// the default theme.
func (s *Store) LoadTheme() Theme {
	var raw string
	if err := s.readJSON(themeFile, &raw); err != nil {
		return ThemeDefault
	}
	return ParseTheme(raw)
}

// SaveHistory snapshots the conversation list.
func (s *Store) SaveHistory(convs []history.Conversation) error {
	return s.writeJSON(historyFile, convs)
}

// LoadHistory returns the stored conversation snapshot; absent means an
// empty history, not an error.
func (s *Store) LoadHistory() ([]history.Conversation, error) {
	var convs []history.Conversation
	err := s.readJSON(historyFile, &convs)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return convs, err
}

// ClearSession removes the profile and history but keeps the theme, which
// survives logout.
func (s *Store) ClearSession() error {
	for _, name := range []string{userFile, historyFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(filepath.Join(s.dir, name), data)
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// atomicWrite writes via a temp file in the same directory and renames it
// into place, so a crash leaves either the old file or the new one, never
// a torn write.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return err
	}
	tmp := f.Name()
	ok := false
	defer func() {
		if !ok {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	ok = true
	return nil
}

// maxAvatarBytes caps avatar uploads before base64 expansion.
const maxAvatarBytes = 5 << 20

// EncodeAvatar reads an image file and returns it as a base64 data URI.
// It is a scoped, synchronous operation: no callbacks, no retained state.
func EncodeAvatar(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxAvatarBytes {
		return "", fmt.Errorf("avatar file exceeds %d bytes", maxAvatarBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
