// Package settings persists extension settings and the namespaced
// key/value surface to a YAML file with atomic writes.
package settings

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/templates"
)

// fileState is the on-disk shape: the typed settings plus the opaque
// namespaced values the workflows consume.
type fileState struct {
	Settings model.ExtensionSettings `yaml:"settings"`
	Values   map[string]string       `yaml:"values,omitempty"`
}

// Store owns one settings file. All access goes through the store's
// lock; writes within the same key are last-write-wins.
type Store struct {
	path string

	mu    sync.RWMutex
	state fileState
}

// Open loads the settings file, seeding from the embedded defaults
// when it does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data, err = templates.FS.ReadFile("settings.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := yamlv3.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if s.state.Settings.LogLevel == "" {
		s.state.Settings = model.DefaultSettings()
	}
	if s.state.Values == nil {
		s.state.Values = make(map[string]string)
	}
	if err := s.state.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Settings returns a copy of the current typed settings.
func (s *Store) Settings() model.ExtensionSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// UpdateSettings validates and replaces the typed settings, then
// persists.
func (s *Store) UpdateSettings(next model.ExtensionSettings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.Settings = next
	s.mu.Unlock()
	return s.save()
}

// Get reads a namespaced value.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state.Values[key]
	return v, ok
}

// Set writes a namespaced value and persists. Setting the same value
// again is a no-op write.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	if old, ok := s.state.Values[key]; ok && old == value {
		s.mu.Unlock()
		return nil
	}
	s.state.Values[key] = value
	s.mu.Unlock()
	return s.save()
}

// Delete removes a namespaced value and persists.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	if _, ok := s.state.Values[key]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.state.Values, key)
	s.mu.Unlock()
	return s.save()
}

// Reload re-reads the file, for use after an external change.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	var next fileState
	if err := yamlv3.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("parse settings: %w", err)
	}
	if err := next.Settings.Validate(); err != nil {
		return fmt.Errorf("settings file %s: %w", s.path, err)
	}
	if next.Values == nil {
		next.Values = make(map[string]string)
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return nil
}

// save writes atomically: temp file in the same directory, fsync,
// re-read and validate, back up the previous file, then rename.
func (s *Store) save() error {
	s.mu.RLock()
	content, err := yamlv3.Marshal(s.state)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return atomicWrite(s.path, content)
}

func atomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".sitepilot-tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	written, err := os.ReadFile(tmpName)
	if err != nil {
		return fmt.Errorf("read temp file for validation: %w", err)
	}
	var v any
	if err := yamlv3.Unmarshal(written, &v); err != nil {
		return fmt.Errorf("yaml validation failed: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".bak"); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
