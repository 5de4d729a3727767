// Package jsonstore provides a JSON file-based implementation of TaskRepository.
package jsonstore

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/runoshun/timegrid/internal/domain"
)

// storeData represents the JSON file structure.
type storeData struct {
	Tasks map[string]*record `json:"tasks"`
	Meta  meta               `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	NextPosition int `json:"nextPosition"`
}

// record is one task node plus its insertion position.
// Sibling order is rebuilt from Position.
type record struct {
	domain.Task
	Position int `json:"position"`
}

// Store implements domain.TaskRepository using a JSON file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Get retrieves a task node by ID. Returns nil if not found.
func (s *Store) Get(_ context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(func(data *storeData) error {
		if r, ok := data.Tasks[id]; ok {
			task = r.node(id)
		}
		return nil
	})
	return task, err
}

// List returns the top-level tasks with their subtasks attached.
func (s *Store) List(_ context.Context) ([]*domain.Task, error) {
	var records []*record
	err := s.withLock(func(data *storeData) error {
		for id, r := range data.Tasks {
			r.ID = id
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *record) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	flat := make([]*domain.Task, len(records))
	for i, r := range records {
		flat[i] = r.node(r.ID)
	}
	return domain.BuildTree(flat), nil
}

// Save creates or updates a task node. SubTasks are not persisted.
func (s *Store) Save(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	return s.withLockWrite(func(data *storeData) error {
		r := &record{Task: *task.Node()}
		if existing, ok := data.Tasks[task.ID]; ok {
			r.Position = existing.Position
		} else {
			r.Position = data.Meta.NextPosition
			data.Meta.NextPosition++
		}
		data.Tasks[task.ID] = r
		return nil
	})
}

// Delete removes a task node by ID.
func (s *Store) Delete(_ context.Context, id string) error {
	return s.withLockWrite(func(data *storeData) error {
		if _, ok := data.Tasks[id]; !ok {
			return domain.ErrTaskNotFound
		}
		delete(data.Tasks, id)
		return nil
	})
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized(_ context.Context) bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	return s.write(&storeData{Tasks: make(map[string]*record)})
}

func (r *record) node(id string) *domain.Task {
	t := r.Task.Node()
	t.ID = id
	return t
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	if data.Tasks == nil {
		data.Tasks = make(map[string]*record)
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Ensure Store implements TaskRepository and StoreInitializer.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
