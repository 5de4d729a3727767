// Package gitstore provides a Git plumbing-based implementation of TaskRepository.
package gitstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/timegrid/internal/domain"
)

// Store implements domain.TaskRepository using Git plumbing (refs and blobs).
//
// Data structure:
//
//	refs/<namespace>/
//	  initialized → blob (marker)
//	  meta        → blob (nextPosition)
//	  tasks/
//	    <id>      → blob (task node YAML)
type Store struct {
	repo      *git.Repository
	namespace string // e.g., "timegrid"
	mu        sync.RWMutex
}

// meta contains store metadata.
type meta struct {
	NextPosition int `yaml:"nextPosition"`
}

// record is one task node plus its insertion position.
type record struct {
	domain.Task `yaml:",inline"`
	Position    int `yaml:"position"`
}

var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// New opens the repository at repoPath (or one of its parents).
func New(repoPath, namespace string) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, domain.ErrNotGitRepository
		}
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	return &Store{
		repo:      repo,
		namespace: namespace,
	}
}

// refPrefix returns the ref prefix for this namespace.
func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

// taskRef returns the ref name for a task.
func (s *Store) taskRef(id string) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "tasks/" + id)
}

// metaRef returns the ref name for metadata.
func (s *Store) metaRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "meta")
}

// initializedRef returns the ref name for the initialized marker.
func (s *Store) initializedRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(s.refPrefix() + "initialized")
}

// Get retrieves a task node by ID. Returns nil if not found.
func (s *Store) Get(_ context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !validID.MatchString(id) {
		return nil, nil
	}

	ref, err := s.repo.Reference(s.taskRef(id), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("get task ref: %w", err)
	}

	r, err := s.readRecord(ref.Hash())
	if err != nil {
		return nil, err
	}
	task := r.Task.Node()
	task.ID = id
	return task, nil
}

// List returns the top-level tasks with their subtasks attached.
func (s *Store) List(_ context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	prefix := s.refPrefix() + "tasks/"
	var records []*record
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		id, ok := strings.CutPrefix(string(ref.Name()), prefix)
		if !ok || id == "" {
			return nil
		}

		r, readErr := s.readRecord(ref.Hash())
		if readErr != nil {
			return readErr
		}
		r.ID = id
		records = append(records, r)
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
		flat[i] = r.Task.Node()
	}
	return domain.BuildTree(flat), nil
}

// Save creates or updates a task node. SubTasks are not persisted.
func (s *Store) Save(_ context.Context, task *domain.Task) error {
	if !validID.MatchString(task.ID) {
		return fmt.Errorf("invalid task id for git ref: %q", task.ID)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := &record{Task: *task.Node()}
	if ref, err := s.repo.Reference(s.taskRef(task.ID), true); err == nil {
		existing, readErr := s.readRecord(ref.Hash())
		if readErr != nil {
			return readErr
		}
		r.Position = existing.Position
	} else {
		m, loadErr := s.loadMeta()
		if loadErr != nil {
			return loadErr
		}
		r.Position = m.NextPosition
		m.NextPosition++
		if saveErr := s.saveMeta(m); saveErr != nil {
			return saveErr
		}
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}

	ref := plumbing.NewHashReference(s.taskRef(task.ID), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set task ref: %w", err)
	}

	return nil
}

// Delete removes a task node by ID.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validID.MatchString(id) {
		return domain.ErrTaskNotFound
	}
	if _, err := s.repo.Reference(s.taskRef(id), true); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return domain.ErrTaskNotFound
		}
		return fmt.Errorf("get task ref: %w", err)
	}
	if err := s.repo.Storer.RemoveReference(s.taskRef(id)); err != nil {
		return fmt.Errorf("remove task ref: %w", err)
	}
	return nil
}

// Initialize creates the initialized marker if it doesn't exist.
func (s *Store) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	if err == nil {
		return nil // Already initialized
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("check initialized ref: %w", err)
	}

	hash, err := s.writeBlob([]byte("initialized"))
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(s.initializedRef(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set initialized ref: %w", err)
	}
	return nil
}

// IsInitialized checks if the store has been initialized.
func (s *Store) IsInitialized(_ context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.repo.Reference(s.initializedRef(), true)
	return err == nil
}

func (s *Store) readRecord(hash plumbing.Hash) (*record, error) {
	data, err := s.readBlob(hash)
	if err != nil {
		return nil, fmt.Errorf("read task: %w", err)
	}
	var r record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &r, nil
}

// loadMeta reads the metadata blob. Caller holds s.mu.
func (s *Store) loadMeta() (*meta, error) {
	ref, err := s.repo.Reference(s.metaRef(), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return &meta{}, nil
		}
		return nil, fmt.Errorf("get meta ref: %w", err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}

	var m meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	return &m, nil
}

// saveMeta writes the metadata blob. Caller holds s.mu.
func (s *Store) saveMeta(m *meta) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}

	ref := plumbing.NewHashReference(s.metaRef(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set meta ref: %w", err)
	}
	return nil
}

func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	return io.ReadAll(reader)
}

// Ensure Store implements TaskRepository and StoreInitializer.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
