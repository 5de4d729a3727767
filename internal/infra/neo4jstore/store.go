// Package neo4jstore provides a Neo4j graph implementation of TaskRepository.
//
// Each task is a (:Task) node; a child points at its parent through
// (child)-[:HAS_PARENT]->(parent). Times are stored as RFC3339 strings.
package neo4jstore

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/runoshun/timegrid/internal/domain"
)

const (
	listQuery = "MATCH (t:Task) " +
		"OPTIONAL MATCH (t)-[:HAS_PARENT]->(p:Task) " +
		"RETURN t.id AS id, t.title AS title, t.description AS description, t.color AS color, " +
		"t.completed AS completed, t.start AS start, t.end AS end, coalesce(p.id, t.parentId) AS parent_id " +
		"ORDER BY t.created, t.id"

	getQuery = "MATCH (t:Task {id: $id}) " +
		"OPTIONAL MATCH (t)-[:HAS_PARENT]->(p:Task) " +
		"RETURN t.id AS id, t.title AS title, t.description AS description, t.color AS color, " +
		"t.completed AS completed, t.start AS start, t.end AS end, coalesce(p.id, t.parentId) AS parent_id"

	saveQuery = "MERGE (t:Task {id: $id}) " +
		"ON CREATE SET t.created = timestamp() " +
		"SET t.title = $title, t.description = $description, t.color = $color, " +
		"t.completed = $completed, t.start = $start, t.end = $end, t.parentId = $parentId " +
		"WITH t " +
		"OPTIONAL MATCH (t)-[old:HAS_PARENT]->(:Task) " +
		"DELETE old"

	linkQuery = "MATCH (child:Task {id: $childID}), (parent:Task {id: $parentID}) " +
		"MERGE (child)-[:HAS_PARENT]->(parent)"

	deleteQuery = "MATCH (t:Task {id: $id}) DETACH DELETE t"

	constraintQuery = "CREATE CONSTRAINT task_id IF NOT EXISTS FOR (t:Task) REQUIRE t.id IS UNIQUE"
)

// Store implements domain.TaskRepository on a Neo4j database.
type Store struct {
	driver   neo4j.DriverWithContext
	database string // Empty selects the server default
}

// Open connects to uri. An empty username disables authentication.
func Open(cfg domain.Neo4jConfig) (*Store, error) {
	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	return New(driver, cfg.Database), nil
}

// New creates a Store with an existing driver.
func New(driver neo4j.DriverWithContext, database string) *Store {
	return &Store{driver: driver, database: database}
}

// Close releases the driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Store) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

// List returns the top-level tasks with their subtasks attached.
func (s *Store) List(ctx context.Context) ([]*domain.Task, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, listQuery, nil)
		if err != nil {
			return nil, err
		}

		var tasks []*domain.Task
		for res.Next(ctx) {
			task, decodeErr := taskFromRecord(res.Record())
			if decodeErr != nil {
				return nil, decodeErr
			}
			tasks = append(tasks, task)
		}
		return tasks, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks, _ := result.([]*domain.Task)
	return domain.BuildTree(tasks), nil
}

// Get retrieves a task node by ID. Returns nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*domain.Task, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, getQuery, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			return taskFromRecord(res.Record())
		}
		return nil, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}

	task, _ := result.(*domain.Task)
	return task, nil
}

// Save creates or updates a task node and its parent link.
func (s *Store) Save(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, saveQuery, taskParams(task)); err != nil {
			return nil, err
		}
		if task.ParentID == "" {
			return nil, nil
		}
		_, err := tx.Run(ctx, linkQuery, map[string]any{
			"childID":  task.ID,
			"parentID": task.ParentID,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("save task %s: %w", task.ID, err)
	}
	return nil
}

// Delete removes a task node and its relationships. Children keep their
// parentId property and surface as top-level tasks.
func (s *Store) Delete(ctx context.Context, id string) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, deleteQuery, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n, _ := deleted.(int); n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Initialize creates the uniqueness constraint on task ids.
func (s *Store) Initialize(ctx context.Context) error {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, constraintQuery, nil)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("create task constraint: %w", err)
	}
	return nil
}

// IsInitialized reports whether the database is reachable.
func (s *Store) IsInitialized(ctx context.Context) bool {
	return s.driver.VerifyConnectivity(ctx) == nil
}

// taskParams converts a task into query parameters.
func taskParams(task *domain.Task) map[string]any {
	return map[string]any{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"color":       task.Color,
		"completed":   task.Completed,
		"start":       formatTime(task.Start),
		"end":         formatTime(task.End),
		"parentId":    task.ParentID,
	}
}

// taskFromRecord decodes one row of listQuery or getQuery.
func taskFromRecord(rec *neo4j.Record) (*domain.Task, error) {
	task := &domain.Task{
		ID:          stringValue(rec, "id"),
		Title:       stringValue(rec, "title"),
		Description: stringValue(rec, "description"),
		Color:       stringValue(rec, "color"),
		ParentID:    stringValue(rec, "parent_id"),
	}
	if v, ok := rec.Get("completed"); ok {
		task.Completed, _ = v.(bool)
	}

	var err error
	if task.Start, err = parseTime(stringValue(rec, "start")); err != nil {
		return nil, fmt.Errorf("task %s start: %w", task.ID, err)
	}
	if task.End, err = parseTime(stringValue(rec, "end")); err != nil {
		return nil, fmt.Errorf("task %s end: %w", task.ID, err)
	}
	return task, nil
}

func stringValue(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Ensure Store implements TaskRepository and StoreInitializer.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
