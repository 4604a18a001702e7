package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"todos/internal/models"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db       *sql.DB
	migrated []string
}

// NewSQLiteStore opens the database at dbPath and applies pending migrations.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	applied, err := newMigrator(db).migrate(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &SQLiteStore{db: db, migrated: make([]string, 0, len(applied))}
	for _, m := range applied {
		s.migrated = append(s.migrated, m.String())
	}
	return s, nil
}

// Migrated lists the schema migrations applied when the store was opened.
func (s *SQLiteStore) Migrated() []string {
	return s.migrated
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTodo inserts a new, not yet completed todo.
func (s *SQLiteStore) CreateTodo(ctx context.Context, task string) (*models.Todo, error) {
	todo := &models.Todo{
		ID:   uuid.NewString(),
		Task: task,
	}
	if err := todo.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, task, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, todo.ID, todo.Task, todo.Completed, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// ListTodos returns every todo in insertion order.
func (s *SQLiteStore) ListTodos(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, completed FROM todos ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.ID, &todo.Task, &todo.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

// UpdateTodo applies the fields present in patch and returns the stored record.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now()}
	if patch.Task != nil {
		sets = append(sets, "task = ?")
		args = append(args, *patch.Task)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *patch.Completed)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE todos SET %s WHERE id = ? RETURNING id, task, completed`, strings.Join(sets, ", "))

	todo := &models.Todo{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&todo.ID, &todo.Task, &todo.Completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// DeleteTodo permanently removes a todo.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}

	return nil
}
