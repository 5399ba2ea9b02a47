package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Todo is a stored task row. JSON field names are part of the tool result
// contract consumed by the normalizer and formatter.
type Todo struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Priority    string    `json:"priority"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoUpdate carries the fields of an update; nil pointers leave the column
// untouched.
type TodoUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
	Category    *string
}

// TodoFilter narrows List and Search results. Zero values mean "any".
type TodoFilter struct {
	// Completed filters by status when non-nil.
	Completed *bool
	Priority  string
	Category  string
	// Keyword matches title and description, case-insensitively.
	Keyword string
}

// ErrTodoNotFound is returned when a task id does not exist for the user.
var ErrTodoNotFound = errors.New("todo not found")

const todoColumns = "id, user_id, title, description, completed, priority, category, created_at, updated_at"

func scanTodo(row interface{ Scan(...any) error }) (*Todo, error) {
	var t Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed,
		&t.Priority, &t.Category, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTodo inserts a task and returns it with its assigned id.
func (s *Store) CreateTodo(ctx context.Context, userID, title, description, priority, category string) (*Todo, error) {
	if priority == "" {
		priority = "medium"
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (user_id, title, description, completed, priority, category, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, ?, ?)
	`, userID, title, description, priority, category, now, now)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create todo id: %w", err)
	}
	return s.GetTodo(ctx, userID, id)
}

// GetTodo returns the user's task by id, or ErrTodoNotFound.
func (s *Store) GetTodo(ctx context.Context, userID string, id int64) (*Todo, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+todoColumns+" FROM todos WHERE id = ? AND user_id = ?", id, userID)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %d: %w", id, ErrTodoNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}
	return t, nil
}

// ListTodos returns the user's tasks matching the filter, oldest first.
func (s *Store) ListTodos(ctx context.Context, userID string, filter TodoFilter) ([]*Todo, error) {
	query := "SELECT " + todoColumns + " FROM todos WHERE user_id = ?"
	args := []any{userID}

	if filter.Completed != nil {
		query += " AND completed = ?"
		args = append(args, *filter.Completed)
	}
	if filter.Priority != "" {
		query += " AND priority = ?"
		args = append(args, filter.Priority)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Keyword != "" {
		query += " AND (title LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE)"
		like := "%" + filter.Keyword + "%"
		args = append(args, like, like)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []*Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// UpdateTodo applies the non-nil fields of upd and returns the fresh row.
func (s *Store) UpdateTodo(ctx context.Context, userID string, id int64, upd TodoUpdate) (*Todo, error) {
	var sets []string
	var args []any

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *upd.Completed)
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *upd.Priority)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if len(sets) == 0 {
		return nil, errors.New("update todo: no fields")
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now(), id, userID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE todos SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("todo %d: %w", id, ErrTodoNotFound)
	}
	return s.GetTodo(ctx, userID, id)
}

// DeleteTodo removes the user's task by id, or returns ErrTodoNotFound.
func (s *Store) DeleteTodo(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM todos WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("todo %d: %w", id, ErrTodoNotFound)
	}
	return nil
}
