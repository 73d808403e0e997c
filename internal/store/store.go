package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

// ErrNotFound is returned when an operation references a task id that
// does not exist (including deletes of already-removed tasks).
var ErrNotFound = errors.New("task not found")

// Store provides access to the task database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		description     TEXT DEFAULT '',
		due_date        DATETIME,
		priority        TEXT NOT NULL DEFAULT 'medium',
		category        TEXT DEFAULT '',
		assigned_to     TEXT DEFAULT '',
		estimated_time  REAL,
		status          TEXT NOT NULL DEFAULT 'todo',
		created_at      DATETIME NOT NULL,
		updated_at      DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS comments (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id     TEXT NOT NULL REFERENCES tasks(id),
		author      TEXT DEFAULT '',
		content     TEXT NOT NULL,
		created_at  DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL,
		created_at  DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// taskColumns is the standard column list for task queries.
const taskColumns = `id, title, description, due_date, priority, category, assigned_to, estimated_time, status, created_at, updated_at`

// Create inserts a new task and returns it with its generated id.
// Status and priority default to todo/medium when unset.
func (s *Store) Create(t task.Task) (*task.Task, error) {
	now := time.Now().UTC()
	t.ID = uuid.NewString()
	if t.Status == "" {
		t.Status = task.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := t.Validate(); err != nil {
		return nil, err
	}

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, description, due_date, priority, category, assigned_to, estimated_time, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, nullTime(t.DueDate), string(t.Priority),
		t.Category, t.AssignedTo, nullFloat(t.EstimatedTime), string(t.Status), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	// The create form may carry one pending comment.
	for _, c := range t.Comments {
		if c.Content == "" {
			continue
		}
		if err := s.insertComment(t.ID, c); err != nil {
			return nil, err
		}
	}

	return s.Get(t.ID)
}

// Get returns a single task with its comments, or ErrNotFound.
func (s *Store) Get(id string) (*task.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments(id)
	if err != nil {
		return nil, err
	}
	t.Comments = comments
	return t, nil
}

// List returns all tasks with their comments attached. Order is
// store-determined; callers sort for display.
func (s *Store) List() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTaskRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachComments(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies a partial update and returns the updated task.
// Fields not present in the patch keep their stored values.
func (s *Store) Update(id string, p task.Patch) (*task.Task, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.DueDate != nil {
		add("due_date", *p.DueDate)
	}
	if p.Priority != nil {
		add("priority", string(*p.Priority))
	}
	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.AssignedTo != nil {
		add("assigned_to", *p.AssignedTo)
	}
	if p.EstimatedTime != nil {
		add("estimated_time", *p.EstimatedTime)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id)

	res, err := s.db.Exec("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(id)
}

// Delete removes a task and its comments. Deleting an absent id
// returns ErrNotFound rather than succeeding silently.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := s.db.Exec(`DELETE FROM comments WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	return nil
}

// AddComment appends one comment to a task and returns the full updated
// record. Comment order is insertion order and is never rewritten.
func (s *Store) AddComment(id string, c task.Comment) (*task.Task, error) {
	if c.Content == "" {
		return nil, fmt.Errorf("%w: comment content is required", task.ErrInvalid)
	}

	// Point read first so a missing task surfaces as not-found rather
	// than as an orphaned comment row.
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := s.insertComment(id, c); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.db.Exec(`UPDATE tasks SET updated_at = ? WHERE id = ?`, now, id); err != nil {
		return nil, fmt.Errorf("touch task: %w", err)
	}
	return s.Get(id)
}

func (s *Store) insertComment(taskID string, c task.Comment) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO comments (task_id, author, content, created_at) VALUES (?, ?, ?, ?)`,
		taskID, c.Author, c.Content, createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// comments returns a task's comments in insertion order.
func (s *Store) comments(taskID string) ([]task.Comment, error) {
	rows, err := s.db.Query(
		`SELECT author, content, created_at FROM comments WHERE task_id = ? ORDER BY id`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []task.Comment{}
	for rows.Next() {
		var c task.Comment
		if err := rows.Scan(&c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// attachComments loads comments for a whole task list in one query.
func (s *Store) attachComments(tasks []task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	rows, err := s.db.Query(`SELECT task_id, author, content, created_at FROM comments ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	byTask := make(map[string][]task.Comment)
	for rows.Next() {
		var taskID string
		var c task.Comment
		if err := rows.Scan(&taskID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		byTask[taskID] = append(byTask[taskID], c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range tasks {
		if cs, ok := byTask[tasks[i].ID]; ok {
			tasks[i].Comments = cs
		} else {
			tasks[i].Comments = []task.Comment{}
		}
	}
	return nil
}

// UpsertProfile records the side profile row written on sign-up.
func (s *Store) UpsertProfile(id, email string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO profiles (id, email, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET email = excluded.email`,
		id, email, now,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// scanTask scans a single task from a *sql.Row.
func scanTask(row *sql.Row) (*task.Task, error) {
	var t task.Task
	var due sql.NullTime
	var est sql.NullFloat64
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &due, &t.Priority, &t.Category,
		&t.AssignedTo, &est, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	if est.Valid {
		t.EstimatedTime = &est.Float64
	}
	return &t, nil
}

// scanTaskRows scans a single task from *sql.Rows.
func scanTaskRows(rows *sql.Rows) (*task.Task, error) {
	var t task.Task
	var due sql.NullTime
	var est sql.NullFloat64
	err := rows.Scan(
		&t.ID, &t.Title, &t.Description, &due, &t.Priority, &t.Category,
		&t.AssignedTo, &est, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	if est.Valid {
		t.EstimatedTime = &est.Float64
	}
	return &t, nil
}
