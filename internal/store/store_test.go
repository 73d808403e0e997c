package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

// testStore creates a temporary store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file not created")
	}
}

func TestCreate_Defaults(t *testing.T) {
	s := testStore(t)

	created, err := s.Create(task.Task{Title: "X"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == "" {
		t.Error("expected a generated id")
	}
	if created.Status != task.StatusTodo {
		t.Errorf("expected default status todo, got %s", created.Status)
	}
	if created.Priority != task.PriorityMedium {
		t.Errorf("expected default priority medium, got %s", created.Priority)
	}
	if len(created.Comments) != 0 {
		t.Errorf("expected no comments, got %d", len(created.Comments))
	}

	tasks, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "X" {
		t.Errorf("expected list to contain the created task, got %+v", tasks)
	}
}

func TestCreate_MissingTitle(t *testing.T) {
	s := testStore(t)

	_, err := s.Create(task.Task{})
	if !errors.Is(err, task.ErrInvalid) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreate_WithPendingComment(t *testing.T) {
	s := testStore(t)

	created, err := s.Create(task.Task{
		Title:    "With comment",
		Comments: []task.Comment{{Content: "first note", Author: "Alice"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.Comments) != 1 || created.Comments[0].Content != "first note" {
		t.Errorf("expected one comment, got %+v", created.Comments)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_PartialLeavesOtherFieldsAlone(t *testing.T) {
	s := testStore(t)

	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	created, err := s.Create(task.Task{
		Title:    "Original",
		Category: "work",
		Priority: task.PriorityHigh,
		DueDate:  &due,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	completed := task.StatusCompleted
	updated, err := s.Update(created.ID, task.Patch{Status: &completed})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Status != task.StatusCompleted {
		t.Errorf("expected status completed, got %s", updated.Status)
	}
	if updated.Title != "Original" || updated.Category != "work" || updated.Priority != task.PriorityHigh {
		t.Errorf("unrelated fields changed: %+v", updated)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Errorf("due date changed: %v", updated.DueDate)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	s := testStore(t)

	title := "x"
	_, err := s.Update("missing", task.Patch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_RejectsInvalidPatch(t *testing.T) {
	s := testStore(t)
	created, _ := s.Create(task.Task{Title: "ok"})

	bad := task.Status("later")
	_, err := s.Update(created.ID, task.Patch{Status: &bad})
	if !errors.Is(err, task.ErrInvalid) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	created, _ := s.Create(task.Task{Title: "doomed"})

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// Updating a deleted task surfaces not-found.
	title := "x"
	if _, err := s.Update(created.ID, task.Patch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// A second delete is also not-found, not a silent success.
	if err := s.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestAddComment_PreservesOrder(t *testing.T) {
	s := testStore(t)
	created, _ := s.Create(task.Task{Title: "discussed"})

	when := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if _, err := s.AddComment(created.ID, task.Comment{Content: "first", Author: "Alice", CreatedAt: when}); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	updated, err := s.AddComment(created.ID, task.Comment{Content: "hello", Author: "Alice", CreatedAt: when})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	if len(updated.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(updated.Comments))
	}
	if updated.Comments[0].Content != "first" || updated.Comments[1].Content != "hello" {
		t.Errorf("comment order broken: %+v", updated.Comments)
	}
	if updated.Comments[1].Author != "Alice" {
		t.Errorf("expected author Alice, got %q", updated.Comments[1].Author)
	}
}

func TestAddComment_NotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.AddComment("missing", task.Comment{Content: "hi"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddComment_EmptyContent(t *testing.T) {
	s := testStore(t)
	created, _ := s.Create(task.Task{Title: "quiet"})

	_, err := s.AddComment(created.ID, task.Comment{Content: ""})
	if !errors.Is(err, task.ErrInvalid) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpsertProfile(t *testing.T) {
	s := testStore(t)

	if err := s.UpsertProfile("u1", "a@example.com"); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	// Re-inserting the same id must not fail.
	if err := s.UpsertProfile("u1", "b@example.com"); err != nil {
		t.Fatalf("UpsertProfile again: %v", err)
	}
}
