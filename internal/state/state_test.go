package state

import (
	"testing"

	"github.com/Tejashree-V/IBM-PROJECT/internal/identity"
	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

func TestSetAndClearUser(t *testing.T) {
	c := New()

	c.Dispatch(SetUser{User: &identity.User{ID: "u1", Email: "a@example.com"}})
	if s := c.Snapshot(); s.User == nil || s.User.ID != "u1" {
		t.Errorf("expected user u1, got %+v", s.User)
	}

	c.Dispatch(ClearUser{})
	if s := c.Snapshot(); s.User != nil {
		t.Errorf("expected no user, got %+v", s.User)
	}
}

func TestSetTasks(t *testing.T) {
	c := New()

	c.Dispatch(SetTasks{Tasks: []task.Task{{ID: "1"}, {ID: "2"}}})
	if s := c.Snapshot(); len(s.Tasks) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(s.Tasks))
	}
}

func TestAddUpdateDeleteTask(t *testing.T) {
	c := New()
	c.Dispatch(SetTasks{Tasks: []task.Task{{ID: "1", Title: "one"}}})

	c.Dispatch(AddTask{Task: task.Task{ID: "2", Title: "two"}})
	if s := c.Snapshot(); len(s.Tasks) != 2 || s.Tasks[1].ID != "2" {
		t.Errorf("add failed: %+v", s.Tasks)
	}

	c.Dispatch(UpdateTask{Task: task.Task{ID: "1", Title: "one updated"}})
	if s := c.Snapshot(); s.Tasks[0].Title != "one updated" {
		t.Errorf("update failed: %+v", s.Tasks)
	}

	c.Dispatch(DeleteTask{ID: "1"})
	s := c.Snapshot()
	if len(s.Tasks) != 1 || s.Tasks[0].ID != "2" {
		t.Errorf("delete failed: %+v", s.Tasks)
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	c := New()
	c.Dispatch(SetTasks{Tasks: []task.Task{{ID: "1", Title: "before"}}})

	before := c.Snapshot()
	c.Dispatch(UpdateTask{Task: task.Task{ID: "1", Title: "after"}})

	if before.Tasks[0].Title != "before" {
		t.Error("earlier snapshot was mutated by a later dispatch")
	}
}

func TestSubscribe(t *testing.T) {
	c := New()

	var got []int
	unsubscribe := c.Subscribe(func(s Snapshot) {
		got = append(got, len(s.Tasks))
	})

	c.Dispatch(SetTasks{Tasks: []task.Task{{ID: "1"}}})
	c.Dispatch(AddTask{Task: task.Task{ID: "2"}})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected notifications [1 2], got %v", got)
	}

	unsubscribe()
	c.Dispatch(DeleteTask{ID: "1"})
	if len(got) != 2 {
		t.Errorf("unsubscribed callback still fired: %v", got)
	}
}
