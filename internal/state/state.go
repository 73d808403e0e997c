// Package state holds the client's session-scoped state: the signed-in
// user and the task collection. All mutation goes through Dispatch with
// a pure reducer, so views always work from an immutable snapshot.
package state

import (
	"sync"

	"github.com/Tejashree-V/IBM-PROJECT/internal/identity"
	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

// Snapshot is an immutable view of the client state. The tasks slice is
// copied on every change; holders of a snapshot never see later edits.
type Snapshot struct {
	User  *identity.User
	Tasks []task.Task
}

// Action mutates the state when dispatched.
type Action interface {
	apply(Snapshot) Snapshot
}

// SetUser replaces the user slot after a session event.
type SetUser struct{ User *identity.User }

// ClearUser empties the user slot on sign-out.
type ClearUser struct{}

// SetTasks replaces the whole task collection after a list fetch.
type SetTasks struct{ Tasks []task.Task }

// AddTask appends a task the service just created.
type AddTask struct{ Task task.Task }

// UpdateTask replaces the task with the same id.
type UpdateTask struct{ Task task.Task }

// DeleteTask removes the task with the given id.
type DeleteTask struct{ ID string }

func (a SetUser) apply(s Snapshot) Snapshot {
	s.User = a.User
	return s
}

func (ClearUser) apply(s Snapshot) Snapshot {
	s.User = nil
	return s
}

func (a SetTasks) apply(s Snapshot) Snapshot {
	s.Tasks = append([]task.Task(nil), a.Tasks...)
	return s
}

func (a AddTask) apply(s Snapshot) Snapshot {
	tasks := append([]task.Task(nil), s.Tasks...)
	s.Tasks = append(tasks, a.Task)
	return s
}

func (a UpdateTask) apply(s Snapshot) Snapshot {
	tasks := append([]task.Task(nil), s.Tasks...)
	for i := range tasks {
		if tasks[i].ID == a.Task.ID {
			tasks[i] = a.Task
		}
	}
	s.Tasks = tasks
	return s
}

func (a DeleteTask) apply(s Snapshot) Snapshot {
	tasks := make([]task.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID != a.ID {
			tasks = append(tasks, t)
		}
	}
	s.Tasks = tasks
	return s
}

// Container is the state holder. The zero value is not usable; call New.
type Container struct {
	mu      sync.Mutex
	current Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates an empty container: no user, no tasks.
func New() *Container {
	return &Container{subs: make(map[int]func(Snapshot))}
}

// Snapshot returns the current state.
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Dispatch applies an action and notifies subscribers with the new
// snapshot.
func (c *Container) Dispatch(a Action) Snapshot {
	c.mu.Lock()
	c.current = a.apply(c.current)
	next := c.current
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	return next
}

// Subscribe registers fn to receive every new snapshot. The returned
// function unsubscribes it.
func (c *Container) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}
