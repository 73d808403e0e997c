package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tejashree-V/IBM-PROJECT/internal/api"
	"github.com/Tejashree-V/IBM-PROJECT/internal/identity"
	"github.com/Tejashree-V/IBM-PROJECT/internal/state"
	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

// screen represents which view the UI is showing.
type screen int

const (
	screenAuth    screen = iota // sign-in / sign-up gate
	screenList                  // filtered, sorted task list
	screenForm                  // create or edit form
	screenComment               // compose one comment
)

// form field indices for focus cycling.
const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldCategory
	fieldAssignedTo
	fieldEstimatedTime
	numFields
)

// Model is the top-level bubbletea model for the task client.
type Model struct {
	container *state.Container
	identity  *identity.Client
	api       *api.Client

	width  int
	height int

	currentScreen screen

	// Auth gate state.
	emailInput    textinput.Model
	passwordInput textinput.Model
	authFocus     int  // 0=email, 1=password
	signUpMode    bool // toggle between sign-in and sign-up

	// List state.
	filters   task.Filters
	visible   []task.Task // derived: filters applied to the snapshot
	cursor    int
	expanded  bool // show comments for the selected task
	statusMsg string

	// Form state (create or edit).
	formInputs   [numFields]textinput.Model
	formFocus    int
	formPriority task.Priority
	formStatus   task.Status
	editingID    string // empty when creating

	// Comment composition. Only one pending comment is held at a time;
	// typing replaces it, submit appends it.
	commentInput textinput.Model

	quitting bool
}

// New creates the client model. Session changes from the identity
// provider flow into the state container before the UI sees them.
func New(container *state.Container, ident *identity.Client, apiClient *api.Client) Model {
	ei := textinput.New()
	ei.Placeholder = "Email"
	ei.CharLimit = 120
	ei.Width = 40
	ei.Focus()

	pi := textinput.New()
	pi.Placeholder = "Password"
	pi.EchoMode = textinput.EchoPassword
	pi.CharLimit = 120
	pi.Width = 40

	ci := textinput.New()
	ci.Placeholder = "Add a comment..."
	ci.CharLimit = 500
	ci.Width = 60

	m := Model{
		container:     container,
		identity:      ident,
		api:           apiClient,
		currentScreen: screenAuth,
		emailInput:    ei,
		passwordInput: pi,
		commentInput:  ci,
		filters:       task.DefaultFilters(),
		formPriority:  task.PriorityMedium,
		formStatus:    task.StatusTodo,
	}
	m.resetForm()

	ident.OnAuthStateChange(func(event string, s *identity.Session) {
		if event == identity.EventSignedIn && s != nil {
			container.Dispatch(state.SetUser{User: &s.User})
		} else {
			container.Dispatch(state.ClearUser{})
		}
	})

	return m
}

// WithoutAuthGate starts the UI on the task list with no sign-in step,
// for use against a service running without an identity provider.
func (m Model) WithoutAuthGate() Model {
	m.currentScreen = screenList
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	// An existing session (e.g. restored by the provider client) skips
	// the auth gate.
	if m.currentScreen == screenList || m.identity.GetSession() != nil {
		return m.fetchTasks()
	}
	return textinput.Blink
}

func (m *Model) resetForm() {
	placeholders := [numFields]string{
		"Title",
		"Description (optional)",
		"Due date yyyy-mm-dd (optional)",
		"Category (optional)",
		"Assigned to (optional)",
		"Estimated hours (optional)",
	}
	for i := range m.formInputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		ti.Width = 50
		m.formInputs[i] = ti
	}
	m.formFocus = fieldTitle
	m.formInputs[fieldTitle].Focus()
	m.formPriority = task.PriorityMedium
	m.formStatus = task.StatusTodo
	m.editingID = ""
}

// rebuildVisible re-derives the displayed list from the current
// snapshot and filters.
func (m *Model) rebuildVisible() {
	m.visible = m.filters.Apply(m.container.Snapshot().Tasks)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectedTask() *task.Task {
	if m.cursor < len(m.visible) {
		t := m.visible[m.cursor]
		return &t
	}
	return nil
}

// --- Messages ---

type authDoneMsg struct {
	user *identity.User
	err  error
}

type profileSavedMsg struct {
	err error
}

type tasksLoadedMsg struct {
	tasks []task.Task
	err   error
}

type taskCreatedMsg struct {
	task *task.Task
	err  error
}

type taskUpdatedMsg struct {
	task *task.Task
	err  error
}

type taskDeletedMsg struct {
	id  string
	err error
}

type commentAddedMsg struct {
	task *task.Task
	err  error
}

// --- Commands ---

const requestTimeout = 15 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func (m Model) signIn(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		user, err := m.identity.SignInWithPassword(ctx, email, password)
		return authDoneMsg{user: user, err: err}
	}
}

// signUp registers the account and then writes the side profile row.
// A failed profile write is reported but the account stands; there is
// no compensation step for this dual write.
func (m Model) signUp(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		user, err := m.identity.SignUp(ctx, email, password)
		if err != nil {
			return authDoneMsg{err: err}
		}
		if perr := m.api.UpsertProfile(ctx, user.ID, email); perr != nil {
			return profileSavedMsg{err: perr}
		}
		return authDoneMsg{user: user}
	}
}

func (m Model) signOut() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		m.identity.SignOut(ctx)
		return nil
	}
}

func (m Model) fetchTasks() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		tasks, err := m.api.List(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) createTask(t task.Task) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		created, err := m.api.Create(ctx, t)
		return taskCreatedMsg{task: created, err: err}
	}
}

func (m Model) updateTask(id string, p task.Patch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		updated, err := m.api.Update(ctx, id, p)
		return taskUpdatedMsg{task: updated, err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		err := m.api.Delete(ctx, id)
		return taskDeletedMsg{id: id, err: err}
	}
}

func (m Model) addComment(id, content string) tea.Cmd {
	author := ""
	if s := m.identity.GetSession(); s != nil {
		author = s.User.Email
	}
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		updated, err := m.api.AddComment(ctx, id, task.Comment{
			Content:   content,
			Author:    author,
			CreatedAt: time.Now().UTC(),
		})
		return commentAddedMsg{task: updated, err: err}
	}
}
