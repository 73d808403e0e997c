package tui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tejashree-V/IBM-PROJECT/internal/state"
	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

// statusOrder drives the status-advance key on the list screen.
var statusOrder = []task.Status{
	task.StatusTodo,
	task.StatusInProgress,
	task.StatusReview,
	task.StatusCompleted,
}

var sortOrder = []string{task.SortByDueDate, task.SortByPriority, task.SortByStatus, "none"}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.currentScreen {
		case screenAuth:
			return m.handleAuthKey(msg)
		case screenList:
			return m.handleListKey(msg)
		case screenForm:
			return m.handleFormKey(msg)
		case screenComment:
			return m.handleCommentKey(msg)
		}

	case authDoneMsg:
		if msg.err != nil {
			m.statusMsg = "Authentication failed: " + msg.err.Error()
			return m, nil
		}
		m.currentScreen = screenList
		m.statusMsg = ""
		return m, m.fetchTasks()

	case profileSavedMsg:
		// Sign-up succeeded but the profile side write did not. The
		// account exists regardless, so proceed signed in.
		m.statusMsg = "Signed up, but saving the profile failed: " + msg.err.Error()
		m.currentScreen = screenList
		return m, m.fetchTasks()

	case tasksLoadedMsg:
		if msg.err != nil {
			m.statusMsg = "Failed to load tasks: " + msg.err.Error()
			return m, nil
		}
		m.container.Dispatch(state.SetTasks{Tasks: msg.tasks})
		m.rebuildVisible()
		if m.currentScreen == screenAuth {
			m.currentScreen = screenList
		}
		return m, nil

	case taskCreatedMsg:
		if msg.err != nil {
			m.statusMsg = "Failed to create task: " + msg.err.Error()
			return m, nil
		}
		m.container.Dispatch(state.AddTask{Task: *msg.task})
		m.rebuildVisible()
		m.currentScreen = screenList
		m.statusMsg = "Created " + msg.task.Title
		return m, nil

	case taskUpdatedMsg:
		if msg.err != nil {
			m.statusMsg = "Failed to update task: " + msg.err.Error()
			return m, nil
		}
		m.container.Dispatch(state.UpdateTask{Task: *msg.task})
		m.rebuildVisible()
		m.currentScreen = screenList
		m.statusMsg = "Updated " + msg.task.Title
		return m, nil

	case taskDeletedMsg:
		if msg.err != nil {
			m.statusMsg = "Failed to delete task: " + msg.err.Error()
			return m, nil
		}
		m.container.Dispatch(state.DeleteTask{ID: msg.id})
		m.rebuildVisible()
		m.statusMsg = "Task deleted"
		return m, nil

	case commentAddedMsg:
		if msg.err != nil {
			m.statusMsg = "Failed to add comment: " + msg.err.Error()
			return m, nil
		}
		m.container.Dispatch(state.UpdateTask{Task: *msg.task})
		m.rebuildVisible()
		m.commentInput.SetValue("")
		m.currentScreen = screenList
		m.statusMsg = "Comment added"
		return m, nil
	}

	return m, nil
}

// --- Auth gate ---

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab":
		if m.authFocus == 0 {
			m.authFocus = 1
			m.emailInput.Blur()
			m.passwordInput.Focus()
		} else {
			m.authFocus = 0
			m.passwordInput.Blur()
			m.emailInput.Focus()
		}
		return m, nil

	case "ctrl+s":
		m.signUpMode = !m.signUpMode
		return m, nil

	case "enter":
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.statusMsg = "Email and password are required"
			return m, nil
		}
		m.statusMsg = "Signing in..."
		if m.signUpMode {
			m.statusMsg = "Signing up..."
			return m, m.signUp(email, password)
		}
		return m, m.signIn(email, password)
	}

	var cmd tea.Cmd
	if m.authFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

// --- Task list ---

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		m.expanded = !m.expanded
		return m, nil

	case "r":
		return m, m.fetchTasks()

	case "n":
		m.resetForm()
		m.currentScreen = screenForm
		return m, nil

	case "e":
		if t := m.selectedTask(); t != nil {
			m.startEdit(*t)
			m.currentScreen = screenForm
		}
		return m, nil

	case "d":
		if t := m.selectedTask(); t != nil {
			return m, m.deleteTask(t.ID)
		}
		return m, nil

	case "s":
		// Advance the selected task to the next status.
		if t := m.selectedTask(); t != nil {
			next := nextStatus(t.Status)
			return m, m.updateTask(t.ID, task.Patch{Status: &next})
		}
		return m, nil

	case "c":
		if m.selectedTask() != nil {
			m.commentInput.SetValue("")
			m.commentInput.Focus()
			m.currentScreen = screenComment
		}
		return m, nil

	case "f":
		m.filters.Status = cycleValue(m.filters.Status, task.UniqueValues(m.container.Snapshot().Tasks, "status"))
		m.rebuildVisible()
		return m, nil

	case "p":
		m.filters.Priority = cycleValue(m.filters.Priority, task.UniqueValues(m.container.Snapshot().Tasks, "priority"))
		m.rebuildVisible()
		return m, nil

	case "g":
		m.filters.Category = cycleValue(m.filters.Category, task.UniqueValues(m.container.Snapshot().Tasks, "category"))
		m.rebuildVisible()
		return m, nil

	case "o":
		m.filters.SortBy = cycleValue(m.filters.SortBy, sortOrder)
		m.rebuildVisible()
		return m, nil

	case "L":
		m.currentScreen = screenAuth
		m.authFocus = 0
		m.emailInput.Focus()
		m.passwordInput.Blur()
		m.passwordInput.SetValue("")
		return m, m.signOut()
	}

	return m, nil
}

func nextStatus(s task.Status) task.Status {
	for i, cur := range statusOrder {
		if cur == s {
			return statusOrder[(i+1)%len(statusOrder)]
		}
	}
	return task.StatusTodo
}

// cycleValue steps through values, wrapping at the end. Unknown current
// values restart at the first entry.
func cycleValue(current string, values []string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	if len(values) > 0 {
		return values[0]
	}
	return current
}

// --- Create/edit form ---

func (m *Model) startEdit(t task.Task) {
	m.resetForm()
	m.editingID = t.ID
	m.formInputs[fieldTitle].SetValue(t.Title)
	m.formInputs[fieldDescription].SetValue(t.Description)
	if t.DueDate != nil {
		m.formInputs[fieldDueDate].SetValue(t.DueDate.Format("2006-01-02"))
	}
	m.formInputs[fieldCategory].SetValue(t.Category)
	m.formInputs[fieldAssignedTo].SetValue(t.AssignedTo)
	if t.EstimatedTime != nil {
		m.formInputs[fieldEstimatedTime].SetValue(strconv.FormatFloat(*t.EstimatedTime, 'f', -1, 64))
	}
	m.formPriority = t.Priority
	m.formStatus = t.Status
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.currentScreen = screenList
		return m, nil

	case "tab", "down":
		m.formInputs[m.formFocus].Blur()
		m.formFocus = (m.formFocus + 1) % numFields
		m.formInputs[m.formFocus].Focus()
		return m, nil

	case "shift+tab", "up":
		m.formInputs[m.formFocus].Blur()
		m.formFocus = (m.formFocus - 1 + numFields) % numFields
		m.formInputs[m.formFocus].Focus()
		return m, nil

	case "ctrl+p":
		m.formPriority = nextPriority(m.formPriority)
		return m, nil

	case "ctrl+t":
		m.formStatus = nextStatus(m.formStatus)
		return m, nil

	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

var priorityOrder = []task.Priority{
	task.PriorityLow,
	task.PriorityMedium,
	task.PriorityHigh,
	task.PriorityUrgent,
}

func nextPriority(p task.Priority) task.Priority {
	for i, cur := range priorityOrder {
		if cur == p {
			return priorityOrder[(i+1)%len(priorityOrder)]
		}
	}
	return task.PriorityMedium
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formInputs[fieldTitle].Value())
	if title == "" {
		m.statusMsg = "Title is required"
		return m, nil
	}

	var due *time.Time
	if v := strings.TrimSpace(m.formInputs[fieldDueDate].Value()); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			m.statusMsg = "Due date must be yyyy-mm-dd"
			return m, nil
		}
		due = &parsed
	}

	var estimated *float64
	if v := strings.TrimSpace(m.formInputs[fieldEstimatedTime].Value()); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			m.statusMsg = "Estimated hours must be a non-negative number"
			return m, nil
		}
		estimated = &parsed
	}

	description := m.formInputs[fieldDescription].Value()
	category := strings.TrimSpace(m.formInputs[fieldCategory].Value())
	assignedTo := strings.TrimSpace(m.formInputs[fieldAssignedTo].Value())

	if m.editingID != "" {
		priority := m.formPriority
		status := m.formStatus
		patch := task.Patch{
			Title:         &title,
			Description:   &description,
			DueDate:       due,
			Priority:      &priority,
			Category:      &category,
			AssignedTo:    &assignedTo,
			EstimatedTime: estimated,
			Status:        &status,
		}
		return m, m.updateTask(m.editingID, patch)
	}

	return m, m.createTask(task.Task{
		Title:         title,
		Description:   description,
		DueDate:       due,
		Priority:      m.formPriority,
		Category:      category,
		AssignedTo:    assignedTo,
		EstimatedTime: estimated,
		Status:        m.formStatus,
	})
}

// --- Comment composition ---

func (m Model) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.currentScreen = screenList
		return m, nil

	case "enter":
		content := strings.TrimSpace(m.commentInput.Value())
		if content == "" {
			m.statusMsg = "Comment cannot be empty"
			return m, nil
		}
		t := m.selectedTask()
		if t == nil {
			m.currentScreen = screenList
			return m, nil
		}
		return m, m.addComment(t.ID, content)
	}

	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}
