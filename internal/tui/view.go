package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tejashree-V/IBM-PROJECT/internal/task"
)

// --- Color palette ---
var (
	clrSubtle    = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#666666"}
	clrHighlight = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	clrGreen     = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	clrYellow    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	clrRed       = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	clrBlue      = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	clrDim       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}
)

// --- Styles ---
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	dimStyle    = lipgloss.NewStyle().Foreground(clrDim)
	subtleStyle = lipgloss.NewStyle().Foreground(clrSubtle)
	errorStyle  = lipgloss.NewStyle().Foreground(clrRed)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrSubtle).
			Padding(0, 1).
			Width(66)

	cardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(clrHighlight).
				Padding(0, 1).
				Width(66).
				Bold(true)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrHighlight).
			Padding(1, 2)
)

var priorityStyles = map[task.Priority]lipgloss.Style{
	task.PriorityLow:    lipgloss.NewStyle().Foreground(clrGreen),
	task.PriorityMedium: lipgloss.NewStyle().Foreground(clrBlue),
	task.PriorityHigh:   lipgloss.NewStyle().Foreground(clrYellow),
	task.PriorityUrgent: lipgloss.NewStyle().Foreground(clrRed).Bold(true),
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.currentScreen {
	case screenAuth:
		return m.viewAuth()
	case screenForm:
		return m.viewForm()
	case screenComment:
		return m.viewComment()
	default:
		return m.viewList()
	}
}

func (m Model) viewAuth() string {
	var b strings.Builder

	mode := "Sign In"
	if m.signUpMode {
		mode = "Sign Up"
	}
	b.WriteString(titleStyle.Render("Task Manager — "+mode) + "\n\n")
	b.WriteString("  " + m.emailInput.View() + "\n")
	b.WriteString("  " + m.passwordInput.View() + "\n\n")
	b.WriteString(dimStyle.Render("  enter submit · tab switch field · ctrl+s toggle sign-in/sign-up · esc quit") + "\n")

	if m.statusMsg != "" {
		b.WriteString("\n" + errorStyle.Render("  "+m.statusMsg) + "\n")
	}
	return formStyle.Render(b.String())
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Your Tasks"))
	if s := m.identity.GetSession(); s != nil {
		b.WriteString(dimStyle.Render("  signed in as " + s.User.Email))
	}
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf(
		"status:%s  priority:%s  category:%s  sort:%s  (%d shown)",
		m.filters.Status, m.filters.Priority, m.filters.Category, m.filters.SortBy, len(m.visible),
	)) + "\n\n")

	if len(m.visible) == 0 {
		b.WriteString(dimStyle.Render("No tasks match. Press n to create one.") + "\n")
	}

	for i, t := range m.visible {
		style := cardStyle
		if i == m.cursor {
			style = cardSelectedStyle
		}
		b.WriteString(style.Render(m.renderTask(t, i == m.cursor && m.expanded)) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render(
		"n new · e edit · d delete · s advance status · c comment · enter details\n"+
			"f/p/g filter status/priority/category · o sort · r refresh · L logout · q quit"))

	if m.statusMsg != "" {
		b.WriteString("\n" + subtleStyle.Render(m.statusMsg))
	}
	return b.String()
}

func (m Model) renderTask(t task.Task, expanded bool) string {
	var b strings.Builder

	pStyle, ok := priorityStyles[t.Priority]
	if !ok {
		pStyle = dimStyle
	}
	b.WriteString(t.Title + "  " + pStyle.Render(strings.ToUpper(string(t.Priority))) + "\n")
	b.WriteString(progressBar(task.Progress(t)) + " " + string(t.Status) + "\n")

	due := "no due date"
	if t.DueDate != nil {
		due = "due " + t.DueDate.Format("2006-01-02")
	}
	meta := due
	if t.Category != "" {
		meta += " · " + t.Category
	}
	if t.AssignedTo != "" {
		meta += " · " + t.AssignedTo
	}
	if t.EstimatedTime != nil {
		meta += fmt.Sprintf(" · %gh", *t.EstimatedTime)
	}
	if len(t.Comments) > 0 {
		meta += fmt.Sprintf(" · %d comment(s)", len(t.Comments))
	}
	b.WriteString(subtleStyle.Render(meta))

	if expanded {
		if t.Description != "" {
			b.WriteString("\n" + t.Description)
		}
		for _, c := range t.Comments {
			line := fmt.Sprintf("▎ %s — %s, %s", c.Content, c.Author, c.CreatedAt.Format("2006-01-02 15:04"))
			b.WriteString("\n" + subtleStyle.Render(line))
		}
	}
	return b.String()
}

// progressBar renders the linear status progress metric.
func progressBar(pct int) string {
	const width = 20
	filled := pct * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %3d%%", bar, pct)
}

func (m Model) viewForm() string {
	var b strings.Builder

	heading := "New Task"
	if m.editingID != "" {
		heading = "Edit Task"
	}
	b.WriteString(titleStyle.Render(heading) + "\n\n")

	labels := [numFields]string{"Title", "Description", "Due date", "Category", "Assigned to", "Est. hours"}
	for i, input := range m.formInputs {
		marker := "  "
		if i == m.formFocus {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-12s %s\n", marker, labels[i], input.View()))
	}

	pStyle, ok := priorityStyles[m.formPriority]
	if !ok {
		pStyle = dimStyle
	}
	b.WriteString(fmt.Sprintf("\n  %-12s %s", "Priority", pStyle.Render(string(m.formPriority))))
	b.WriteString(fmt.Sprintf("\n  %-12s %s\n", "Status", string(m.formStatus)))

	b.WriteString("\n" + dimStyle.Render("  enter save · tab next field · ctrl+p priority · ctrl+t status · esc cancel") + "\n")
	if m.statusMsg != "" {
		b.WriteString("\n" + errorStyle.Render("  "+m.statusMsg) + "\n")
	}
	return formStyle.Render(b.String())
}

func (m Model) viewComment() string {
	var b strings.Builder

	t := m.selectedTask()
	if t != nil {
		b.WriteString(titleStyle.Render("Comment on: "+t.Title) + "\n\n")
		for _, c := range t.Comments {
			b.WriteString(subtleStyle.Render("▎ "+c.Content+" — "+c.Author) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("  " + m.commentInput.View() + "\n\n")
	b.WriteString(dimStyle.Render("  enter add comment · esc cancel") + "\n")
	if m.statusMsg != "" {
		b.WriteString("\n" + errorStyle.Render("  "+m.statusMsg) + "\n")
	}
	return formStyle.Render(b.String())
}
