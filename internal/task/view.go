package task

import (
	"sort"
	"time"
)

// FilterAll is the sentinel meaning "do not filter on this field".
const FilterAll = "all"

// Sort keys accepted by Filters.SortBy. Any other value leaves the
// collection in its input order.
const (
	SortByDueDate  = "dueDate"
	SortByPriority = "priority"
	SortByStatus   = "status"
)

// Filters selects and orders a task collection for display.
// Each selection field is either a concrete value or FilterAll.
type Filters struct {
	Status   string
	Priority string
	Category string
	SortBy   string
}

// DefaultFilters returns the view configuration used when nothing
// has been selected yet.
func DefaultFilters() Filters {
	return Filters{
		Status:   FilterAll,
		Priority: FilterAll,
		Category: FilterAll,
		SortBy:   SortByDueDate,
	}
}

// priorityRank orders priorities most-urgent first. Values missing from
// the map rank as 0, grouping unknown priorities with urgent.
var priorityRank = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// Apply returns the tasks that match the filters, ordered by SortBy.
// The input slice is never mutated; applying the same filters twice
// yields the same result.
func (f Filters) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.matches(t) {
			out = append(out, t)
		}
	}

	switch f.SortBy {
	case SortByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			return dueOrEpoch(out[i]).Before(dueOrEpoch(out[j]))
		})
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
		})
	case SortByStatus:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Status < out[j].Status
		})
	}
	return out
}

func (f Filters) matches(t Task) bool {
	if f.Status != FilterAll && string(t.Status) != f.Status {
		return false
	}
	if f.Priority != FilterAll && string(t.Priority) != f.Priority {
		return false
	}
	if f.Category != FilterAll && t.Category != f.Category {
		return false
	}
	return true
}

// dueOrEpoch treats an absent due date as the earliest possible date,
// so undated tasks sort ahead of dated ones.
func dueOrEpoch(t Task) time.Time {
	if t.DueDate == nil {
		return time.Unix(0, 0).UTC()
	}
	return *t.DueDate
}

// UniqueValues collects the distinct non-empty values of a field across
// the collection, in order of first appearance, prefixed with FilterAll.
// Recognized fields: "status", "priority", "category", "assignedTo".
// A nil collection or an unrecognized field yields just [FilterAll].
func UniqueValues(tasks []Task, field string) []string {
	values := []string{FilterAll}
	seen := make(map[string]bool)
	for _, t := range tasks {
		var v string
		switch field {
		case "status":
			v = string(t.Status)
		case "priority":
			v = string(t.Priority)
		case "category":
			v = t.Category
		case "assignedTo":
			v = t.AssignedTo
		default:
			return values
		}
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
