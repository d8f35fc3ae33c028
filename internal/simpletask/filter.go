package simpletask

import (
	"sort"
	"strings"
)

// Filtering always happens on the full task list before pagination; slicing
// first would corrupt total_count and produce inconsistent pages.

// FilterByStatus returns the tasks with the given status, preserving order.
func FilterByStatus(tasks []Task, status Status) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// FilterByPriority returns the tasks with the given priority, preserving order.
func FilterByPriority(tasks []Task, priority Priority) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Priority == priority {
			out = append(out, t)
		}
	}
	return out
}

// SearchTasks returns tasks whose title or description contains the query,
// case-insensitively.
func SearchTasks(tasks []Task, query string) []Task {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return tasks
	}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}

// SortByOrder returns the tasks sorted ascending by sort order key. The sort
// is stable; ties keep their original relative position.
func SortByOrder(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}
