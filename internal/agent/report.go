package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
)

// Reports are deterministic markdown renderings of live task data. They are
// what the LLM (or a human) reads; every number in them comes from the task
// list, never from the model.

// statusOrder ranks statuses by urgency for report grouping.
var statusOrder = []simpletask.Status{
	simpletask.StatusBlocked,
	simpletask.StatusTodo,
	simpletask.StatusInProgress,
	simpletask.StatusReview,
	simpletask.StatusCompleted,
}

func statusTitle(s simpletask.Status) string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func priorityTitle(p simpletask.Priority) string {
	s := string(p)
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Overview renders task counts by status and priority plus the first high
// priority tasks.
func Overview(tasks []simpletask.Task, project string) string {
	statusCounts := make(map[simpletask.Status]int)
	priorityCounts := make(map[simpletask.Priority]int)
	for _, t := range tasks {
		statusCounts[t.Status]++
		priorityCounts[t.Priority]++
	}

	var b strings.Builder
	b.WriteString("# Task Overview\n")
	fmt.Fprintf(&b, "**Total Tasks**: %d\n", len(tasks))
	if project == "" {
		project = "Default Project"
	}
	fmt.Fprintf(&b, "**Project**: %s\n\n", project)

	b.WriteString("## Status Distribution:\n")
	for _, s := range statusOrder {
		count := statusCounts[s]
		if count == 0 {
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %d (%.1f%%)\n", statusTitle(s), count, percent(count, len(tasks)))
	}

	b.WriteString("\n## Priority Distribution:\n")
	for _, p := range simpletask.Priorities() {
		count := priorityCounts[p]
		if count == 0 {
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %d (%.1f%%)\n", priorityTitle(p), count, percent(count, len(tasks)))
	}

	high := simpletask.FilterByPriority(tasks, simpletask.PriorityHigh)
	if len(high) > 5 {
		high = high[:5]
	}
	if len(high) > 0 {
		b.WriteString("\n## Recent High Priority Tasks:\n")
		for _, t := range high {
			fmt.Fprintf(&b, "- [%s] **%s**\n", statusTitle(t.Status), t.Title)
		}
	}
	return b.String()
}

// BlockedReport lists every blocked task with its assignment and
// dependencies.
func BlockedReport(tasks []simpletask.Task) string {
	blocked := simpletask.FilterByStatus(tasks, simpletask.StatusBlocked)
	if len(blocked) == 0 {
		return "No blocked tasks found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Blocked Tasks (%d found)\n\n", len(blocked))
	for i, t := range blocked {
		fmt.Fprintf(&b, "## %d. %s\n", i+1, t.Title)
		fmt.Fprintf(&b, "- **Priority**: %s\n", priorityTitle(t.Priority))
		fmt.Fprintf(&b, "- **Assigned to**: %s\n", orUnassigned(t.AssignedTo))
		fmt.Fprintf(&b, "- **Created**: %s\n", t.CreatedAt.Format("2006-01-02"))
		if len(t.DependsOn) > 0 {
			fmt.Fprintf(&b, "- **Depends on**: %d task(s)\n", len(t.DependsOn))
		}
		if desc := strings.TrimSpace(t.Description); desc != "" {
			if len(desc) > 200 {
				desc = desc[:200] + "..."
			}
			fmt.Fprintf(&b, "- **Description**: %s\n", desc)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HighPriorityReport groups high priority tasks by status, most urgent
// status first.
func HighPriorityReport(tasks []simpletask.Task) string {
	high := simpletask.FilterByPriority(tasks, simpletask.PriorityHigh)
	if len(high) == 0 {
		return "No high priority tasks found."
	}

	byStatus := make(map[simpletask.Status][]simpletask.Task)
	for _, t := range high {
		byStatus[t.Status] = append(byStatus[t.Status], t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# High Priority Tasks (%d found)\n\n", len(high))
	for _, status := range statusOrder {
		group := byStatus[status]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s (%d)\n\n", statusTitle(status), len(group))
		for _, t := range group {
			fmt.Fprintf(&b, "- **%s** (ID: %s, Assigned: %s)\n", t.Title, t.ID, orUnassigned(t.AssignedTo))
			if !t.CreatedAt.IsZero() {
				fmt.Fprintf(&b, "  Created: %s\n", t.CreatedAt.Format("2006-01-02"))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

type memberLoad struct {
	member     string
	total      int
	high       int
	blocked    int
	inProgress int
	completed  int
	todo       int
}

// WorkloadReport summarizes per-assignee load and flags members who look
// overloaded.
func WorkloadReport(tasks []simpletask.Task) string {
	if len(tasks) == 0 {
		return "No tasks found for workload analysis."
	}

	loads := make(map[string]*memberLoad)
	unassigned := 0
	for _, t := range tasks {
		if t.AssignedTo == "" {
			unassigned++
			continue
		}
		load := loads[t.AssignedTo]
		if load == nil {
			load = &memberLoad{member: t.AssignedTo}
			loads[t.AssignedTo] = load
		}
		load.total++
		if t.Priority == simpletask.PriorityHigh {
			load.high++
		}
		switch t.Status {
		case simpletask.StatusBlocked:
			load.blocked++
		case simpletask.StatusInProgress:
			load.inProgress++
		case simpletask.StatusCompleted:
			load.completed++
		case simpletask.StatusTodo:
			load.todo++
		}
	}

	sorted := make([]*memberLoad, 0, len(loads))
	for _, l := range loads {
		sorted = append(sorted, l)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].total != sorted[j].total {
			return sorted[i].total > sorted[j].total
		}
		return sorted[i].member < sorted[j].member
	})

	var b strings.Builder
	b.WriteString("# Team Workload Analysis\n")
	fmt.Fprintf(&b, "**Total Active Tasks**: %d\n", len(tasks))
	fmt.Fprintf(&b, "**Unassigned Tasks**: %d (%.1f%%)\n\n", unassigned, percent(unassigned, len(tasks)))
	b.WriteString("## Individual Workloads:\n\n")

	for _, load := range sorted {
		fmt.Fprintf(&b, "### %s\n", displayName(load.member))
		fmt.Fprintf(&b, "- **Email**: %s\n", load.member)
		fmt.Fprintf(&b, "- **Total Tasks**: %d\n", load.total)
		fmt.Fprintf(&b, "- **High Priority**: %d\n", load.high)
		fmt.Fprintf(&b, "- **Blocked**: %d\n", load.blocked)
		fmt.Fprintf(&b, "- **In Progress**: %d\n", load.inProgress)
		fmt.Fprintf(&b, "- **Completed**: %d\n", load.completed)
		fmt.Fprintf(&b, "- **Todo**: %d\n\n", load.todo)

		switch {
		case load.total > 10:
			b.WriteString("  **High workload**: consider redistributing tasks\n\n")
		case load.blocked > 2:
			b.WriteString("  **Multiple blockers**: needs support unblocking tasks\n\n")
		case load.high > 3:
			b.WriteString("  **Many high-priority tasks**: may need prioritization help\n\n")
		}
	}
	return b.String()
}

// SearchReport lists the tasks matching a search query.
func SearchReport(tasks []simpletask.Task, query string) string {
	matches := simpletask.SearchTasks(tasks, query)
	if len(matches) == 0 {
		return fmt.Sprintf("No tasks match %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Search Results for %q (%d found)\n\n", query, len(matches))
	for _, t := range matches {
		fmt.Fprintf(&b, "- [%s/%s] **%s** (ID: %s, Assigned: %s)\n",
			statusTitle(t.Status), priorityTitle(t.Priority), t.Title, t.ID, orUnassigned(t.AssignedTo))
	}
	return b.String()
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func orUnassigned(s string) string {
	if s == "" {
		return "Unassigned"
	}
	return s
}

// displayName extracts a readable name from an email-style identifier.
func displayName(member string) string {
	local, _, found := strings.Cut(member, "@")
	if !found || local == "" {
		return member
	}
	return strings.ToUpper(local[:1]) + local[1:]
}
