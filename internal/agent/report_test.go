package agent

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
)

func sampleTasks() []simpletask.Task {
	created := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return []simpletask.Task{
		{ID: "t1", Title: "Fix login bug", Status: simpletask.StatusBlocked, Priority: simpletask.PriorityHigh,
			AssignedTo: "alex@example.com", DependsOn: []string{"t4"}, CreatedAt: created,
			Description: "Users cannot sign in with SSO"},
		{ID: "t2", Title: "Write release notes", Status: simpletask.StatusTodo, Priority: simpletask.PriorityLow,
			AssignedTo: "alex@example.com", CreatedAt: created},
		{ID: "t3", Title: "Refactor billing", Status: simpletask.StatusInProgress, Priority: simpletask.PriorityHigh,
			AssignedTo: "sam@example.com", CreatedAt: created},
		{ID: "t4", Title: "Upgrade database", Status: simpletask.StatusCompleted, Priority: simpletask.PriorityMedium,
			CreatedAt: created},
	}
}

func TestOverview(t *testing.T) {
	out := Overview(sampleTasks(), "payments")

	assert.Contains(t, out, "**Total Tasks**: 4")
	assert.Contains(t, out, "**Project**: payments")
	assert.Contains(t, out, "- **Blocked**: 1 (25.0%)")
	assert.Contains(t, out, "- **High**: 2 (50.0%)")
	assert.Contains(t, out, "- [Blocked] **Fix login bug**")

	t.Run("default project label", func(t *testing.T) {
		assert.Contains(t, Overview(nil, ""), "**Project**: Default Project")
	})
}

func TestBlockedReport(t *testing.T) {
	out := BlockedReport(sampleTasks())

	assert.Contains(t, out, "# Blocked Tasks (1 found)")
	assert.Contains(t, out, "## 1. Fix login bug")
	assert.Contains(t, out, "- **Priority**: High")
	assert.Contains(t, out, "- **Assigned to**: alex@example.com")
	assert.Contains(t, out, "- **Created**: 2026-03-10")
	assert.Contains(t, out, "- **Depends on**: 1 task(s)")
	assert.Contains(t, out, "Users cannot sign in with SSO")

	t.Run("none blocked", func(t *testing.T) {
		assert.Equal(t, "No blocked tasks found.", BlockedReport(nil))
	})

	t.Run("long descriptions truncated", func(t *testing.T) {
		long := make([]byte, 300)
		for i := range long {
			long[i] = 'x'
		}
		tasks := []simpletask.Task{{Title: "T", Status: simpletask.StatusBlocked, Description: string(long)}}
		out := BlockedReport(tasks)
		assert.Contains(t, out, "xxx...")
		assert.NotContains(t, out, string(long))
	})
}

func TestHighPriorityReport(t *testing.T) {
	out := HighPriorityReport(sampleTasks())

	assert.Contains(t, out, "# High Priority Tasks (2 found)")
	// blocked group renders before in_progress
	assert.Less(t,
		strings.Index(out, "## Blocked (1)"),
		strings.Index(out, "## In Progress (1)"))
	assert.Contains(t, out, "- **Fix login bug** (ID: t1, Assigned: alex@example.com)")

	t.Run("none high", func(t *testing.T) {
		assert.Equal(t, "No high priority tasks found.", HighPriorityReport(nil))
	})
}

func TestWorkloadReport(t *testing.T) {
	out := WorkloadReport(sampleTasks())

	assert.Contains(t, out, "**Total Active Tasks**: 4")
	assert.Contains(t, out, "**Unassigned Tasks**: 1 (25.0%)")
	assert.Contains(t, out, "### Alex")
	assert.Contains(t, out, "- **Email**: alex@example.com")
	// alex has 2 tasks, sam 1; alex renders first
	assert.Less(t, strings.Index(out, "### Alex"), strings.Index(out, "### Sam"))

	t.Run("overload flags", func(t *testing.T) {
		var tasks []simpletask.Task
		for i := 0; i < 11; i++ {
			tasks = append(tasks, simpletask.Task{
				ID: "t", Title: "T", AssignedTo: "busy@example.com",
				Status: simpletask.StatusTodo, Priority: simpletask.PriorityLow,
			})
		}
		assert.Contains(t, WorkloadReport(tasks), "**High workload**")
	})

	t.Run("blocker flag", func(t *testing.T) {
		var tasks []simpletask.Task
		for i := 0; i < 3; i++ {
			tasks = append(tasks, simpletask.Task{
				AssignedTo: "stuck@example.com", Status: simpletask.StatusBlocked,
			})
		}
		assert.Contains(t, WorkloadReport(tasks), "**Multiple blockers**")
	})

	t.Run("no tasks", func(t *testing.T) {
		assert.Equal(t, "No tasks found for workload analysis.", WorkloadReport(nil))
	})
}

func TestSearchReport(t *testing.T) {
	out := SearchReport(sampleTasks(), "billing")
	assert.Contains(t, out, `# Search Results for "billing" (1 found)`)
	assert.Contains(t, out, "**Refactor billing**")

	assert.Contains(t, SearchReport(nil, "billing"), "No tasks match")
}

func TestParseReportKind(t *testing.T) {
	for _, valid := range []string{"health", "standup", "optimization", "risk"} {
		kind, err := ParseReportKind(valid)
		assert.NoError(t, err)
		assert.NotEmpty(t, AnalysisPrompt(kind))
	}

	_, err := ParseReportKind("vibes")
	assert.ErrorContains(t, err, "invalid report")
}
