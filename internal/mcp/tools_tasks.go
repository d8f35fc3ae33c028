package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskbridge/internal/paginate"
	"github.com/fyrsmithlabs/taskbridge/internal/registry"
	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
)

type getTasksInput struct {
	ProjectName     string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
	Limit           int    `json:"limit,omitempty" jsonschema:"Maximum tasks per page (default 25, max 100)"`
	Offset          int    `json:"offset,omitempty" jsonschema:"Number of tasks to skip"`
	IncludeFullData bool   `json:"include_full_data,omitempty" jsonschema:"Return full task objects instead of summaries"`
}

type tasksByStatusInput struct {
	Status          string `json:"status" jsonschema:"Task status: todo, in_progress, review, completed, or blocked"`
	ProjectName     string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
	Limit           int    `json:"limit,omitempty" jsonschema:"Maximum tasks per page (default 25, max 100)"`
	Offset          int    `json:"offset,omitempty" jsonschema:"Number of tasks to skip"`
	IncludeFullData bool   `json:"include_full_data,omitempty" jsonschema:"Return full task objects instead of summaries"`
}

type tasksByPriorityInput struct {
	Priority        string `json:"priority" jsonschema:"Task priority: low, medium, or high"`
	ProjectName     string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
	Limit           int    `json:"limit,omitempty" jsonschema:"Maximum tasks per page (default 25, max 100)"`
	Offset          int    `json:"offset,omitempty" jsonschema:"Number of tasks to skip"`
	IncludeFullData bool   `json:"include_full_data,omitempty" jsonschema:"Return full task objects instead of summaries"`
}

type searchTasksInput struct {
	Query           string `json:"query" jsonschema:"Text to match against task titles and descriptions, case-insensitively"`
	ProjectName     string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
	Limit           int    `json:"limit,omitempty" jsonschema:"Maximum tasks per page (default 25, max 100)"`
	Offset          int    `json:"offset,omitempty" jsonschema:"Number of tasks to skip"`
	IncludeFullData bool   `json:"include_full_data,omitempty" jsonschema:"Return full task objects instead of summaries"`
}

type taskIDInput struct {
	TaskID      string `json:"task_id" jsonschema:"Task ID"`
	ProjectName string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

type createTaskInput struct {
	Title       string   `json:"title" jsonschema:"Task title"`
	Description string   `json:"description,omitempty" jsonschema:"Task description"`
	Priority    string   `json:"priority,omitempty" jsonschema:"Task priority: low, medium, or high"`
	Status      string   `json:"status,omitempty" jsonschema:"Initial status: todo, in_progress, review, completed, or blocked"`
	DependsOn   []string `json:"depends_on,omitempty" jsonschema:"IDs of tasks this task depends on"`
	DueDate     string   `json:"due_date,omitempty" jsonschema:"Due date in RFC 3339 format"`
	AssignedTo  string   `json:"assigned_to,omitempty" jsonschema:"Assignee identifier"`
	ProjectName string   `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

type updateTaskInput struct {
	TaskID      string    `json:"task_id" jsonschema:"Task ID"`
	Title       *string   `json:"title,omitempty" jsonschema:"New task title"`
	Description *string   `json:"description,omitempty" jsonschema:"New task description"`
	Priority    *string   `json:"priority,omitempty" jsonschema:"New priority: low, medium, or high"`
	Status      *string   `json:"status,omitempty" jsonschema:"New status: todo, in_progress, review, completed, or blocked"`
	DependsOn   *[]string `json:"depends_on,omitempty" jsonschema:"Replacement dependency ID list"`
	DueDate     *string   `json:"due_date,omitempty" jsonschema:"New due date in RFC 3339 format, or empty string to clear"`
	AssignedTo  *string   `json:"assigned_to,omitempty" jsonschema:"New assignee identifier"`
	ProjectName string    `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

type updateStatusInput struct {
	TaskID      string `json:"task_id" jsonschema:"Task ID"`
	Status      string `json:"status" jsonschema:"New status: todo, in_progress, review, completed, or blocked"`
	ProjectName string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

// taskWithDependencies expands a task's dependency IDs into the referenced
// tasks. Dependencies that fail to load are reported, never fatal.
type taskWithDependencies struct {
	simpletask.Task
	Dependencies        []simpletask.Task `json:"dependencies"`
	SkippedDependencies []skippedDep      `json:"skipped_dependencies,omitempty"`
}

type skippedDep struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
}

type deleteTaskOutput struct {
	Deleted bool   `json:"deleted"`
	TaskID  string `json:"task_id"`
}

type summaryCounts struct {
	Total      int                         `json:"total"`
	ByStatus   map[simpletask.Status]int   `json:"by_status"`
	ByPriority map[simpletask.Priority]int `json:"by_priority"`
}

// fetchTasks pulls the tenant's full task list and imposes the sort-order
// key, since the upstream list endpoint does not guarantee ordering.
func (s *Server) fetchTasks(ctx context.Context, def registry.Definition) ([]simpletask.Task, error) {
	tasks, err := s.client.ListTasks(ctx, def)
	if err != nil {
		return nil, err
	}
	return simpletask.SortByOrder(tasks), nil
}

// pageResult pages the filtered list and renders either full tasks or
// summaries as a JSON text block.
func pageResult(tasks []simpletask.Task, limit, offset int, full bool) (*mcp.CallToolResult, any, error) {
	var out any
	if full {
		out = paginate.Page(tasks, limit, offset)
	} else {
		out = paginate.Page(simpletask.Summarize(tasks), limit, offset)
	}
	res, err := jsonResult(out)
	return res, out, err
}

// buildTaskUpdate validates the update arguments and maps them onto the
// partial-update request. An empty due_date string clears the date rather
// than leaving it untouched.
func buildTaskUpdate(args updateTaskInput) (simpletask.UpdateTaskRequest, error) {
	update := simpletask.UpdateTaskRequest{
		Title:       args.Title,
		Description: args.Description,
		DependsOn:   args.DependsOn,
		AssignedTo:  args.AssignedTo,
	}
	if args.Priority != nil {
		priority, err := simpletask.ParsePriority(*args.Priority)
		if err != nil {
			return update, err
		}
		update.Priority = &priority
	}
	if args.Status != nil {
		status, err := simpletask.ParseStatus(*args.Status)
		if err != nil {
			return update, err
		}
		update.Status = &status
	}
	if args.DueDate != nil {
		if *args.DueDate == "" {
			update.ClearDueDate = true
		} else {
			due, err := time.Parse(time.RFC3339, *args.DueDate)
			if err != nil {
				return update, fmt.Errorf("invalid due_date %q: %w", *args.DueDate, err)
			}
			update.DueDate = &due
		}
	}
	return update, nil
}

func (s *Server) registerTaskTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_get_tasks",
		Description: "List tasks in the project, paginated, as summaries by default",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getTasksInput) (res *mcp.CallToolResult, out any, err error) {
		ctx, finish := s.begin(ctx, "simpletask_get_tasks")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		tasks, err := s.fetchTasks(ctx, def)
		if err != nil {
			return nil, nil, err
		}
		return pageResult(tasks, args.Limit, args.Offset, args.IncludeFullData)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_get_tasks_summary",
		Description: "Count tasks in the project grouped by status and priority",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args projectInfoInput) (res *mcp.CallToolResult, out summaryCounts, err error) {
		ctx, finish := s.begin(ctx, "simpletask_get_tasks_summary")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, out, err
		}
		tasks, err := s.client.ListTasks(ctx, def)
		if err != nil {
			return nil, out, err
		}
		out = summaryCounts{
			Total:      len(tasks),
			ByStatus:   make(map[simpletask.Status]int),
			ByPriority: make(map[simpletask.Priority]int),
		}
		for _, t := range tasks {
			out.ByStatus[t.Status]++
			out.ByPriority[t.Priority]++
		}
		res, err = jsonResult(out)
		return res, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_get_tasks_by_status",
		Description: "List tasks with a given status, paginated",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args tasksByStatusInput) (res *mcp.CallToolResult, out any, err error) {
		ctx, finish := s.begin(ctx, "simpletask_get_tasks_by_status")
		defer func() { finish(err) }()

		status, err := simpletask.ParseStatus(args.Status)
		if err != nil {
			return nil, nil, err
		}
		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		tasks, err := s.fetchTasks(ctx, def)
		if err != nil {
			return nil, nil, err
		}
		return pageResult(simpletask.FilterByStatus(tasks, status), args.Limit, args.Offset, args.IncludeFullData)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_get_tasks_by_priority",
		Description: "List tasks with a given priority, paginated",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args tasksByPriorityInput) (res *mcp.CallToolResult, out any, err error) {
		ctx, finish := s.begin(ctx, "simpletask_get_tasks_by_priority")
		defer func() { finish(err) }()

		priority, err := simpletask.ParsePriority(args.Priority)
		if err != nil {
			return nil, nil, err
		}
		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		tasks, err := s.fetchTasks(ctx, def)
		if err != nil {
			return nil, nil, err
		}
		return pageResult(simpletask.FilterByPriority(tasks, priority), args.Limit, args.Offset, args.IncludeFullData)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_search_tasks",
		Description: "Search tasks by title and description text, paginated",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args searchTasksInput) (res *mcp.CallToolResult, out any, err error) {
		ctx, finish := s.begin(ctx, "simpletask_search_tasks")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		tasks, err := s.fetchTasks(ctx, def)
		if err != nil {
			return nil, nil, err
		}
		return pageResult(simpletask.SearchTasks(tasks, args.Query), args.Limit, args.Offset, args.IncludeFullData)
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_get_task",
		Description: "Fetch one task by ID with full details",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args taskIDInput) (res *mcp.CallToolResult, out *simpletask.Task, err error) {
		ctx, finish := s.begin(ctx, "simpletask_get_task")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		task, err := s.client.GetTask(ctx, def, args.TaskID)
		if err != nil {
			return nil, nil, err
		}
		res, err = jsonResult(task)
		return res, task, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_get_task_with_dependencies",
		Description: "Fetch one task and expand the tasks it depends on",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args taskIDInput) (res *mcp.CallToolResult, out *taskWithDependencies, err error) {
		ctx, finish := s.begin(ctx, "simpletask_get_task_with_dependencies")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		task, err := s.client.GetTask(ctx, def, args.TaskID)
		if err != nil {
			return nil, nil, err
		}

		out = &taskWithDependencies{
			Task:         *task,
			Dependencies: make([]simpletask.Task, 0, len(task.DependsOn)),
		}
		// Dependencies load one at a time. A missing or failing dependency is
		// recorded and skipped so one bad reference cannot sink the whole call.
		for _, depID := range task.DependsOn {
			dep, depErr := s.client.GetTask(ctx, def, depID)
			if depErr != nil {
				s.logger.Warn(ctx, "skipping unloadable dependency",
					zap.String("task_id", args.TaskID),
					zap.String("dependency_id", depID),
					zap.Error(depErr))
				out.SkippedDependencies = append(out.SkippedDependencies, skippedDep{
					TaskID: depID,
					Reason: depErr.Error(),
				})
				continue
			}
			out.Dependencies = append(out.Dependencies, *dep)
		}
		res, err = jsonResult(out)
		return res, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_create_task",
		Description: "Create a task in the project",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createTaskInput) (res *mcp.CallToolResult, out *simpletask.Task, err error) {
		ctx, finish := s.begin(ctx, "simpletask_create_task")
		defer func() { finish(err) }()

		if args.Title == "" {
			return nil, nil, fmt.Errorf("title is required")
		}
		create := simpletask.CreateTaskRequest{
			Title:       args.Title,
			Description: args.Description,
			DependsOn:   args.DependsOn,
			AssignedTo:  args.AssignedTo,
		}
		if args.Priority != "" {
			if create.Priority, err = simpletask.ParsePriority(args.Priority); err != nil {
				return nil, nil, err
			}
		}
		if args.Status != "" {
			if create.Status, err = simpletask.ParseStatus(args.Status); err != nil {
				return nil, nil, err
			}
		}
		if args.DueDate != "" {
			due, parseErr := time.Parse(time.RFC3339, args.DueDate)
			if parseErr != nil {
				return nil, nil, fmt.Errorf("invalid due_date %q: %w", args.DueDate, parseErr)
			}
			create.DueDate = &due
		}

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		task, err := s.client.CreateTask(ctx, def, create)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info(ctx, "created task", zap.String("task_id", task.ID))
		res, err = jsonResult(task)
		return res, task, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_update_task",
		Description: "Update fields of a task; omitted fields are unchanged",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateTaskInput) (res *mcp.CallToolResult, out *simpletask.Task, err error) {
		ctx, finish := s.begin(ctx, "simpletask_update_task")
		defer func() { finish(err) }()

		update, err := buildTaskUpdate(args)
		if err != nil {
			return nil, nil, err
		}

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		task, err := s.client.UpdateTask(ctx, def, args.TaskID, update)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info(ctx, "updated task", zap.String("task_id", task.ID))
		res, err = jsonResult(task)
		return res, task, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_update_task_status",
		Description: "Move a task to a new workflow status",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateStatusInput) (res *mcp.CallToolResult, out *simpletask.Task, err error) {
		ctx, finish := s.begin(ctx, "simpletask_update_task_status")
		defer func() { finish(err) }()

		status, err := simpletask.ParseStatus(args.Status)
		if err != nil {
			return nil, nil, err
		}
		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		task, err := s.client.UpdateTaskStatus(ctx, def, args.TaskID, status)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info(ctx, "updated task status",
			zap.String("task_id", task.ID), zap.String("status", string(status)))
		res, err = jsonResult(task)
		return res, task, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_delete_task",
		Description: "Delete a task by ID",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args taskIDInput) (res *mcp.CallToolResult, out deleteTaskOutput, err error) {
		ctx, finish := s.begin(ctx, "simpletask_delete_task")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, out, err
		}
		if err = s.client.DeleteTask(ctx, def, args.TaskID); err != nil {
			return nil, out, err
		}
		s.logger.Info(ctx, "deleted task", zap.String("task_id", args.TaskID))
		out = deleteTaskOutput{Deleted: true, TaskID: args.TaskID}
		res, err = jsonResult(out)
		return res, out, err
	})
}
