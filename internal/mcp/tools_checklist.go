package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskbridge/internal/checklist"
	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
)

type getChecklistInput struct {
	TaskID      string `json:"task_id" jsonschema:"Task ID"`
	ProjectName string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

type addChecklistItemInput struct {
	TaskID      string `json:"task_id" jsonschema:"Task ID"`
	Text        string `json:"text" jsonschema:"Checklist item text"`
	Order       *int   `json:"order,omitempty" jsonschema:"Position key for the new item; omit to place it after the last item"`
	Completed   bool   `json:"completed,omitempty" jsonschema:"Mark the new item completed on creation"`
	ProjectName string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

type checklistOutput struct {
	TaskID    string                     `json:"task_id"`
	Items     []simpletask.ChecklistItem `json:"items"`
	Total     int                        `json:"total"`
	Completed int                        `json:"completed"`
	Remaining int                        `json:"remaining"`
}

type processChecklistOutput struct {
	TaskID        string                    `json:"task_id"`
	CompletedItem *simpletask.ChecklistItem `json:"completed_item,omitempty"`
	Remaining     int                       `json:"remaining"`
	Done          bool                      `json:"checklist_complete"`
	Message       string                    `json:"message"`
}

// newChecklistItem builds the item to append. An explicit order wins;
// otherwise the item sorts after every existing one.
func newChecklistItem(existing []simpletask.ChecklistItem, args addChecklistItemInput) simpletask.ChecklistItem {
	item := simpletask.ChecklistItem{
		ID:        uuid.NewString(),
		Text:      args.Text,
		Order:     checklist.NextOrder(existing),
		Completed: args.Completed,
	}
	if args.Order != nil {
		item.Order = *args.Order
	}
	return item
}

func checklistView(taskID string, items []simpletask.ChecklistItem) checklistOutput {
	sorted := checklist.Sorted(items)
	out := checklistOutput{TaskID: taskID, Items: sorted, Total: len(sorted)}
	for _, it := range sorted {
		if it.Completed {
			out.Completed++
		}
	}
	out.Remaining = out.Total - out.Completed
	return out
}

func (s *Server) registerChecklistTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_get_checklist",
		Description: "Show a task's checklist in step order with progress counts",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getChecklistInput) (res *mcp.CallToolResult, out checklistOutput, err error) {
		ctx, finish := s.begin(ctx, "simpletask_get_checklist")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, out, err
		}
		task, err := s.client.GetTask(ctx, def, args.TaskID)
		if err != nil {
			return nil, out, err
		}
		out = checklistView(task.ID, task.Checklist)
		res, err = jsonResult(out)
		return res, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_add_checklist_item",
		Description: "Add a step to a task's checklist; placed after the last step unless an explicit order is given",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args addChecklistItemInput) (res *mcp.CallToolResult, out checklistOutput, err error) {
		ctx, finish := s.begin(ctx, "simpletask_add_checklist_item")
		defer func() { finish(err) }()

		if args.Text == "" {
			return nil, out, fmt.Errorf("text is required")
		}
		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, out, err
		}
		task, err := s.client.GetTask(ctx, def, args.TaskID)
		if err != nil {
			return nil, out, err
		}

		items := append(task.Checklist, newChecklistItem(task.Checklist, args))
		updated, err := s.client.UpdateTask(ctx, def, args.TaskID, simpletask.UpdateTaskRequest{Checklist: &items})
		if err != nil {
			return nil, out, err
		}
		s.logger.Info(ctx, "added checklist item",
			zap.String("task_id", args.TaskID), zap.Int("items", len(updated.Checklist)))
		out = checklistView(updated.ID, updated.Checklist)
		res, err = jsonResult(out)
		return res, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_process_checklist",
		Description: "Complete the next incomplete checklist step; call repeatedly to work through a checklist",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getChecklistInput) (res *mcp.CallToolResult, out processChecklistOutput, err error) {
		ctx, finish := s.begin(ctx, "simpletask_process_checklist")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, out, err
		}
		task, err := s.client.GetTask(ctx, def, args.TaskID)
		if err != nil {
			return nil, out, err
		}

		items, completed, changed := checklist.Advance(task.Checklist)
		if !changed {
			out = processChecklistOutput{
				TaskID:  task.ID,
				Done:    true,
				Message: "checklist is already complete",
			}
			res, err = jsonResult(out)
			return res, out, err
		}

		// Persist before reporting success; a failed write means no progress.
		updated, err := s.client.UpdateTask(ctx, def, args.TaskID, simpletask.UpdateTaskRequest{Checklist: &items})
		if err != nil {
			return nil, out, err
		}

		remaining := 0
		for _, it := range updated.Checklist {
			if !it.Completed {
				remaining++
			}
		}
		out = processChecklistOutput{
			TaskID:        updated.ID,
			CompletedItem: completed,
			Remaining:     remaining,
			Done:          remaining == 0,
			Message:       fmt.Sprintf("completed checklist item %q; %d remaining", completed.Text, remaining),
		}
		s.logger.Info(ctx, "advanced checklist",
			zap.String("task_id", args.TaskID),
			zap.String("item_id", completed.ID),
			zap.Int("remaining", remaining))
		res, err = jsonResult(out)
		return res, out, err
	})
}
