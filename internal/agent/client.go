// Package agent implements the task analysis agent. It talks to the bridge
// over MCP stdio like any other client would, renders deterministic reports
// from the tool output, and optionally asks an LLM to interpret them.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskbridge/internal/paginate"
	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
)

// Client is an MCP client session against a spawned bridge process.
type Client struct {
	session *mcp.ClientSession
	logger  *zap.Logger
}

// Connect spawns the bridge command and performs the MCP handshake over its
// stdio. The child's stderr is passed through so bridge logs stay visible.
func Connect(ctx context.Context, command string, args []string, logger *zap.Logger) (*Client, error) {
	if command == "" {
		return nil, fmt.Errorf("bridge command is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = os.Stderr

	client := mcp.NewClient(&mcp.Implementation{Name: "taskagent", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to bridge: %w", err)
	}

	logger.Debug("connected to bridge", zap.String("command", command))
	return &Client{session: session, logger: logger}, nil
}

// Close terminates the session and the spawned bridge.
func (c *Client) Close() error {
	return c.session.Close()
}

// CallJSON invokes a tool and decodes its first text content block as JSON
// into out. A tool-level failure surfaces as an error carrying the tool's
// message.
func (c *Client) CallJSON(ctx context.Context, tool string, args map[string]any, out any) error {
	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return fmt.Errorf("call %s: %w", tool, err)
	}
	text := firstText(res)
	if res.IsError {
		return fmt.Errorf("tool %s failed: %s", tool, text)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode %s result: %w", tool, err)
	}
	return nil
}

func firstText(res *mcp.CallToolResult) string {
	for _, content := range res.Content {
		if t, ok := content.(*mcp.TextContent); ok {
			return t.Text
		}
	}
	return ""
}

// Project is one entry of the bridge's project listing.
type Project struct {
	Name        string `json:"name"`
	Key         string `json:"project_name"`
	ProjectID   string `json:"project_id"`
	Description string `json:"description,omitempty"`
}

// ListProjects returns the bridge's configured projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := c.CallJSON(ctx, "simpletask_list_projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// SwitchProject selects the active project for the session.
func (c *Client) SwitchProject(ctx context.Context, name string) error {
	return c.CallJSON(ctx, "simpletask_switch_project", map[string]any{"project_identifier": name}, nil)
}

// AllTasks drains the paginated task listing into one full-detail slice.
func (c *Client) AllTasks(ctx context.Context, project string) ([]simpletask.Task, error) {
	var all []simpletask.Task
	offset := 0
	for {
		args := map[string]any{
			"limit":             paginate.MaxLimit,
			"offset":            offset,
			"include_full_data": true,
		}
		if project != "" {
			args["project_name"] = project
		}
		var page paginate.Result[simpletask.Task]
		if err := c.CallJSON(ctx, "simpletask_get_tasks", args, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if !page.HasMore {
			return all, nil
		}
		offset = page.NextOffset
	}
}
