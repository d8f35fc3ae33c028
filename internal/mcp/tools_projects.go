package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskbridge/internal/registry"
)

// projectView is the safe projection of a registry entry. API keys never
// cross the tool boundary.
type projectView struct {
	Name        string `json:"name"`
	Key         string `json:"project_name"`
	ProjectID   string `json:"project_id"`
	Description string `json:"description,omitempty"`
}

func viewOf(def registry.Definition) projectView {
	return projectView{
		Name:        def.Name,
		Key:         def.Key,
		ProjectID:   def.ProjectID,
		Description: def.Description,
	}
}

type listProjectsInput struct{}

type listProjectsOutput struct {
	Projects []projectView `json:"projects"`
	Count    int           `json:"count"`
}

type projectInfoInput struct {
	ProjectName string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

type projectInfoOutput struct {
	projectView
	Source string `json:"source"`
}

type switchProjectInput struct {
	ProjectIdentifier string `json:"project_identifier" jsonschema:"Name or key of the project to switch to"`
}

func (s *Server) registerProjectTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_list_projects",
		Description: "List all configured SimpleTask projects",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listProjectsInput) (res *mcp.CallToolResult, out listProjectsOutput, err error) {
		ctx, finish := s.begin(ctx, "simpletask_list_projects")
		defer func() { finish(err) }()

		defs := s.registry.All()
		out.Projects = make([]projectView, 0, len(defs))
		for _, def := range defs {
			out.Projects = append(out.Projects, viewOf(def))
		}
		out.Count = len(out.Projects)
		res, err = jsonResult(out)
		return res, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_get_project_info",
		Description: "Show details of the active (or a named) SimpleTask project",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args projectInfoInput) (res *mcp.CallToolResult, out projectInfoOutput, err error) {
		ctx, finish := s.begin(ctx, "simpletask_get_project_info")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, out, err
		}
		out = projectInfoOutput{
			projectView: viewOf(def),
			Source:      s.resolver.ResolutionSource(args.ProjectName),
		}
		res, err = jsonResult(out)
		return res, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_switch_project",
		Description: "Select the project that subsequent tool calls operate on",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args switchProjectInput) (res *mcp.CallToolResult, out projectView, err error) {
		ctx, finish := s.begin(ctx, "simpletask_switch_project")
		defer func() { finish(err) }()

		def, err := s.resolver.SwitchProject(args.ProjectIdentifier)
		if err != nil {
			return nil, out, err
		}
		s.logger.Info(ctx, "switched active project", zap.String("project", def.Key))
		out = viewOf(def)
		res, err = jsonResult(out)
		return res, out, err
	})
}
