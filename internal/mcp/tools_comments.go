package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskbridge/internal/paginate"
	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
)

type getCommentsInput struct {
	TaskID      string `json:"task_id" jsonschema:"Task ID"`
	ProjectName string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum comments per page (default 25, max 100)"`
	Offset      int    `json:"offset,omitempty" jsonschema:"Number of comments to skip"`
}

type addCommentInput struct {
	TaskID      string `json:"task_id" jsonschema:"Task ID"`
	Content     string `json:"content" jsonschema:"Comment text"`
	ParentID    string `json:"parent_id,omitempty" jsonschema:"ID of the comment being replied to"`
	ProjectName string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

type updateCommentInput struct {
	CommentID   string `json:"comment_id" jsonschema:"Comment ID"`
	Content     string `json:"content" jsonschema:"Replacement comment text"`
	ProjectName string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

type deleteCommentInput struct {
	CommentID   string `json:"comment_id" jsonschema:"Comment ID"`
	ProjectName string `json:"project_name,omitempty" jsonschema:"Project name or key; omit to use the active project"`
}

type deleteCommentOutput struct {
	Deleted   bool   `json:"deleted"`
	CommentID string `json:"comment_id"`
}

func (s *Server) registerCommentTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_get_task_comments",
		Description: "List the comments on a task, paginated",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getCommentsInput) (res *mcp.CallToolResult, out paginate.Result[simpletask.Comment], err error) {
		ctx, finish := s.begin(ctx, "simpletask_get_task_comments")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, out, err
		}
		comments, err := s.client.ListComments(ctx, def, args.TaskID)
		if err != nil {
			return nil, out, err
		}
		out = paginate.Page(comments, args.Limit, args.Offset)
		res, err = jsonResult(out)
		return res, out, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_add_comment",
		Description: "Add a comment to a task, optionally as a threaded reply",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args addCommentInput) (res *mcp.CallToolResult, out *simpletask.Comment, err error) {
		ctx, finish := s.begin(ctx, "simpletask_add_comment")
		defer func() { finish(err) }()

		if args.Content == "" {
			return nil, nil, fmt.Errorf("content is required")
		}
		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		comment, err := s.client.AddComment(ctx, def, args.TaskID, args.Content, args.ParentID)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info(ctx, "added comment",
			zap.String("task_id", args.TaskID), zap.String("comment_id", comment.ID))
		res, err = jsonResult(comment)
		return res, comment, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_update_comment",
		Description: "Replace the text of a comment",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateCommentInput) (res *mcp.CallToolResult, out *simpletask.Comment, err error) {
		ctx, finish := s.begin(ctx, "simpletask_update_comment")
		defer func() { finish(err) }()

		if args.Content == "" {
			return nil, nil, fmt.Errorf("content is required")
		}
		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, nil, err
		}
		comment, err := s.client.UpdateComment(ctx, def, args.CommentID, args.Content)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info(ctx, "updated comment", zap.String("comment_id", args.CommentID))
		res, err = jsonResult(comment)
		return res, comment, err
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "simpletask_delete_comment",
		Description: "Delete a comment by ID",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args deleteCommentInput) (res *mcp.CallToolResult, out deleteCommentOutput, err error) {
		ctx, finish := s.begin(ctx, "simpletask_delete_comment")
		defer func() { finish(err) }()

		def, ctx, err := s.resolve(ctx, args.ProjectName)
		if err != nil {
			return nil, out, err
		}
		if err = s.client.DeleteComment(ctx, def, args.CommentID); err != nil {
			return nil, out, err
		}
		s.logger.Info(ctx, "deleted comment", zap.String("comment_id", args.CommentID))
		out = deleteCommentOutput{Deleted: true, CommentID: args.CommentID}
		res, err = jsonResult(out)
		return res, out, err
	})
}
