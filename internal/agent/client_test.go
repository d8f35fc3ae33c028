package agent

import (
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
)

func TestFirstText(t *testing.T) {
	res := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: `{"items": []}`},
			&mcp.TextContent{Text: "ignored"},
		},
	}
	assert.Equal(t, `{"items": []}`, firstText(res))

	assert.Empty(t, firstText(&mcp.CallToolResult{}))
}
