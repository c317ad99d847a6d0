package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode converts the raw argument map of a chat tool call into its
// typed request struct (ImportRequest, ListRequest, and so on). Round-
// tripping through JSON keeps field handling consistent with the tool
// schemas and avoids per-field type assertions on the map.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var request T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return request, fmt.Errorf("encode tool arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &request); err != nil {
		return request, fmt.Errorf("decode tool arguments: %w", err)
	}
	return request, nil
}
