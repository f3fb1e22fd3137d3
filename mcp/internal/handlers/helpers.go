package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"
)

// jsonResult renders v as the tool's text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// finish logs the outcome of tool and turns a facade error into a tool
// error result.
func finish(tool string, start time.Time, v any, err error) (*mcp.CallToolResult, error) {
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("tool", tool).Dur("elapsed", elapsed).Msg("tool failed")
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err)), nil
	}
	log.Debug().Str("tool", tool).Dur("elapsed", elapsed).Msg("tool completed")
	return jsonResult(v)
}

// objectArg reads a JSON object argument. Hosts that cannot send nested
// objects may pass it as a JSON string instead.
func objectArg(req mcp.CallToolRequest, name string) (map[string]any, error) {
	switch v := req.GetArguments()[name].(type) {
	case map[string]any:
		return v, nil
	case string:
		var out map[string]any
		if err := json.Unmarshal([]byte(v), &out); err != nil || out == nil {
			return nil, fmt.Errorf("%s must be a JSON object", name)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%s is required", name)
	default:
		return nil, fmt.Errorf("%s must be a JSON object, got %T", name, v)
	}
}
