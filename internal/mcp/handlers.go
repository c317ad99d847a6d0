package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sjlee-dev/talkvault/internal/config"
	"github.com/sjlee-dev/talkvault/internal/errors"
	"github.com/sjlee-dev/talkvault/internal/ops"
	"github.com/sjlee-dev/talkvault/internal/transcript"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	baseDir string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, baseDir string) *Handlers {
	return &Handlers{db: db, cfg: cfg, baseDir: baseDir}
}

// Request types for each tool

// ImportRequest represents the arguments for chat_import.
type ImportRequest struct {
	Path   string `json:"path,omitempty"`
	Text   string `json:"text,omitempty"`
	Source string `json:"source,omitempty"`
}

// ListRequest represents the arguments for chat_list.
type ListRequest struct {
	Limit      int    `json:"limit,omitempty"`
	Before     string `json:"before,omitempty"`
	Descending bool   `json:"descending,omitempty"`
	All        bool   `json:"all,omitempty"`
}

// SearchRequest represents the arguments for chat_search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SendersRequest represents the arguments for chat_senders.
type SendersRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ExportRequest represents the arguments for chat_export.
type ExportRequest struct {
	Path          string `json:"path,omitempty"`
	Format        string `json:"format,omitempty"`
	IncludeHeader bool   `json:"include_header,omitempty"`
}

// CanonicalizeRequest represents the arguments for chat_canonicalize.
type CanonicalizeRequest struct {
	Mapping map[string]string `json:"mapping,omitempty"`
	Me      string            `json:"me,omitempty"`
	Other   string            `json:"other,omitempty"`
}

// Handler implementations

// HandleImport handles the chat_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.Path != "" && input.Text != "" {
		return errorResult(errors.NewInvalidRequest("pass either path or text, not both")), nil
	}

	opsInput := ops.ImportInput{Text: input.Text, Source: input.Source}
	if input.Path != "" {
		if err := ops.ValidatePath(input.Path, ops.PathCheckRead, h.cfg); err != nil {
			return errorResult(err), nil
		}
		data, err := os.ReadFile(input.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return errorResult(errors.NewNotFound(input.Path)), nil
			}
			return errorResult(errors.NewInternal(err)), nil
		}
		opsInput.Data = data
		opsInput.Text = ""
		if opsInput.Source == "" {
			opsInput.Source = filepath.Base(input.Path)
		}
	}

	result, err := ops.Import(h.db, opsInput)
	if err != nil {
		// A mid-batch storage fault still reports the counts persisted
		// before it.
		if result != nil {
			return errorResultWithPartial(err, result), nil
		}
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the chat_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Limit:      input.Limit,
		Before:     input.Before,
		Descending: input.Descending,
		All:        input.All,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the chat_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(h.db, h.cfg, ops.SearchInput{
		Query: input.Query,
		Limit: input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSenders handles the chat_senders tool call.
func (h *Handlers) HandleSenders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SendersRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Senders(h.db, ops.SendersInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the chat_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Stats(h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the chat_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	format := input.Format
	if format == "" {
		format = string(transcript.FormatKakao)
	}

	result, err := ops.Export(h.db, h.cfg, ops.ExportInput{
		Path:          input.Path,
		BaseDir:       h.baseDir,
		Format:        transcript.Format(format),
		IncludeHeader: input.IncludeHeader,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCanonicalize handles the chat_canonicalize tool call.
func (h *Handlers) HandleCanonicalize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CanonicalizeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Canonicalize(h.db, h.cfg, ops.CanonicalizeInput{
		Mapping: input.Mapping,
		Me:      input.Me,
		Other:   input.Other,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	return marshalErrorResult(errorPayload(err))
}

// errorResultWithPartial is errorResult with the progress made before the
// failure attached under "partial", so the caller can see what was
// persisted.
func errorResultWithPartial(err error, partial any) *mcp.CallToolResult {
	payload := errorPayload(err)
	payload["partial"] = partial
	return marshalErrorResult(payload)
}

// errorPayload builds the serializable error object for a tool result.
func errorPayload(err error) map[string]any {
	if vaultErr, ok := err.(*errors.VaultError); ok && vaultErr.Code != errors.ErrInternal {
		errorObj := map[string]any{
			"code":    vaultErr.Code,
			"message": vaultErr.Message,
			"status":  vaultErr.Status,
		}
		if vaultErr.Details != nil {
			errorObj["details"] = vaultErr.Details
		}
		return map[string]any{"error": errorObj}
	}
	return map[string]any{
		"error": map[string]any{
			"code":    "INTERNAL",
			"message": "an internal error occurred",
			"status":  500,
		},
	}
}

func marshalErrorResult(payload map[string]any) *mcp.CallToolResult {
	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
