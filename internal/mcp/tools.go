package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the chat archive.

var importToolDef = mcp.NewTool("chat_import",
	mcp.WithDescription("Import a KakaoTalk chat export into the archive. Accepts either a file path or raw export text. Messages already present (same minute and body) are skipped, so re-importing overlapping exports is safe."),
	mcp.WithString("path",
		mcp.Description("Path to an export file. The file is decoded as UTF-8 or CP949 automatically."),
	),
	mcp.WithString("text",
		mcp.Description("Raw export text. Use instead of path when the content is already in hand."),
	),
	mcp.WithString("source",
		mcp.Description("Optional label recorded against every inserted message. Defaults to the file name when path is given."),
	),
)

var listToolDef = mcp.NewTool("chat_list",
	mcp.WithDescription("List stored messages in chronological order."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of messages to return (default 50, max 1000)."),
	),
	mcp.WithString("before",
		mcp.Description("Only return messages before this moment. Accepts YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS."),
	),
	mcp.WithBoolean("descending",
		mcp.Description("Return newest messages first."),
	),
	mcp.WithBoolean("all",
		mcp.Description("Return the full archive, ignoring limit."),
	),
)

var searchToolDef = mcp.NewTool("chat_search",
	mcp.WithDescription("Search message bodies for a substring. Matches continuation lines too."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Substring to look for. Literal match, % and _ have no special meaning."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of hits to return."),
	),
)

var sendersToolDef = mcp.NewTool("chat_senders",
	mcp.WithDescription("List distinct senders with message counts, most active first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of senders to return (default 50)."),
	),
)

var statsToolDef = mcp.NewTool("chat_stats",
	mcp.WithDescription("Summarize the archive: total messages, distinct senders, and the oldest and latest timestamps."),
)

var exportToolDef = mcp.NewTool("chat_export",
	mcp.WithDescription("Write the full archive to a transcript file."),
	mcp.WithString("path",
		mcp.Description("Destination file path. Defaults to a timestamped file under the exports directory."),
	),
	mcp.WithString("format",
		mcp.Description("Transcript format: txt (plain lines), kakao (the app's own export dialect), or csv."),
	),
	mcp.WithBoolean("include_header",
		mcp.Description("Prefix the transcript with a header block identifying the export."),
	),
)

var canonicalizeToolDef = mcp.NewTool("chat_canonicalize",
	mcp.WithDescription("Collapse nickname variants into canonical sender names. Either pass an explicit mapping, or pass me/other and every other sender is renamed to other."),
	mcp.WithObject("mapping",
		mcp.Description("Explicit old-name to new-name mapping."),
	),
	mcp.WithString("me",
		mcp.Description("Canonical name for the archive owner."),
	),
	mcp.WithString("other",
		mcp.Description("Canonical name for the counterpart."),
	),
)
