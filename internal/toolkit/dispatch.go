package toolkit

import (
	"context"
	"fmt"
	"time"

	"github.com/Cyclone1070/workspacefs/internal/tool/directory"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/file"
	"github.com/Cyclone1070/workspacefs/internal/tool/metadata"
	"github.com/Cyclone1070/workspacefs/internal/tool/search"
	"github.com/Cyclone1070/workspacefs/internal/tool/write"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
)

// ToolNames lists every invokable operation.
var ToolNames = []string{
	"get_path_info",
	"list_directory",
	"read_file",
	"search_text",
	"write_file",
	"apply_text_edit",
	"create_directory",
}

// Invoke runs a tool by name with named arguments and returns the result
// envelope. Unknown tools and malformed arguments are failures in the
// envelope, never panics. Each call emits one instrumentation event carrying
// paths, counts and the outcome code, but never file contents.
func (t *Toolkit) Invoke(ctx context.Context, tool string, args map[string]any) Envelope {
	start := time.Now()

	env := t.dispatch(ctx, tool, args)

	event := t.logger.Info()
	if !env.Success {
		event = t.logger.Warn().Str("error", env.Error)
	}
	event.
		Str("tool", tool).
		Dur("duration", time.Since(start)).
		Bool("success", env.Success)
	if path, okArg := args["path"].(string); okArg {
		event.Str("path", path)
	}
	addResultFields(event, env.Result)
	event.Msg("tool call")

	return env
}

// dispatch decodes arguments and routes to the typed tool method.
func (t *Toolkit) dispatch(ctx context.Context, tool string, args map[string]any) Envelope {
	switch tool {
	case "get_path_info":
		var req metadata.GetPathInfoRequest
		if err := decodeArgs(args, &req); err != nil {
			return fail(err)
		}
		resp, err := t.inspector.GetPathInfo(ctx, &req)
		if err != nil {
			return fail(err)
		}
		if !resp.Exists {
			return ok(resp, fmt.Sprintf("%s does not exist", req.Path))
		}
		return ok(resp, fmt.Sprintf("%s is a %s", req.Path, resp.Kind))

	case "list_directory":
		var req directory.ListDirectoryRequest
		if err := decodeArgs(args, &req); err != nil {
			return fail(err)
		}
		resp, err := t.lister.Run(ctx, &req)
		if err != nil {
			return fail(err)
		}
		msg := fmt.Sprintf("listed %d entries", resp.TotalCount)
		if resp.Truncated {
			msg += " (truncated)"
		}
		return ok(resp, msg)

	case "read_file":
		var req file.ReadFileRequest
		if err := decodeArgs(args, &req); err != nil {
			return fail(err)
		}
		resp, err := t.reader.Run(ctx, &req)
		if err != nil {
			return fail(err)
		}
		msg := fmt.Sprintf("read lines %d-%d of %s", resp.StartLine, resp.EndLine, resp.RelativePath)
		if resp.Truncated {
			msg += fmt.Sprintf(", more from line %d", *resp.NextStartLine)
		}
		return ok(resp, msg)

	case "search_text":
		var req search.SearchTextRequest
		if err := decodeArgs(args, &req); err != nil {
			return fail(err)
		}
		resp, err := t.searcher.Run(ctx, &req)
		if err != nil {
			return fail(err)
		}
		msg := fmt.Sprintf("found %d matches in %d files", len(resp.Matches), resp.FilesScanned)
		if resp.Truncated {
			msg += " (truncated)"
		}
		return ok(resp, msg)

	case "write_file":
		var req write.WriteFileRequest
		if err := decodeArgs(args, &req); err != nil {
			return fail(err)
		}
		resp, err := t.gate.WriteFile(ctx, &req)
		if err != nil {
			return fail(err)
		}
		return ok(resp, fmt.Sprintf("wrote %d bytes to %s", resp.BytesWritten, resp.RelativePath))

	case "apply_text_edit":
		var req write.ApplyTextEditRequest
		if err := decodeArgs(args, &req); err != nil {
			return fail(err)
		}
		resp, err := t.gate.ApplyTextEdit(ctx, &req)
		if err != nil {
			return fail(err)
		}
		return ok(resp, fmt.Sprintf("replaced %d occurrences in %s", resp.Replacements, resp.RelativePath))

	case "create_directory":
		var req write.CreateDirectoryRequest
		if err := decodeArgs(args, &req); err != nil {
			return fail(err)
		}
		resp, err := t.gate.CreateDirectory(ctx, &req)
		if err != nil {
			return fail(err)
		}
		if resp.Created {
			return ok(resp, fmt.Sprintf("created directory %s", resp.RelativePath))
		}
		return ok(resp, fmt.Sprintf("directory %s already exists", resp.RelativePath))

	default:
		return fail(errutil.New(errutil.CodeInvalidArgument, "unknown tool: %s", tool))
	}
}

// decodeArgs maps named arguments onto a typed request struct.
func decodeArgs(args map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "mapstructure",
	})
	if err != nil {
		return errutil.New(errutil.CodeIO, "failed to build argument decoder: %v", err)
	}
	if err := decoder.Decode(args); err != nil {
		return errutil.New(errutil.CodeInvalidArgument, "invalid arguments: %v", err)
	}
	return nil
}

// addResultFields attaches bounded per-tool metrics to the log event.
// Only counts and flags, never content.
func addResultFields(event *zerolog.Event, result any) {
	switch r := result.(type) {
	case *directory.ListDirectoryResponse:
		event.Int("entries", r.TotalCount).Bool("truncated", r.Truncated)
	case *file.ReadFileResponse:
		event.Int("lines", r.EndLine-r.StartLine+1).Bool("truncated", r.Truncated)
	case *search.SearchTextResponse:
		event.Int("matches", len(r.Matches)).
			Int("files_scanned", r.FilesScanned).
			Bool("truncated", r.Truncated)
	case *write.WriteFileResponse:
		event.Int64("bytes_written", r.BytesWritten)
	case *write.ApplyTextEditResponse:
		event.Int("replacements", r.Replacements).
			Int64("size_before", r.SizeBefore).
			Int64("size_after", r.SizeAfter)
	}
}
