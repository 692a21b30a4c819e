// Package file implements paged reads of workspace text files.
package file

import (
	"context"
	"os"

	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/contentutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/pathutil"
)

// readerFS defines the minimal filesystem operations needed for reading.
type readerFS interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	ReadPrefix(path string, n int) ([]byte, error)
}

// Reader handles file read operations.
type Reader struct {
	fs       readerFS
	resolver *pathutil.Resolver
	config   *config.Config
}

// NewReader creates a Reader with injected dependencies.
func NewReader(fs readerFS, resolver *pathutil.Resolver, cfg *config.Config) *Reader {
	return &Reader{
		fs:       fs,
		resolver: resolver,
		config:   cfg,
	}
}

// Run reads a window of lines from a text file. Line terminators are kept,
// so a caller paging through a file via NextStartLine reassembles the exact
// original bytes (modulo any replacement of invalid UTF-8, which is flagged).
func (t *Reader) Run(ctx context.Context, req *ReadFileRequest) (*ReadFileResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startLine := req.StartLine
	if startLine == 0 {
		startLine = 1
	}
	maxLines := req.MaxLines
	if maxLines == 0 {
		maxLines = t.config.Tools.DefaultReadLines
	}

	abs, rel, err := t.resolver.Resolve(req.Path)
	if err != nil {
		return nil, err
	}

	info, err := t.fs.Stat(abs)
	if err != nil {
		return nil, errutil.FromOSError(abs, err)
	}
	if info.IsDir() {
		return nil, errutil.New(errutil.CodeNotAFile, "path is a directory: %s", abs)
	}
	if !info.Mode().IsRegular() {
		return nil, errutil.New(errutil.CodeNotAFile, "path is not a regular file: %s", abs)
	}
	if info.Size() > t.config.Tools.MaxReadBytes {
		return nil, errutil.New(errutil.CodeFileTooLarge, "file is %d bytes, maximum readable size is %d", info.Size(), t.config.Tools.MaxReadBytes)
	}

	prefix, err := t.fs.ReadPrefix(abs, contentutil.BinarySampleSize)
	if err != nil {
		return nil, errutil.FromOSError(abs, err)
	}
	if contentutil.IsBinaryContent(prefix) {
		return nil, errutil.New(errutil.CodeIsBinary, "file appears to be binary: %s", abs)
	}

	raw, err := t.fs.ReadFile(abs)
	if err != nil {
		return nil, errutil.FromOSError(abs, err)
	}

	content, encodingErrors := contentutil.DecodeLossy(raw)
	lines := contentutil.SplitLinesKeepEnds(content)
	lineCount := len(lines)

	resp := &ReadFileResponse{
		AbsolutePath:   abs,
		RelativePath:   rel,
		StartLine:      startLine,
		EncodingErrors: encodingErrors,
	}
	if info.Size() <= t.config.Tools.CountLinesThreshold {
		total := lineCount
		resp.TotalLines = &total
	}

	// An empty file read from line 1 is an empty page, not an error
	if lineCount == 0 && startLine == 1 {
		resp.EndLine = 0
		return resp, nil
	}
	if startLine > lineCount {
		return nil, errutil.New(errutil.CodeLineOutOfRange, "start_line %d is beyond end of file (%d lines)", startLine, lineCount)
	}

	end := startLine + maxLines - 1
	if end > lineCount {
		end = lineCount
	}

	var b []byte
	for _, line := range lines[startLine-1 : end] {
		b = append(b, line...)
	}
	resp.Content = string(b)
	resp.EndLine = end

	if end < lineCount {
		resp.Truncated = true
		next := end + 1
		resp.NextStartLine = &next
	}

	return resp, nil
}
