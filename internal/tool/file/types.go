package file

import (
	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
)

// ReadFileRequest asks for a line window of a text file.
// StartLine is 1-based; zero means line 1. MaxLines zero means the
// configured default window.
type ReadFileRequest struct {
	Path      string `json:"path" mapstructure:"path"`
	StartLine int    `json:"start_line" mapstructure:"start_line"`
	MaxLines  int    `json:"max_lines" mapstructure:"max_lines"`
}

func (r *ReadFileRequest) Validate(cfg *config.Config) error {
	if r.Path == "" {
		return errutil.New(errutil.CodeInvalidArgument, "path is required")
	}
	if r.StartLine < 0 {
		return errutil.New(errutil.CodeInvalidArgument, "start_line must be >= 1")
	}
	if r.MaxLines < 0 {
		return errutil.New(errutil.CodeInvalidArgument, "max_lines must be >= 1")
	}
	return nil
}

// ReadFileResponse is one page of a file. Concatenating Content from
// successive calls that follow NextStartLine reproduces the file exactly:
// lines keep their original terminators.
type ReadFileResponse struct {
	AbsolutePath   string `json:"absolute_path"`
	RelativePath   string `json:"relative_path"`
	StartLine      int    `json:"start_line"`
	EndLine        int    `json:"end_line"`
	TotalLines     *int   `json:"total_lines,omitempty"` // absent for very large files
	Truncated      bool   `json:"truncated"`
	NextStartLine  *int   `json:"next_start_line,omitempty"`
	Content        string `json:"content"`
	EncodingErrors bool   `json:"encoding_errors"`
}
