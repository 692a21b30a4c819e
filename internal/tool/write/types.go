package write

import (
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
)

// Write modes for WriteFileRequest.
const (
	ModeCreate    = "create"
	ModeOverwrite = "overwrite"
	ModeAppend    = "append"
)

// WriteFileRequest describes a whole-file write.
type WriteFileRequest struct {
	Path    string `json:"path" mapstructure:"path"`
	Content string `json:"content" mapstructure:"content"`
	Mode    string `json:"mode" mapstructure:"mode"`
}

func (r *WriteFileRequest) Validate() error {
	if r.Path == "" {
		return errutil.New(errutil.CodeInvalidArgument, "path is required")
	}
	switch r.Mode {
	case ModeCreate, ModeOverwrite, ModeAppend:
		return nil
	default:
		return errutil.New(errutil.CodeInvalidMode, "mode must be one of create, overwrite, append; got %q", r.Mode)
	}
}

// WriteFileResponse contains the result of a WriteFile operation.
type WriteFileResponse struct {
	AbsolutePath string `json:"absolute_path"`
	RelativePath string `json:"relative_path"`
	BytesWritten int64  `json:"bytes_written"`
	Created      bool   `json:"created"`
}

// ApplyTextEditRequest describes an exact-occurrence text replacement.
// ExpectedText is matched literally, byte for byte.
type ApplyTextEditRequest struct {
	Path            string `json:"path" mapstructure:"path"`
	ExpectedText    string `json:"expected_text" mapstructure:"expected_text"`
	ReplacementText string `json:"replacement_text" mapstructure:"replacement_text"`
	ReplaceAll      bool   `json:"replace_all" mapstructure:"replace_all"`
}

func (r *ApplyTextEditRequest) Validate() error {
	if r.Path == "" {
		return errutil.New(errutil.CodeInvalidArgument, "path is required")
	}
	if r.ExpectedText == "" {
		return errutil.New(errutil.CodeEmptyExpectedText, "expected_text must not be empty")
	}
	return nil
}

// ApplyTextEditResponse contains the result of an ApplyTextEdit operation.
type ApplyTextEditResponse struct {
	AbsolutePath string `json:"absolute_path"`
	RelativePath string `json:"relative_path"`
	Replacements int    `json:"replacements"`
	SizeBefore   int64  `json:"size_before"`
	SizeAfter    int64  `json:"size_after"`
	Diff         string `json:"diff,omitempty"`
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
}

// CreateDirectoryRequest describes directory creation. Parents defaults to
// true when the field is omitted.
type CreateDirectoryRequest struct {
	Path    string `json:"path" mapstructure:"path"`
	Parents *bool  `json:"parents" mapstructure:"parents"`
}

func (r *CreateDirectoryRequest) Validate() error {
	if r.Path == "" {
		return errutil.New(errutil.CodeInvalidArgument, "path is required")
	}
	return nil
}

func (r *CreateDirectoryRequest) parents() bool {
	if r.Parents == nil {
		return true
	}
	return *r.Parents
}

// CreateDirectoryResponse contains the result of a CreateDirectory operation.
// Created is false when the directory already existed.
type CreateDirectoryResponse struct {
	AbsolutePath string `json:"absolute_path"`
	RelativePath string `json:"relative_path"`
	Created      bool   `json:"created"`
}
