package metadata

import (
	"time"

	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
)

// Entry kind constants reported by GetPathInfo.
const (
	KindFile      = "file"
	KindDirectory = "directory"
	KindSymlink   = "symlink"
	KindOther     = "other"
)

// GetPathInfoRequest asks for metadata about a single workspace path.
type GetPathInfoRequest struct {
	Path string `json:"path" mapstructure:"path"`
}

func (r *GetPathInfoRequest) Validate() error {
	if r.Path == "" {
		return errutil.New(errutil.CodeInvalidArgument, "path is required")
	}
	return nil
}

// GetPathInfoResponse reports existence and metadata for a path.
// Non-existence is a valid, expected answer, not an error: Exists is false
// and every other field is zero.
type GetPathInfoResponse struct {
	Exists       bool       `json:"exists"`
	Kind         string     `json:"kind,omitempty"`
	Size         *int64     `json:"size,omitempty"`
	ModTime      *time.Time `json:"mod_time,omitempty"`
	Readable     bool       `json:"readable"`
	Writable     bool       `json:"writable"`
	AbsolutePath string     `json:"absolute_path,omitempty"`
	RelativePath string     `json:"relative_path,omitempty"`
}
