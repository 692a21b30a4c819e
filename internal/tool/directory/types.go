package directory

import (
	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
)

// Entry kind constants for directory listings.
const (
	KindFile      = "file"
	KindDirectory = "directory"
)

// Entry represents a single entry in a directory listing.
// Entries are produced fresh on each call; nothing is cached.
type Entry struct {
	Name         string `json:"name"`
	RelativePath string `json:"relative_path"`
	Kind         string `json:"kind"`
	Size         *int64 `json:"size,omitempty"` // files only
}

// ListDirectoryRequest describes a bounded directory enumeration.
type ListDirectoryRequest struct {
	Path           string `json:"path" mapstructure:"path"`
	Recursive      bool   `json:"recursive" mapstructure:"recursive"`
	MaxEntries     int    `json:"max_entries" mapstructure:"max_entries"`
	IncludeHidden  bool   `json:"include_hidden" mapstructure:"include_hidden"`
	IncludeIgnored bool   `json:"include_ignored" mapstructure:"include_ignored"`
}

func (r *ListDirectoryRequest) Validate(cfg *config.Config) error {
	if r.MaxEntries < 0 {
		return errutil.New(errutil.CodeInvalidArgument, "max_entries must be >= 0")
	}
	if r.MaxEntries > cfg.Tools.MaxListEntries {
		return errutil.New(errutil.CodeInvalidArgument, "max_entries %d exceeds maximum %d", r.MaxEntries, cfg.Tools.MaxListEntries)
	}
	return nil
}

// ListDirectoryResponse contains the result of a ListDirectory operation.
type ListDirectoryResponse struct {
	DirectoryPath string  `json:"directory_path"`
	Entries       []Entry `json:"entries"`
	TotalCount    int     `json:"total_count"`
	Truncated     bool    `json:"truncated"`
}
