package search

import (
	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
)

// SearchTextRequest describes a bounded content search. Glob defaults to
// "**/*" (every file under the search root) and is matched against paths
// relative to that root.
type SearchTextRequest struct {
	Query          string `json:"query" mapstructure:"query"`
	Path           string `json:"path" mapstructure:"path"`
	Glob           string `json:"glob" mapstructure:"glob"`
	MaxMatches     int    `json:"max_matches" mapstructure:"max_matches"`
	UseRegex       bool   `json:"use_regex" mapstructure:"use_regex"`
	CaseSensitive  *bool  `json:"case_sensitive" mapstructure:"case_sensitive"`
	IncludeIgnored bool   `json:"include_ignored" mapstructure:"include_ignored"`
}

func (r *SearchTextRequest) Validate(cfg *config.Config) error {
	if r.Query == "" {
		return errutil.New(errutil.CodeInvalidArgument, "query is required")
	}
	if r.MaxMatches < 0 {
		return errutil.New(errutil.CodeInvalidArgument, "max_matches must be >= 0")
	}
	if r.MaxMatches > cfg.Tools.MaxSearchMatches {
		return errutil.New(errutil.CodeInvalidArgument, "max_matches %d exceeds maximum %d", r.MaxMatches, cfg.Tools.MaxSearchMatches)
	}
	return nil
}

// caseSensitive defaults to true when the field is omitted.
func (r *SearchTextRequest) caseSensitive() bool {
	if r.CaseSensitive == nil {
		return true
	}
	return *r.CaseSensitive
}

// SearchMatch is a single hit. MatchStart and MatchEnd are character (rune)
// offsets of the match within Snippet, not within the original line.
type SearchMatch struct {
	File       string `json:"file"`
	LineNumber int    `json:"line_number"`
	Snippet    string `json:"snippet"`
	MatchStart int    `json:"match_start"`
	MatchEnd   int    `json:"match_end"`
}

// TimedOutFile records a file abandoned because its regex scan exceeded the
// per-file time budget. Error carries the stable code for that condition.
type TimedOutFile struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// SearchTextResponse contains the result of a SearchText operation.
// TimedOutFiles lists files abandoned mid-scan; the search still completed
// for every other file.
type SearchTextResponse struct {
	Matches       []SearchMatch  `json:"matches"`
	FilesScanned  int            `json:"files_scanned"`
	Truncated     bool           `json:"truncated"`
	TimedOutFiles []TimedOutFile `json:"timed_out_files,omitempty"`
}
