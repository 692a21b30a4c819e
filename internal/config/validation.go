package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Tools validation - Reading
	if c.Tools.MaxReadBytes < 1 {
		errs = append(errs, "tools.max_read_bytes must be >= 1")
	}
	if c.Tools.DefaultReadLines < 1 {
		errs = append(errs, "tools.default_read_lines must be >= 1")
	}
	if c.Tools.CountLinesThreshold < 1 {
		errs = append(errs, "tools.count_lines_threshold must be >= 1")
	}

	// Tools validation - Writing
	if c.Tools.MaxWriteBytes < 1 {
		errs = append(errs, "tools.max_write_bytes must be >= 1")
	}

	// Tools validation - Listing
	if c.Tools.DefaultListEntries < 1 {
		errs = append(errs, "tools.default_list_entries must be >= 1")
	}
	if c.Tools.MaxListEntries < 1 {
		errs = append(errs, "tools.max_list_entries must be >= 1")
	}

	// Tools validation - Search
	if c.Tools.DefaultSearchMatches < 1 {
		errs = append(errs, "tools.default_search_matches must be >= 1")
	}
	if c.Tools.MaxSearchMatches < 1 {
		errs = append(errs, "tools.max_search_matches must be >= 1")
	}
	if c.Tools.SnippetMaxLength < 1 {
		errs = append(errs, "tools.snippet_max_length must be >= 1")
	}
	if c.Tools.RegexFileTimeoutMs < 1 {
		errs = append(errs, "tools.regex_file_timeout_ms must be >= 1")
	}
	if c.Tools.MaxScanTokenSize < 1 {
		errs = append(errs, "tools.max_scan_token_size must be >= 1")
	}
	if c.Tools.InitialScannerBufferSize < 1 {
		errs = append(errs, "tools.initial_scanner_buffer_size must be >= 1")
	}

	// Semantic validation: Default <= Max constraints
	if c.Tools.DefaultListEntries > c.Tools.MaxListEntries {
		errs = append(errs, "tools.default_list_entries must be <= tools.max_list_entries")
	}
	if c.Tools.DefaultSearchMatches > c.Tools.MaxSearchMatches {
		errs = append(errs, "tools.default_search_matches must be <= tools.max_search_matches")
	}
	if c.Tools.CountLinesThreshold > c.Tools.MaxReadBytes {
		errs = append(errs, "tools.count_lines_threshold must be <= tools.max_read_bytes")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
