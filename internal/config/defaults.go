package config

// Config holds all toolset configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero
// values. Missing keys are left at their default values. The loaded Config
// is treated as immutable for the lifetime of a toolset instance.
type Config struct {
	Workspace WorkspaceConfig `json:"workspace"`
	Tools     ToolsConfig     `json:"tools"`
}

type WorkspaceConfig struct {
	// Root is the workspace root directory. Empty means: fall back to the
	// WORKSPACEFS_ROOT environment variable, then the working directory.
	Root string `json:"root"`

	// WritesEnabled gates every mutating operation. Default: false.
	WritesEnabled bool `json:"writes_enabled"`
}

type ToolsConfig struct {
	// Reading
	MaxReadBytes        int64 `json:"max_read_bytes"`        // Default: 20 * 1024 * 1024 (20MB)
	DefaultReadLines    int   `json:"default_read_lines"`    // Default: 200
	CountLinesThreshold int64 `json:"count_lines_threshold"` // Default: 1 * 1024 * 1024 (1MB)

	// Writing
	MaxWriteBytes int64 `json:"max_write_bytes"` // Default: 10 * 1024 * 1024 (10MB)

	// Directory Listing
	DefaultListEntries int `json:"default_list_entries"` // Default: 1000
	MaxListEntries     int `json:"max_list_entries"`     // Default: 10000

	// Search
	DefaultSearchMatches     int `json:"default_search_matches"`      // Default: 50
	MaxSearchMatches         int `json:"max_search_matches"`          // Default: 1000
	SnippetMaxLength         int `json:"snippet_max_length"`          // Default: 200
	RegexFileTimeoutMs       int `json:"regex_file_timeout_ms"`       // Default: 1000
	MaxScanTokenSize         int `json:"max_scan_token_size"`         // Default: 10 * 1024 * 1024 (10MB)
	InitialScannerBufferSize int `json:"initial_scanner_buffer_size"` // Default: 64 * 1024 (64KB)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Root:          "",
			WritesEnabled: false,
		},
		Tools: ToolsConfig{
			MaxReadBytes:             20 * 1024 * 1024,
			DefaultReadLines:         200,
			CountLinesThreshold:      1 * 1024 * 1024,
			MaxWriteBytes:            10 * 1024 * 1024,
			DefaultListEntries:       1000,
			MaxListEntries:           10000,
			DefaultSearchMatches:     50,
			MaxSearchMatches:         1000,
			SnippetMaxLength:         200,
			RegexFileTimeoutMs:       1000,
			MaxScanTokenSize:         10 * 1024 * 1024,
			InitialScannerBufferSize: 64 * 1024,
		},
	}
}
