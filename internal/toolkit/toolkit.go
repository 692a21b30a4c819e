// Package toolkit assembles the workspace tools behind a single named-call
// entry point with a uniform result envelope. The core tool packages stay
// typed; dynamic dispatch lives only here, at the invocation boundary.
package toolkit

import (
	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/directory"
	"github.com/Cyclone1070/workspacefs/internal/tool/file"
	"github.com/Cyclone1070/workspacefs/internal/tool/fsutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/gitutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/metadata"
	"github.com/Cyclone1070/workspacefs/internal/tool/pathutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/search"
	"github.com/Cyclone1070/workspacefs/internal/tool/write"
	"github.com/rs/zerolog"
)

// Toolkit owns one workspace's tool instances. The configuration and the
// resolved root are immutable after construction, so a Toolkit is safe for
// concurrent calls.
type Toolkit struct {
	config    *config.Config
	logger    zerolog.Logger
	resolver  *pathutil.Resolver
	inspector *metadata.Inspector
	lister    *directory.Lister
	reader    *file.Reader
	searcher  *search.Searcher
	gate      *write.Gate
}

// New resolves the workspace root and wires every tool. The returned warning
// is non-empty when the root is unusually broad (filesystem root, home
// directory); construction still succeeds. A missing or non-directory root
// is a fatal construction error.
func New(cfg *config.Config, logger zerolog.Logger) (*Toolkit, string, error) {
	root, warning, err := pathutil.ResolveRoot(cfg.Workspace.Root)
	if err != nil {
		return nil, "", err
	}

	fs := fsutil.NewOSFileSystem()
	resolver := pathutil.NewResolver(root, fs)

	ignore, err := gitutil.NewIgnoreService(root, fs)
	if err != nil {
		return nil, "", err
	}

	t := &Toolkit{
		config:    cfg,
		logger:    logger,
		resolver:  resolver,
		inspector: metadata.NewInspector(fs, resolver),
		lister:    directory.NewLister(fs, ignore, resolver, cfg),
		reader:    file.NewReader(fs, resolver, cfg),
		searcher:  search.NewSearcher(fs, ignore, resolver, cfg),
		gate:      write.NewGate(fs, resolver, cfg),
	}

	logger.Info().
		Str("root", root).
		Bool("writes_enabled", cfg.Workspace.WritesEnabled).
		Msg("workspace toolkit initialized")

	return t, warning, nil
}

// Root returns the canonical workspace root.
func (t *Toolkit) Root() string {
	return t.resolver.Root()
}
