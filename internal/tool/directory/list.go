// Package directory implements bounded, optionally recursive directory
// enumeration inside the workspace.
package directory

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/pathutil"
)

// listerFS defines the minimal filesystem operations needed for listing.
type listerFS interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.FileInfo, error)
}

// ignoreMatcher filters entries by gitignore patterns.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// Lister handles directory listing operations.
type Lister struct {
	fs       listerFS
	ignore   ignoreMatcher
	resolver *pathutil.Resolver
	config   *config.Config
}

// NewLister creates a Lister with injected dependencies. ignore may be nil,
// in which case no gitignore filtering is applied.
func NewLister(fs listerFS, ignore ignoreMatcher, resolver *pathutil.Resolver, cfg *config.Config) *Lister {
	return &Lister{
		fs:       fs,
		ignore:   ignore,
		resolver: resolver,
		config:   cfg,
	}
}

// Run lists the contents of a directory within the workspace. Recursive
// traversal is depth-first in name order and stops as soon as the entry cap
// is reached, setting Truncated; the walk never collects an entire huge
// tree just to truncate it afterwards. Hidden (dot-prefixed) entries are
// excluded unless requested.
func (t *Lister) Run(ctx context.Context, req *ListDirectoryRequest) (*ListDirectoryResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	maxEntries := req.MaxEntries
	if maxEntries == 0 {
		maxEntries = t.config.Tools.DefaultListEntries
	}

	path := req.Path
	if path == "" {
		path = "."
	}

	abs, rel, err := t.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := t.fs.Stat(abs)
	if err != nil {
		return nil, errutil.FromOSError(abs, err)
	}
	if !info.IsDir() {
		return nil, errutil.New(errutil.CodeNotADirectory, "path is not a directory: %s", abs)
	}

	visited := make(map[string]bool)
	entries, truncated, err := t.walk(ctx, abs, req, visited, maxEntries, 0)
	if err != nil {
		return nil, err
	}

	// Directories first, then files, both alphabetically by relative path
	sort.Slice(entries, func(i, j int) bool {
		iDir := entries[i].Kind == KindDirectory
		jDir := entries[j].Kind == KindDirectory
		if iDir != jDir {
			return iDir
		}
		return entries[i].RelativePath < entries[j].RelativePath
	})

	return &ListDirectoryResponse{
		DirectoryPath: rel,
		Entries:       entries,
		TotalCount:    len(entries),
		Truncated:     truncated,
	}, nil
}

// walk enumerates a directory, recursing when requested. collected is the
// number of entries gathered so far across the whole traversal; the walk
// aborts the moment it reaches maxEntries.
func (t *Lister) walk(ctx context.Context, abs string, req *ListDirectoryRequest, visited map[string]bool, maxEntries, collected int) ([]Entry, bool, error) {
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}

	// Symlink loops are skipped via the canonical path of each directory
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		canonical = abs
	}
	if visited[canonical] {
		return nil, false, nil
	}
	visited[canonical] = true

	infos, err := t.fs.ListDir(abs)
	if err != nil {
		return nil, false, errutil.FromOSError(abs, err)
	}

	var entries []Entry
	for _, info := range infos {
		name := info.Name()
		if !req.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		entryAbs := filepath.Join(abs, name)
		entryRel, err := filepath.Rel(t.resolver.Root(), entryAbs)
		if err != nil {
			return nil, false, errutil.New(errutil.CodeIO, "failed to relativize entry %s: %v", name, err)
		}
		entryRel = filepath.ToSlash(entryRel)

		isDir := info.IsDir()
		if !req.IncludeIgnored && t.ignore != nil && t.ignore.ShouldIgnore(entryRel, isDir) {
			continue
		}

		// Cap check runs only for includable entries, so Truncated is set
		// only when something that would have been listed was omitted
		if collected+len(entries) >= maxEntries {
			return entries, true, nil
		}

		entry := Entry{
			Name:         name,
			RelativePath: entryRel,
			Kind:         KindFile,
		}
		if isDir {
			entry.Kind = KindDirectory
		} else if info.Mode().IsRegular() {
			size := info.Size()
			entry.Size = &size
		}
		entries = append(entries, entry)

		if isDir && req.Recursive {
			subEntries, truncated, err := t.walk(ctx, entryAbs, req, visited, maxEntries, collected+len(entries))
			if err != nil {
				return nil, false, err
			}
			entries = append(entries, subEntries...)
			if truncated {
				return entries, true, nil
			}
		}
	}

	return entries, false, nil
}
