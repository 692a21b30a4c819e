// Package metadata implements the read-only path inspection tool.
// It never opens file contents; everything it reports comes from stat calls.
package metadata

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/pathutil"
)

// inspectorFS defines the minimal filesystem operations needed for metadata queries.
type inspectorFS interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
}

// Inspector handles path metadata queries.
type Inspector struct {
	fs       inspectorFS
	resolver *pathutil.Resolver
}

// NewInspector creates an Inspector with injected dependencies.
func NewInspector(fs inspectorFS, resolver *pathutil.Resolver) *Inspector {
	return &Inspector{fs: fs, resolver: resolver}
}

// GetPathInfo resolves the path and reports its metadata. A path that
// resolves inside the workspace but does not exist yields Exists=false.
//
// Note: ctx is accepted for API consistency but not used - stat calls are
// synchronous.
func (t *Inspector) GetPathInfo(ctx context.Context, req *GetPathInfoRequest) (*GetPathInfoResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	abs, rel, err := t.resolver.Resolve(req.Path)
	if err != nil {
		return nil, err
	}

	// Lstat the lexical location so a symlink is reported as a symlink;
	// Resolve has already verified its target stays inside the workspace.
	lex := lexicalPath(t.resolver.Root(), req.Path)
	lexInfo, lexErr := t.fs.Lstat(lex)

	info, err := t.fs.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return &GetPathInfoResponse{Exists: false}, nil
		}
		return nil, errutil.FromOSError(abs, err)
	}

	kind := kindOf(info)
	if lexErr == nil && lexInfo.Mode()&os.ModeSymlink != 0 {
		kind = KindSymlink
	}

	resp := &GetPathInfoResponse{
		Exists:       true,
		Kind:         kind,
		Readable:     canAccess(abs, accessRead),
		Writable:     canAccess(abs, accessWrite),
		AbsolutePath: abs,
		RelativePath: rel,
	}

	if info.Mode().IsRegular() {
		size := info.Size()
		resp.Size = &size
	}
	modTime := info.ModTime()
	resp.ModTime = &modTime

	return resp, nil
}

func kindOf(info os.FileInfo) string {
	switch {
	case info.Mode().IsRegular():
		return KindFile
	case info.IsDir():
		return KindDirectory
	default:
		return KindOther
	}
}

// lexicalPath joins the raw request path onto the root without resolving
// the final symlink, so the entry's own kind survives.
func lexicalPath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
