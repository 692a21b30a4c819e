// Package write implements the gated mutating operations: whole-file
// writes, exact text edits, and directory creation. Every operation checks
// the writes-enabled flag before touching the filesystem, and every file
// write goes through the same atomic temp-file-then-rename path.
package write

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/pathutil"
)

const defaultFilePerm = 0o644

// gateFS defines the filesystem operations needed by the write gate.
type gateFS interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	ReadPrefix(path string, n int) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
	Mkdir(path string) error
}

// Gate handles all mutating operations.
type Gate struct {
	fs       gateFS
	resolver *pathutil.Resolver
	config   *config.Config
}

// NewGate creates a Gate with injected dependencies.
func NewGate(fs gateFS, resolver *pathutil.Resolver, cfg *config.Config) *Gate {
	return &Gate{
		fs:       fs,
		resolver: resolver,
		config:   cfg,
	}
}

// checkEnabled rejects every mutation when writes are disabled. This runs
// before any filesystem access.
func (t *Gate) checkEnabled() error {
	if !t.config.Workspace.WritesEnabled {
		return errutil.New(errutil.CodeWritesDisabled, "writes are disabled for this workspace")
	}
	return nil
}

// WriteFile writes content to a file in one of three modes: create fails if
// the file exists, overwrite fails if it doesn't, append creates it if
// absent. The write is atomic in every mode.
func (t *Gate) WriteFile(ctx context.Context, req *WriteFileRequest) (*WriteFileResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := t.checkEnabled(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if int64(len(req.Content)) > t.config.Tools.MaxWriteBytes {
		return nil, errutil.New(errutil.CodeWriteTooLarge, "content is %d bytes, maximum writable size is %d", len(req.Content), t.config.Tools.MaxWriteBytes)
	}

	abs, rel, err := t.resolver.Resolve(req.Path)
	if err != nil {
		return nil, err
	}

	info, statErr := t.fs.Stat(abs)
	exists := statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, errutil.FromOSError(abs, statErr)
	}
	if exists && info.IsDir() {
		return nil, errutil.New(errutil.CodeNotAFile, "path is a directory: %s", abs)
	}

	content := []byte(req.Content)
	perm := os.FileMode(defaultFilePerm)
	if exists {
		perm = info.Mode().Perm()
	}

	switch req.Mode {
	case ModeCreate:
		if exists {
			return nil, errutil.New(errutil.CodeFileExists, "file already exists: %s", abs)
		}
		if err := t.fs.EnsureDirs(filepath.Dir(abs)); err != nil {
			return nil, errutil.FromOSError(filepath.Dir(abs), err)
		}

	case ModeOverwrite:
		if !exists {
			return nil, errutil.New(errutil.CodeNotFound, "file does not exist: %s", abs)
		}

	case ModeAppend:
		if exists {
			existing, err := t.fs.ReadFile(abs)
			if err != nil {
				return nil, errutil.FromOSError(abs, err)
			}
			combined := int64(len(existing)) + int64(len(content))
			if combined > t.config.Tools.MaxWriteBytes {
				return nil, errutil.New(errutil.CodeWriteTooLarge, "appending yields %d bytes, maximum writable size is %d", combined, t.config.Tools.MaxWriteBytes)
			}
			content = append(existing, content...)
		} else {
			if err := t.fs.EnsureDirs(filepath.Dir(abs)); err != nil {
				return nil, errutil.FromOSError(filepath.Dir(abs), err)
			}
		}
	}

	if err := t.fs.WriteFileAtomic(abs, content, perm); err != nil {
		return nil, errutil.New(errutil.CodeIO, "failed to write %s: %v", abs, err)
	}

	return &WriteFileResponse{
		AbsolutePath: abs,
		RelativePath: rel,
		BytesWritten: int64(len(content)),
		Created:      !exists,
	}, nil
}

// CreateDirectory creates a directory, optionally with missing ancestors.
// An already-existing directory is success with Created=false.
func (t *Gate) CreateDirectory(ctx context.Context, req *CreateDirectoryRequest) (*CreateDirectoryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := t.checkEnabled(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, rel, err := t.resolver.Resolve(req.Path)
	if err != nil {
		return nil, err
	}

	resp := &CreateDirectoryResponse{
		AbsolutePath: abs,
		RelativePath: rel,
	}

	info, statErr := t.fs.Stat(abs)
	if statErr == nil {
		if !info.IsDir() {
			return nil, errutil.New(errutil.CodeNotADirectory, "a file already exists at %s", abs)
		}
		return resp, nil
	}
	if !os.IsNotExist(statErr) {
		return nil, errutil.FromOSError(abs, statErr)
	}

	if req.parents() {
		if err := t.fs.EnsureDirs(abs); err != nil {
			return nil, errutil.FromOSError(abs, err)
		}
	} else {
		if err := t.fs.Mkdir(abs); err != nil {
			return nil, errutil.FromOSError(abs, err)
		}
	}

	resp.Created = true
	return resp, nil
}
