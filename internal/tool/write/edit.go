package write

import (
	"context"
	"os"
	"strings"

	"github.com/Cyclone1070/workspacefs/internal/tool/contentutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
	"github.com/pmezard/go-difflib/difflib"
)

// ApplyTextEdit replaces exact, literal occurrences of ExpectedText. Zero
// occurrences is match_not_found; more than one without ReplaceAll is
// multiple_matches. The file is only rewritten after the match count is
// settled, so a failed edit never modifies anything. Matching is byte-exact:
// no whitespace or line-ending normalization is applied to either side.
func (t *Gate) ApplyTextEdit(ctx context.Context, req *ApplyTextEditRequest) (*ApplyTextEditResponse, error) {
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

	info, err := t.fs.Stat(abs)
	if err != nil {
		return nil, errutil.FromOSError(abs, err)
	}
	if info.IsDir() {
		return nil, errutil.New(errutil.CodeNotAFile, "path is a directory: %s", abs)
	}
	if !info.Mode().IsRegular() {
		return nil, errutil.New(errutil.CodeNotAFile, "path is not a regular file: %s", abs)
	}
	if info.Size() > t.config.Tools.MaxReadBytes {
		return nil, errutil.New(errutil.CodeFileTooLarge, "file is %d bytes, maximum editable size is %d", info.Size(), t.config.Tools.MaxReadBytes)
	}

	prefix, err := t.fs.ReadPrefix(abs, contentutil.BinarySampleSize)
	if err != nil {
		return nil, errutil.FromOSError(abs, err)
	}
	if contentutil.IsBinaryContent(prefix) {
		return nil, errutil.New(errutil.CodeIsBinary, "file appears to be binary: %s", abs)
	}

	raw, err := t.fs.ReadFile(abs)
	if err != nil {
		return nil, errutil.FromOSError(abs, err)
	}

	// Edits operate on raw bytes so files with invalid UTF-8 round-trip
	// unchanged outside the replaced region
	before := string(raw)
	count := strings.Count(before, req.ExpectedText)
	switch {
	case count == 0:
		return nil, errutil.New(errutil.CodeMatchNotFound, "expected_text not found in %s", rel)
	case count > 1 && !req.ReplaceAll:
		return nil, errutil.New(errutil.CodeMultipleMatches, "expected_text occurs %d times in %s; pass replace_all to replace every occurrence", count, rel)
	}

	after := strings.Replace(before, req.ExpectedText, req.ReplacementText, count)

	if int64(len(after)) > t.config.Tools.MaxWriteBytes {
		return nil, errutil.New(errutil.CodeWriteTooLarge, "edited content is %d bytes, maximum writable size is %d", len(after), t.config.Tools.MaxWriteBytes)
	}

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = os.FileMode(defaultFilePerm)
	}
	if err := t.fs.WriteFileAtomic(abs, []byte(after), perm); err != nil {
		return nil, errutil.New(errutil.CodeIO, "failed to write %s: %v", abs, err)
	}

	diff, added, removed := unifiedDiff(rel, before, after)

	return &ApplyTextEditResponse{
		AbsolutePath: abs,
		RelativePath: rel,
		Replacements: count,
		SizeBefore:   int64(len(before)),
		SizeAfter:    int64(len(after)),
		Diff:         diff,
		LinesAdded:   added,
		LinesRemoved: removed,
	}, nil
}

// unifiedDiff renders the edit as a unified diff and counts changed lines.
func unifiedDiff(path, before, after string) (string, int, int) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
	if err != nil {
		return "", 0, 0
	}

	var added, removed int
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return diff, added, removed
}
