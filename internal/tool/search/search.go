// Package search implements bounded literal and regex content search across
// workspace files.
package search

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/contentutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/pathutil"
	"github.com/bmatcuk/doublestar/v4"
)

// searcherFS defines the minimal filesystem operations needed for searching.
type searcherFS interface {
	Stat(path string) (os.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	ReadPrefix(path string, n int) ([]byte, error)
	ListDir(path string) ([]os.FileInfo, error)
}

// ignoreMatcher filters candidate files by gitignore patterns.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// Searcher handles content search operations.
type Searcher struct {
	fs       searcherFS
	ignore   ignoreMatcher
	resolver *pathutil.Resolver
	config   *config.Config
}

// NewSearcher creates a Searcher with injected dependencies. ignore may be
// nil, in which case no gitignore filtering is applied.
func NewSearcher(fs searcherFS, ignore ignoreMatcher, resolver *pathutil.Resolver, cfg *config.Config) *Searcher {
	return &Searcher{
		fs:       fs,
		ignore:   ignore,
		resolver: resolver,
		config:   cfg,
	}
}

// lineMatcher tests a single line and reports the byte offsets of the first
// match, or ok=false.
type lineMatcher func(line string) (start, end int, ok bool)

// Run searches file contents under a path. The pattern is validated before
// any file is touched; binary files are skipped; each file is scanned
// line-by-line so large files never load whole into memory. In regex mode a
// per-file deadline bounds pathological patterns: files that exceed it are
// recorded in TimedOutFiles and the search moves on.
func (t *Searcher) Run(ctx context.Context, req *SearchTextRequest) (*SearchTextResponse, error) {
	if err := req.Validate(t.config); err != nil {
		return nil, err
	}

	maxMatches := req.MaxMatches
	if maxMatches == 0 {
		maxMatches = t.config.Tools.DefaultSearchMatches
	}
	glob := req.Glob
	if glob == "" {
		glob = "**/*"
	}
	path := req.Path
	if path == "" {
		path = "."
	}

	match, err := t.buildMatcher(req)
	if err != nil {
		return nil, err
	}

	abs, _, err := t.resolver.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := t.fs.Stat(abs)
	if err != nil {
		return nil, errutil.FromOSError(abs, err)
	}

	state := &searchState{
		matcher:    match,
		maxMatches: maxMatches,
		useRegex:   req.UseRegex,
		timeout:    time.Duration(t.config.Tools.RegexFileTimeoutMs) * time.Millisecond,
	}

	if info.Mode().IsRegular() {
		rel, relErr := t.relativize(abs)
		if relErr != nil {
			return nil, relErr
		}
		if err := t.scanFile(ctx, abs, rel, state); err != nil {
			return nil, err
		}
		// With a single-file target there are no remaining files to
		// continue with, so the timeout is the call's outcome
		if len(state.timedOut) > 0 {
			return nil, errutil.New(errutil.CodeRegexTimeout, "regex scan of %s exceeded the per-file time budget", rel)
		}
	} else if info.IsDir() {
		visited := make(map[string]bool)
		if err := t.walk(ctx, abs, abs, glob, req.IncludeIgnored, visited, state); err != nil {
			return nil, err
		}
	} else {
		return nil, errutil.New(errutil.CodeNotAFile, "path is neither a file nor a directory: %s", abs)
	}

	// Deterministic output regardless of traversal interleaving
	sort.Slice(state.matches, func(i, j int) bool {
		if state.matches[i].File != state.matches[j].File {
			return state.matches[i].File < state.matches[j].File
		}
		return state.matches[i].LineNumber < state.matches[j].LineNumber
	})

	return &SearchTextResponse{
		Matches:       state.matches,
		FilesScanned:  state.filesScanned,
		Truncated:     state.truncated,
		TimedOutFiles: state.timedOut,
	}, nil
}

// searchState accumulates results across the traversal.
type searchState struct {
	matcher      lineMatcher
	maxMatches   int
	useRegex     bool
	timeout      time.Duration
	matches      []SearchMatch
	filesScanned int
	truncated    bool
	timedOut     []TimedOutFile
}

func (s *searchState) full() bool {
	return len(s.matches) >= s.maxMatches
}

// buildMatcher validates the query up front and returns the per-line test.
// Regex compilation failure short-circuits the whole search.
func (t *Searcher) buildMatcher(req *SearchTextRequest) (lineMatcher, error) {
	if req.UseRegex {
		pattern := req.Query
		if !req.caseSensitive() {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errutil.New(errutil.CodeInvalidRegex, "invalid regex pattern: %v", err)
		}
		return func(line string) (int, int, bool) {
			loc := re.FindStringIndex(line)
			if loc == nil {
				return 0, 0, false
			}
			return loc[0], loc[1], true
		}, nil
	}

	query := req.Query
	fold := !req.caseSensitive()
	if fold {
		query = strings.ToLower(query)
	}
	return func(line string) (int, int, bool) {
		haystack := line
		if fold {
			haystack = strings.ToLower(line)
		}
		idx := strings.Index(haystack, query)
		if idx < 0 {
			return 0, 0, false
		}
		return idx, idx + len(query), true
	}, nil
}

// walk recursively enumerates candidate files under dir, scanning those
// whose path relative to the search root matches the glob.
func (t *Searcher) walk(ctx context.Context, searchRoot, dir, glob string, includeIgnored bool, visited map[string]bool, state *searchState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.full() {
		return nil
	}

	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		canonical = dir
	}
	if visited[canonical] {
		return nil
	}
	visited[canonical] = true

	infos, err := t.fs.ListDir(dir)
	if err != nil {
		return errutil.FromOSError(dir, err)
	}

	for _, info := range infos {
		if state.full() {
			return nil
		}

		name := info.Name()
		entryAbs := filepath.Join(dir, name)

		workspaceRel, err := t.relativize(entryAbs)
		if err != nil {
			return err
		}
		if !includeIgnored && t.ignore != nil && t.ignore.ShouldIgnore(workspaceRel, info.IsDir()) {
			continue
		}

		if info.IsDir() {
			if name == ".git" {
				continue
			}
			if err := t.walk(ctx, searchRoot, entryAbs, glob, includeIgnored, visited, state); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		searchRel, err := filepath.Rel(searchRoot, entryAbs)
		if err != nil {
			return errutil.New(errutil.CodeIO, "failed to relativize %s: %v", entryAbs, err)
		}
		matched, err := doublestar.Match(glob, filepath.ToSlash(searchRel))
		if err != nil {
			return errutil.New(errutil.CodeInvalidArgument, "invalid glob pattern %q: %v", glob, err)
		}
		if !matched {
			continue
		}

		if err := t.scanFile(ctx, entryAbs, workspaceRel, state); err != nil {
			return err
		}
	}

	return nil
}

// scanFile streams one file line-by-line, appending matches until the cap.
func (t *Searcher) scanFile(ctx context.Context, abs, rel string, state *searchState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix, err := t.fs.ReadPrefix(abs, contentutil.BinarySampleSize)
	if err != nil {
		// Files vanishing mid-walk are skipped, not fatal
		if os.IsNotExist(err) {
			return nil
		}
		return errutil.FromOSError(abs, err)
	}
	if contentutil.IsBinaryContent(prefix) {
		return nil
	}

	file, err := t.fs.Open(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errutil.FromOSError(abs, err)
	}
	defer file.Close()

	state.filesScanned++

	var deadline time.Time
	if state.useRegex {
		deadline = time.Now().Add(state.timeout)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, t.config.Tools.InitialScannerBufferSize), t.config.Tools.MaxScanTokenSize)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++

		if state.useRegex && time.Now().After(deadline) {
			state.timedOut = append(state.timedOut, TimedOutFile{
				File:  rel,
				Error: string(errutil.CodeRegexTimeout),
			})
			return nil
		}

		line := scanner.Text()
		start, end, ok := state.matcher(line)
		if !ok {
			continue
		}

		snippet, snipStart, snipEnd := boundSnippet(line, start, end, t.config.Tools.SnippetMaxLength)
		state.matches = append(state.matches, SearchMatch{
			File:       rel,
			LineNumber: lineNumber,
			Snippet:    snippet,
			MatchStart: snipStart,
			MatchEnd:   snipEnd,
		})
		if state.full() {
			state.truncated = true
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return errutil.New(errutil.CodeIO, "failed to scan %s: %v", rel, err)
	}

	return nil
}

// boundSnippet trims a matched line to at most maxLen bytes, centering the
// window on the match, and returns the match offsets within the snippet as
// character (rune) counts. Window edges snap inward to rune boundaries so a
// multi-byte character is never split.
func boundSnippet(line string, start, end, maxLen int) (string, int, int) {
	if len(line) <= maxLen {
		return line, utf8.RuneCountInString(line[:start]), utf8.RuneCountInString(line[:end])
	}

	matchLen := end - start
	if matchLen >= maxLen {
		// Match alone exceeds the budget; show its head
		to := snapBack(line, start, start+maxLen)
		snippet := line[start:to]
		return snippet, 0, utf8.RuneCountInString(snippet)
	}

	// Center the window on the match
	pad := (maxLen - matchLen) / 2
	from := start - pad
	if from < 0 {
		from = 0
	}
	to := from + maxLen
	if to > len(line) {
		to = len(line)
		from = to - maxLen
	}
	from = snapForward(line, from, start)
	to = snapBack(line, end, to)

	return line[from:to],
		utf8.RuneCountInString(line[from:start]),
		utf8.RuneCountInString(line[from:end])
}

// snapForward advances i to the next rune boundary, never past limit.
func snapForward(line string, i, limit int) int {
	for i < limit && !utf8.RuneStart(line[i]) {
		i++
	}
	return i
}

// snapBack retreats i to a rune boundary, never before floor.
func snapBack(line string, floor, i int) int {
	for i > floor && i < len(line) && !utf8.RuneStart(line[i]) {
		i--
	}
	return i
}

// relativize converts an absolute path into the workspace-relative form used
// in results and gitignore matching.
func (t *Searcher) relativize(abs string) (string, error) {
	rel, err := filepath.Rel(t.resolver.Root(), abs)
	if err != nil {
		return "", errutil.New(errutil.CodeIO, "failed to relativize %s: %v", abs, err)
	}
	return filepath.ToSlash(rel), nil
}
