package search

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/fsutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/gitutil"
	"github.com/Cyclone1070/workspacefs/internal/tool/pathutil"
)

func newTestSearcher(t *testing.T, cfg *config.Config) (*Searcher, string) {
	t.Helper()
	root, err := pathutil.CanonicaliseRoot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fs := fsutil.NewOSFileSystem()
	resolver := pathutil.NewResolver(root, fs)
	ignore, err := gitutil.NewIgnoreService(root, fs)
	if err != nil {
		t.Fatal(err)
	}
	return NewSearcher(fs, ignore, resolver, cfg), root
}

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSearchText(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("literal match with glob and offsets", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "notes.md", "first line\nhas a TODO here\nlast line\n")
		writeFile(t, root, "code.go", "// TODO in a non-md file\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "TODO", Glob: "*.md"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 {
			t.Fatalf("got %d matches, want 1", len(resp.Matches))
		}

		m := resp.Matches[0]
		if m.File != "notes.md" {
			t.Errorf("File = %s", m.File)
		}
		if m.LineNumber != 2 {
			t.Errorf("LineNumber = %d", m.LineNumber)
		}
		if m.Snippet != "has a TODO here" {
			t.Errorf("Snippet = %q", m.Snippet)
		}
		if m.Snippet[m.MatchStart:m.MatchEnd] != "TODO" {
			t.Errorf("offsets %d-%d select %q", m.MatchStart, m.MatchEnd, m.Snippet[m.MatchStart:m.MatchEnd])
		}
	})

	t.Run("single file target ignores glob", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "a.txt", "needle\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "needle", Path: "a.txt", Glob: "*.md"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 {
			t.Errorf("got %d matches", len(resp.Matches))
		}
	})

	t.Run("case insensitive literal", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "a.txt", "Needle\n")

		caseSensitive := false
		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "needle", CaseSensitive: &caseSensitive})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 {
			t.Fatalf("got %d matches", len(resp.Matches))
		}
		m := resp.Matches[0]
		if m.Snippet[m.MatchStart:m.MatchEnd] != "Needle" {
			t.Errorf("offsets select %q", m.Snippet[m.MatchStart:m.MatchEnd])
		}
	})

	t.Run("case sensitive by default", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "a.txt", "Needle\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "needle"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 0 {
			t.Errorf("got %d matches, want 0", len(resp.Matches))
		}
	})

	t.Run("regex match", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "a.txt", "err123 and err456\nnothing\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: `err\d+`, UseRegex: true})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 {
			t.Fatalf("got %d matches", len(resp.Matches))
		}
		m := resp.Matches[0]
		if m.Snippet[m.MatchStart:m.MatchEnd] != "err123" {
			t.Errorf("offsets select %q", m.Snippet[m.MatchStart:m.MatchEnd])
		}
	})

	t.Run("invalid regex short circuits", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "a.txt", "content\n")

		_, err := searcher.Run(ctx, &SearchTextRequest{Query: "(unclosed", UseRegex: true})
		if errutil.CodeOf(err) != errutil.CodeInvalidRegex {
			t.Errorf("err = %v, want invalid_regex", err)
		}
	})

	t.Run("max matches truncates", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "a.txt", strings.Repeat("hit\n", 10))

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "hit", MaxMatches: 3})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 3 {
			t.Errorf("got %d matches, want 3", len(resp.Matches))
		}
		if !resp.Truncated {
			t.Error("Truncated = false")
		}
	})

	t.Run("binary files are skipped", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "bin", "hit\x00hit")
		writeFile(t, root, "text.txt", "hit\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "hit"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 || resp.Matches[0].File != "text.txt" {
			t.Errorf("matches = %+v", resp.Matches)
		}
	})

	t.Run("exhausted file budget is reported per file", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Tools.RegexFileTimeoutMs = 0
		searcher, root := newTestSearcher(t, cfg)
		writeFile(t, root, "a.txt", strings.Repeat("hit\n", 10))
		writeFile(t, root, "b.txt", strings.Repeat("hit\n", 10))

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "hit", UseRegex: true})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 0 {
			t.Errorf("got %d matches", len(resp.Matches))
		}
		if len(resp.TimedOutFiles) != 2 {
			t.Fatalf("TimedOutFiles = %+v", resp.TimedOutFiles)
		}
		for _, timedOut := range resp.TimedOutFiles {
			if timedOut.Error != string(errutil.CodeRegexTimeout) {
				t.Errorf("timed-out file %s carries code %q", timedOut.File, timedOut.Error)
			}
		}
	})

	t.Run("single file target surfaces the timeout code", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Tools.RegexFileTimeoutMs = 0
		searcher, root := newTestSearcher(t, cfg)
		writeFile(t, root, "a.txt", strings.Repeat("hit\n", 10))

		_, err := searcher.Run(ctx, &SearchTextRequest{Query: "hit", Path: "a.txt", UseRegex: true})
		if errutil.CodeOf(err) != errutil.CodeRegexTimeout {
			t.Errorf("err = %v, want regex_timeout", err)
		}
	})

	t.Run("literal mode is not subject to the regex budget", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Tools.RegexFileTimeoutMs = 0
		searcher, root := newTestSearcher(t, cfg)
		writeFile(t, root, "a.txt", "hit\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "hit"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 || len(resp.TimedOutFiles) != 0 {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("long lines get bounded snippets", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Tools.SnippetMaxLength = 20
		searcher, root := newTestSearcher(t, cfg)
		line := strings.Repeat("x", 100) + "needle" + strings.Repeat("y", 100)
		writeFile(t, root, "a.txt", line+"\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "needle"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 {
			t.Fatalf("got %d matches", len(resp.Matches))
		}
		m := resp.Matches[0]
		if len(m.Snippet) > 20 {
			t.Errorf("snippet length = %d", len(m.Snippet))
		}
		if m.Snippet[m.MatchStart:m.MatchEnd] != "needle" {
			t.Errorf("offsets select %q", m.Snippet[m.MatchStart:m.MatchEnd])
		}
	})

	t.Run("offsets are character counts", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "a.txt", "café née bar\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "née"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 {
			t.Fatalf("got %d matches", len(resp.Matches))
		}
		m := resp.Matches[0]
		if m.MatchStart != 5 || m.MatchEnd != 8 {
			t.Errorf("offsets = %d-%d, want 5-8", m.MatchStart, m.MatchEnd)
		}
		if got := string([]rune(m.Snippet)[m.MatchStart:m.MatchEnd]); got != "née" {
			t.Errorf("offsets select %q", got)
		}
	})

	t.Run("bounded snippets never split a rune", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Tools.SnippetMaxLength = 20
		searcher, root := newTestSearcher(t, cfg)
		line := strings.Repeat("é", 50) + "needle" + strings.Repeat("ü", 50)
		writeFile(t, root, "a.txt", line+"\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "needle"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 {
			t.Fatalf("got %d matches", len(resp.Matches))
		}
		m := resp.Matches[0]
		if !utf8.ValidString(m.Snippet) {
			t.Errorf("snippet is not valid UTF-8: %q", m.Snippet)
		}
		if len(m.Snippet) > 20 {
			t.Errorf("snippet length = %d bytes", len(m.Snippet))
		}
		if got := string([]rune(m.Snippet)[m.MatchStart:m.MatchEnd]); got != "needle" {
			t.Errorf("offsets select %q", got)
		}
	})

	t.Run("results are ordered by file then line", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "b.txt", "hit\n")
		writeFile(t, root, "a.txt", "miss\nhit\nhit\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "hit"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 3 {
			t.Fatalf("got %d matches", len(resp.Matches))
		}
		if resp.Matches[0].File != "a.txt" || resp.Matches[0].LineNumber != 2 {
			t.Errorf("first match = %+v", resp.Matches[0])
		}
		if resp.Matches[2].File != "b.txt" {
			t.Errorf("last match = %+v", resp.Matches[2])
		}
	})

	t.Run("empty query is invalid", func(t *testing.T) {
		searcher, _ := newTestSearcher(t, config.DefaultConfig())

		_, err := searcher.Run(ctx, &SearchTextRequest{})
		if errutil.CodeOf(err) != errutil.CodeInvalidArgument {
			t.Errorf("err = %v, want invalid_argument", err)
		}
	})

	t.Run("traversal is rejected", func(t *testing.T) {
		searcher, _ := newTestSearcher(t, config.DefaultConfig())

		_, err := searcher.Run(ctx, &SearchTextRequest{Query: "x", Path: "../elsewhere"})
		if errutil.CodeOf(err) != errutil.CodePathTraversal {
			t.Errorf("err = %v, want path_traversal_attempt", err)
		}
	})

	t.Run("nested files match double star glob", func(t *testing.T) {
		searcher, root := newTestSearcher(t, config.DefaultConfig())
		writeFile(t, root, "deep/nested/file.txt", "needle\n")

		resp, err := searcher.Run(ctx, &SearchTextRequest{Query: "needle"})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(resp.Matches) != 1 || resp.Matches[0].File != "deep/nested/file.txt" {
			t.Errorf("matches = %+v", resp.Matches)
		}
	})
}
