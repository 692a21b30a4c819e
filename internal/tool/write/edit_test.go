package write

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/tool/errutil"
)

func TestApplyTextEdit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("single occurrence is replaced", func(t *testing.T) {
		gate, root := newTestGate(t, writableConfig())
		if err := os.WriteFile(filepath.Join(root, "a.py"), []byte("def foo():\n    pass\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		resp, err := gate.ApplyTextEdit(ctx, &ApplyTextEditRequest{
			Path:            "a.py",
			ExpectedText:    "foo",
			ReplacementText: "bar",
		})
		if err != nil {
			t.Fatalf("ApplyTextEdit failed: %v", err)
		}
		if resp.Replacements != 1 {
			t.Errorf("Replacements = %d", resp.Replacements)
		}
		if resp.SizeBefore != 20 || resp.SizeAfter != 20 {
			t.Errorf("sizes = %d -> %d", resp.SizeBefore, resp.SizeAfter)
		}
		if got := readBack(t, root, "a.py"); got != "def bar():\n    pass\n" {
			t.Errorf("content = %q", got)
		}
		if !strings.Contains(resp.Diff, "-def foo():") || !strings.Contains(resp.Diff, "+def bar():") {
			t.Errorf("Diff = %q", resp.Diff)
		}
		if resp.LinesAdded != 1 || resp.LinesRemoved != 1 {
			t.Errorf("diff counts = +%d -%d", resp.LinesAdded, resp.LinesRemoved)
		}
	})

	t.Run("no occurrence", func(t *testing.T) {
		gate, root := newTestGate(t, writableConfig())
		if err := os.WriteFile(filepath.Join(root, "a.py"), []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := gate.ApplyTextEdit(ctx, &ApplyTextEditRequest{
			Path:            "a.py",
			ExpectedText:    "absent",
			ReplacementText: "x",
		})
		if errutil.CodeOf(err) != errutil.CodeMatchNotFound {
			t.Errorf("err = %v, want match_not_found", err)
		}
	})

	t.Run("multiple occurrences leave file unmodified", func(t *testing.T) {
		gate, root := newTestGate(t, writableConfig())
		original := "foo\nmiddle\nfoo\n"
		if err := os.WriteFile(filepath.Join(root, "a.py"), []byte(original), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := gate.ApplyTextEdit(ctx, &ApplyTextEditRequest{
			Path:            "a.py",
			ExpectedText:    "foo",
			ReplacementText: "bar",
		})
		if errutil.CodeOf(err) != errutil.CodeMultipleMatches {
			t.Errorf("err = %v, want multiple_matches", err)
		}
		if got := readBack(t, root, "a.py"); got != original {
			t.Errorf("content = %q, file must be untouched", got)
		}
	})

	t.Run("replace all opts into bulk replacement", func(t *testing.T) {
		gate, root := newTestGate(t, writableConfig())
		if err := os.WriteFile(filepath.Join(root, "a.py"), []byte("foo foo foo"), 0o644); err != nil {
			t.Fatal(err)
		}

		resp, err := gate.ApplyTextEdit(ctx, &ApplyTextEditRequest{
			Path:            "a.py",
			ExpectedText:    "foo",
			ReplacementText: "bar",
			ReplaceAll:      true,
		})
		if err != nil {
			t.Fatalf("ApplyTextEdit failed: %v", err)
		}
		if resp.Replacements != 3 {
			t.Errorf("Replacements = %d", resp.Replacements)
		}
		if got := readBack(t, root, "a.py"); got != "bar bar bar" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("stale expected text after a successful edit", func(t *testing.T) {
		gate, root := newTestGate(t, writableConfig())
		if err := os.WriteFile(filepath.Join(root, "a.py"), []byte("v1"), 0o644); err != nil {
			t.Fatal(err)
		}

		req := &ApplyTextEditRequest{Path: "a.py", ExpectedText: "v1", ReplacementText: "v2"}
		if _, err := gate.ApplyTextEdit(ctx, req); err != nil {
			t.Fatal(err)
		}

		_, err := gate.ApplyTextEdit(ctx, req)
		if errutil.CodeOf(err) != errutil.CodeMatchNotFound {
			t.Errorf("err = %v, want match_not_found", err)
		}
		if got := readBack(t, root, "a.py"); got != "v2" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("empty expected text", func(t *testing.T) {
		gate, _ := newTestGate(t, writableConfig())

		_, err := gate.ApplyTextEdit(ctx, &ApplyTextEditRequest{Path: "a.py", ReplacementText: "x"})
		if errutil.CodeOf(err) != errutil.CodeEmptyExpectedText {
			t.Errorf("err = %v, want empty_expected_text", err)
		}
	})

	t.Run("binary file is rejected", func(t *testing.T) {
		gate, root := newTestGate(t, writableConfig())
		if err := os.WriteFile(filepath.Join(root, "bin"), []byte("a\x00b"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := gate.ApplyTextEdit(ctx, &ApplyTextEditRequest{Path: "bin", ExpectedText: "a", ReplacementText: "x"})
		if errutil.CodeOf(err) != errutil.CodeIsBinary {
			t.Errorf("err = %v, want is_binary", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		gate, _ := newTestGate(t, writableConfig())

		_, err := gate.ApplyTextEdit(ctx, &ApplyTextEditRequest{Path: "absent", ExpectedText: "a", ReplacementText: "b"})
		if errutil.CodeOf(err) != errutil.CodeNotFound {
			t.Errorf("err = %v, want not_found", err)
		}
	})

	t.Run("disabled writes reject edits", func(t *testing.T) {
		gate, _ := newTestGate(t, config.DefaultConfig())

		_, err := gate.ApplyTextEdit(ctx, &ApplyTextEditRequest{Path: "a", ExpectedText: "a", ReplacementText: "b"})
		if errutil.CodeOf(err) != errutil.CodeWritesDisabled {
			t.Errorf("err = %v, want writes_disabled", err)
		}
	})

	t.Run("file permissions survive the edit", func(t *testing.T) {
		gate, root := newTestGate(t, writableConfig())
		path := filepath.Join(root, "script.sh")
		if err := os.WriteFile(path, []byte("echo old"), 0o755); err != nil {
			t.Fatal(err)
		}

		if _, err := gate.ApplyTextEdit(ctx, &ApplyTextEditRequest{Path: "script.sh", ExpectedText: "old", ReplacementText: "new"}); err != nil {
			t.Fatal(err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("perm = %o, want 755", info.Mode().Perm())
		}
	})
}
