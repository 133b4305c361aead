package diff

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleFile(t *testing.T) {
	t.Parallel()

	input := "--- a/greet.txt\n" +
		"+++ b/greet.txt\n" +
		"@@ -1,3 +1,3 @@\n" +
		" hello\n" +
		"-goodbye world\n" +
		"+goodbye moon\n" +
		" farewell\n"

	files, err := Parse(SplitLines(input))
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Empty(t, f.Headers)
	assert.Equal(t, "--- a/greet.txt\n", f.OldPath)
	assert.Equal(t, "+++ b/greet.txt\n", f.NewPath)
	require.Len(t, f.Hunks, 1)

	h := f.Hunks[0]
	assert.Equal(t, "@@ -1,3 +1,3 @@\n", h.Header)
	assert.Equal(t, 1, h.OldStart)
	assert.Equal(t, 3, h.OldLen)
	assert.Equal(t, 1, h.NewStart)
	assert.Equal(t, 3, h.NewLen)

	want := []Record{
		{Kind: LineContext, Text: "hello\n"},
		{Kind: LineRemoved, Text: "goodbye world\n"},
		{Kind: LineAdded, Text: "goodbye moon\n"},
		{Kind: LineContext, Text: "farewell\n"},
	}
	assert.Equal(t, want, h.Records)
}

func TestParseHunkHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    [4]int
		wantErr bool
	}{
		{
			name: "both lengths spelled out",
			line: "@@ -3,7 +3,6 @@\n",
			want: [4]int{3, 7, 3, 6},
		},
		{
			name: "omitted length defaults to zero",
			line: "@@ -1 +1,2 @@\n",
			want: [4]int{1, 0, 1, 2},
		},
		{
			name: "zero length insertion point",
			line: "@@ -5,0 +6,3 @@\n",
			want: [4]int{5, 0, 6, 3},
		},
		{
			name: "section heading after the ranges",
			line: "@@ -10,3 +10,3 @@ func main() {\n",
			want: [4]int{10, 3, 10, 3},
		},
		{
			name:    "malformed ranges",
			line:    "@@ -x,y +1,2 @@\n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, err := parseHunkHeader(tc.line)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.line, h.Header)
			got := [4]int{h.OldStart, h.OldLen, h.NewStart, h.NewLen}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	junk := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteString("noise\n")
		}
		return b.String()
	}
	patch := "--- a/f\n+++ b/f\n@@ -1,1 +1,1 @@\n-x\n+y\n"

	t.Run("marker on the last window line", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, detectFormat(SplitLines(junk(19)+patch)))
	})

	t.Run("marker just past the window", func(t *testing.T) {
		t.Parallel()
		_, err := Parse(SplitLines(junk(20) + patch))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("no marker at all", func(t *testing.T) {
		t.Parallel()
		_, err := Parse(SplitLines("just\nsome\ntext\n"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		_, err := Parse(nil)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}

// TestParseCommitMetadata exercises the log output of git, where commit
// metadata and an indented message precede each file diff.
func TestParseCommitMetadata(t *testing.T) {
	t.Parallel()

	input := "commit 0123456789abcdef0123456789abcdef01234567\n" +
		"Author: A U Thor <author@example.com>\n" +
		"Date:   Mon Sep 15 00:00:00 2025\n" +
		"\n" +
		"    Teach the frobnicator to frob\n" +
		"\n" +
		"diff --git a/f b/f\n" +
		"index 0123456..89abcde 100644\n" +
		"--- a/f\n" +
		"+++ b/f\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-a\n" +
		"+b\n"

	files, err := Parse(SplitLines(input))
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	require.Len(t, f.Headers, 8)
	assert.Equal(t, "commit 0123456789abcdef0123456789abcdef01234567\n", f.Headers[0])
	assert.Equal(t, "    Teach the frobnicator to frob\n", f.Headers[4])
	assert.Equal(t, "index 0123456..89abcde 100644\n", f.Headers[7])
	assert.Equal(t, "--- a/f\n", f.OldPath)
	require.Len(t, f.Hunks, 1)
}

func TestParseMultipleFiles(t *testing.T) {
	t.Parallel()

	t.Run("second file opens with metadata", func(t *testing.T) {
		t.Parallel()
		input := "--- a/one\n" +
			"+++ b/one\n" +
			"@@ -1,1 +1,1 @@\n" +
			"-a\n" +
			"+b\n" +
			"diff --git a/two b/two\n" +
			"--- a/two\n" +
			"+++ b/two\n" +
			"@@ -2,1 +2,1 @@\n" +
			"-c\n" +
			"+d\n"

		files, err := Parse(SplitLines(input))
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Empty(t, files[0].Headers)
		assert.Equal(t, "--- a/one\n", files[0].OldPath)
		assert.Equal(t, []string{"diff --git a/two b/two\n"}, files[1].Headers)
		assert.Equal(t, "--- a/two\n", files[1].OldPath)
	})

	t.Run("second file opens with its old path", func(t *testing.T) {
		t.Parallel()
		input := "--- a/one\n" +
			"+++ b/one\n" +
			"@@ -1,1 +1,1 @@\n" +
			"-a\n" +
			"+b\n" +
			"--- a/two\n" +
			"+++ b/two\n" +
			"@@ -1,1 +1,1 @@\n" +
			"-c\n" +
			"+d\n"

		files, err := Parse(SplitLines(input))
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "--- a/two\n", files[1].OldPath)
		assert.Empty(t, files[1].Headers)
	})
}

func TestParseMissingNewlineMarker(t *testing.T) {
	t.Parallel()

	input := "--- a/f\n" +
		"+++ b/f\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-old\n" +
		"\\ No newline at end of file\n" +
		"+new\n" +
		"\\ No newline at end of file\n"

	files, err := Parse(SplitLines(input))
	require.NoError(t, err)
	require.Len(t, files, 1)

	want := []Record{
		{Kind: LineRemoved, Text: "old\n"},
		{Kind: LineAdded, Text: "new\n"},
	}
	assert.Equal(t, want, files[0].Hunks[0].Records)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "new path before old path",
			input: "+++ b/f\n--- a/f\n@@ -1,1 +1,1 @@\n-a\n+b\n",
			want:  ErrInvalidPatch,
		},
		{
			name:  "hunk header before any path",
			input: "@@ -1,1 +1,1 @@\n-a\n+b\n",
			want:  ErrInvalidPatch,
		},
		{
			name:  "body line before any hunk",
			input: "--- a/f\n+++ b/f\n c\n",
			want:  ErrInvalidPatch,
		},
		{
			name:  "file without hunks",
			input: "--- a/one\n+++ b/one\n--- a/two\n+++ b/two\n@@ -1,1 +1,1 @@\n-a\n+b\n",
			want:  ErrInvalidPatch,
		},
		{
			name:  "old path dangling mid stream",
			input: "--- a/one\ndiff --git a/two b/two\n--- a/two\n+++ b/two\n@@ -1,1 +1,1 @@\n-a\n+b\n",
			want:  ErrInvalidPatch,
		},
		{
			name:  "stray at sign line",
			input: "--- a/f\n+++ b/f\n@@ -1,1 +1,1 @@\n-a\n+b\n@x\n",
			want:  ErrInvalidPatch,
		},
		{
			name:  "old path dangling at end of input",
			input: "--- a/f\n",
			want:  ErrIncompletePatch,
		},
		{
			name:  "trailing metadata at end of input",
			input: "--- a/f\n+++ b/f\n@@ -1,1 +1,1 @@\n-a\n+b\ndiff --git a/g b/g\nindex 012..345 100644\n",
			want:  ErrIncompletePatch,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(SplitLines(tc.input))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// messageHandler records every log message it handles. It stands in for the
// default slog handler while address mismatch warnings are provoked.
type messageHandler struct {
	mu       sync.Mutex
	messages []string
}

func (h *messageHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *messageHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, r.Message)
	return nil
}

func (h *messageHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *messageHandler) WithGroup(string) slog.Handler      { return h }

func TestParseAddressMismatch(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	t.Run("declared length disagrees with body", func(t *testing.T) {
		h := &messageHandler{}
		slog.SetDefault(slog.New(h))

		input := "--- a/f\n+++ b/f\n@@ -1,3 +1,1 @@\n-a\n+b\n"
		_, err := Parse(SplitLines(input))
		require.NoError(t, err)

		require.Len(t, h.messages, 1)
		assert.Contains(t, h.messages[0], "old range")
	})

	t.Run("omitted length is never checked", func(t *testing.T) {
		h := &messageHandler{}
		slog.SetDefault(slog.New(h))

		input := "--- a/f\n+++ b/f\n@@ -1 +1,1 @@\n-a\n+b\n"
		_, err := Parse(SplitLines(input))
		require.NoError(t, err)
		assert.Empty(t, h.messages)
	})
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminated lines",
			text: "a\nb\n",
			want: []string{"a\n", "b\n"},
		},
		{
			name: "unterminated final line",
			text: "a\nb",
			want: []string{"a\n", "b"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "lone newline",
			text: "\n",
			want: []string{"\n"},
		},
		{
			name: "carriage returns survive",
			text: "a\r\nb\r\n",
			want: []string{"a\r\n", "b\r\n"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, SplitLines(tc.text))
		})
	}
}
