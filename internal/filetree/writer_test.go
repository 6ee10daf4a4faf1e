package filetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
	"github.com/felixgeelhaar/crewgen/internal/extract"
)

func TestWriteAllCreatesTree(t *testing.T) {
	base := filepath.Join(t.TempDir(), "backend_app")
	w := NewWriter(base)

	var reported []Event
	w.Reporter = func(ev Event) { reported = append(reported, ev) }

	events, err := w.WriteAll([]extract.FileRecord{
		{Path: "app/models.py", Content: "class Contact: pass"},
		{Path: "app/routers/contacts.py", Content: "router = None"},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, events, reported)

	for _, ev := range events {
		assert.Equal(t, StatusCreated, ev.Status)
	}

	got, err := os.ReadFile(filepath.Join(base, "app", "routers", "contacts.py"))
	require.NoError(t, err)
	assert.Equal(t, "router = None", string(got))
	assert.Equal(t, Digest([]byte("router = None")), events[1].Digest)
}

func TestWriteIsIdempotent(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base)
	recs := []extract.FileRecord{{Path: "main.py", Content: "print('hi')"}}

	first, err := w.WriteAll(recs)
	require.NoError(t, err)
	firstBytes, err := os.ReadFile(filepath.Join(base, "main.py"))
	require.NoError(t, err)

	second, err := w.WriteAll(recs)
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(filepath.Join(base, "main.py"))
	require.NoError(t, err)

	assert.Equal(t, firstBytes, secondBytes)
	assert.Equal(t, StatusCreated, first[0].Status)
	assert.Equal(t, StatusUnchanged, second[0].Status)
	assert.Equal(t, first[0].Digest, second[0].Digest)
}

func TestWriteOverwrites(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base)

	_, err := w.Write(extract.FileRecord{Path: "a.txt", Content: "a much longer original body"})
	require.NoError(t, err)
	ev, err := w.Write(extract.FileRecord{Path: "a.txt", Content: "short"})
	require.NoError(t, err)

	assert.Equal(t, StatusUpdated, ev.Status)
	got, err := os.ReadFile(filepath.Join(base, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "short", string(got))
}

func TestWriteRejectsEscapes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantCode crewerrors.ErrorCode
	}{
		{"parent traversal", "../evil.py", crewerrors.ErrCodePathEscapesBase},
		{"nested traversal", "app/../../evil.py", crewerrors.ErrCodePathEscapesBase},
		{"absolute path", "/etc/passwd", crewerrors.ErrCodePathEscapesBase},
		{"empty path", "  ", crewerrors.ErrCodePathEmpty},
		{"base itself", "app/..", crewerrors.ErrCodePathEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := t.TempDir()
			base := filepath.Join(parent, "out")
			w := NewWriter(base)

			_, err := w.Write(extract.FileRecord{Path: tt.path, Content: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, crewerrors.CodeOf(err))

			_, statErr := os.Stat(filepath.Join(parent, "evil.py"))
			assert.True(t, os.IsNotExist(statErr), "nothing may be written outside the base")
		})
	}
}

func TestWriteAllStopsAtFirstError(t *testing.T) {
	w := NewWriter(t.TempDir())

	events, err := w.WriteAll([]extract.FileRecord{
		{Path: "ok.py", Content: "1"},
		{Path: "../bad.py", Content: "2"},
		{Path: "never.py", Content: "3"},
	})

	require.Error(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ok.py", events[0].Path)
	_, statErr := os.Stat(filepath.Join(w.Base, "never.py"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDryRunWritesNothing(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	w := &Writer{Base: base, DryRun: true}

	ev, err := w.Write(extract.FileRecord{Path: "app/main.py", Content: "x = 1"})
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, ev.Status)
	_, statErr := os.Stat(base)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDigestIsStable(t *testing.T) {
	a := Digest([]byte("hello"))

	assert.Len(t, a, 64)
	assert.Equal(t, a, Digest([]byte("hello")))
	assert.NotEqual(t, a, Digest([]byte("hello!")))
}

func TestWriteRejectsSymlinkOutOfBase(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "out")
	outside := filepath.Join(parent, "elsewhere")
	require.NoError(t, os.MkdirAll(base, 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))
	if err := os.Symlink(outside, filepath.Join(base, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	w := NewWriter(base)
	for _, path := range []string{"link/evil.py", "link/deeper/evil.py"} {
		_, err := w.Write(extract.FileRecord{Path: path, Content: "x"})
		require.Error(t, err, path)
		assert.Equal(t, crewerrors.ErrCodePathEscapesBase, crewerrors.CodeOf(err))
	}

	entries, err := os.ReadDir(outside)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written through the link")
}

func TestWriteFollowsSymlinkInsideBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "real"), 0o755))
	if err := os.Symlink(filepath.Join(base, "real"), filepath.Join(base, "alias")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	w := NewWriter(base)
	ev, err := w.Write(extract.FileRecord{Path: "alias/app.py", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, ev.Status)

	got, err := os.ReadFile(filepath.Join(base, "real", "app.py"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}
