// Package filetree materializes extracted file records under a base directory.
package filetree

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
	"github.com/felixgeelhaar/crewgen/internal/extract"
	"github.com/felixgeelhaar/crewgen/internal/log"
)

// Status describes what a write did to the file on disk.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
)

// Event reports one materialized file.
type Event struct {
	// Path is the record path as extracted; Target is the resolved location.
	Path   string `json:"path"`
	Target string `json:"target"`
	Status Status `json:"status"`
	Digest string `json:"digest"`
	Bytes  int    `json:"bytes"`
}

// Reporter receives an Event after each file is handled.
type Reporter func(Event)

// Writer writes file records beneath Base. Every target must resolve inside
// Base; absolute paths, ".." escapes and symlinks leading out are rejected.
type Writer struct {
	Base string

	// DryRun computes events without touching the filesystem.
	DryRun bool

	Reporter Reporter
	Logger   *log.Logger
}

// NewWriter returns a Writer rooted at base.
func NewWriter(base string) *Writer {
	return &Writer{Base: base}
}

// Resolve maps a record path to an absolute path inside Base.
func (w *Writer) Resolve(rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", crewerrors.New(crewerrors.ErrCodePathEmpty, "generated file has an empty path")
	}

	base, err := filepath.Abs(w.Base)
	if err != nil {
		return "", crewerrors.Wrap(crewerrors.ErrCodeDirectoryFailed, "failed to resolve base directory", err)
	}

	local := filepath.FromSlash(rel)
	if filepath.IsAbs(local) || filepath.VolumeName(local) != "" || strings.HasPrefix(rel, "/") {
		return "", crewerrors.NewPathEscapesBaseError(rel, base)
	}

	target := filepath.Join(base, local)
	if !within(base, target) {
		return "", crewerrors.NewPathEscapesBaseError(rel, base)
	}
	if target == base {
		return "", crewerrors.New(crewerrors.ErrCodePathEmpty,
			"generated file path resolves to the base directory: "+rel)
	}

	// A symlink already on disk under base could still lead outside it.
	realBase, err := resolveExisting(base)
	if err != nil {
		return "", crewerrors.Wrap(crewerrors.ErrCodeDirectoryFailed, "failed to resolve base directory", err)
	}
	realTarget, err := resolveExisting(target)
	if err != nil {
		return "", crewerrors.Wrap(crewerrors.ErrCodeDirectoryFailed, "failed to resolve target: "+target, err)
	}
	if !within(realBase, realTarget) {
		return "", crewerrors.NewPathEscapesBaseError(rel, base)
	}
	return target, nil
}

// resolveExisting evaluates symlinks in the longest existing prefix of path
// and appends the components that do not exist yet.
func resolveExisting(path string) (string, error) {
	var missing []string
	cur := path
	for {
		_, err := os.Lstat(cur)
		if err == nil {
			break
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return path, nil
		}
		missing = append(missing, filepath.Base(cur))
		cur = parent
	}

	resolved, err := filepath.EvalSymlinks(cur)
	if err != nil {
		return "", err
	}
	for i := len(missing) - 1; i >= 0; i-- {
		resolved = filepath.Join(resolved, missing[i])
	}
	return resolved, nil
}

func within(base, target string) bool {
	inside, err := filepath.Rel(base, target)
	return err == nil && inside != ".." && !strings.HasPrefix(inside, ".."+string(filepath.Separator))
}

// Write materializes one record. Missing parent directories are created and
// an existing file is overwritten unless its content is already identical.
func (w *Writer) Write(rec extract.FileRecord) (Event, error) {
	target, err := w.Resolve(rec.Path)
	if err != nil {
		return Event{}, err
	}

	content := []byte(rec.Content)
	event := Event{
		Path:   rec.Path,
		Target: target,
		Status: StatusCreated,
		Digest: Digest(content),
		Bytes:  len(content),
	}

	existing, err := os.ReadFile(target)
	switch {
	case err == nil && bytes.Equal(existing, content):
		event.Status = StatusUnchanged
	case err == nil:
		event.Status = StatusUpdated
	case !os.IsNotExist(err):
		return Event{}, crewerrors.Wrap(crewerrors.ErrCodeFileReadFailed, "failed to read existing file: "+target, err)
	}

	if !w.DryRun && event.Status != StatusUnchanged {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return Event{}, crewerrors.Wrap(crewerrors.ErrCodeDirectoryFailed, "failed to create directory: "+filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return Event{}, crewerrors.NewFileWriteError(target, err)
		}
	}

	w.logger().Debug("materialized file",
		"path", rec.Path, "status", string(event.Status), "bytes", event.Bytes, "dry_run", w.DryRun)
	if w.Reporter != nil {
		w.Reporter(event)
	}
	return event, nil
}

// WriteAll writes records in order and stops at the first error, returning
// the events for the files handled before it.
func (w *Writer) WriteAll(recs []extract.FileRecord) ([]Event, error) {
	events := make([]Event, 0, len(recs))
	for _, rec := range recs {
		ev, err := w.Write(rec)
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (w *Writer) logger() *log.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return log.DefaultLogger()
}
