// Package output persists a finished run to disk.
package output

import (
	"bytes"
	"encoding/json"
	"path/filepath"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
	"github.com/felixgeelhaar/crewgen/internal/extract"
	"github.com/felixgeelhaar/crewgen/internal/filetree"
	"github.com/felixgeelhaar/crewgen/internal/log"
	"github.com/felixgeelhaar/crewgen/internal/orchestrator"
)

// Default file names, relative to Store.Dir
const (
	DefaultRunFile      = "output.json"
	DefaultFrontendFile = "frontend_output.js"
	DefaultBackendFile  = "backend_output.py"
	DefaultBackendDir   = "backend_app"
	ManifestFile        = "manifest.json"
)

// Store writes run artifacts beneath Dir.
type Store struct {
	Dir string

	RunFile      string
	FrontendFile string
	BackendFile  string

	// BackendDir receives files reconstructed from path-annotated backend code
	BackendDir string

	// Tree enables backend file reconstruction
	Tree bool

	Reporter filetree.Reporter
	Logger   *log.Logger
}

// Manifest lists every file a Save touched.
type Manifest struct {
	RunID string           `json:"run_id"`
	Files []filetree.Event `json:"files"`
}

// NewStore returns a Store with the default file names and tree
// reconstruction enabled.
func NewStore(dir string) *Store {
	return &Store{
		Dir:          dir,
		RunFile:      DefaultRunFile,
		FrontendFile: DefaultFrontendFile,
		BackendFile:  DefaultBackendFile,
		BackendDir:   DefaultBackendDir,
		Tree:         true,
	}
}

// Save writes the run document, both code files, the reconstructed backend
// tree when the backend code carries file markers, and finally the manifest.
// Writes are not transactional: files written before an error stay on disk.
func (s *Store) Save(result *orchestrator.Result) (*Manifest, error) {
	m := &Manifest{RunID: result.RunID}

	doc, err := encodeJSON(result)
	if err != nil {
		return nil, err
	}

	w := s.writer(s.Dir)
	for _, rec := range []extract.FileRecord{
		{Path: s.RunFile, Content: doc, Language: "json"},
		{Path: s.FrontendFile, Content: result.FrontendCode},
		{Path: s.BackendFile, Content: result.BackendCode},
	} {
		ev, err := w.Write(rec)
		if err != nil {
			return m, err
		}
		m.Files = append(m.Files, ev)
	}

	if s.Tree {
		events, err := s.WriteTree(result.BackendCode)
		m.Files = append(m.Files, events...)
		if err != nil {
			return m, err
		}
	}

	manifest, err := encodeJSON(m)
	if err != nil {
		return m, err
	}
	if _, err := w.Write(extract.FileRecord{Path: ManifestFile, Content: manifest}); err != nil {
		return m, err
	}
	return m, nil
}

// WriteTree reconstructs the files annotated in code under BackendDir. Code
// without file markers writes nothing.
func (s *Store) WriteTree(code string) ([]filetree.Event, error) {
	records := extract.ExtractFiles(code)
	if len(records) == 0 {
		return nil, nil
	}
	s.logger().Debug("reconstructing backend tree", "files", len(records), "dir", s.BackendDir)
	return s.writer(filepath.Join(s.Dir, s.BackendDir)).WriteAll(records)
}

func (s *Store) writer(base string) *filetree.Writer {
	return &filetree.Writer{Base: base, Reporter: s.Reporter, Logger: s.Logger}
}

func (s *Store) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.DefaultLogger()
}

// encodeJSON indents with two spaces and leaves <, > and & unescaped so
// generated code stays readable.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", crewerrors.Wrap(crewerrors.ErrCodeFileMarshal, "failed to encode JSON", err)
	}
	return buf.String(), nil
}
