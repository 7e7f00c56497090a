package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store resolves workflow filenames inside a working directory. With an empty scope
// every run shares the fixed filenames, so two candidates processed in the same
// directory overwrite each other. A candidate scope moves the files into a
// per-candidate subdirectory.
type Store struct {
	dir   string
	scope string
}

func NewStore(dir, scope string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir, scope: scope}
}

// Scoped returns a store rooted in the same directory for another candidate.
func (s *Store) Scoped(scope string) *Store {
	return &Store{dir: s.dir, scope: scope}
}

func (s *Store) Scope() string { return s.scope }

// Root is the directory holding this store's artifacts.
func (s *Store) Root() string {
	if s.scope == "" {
		return s.dir
	}
	return filepath.Join(s.dir, s.scope)
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.Root(), name)
}

func (s *Store) WorkflowPath(p Phase) string {
	return s.Path(ContractFor(p).WorkflowFile)
}

func (s *Store) TracePath(p Phase) string {
	return s.Path(ContractFor(p).TraceFile)
}

func (s *Store) Exists(p Phase) bool {
	_, err := os.Stat(s.WorkflowPath(p))
	return err == nil
}

// Save writes output unchanged to the phase's trace file and its workflow file. Both
// are staged before either is moved into place. It returns the paths written.
func (s *Store) Save(p Phase, output string) ([]string, error) {
	c := ContractFor(p)
	trace, workflow := s.Path(c.TraceFile), s.Path(c.WorkflowFile)

	traceTmp, err := stage(trace, []byte(output))
	if err != nil {
		return nil, err
	}
	workflowTmp, err := stage(workflow, []byte(output))
	if err != nil {
		os.Remove(traceTmp)
		return nil, err
	}
	if err := commit(traceTmp, trace); err != nil {
		os.Remove(workflowTmp)
		return nil, err
	}
	// The trace and workflow files of a phase are saved together or not at all.
	if err := commit(workflowTmp, workflow); err != nil {
		os.Remove(trace)
		return nil, err
	}
	return []string{trace, workflow}, nil
}

// WriteAux stores an auxiliary file (sample inputs, final report) next to the
// phase artifacts.
func (s *Store) WriteAux(name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReadWorkflow returns the raw bytes of a phase's workflow file.
func (s *Store) ReadWorkflow(p Phase) ([]byte, error) {
	path := s.WorkflowPath(p)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &MissingInputError{Path: path, Hint: fmt.Sprintf("run %s first", ContractFor(p).Title)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile replaces path with data through a temporary file in the same directory,
// so readers never observe a half-written artifact.
func WriteFile(path string, data []byte) error {
	tmp, err := stage(path, data)
	if err != nil {
		return err
	}
	return commit(tmp, path)
}

// stage writes data to a temporary file next to path and returns its name.
func stage(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	return tmpName, nil
}

func commit(tmpName, path string) error {
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
