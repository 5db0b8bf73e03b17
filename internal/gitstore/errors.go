// Package gitstore reads a Git repository's on-disk object store: config,
// loose and packed objects, refs, and reflogs.
package gitstore

import "fmt"

// NotARepository is returned by Locate when no .git directory is found
// above the starting directory.
type NotARepository struct {
	StartDir string
}

func (e *NotARepository) Error() string {
	return fmt.Sprintf("not a git repository (or any of the parent directories): %s", e.StartDir)
}

// ConfigParseError is returned by ParseConfig on an unrecognised line.
type ConfigParseError struct {
	Path string
	Line int
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("%s:%d: error parsing git config: unexpected line", e.Path, e.Line)
}

// BadEnvValue is returned when an environment variable cannot be parsed
// into the type it is documented to hold (e.g. a boolean).
type BadEnvValue struct {
	Var   string
	Value string
}

func (e *BadEnvValue) Error() string {
	return fmt.Sprintf("invalid value for %s: %q", e.Var, e.Value)
}

// UnsupportedIndex is returned when a pack index's header does not match
// the v2 magic this reader understands.
type UnsupportedIndex struct {
	Path string
}

func (e *UnsupportedIndex) Error() string {
	return fmt.Sprintf("unsupported pack index format (must be v2): %s", e.Path)
}

// UnsupportedPack is returned when a pack data file's header does not
// match the v2 magic this reader understands.
type UnsupportedPack struct {
	Path string
}

func (e *UnsupportedPack) Error() string {
	return fmt.Sprintf("unsupported pack format (must be v2): %s", e.Path)
}

// CorruptObject is returned when an object's bytes cannot be parsed into
// the shape this reader expects (bad header, size mismatch, malformed delta).
type CorruptObject struct {
	Hash   string
	Reason string
}

func (e *CorruptObject) Error() string {
	if e.Hash == "" {
		return fmt.Sprintf("corrupt object: %s", e.Reason)
	}
	return fmt.Sprintf("corrupt object %s: %s", e.Hash, e.Reason)
}

// MissingObject is returned when a hash cannot be found in either the
// loose-object tree or any pack. Fatal at the top level.
type MissingObject struct {
	Hash string
}

func (e *MissingObject) Error() string {
	return fmt.Sprintf("missing object: %s", e.Hash)
}

// MissingCommit is raised when a derived attribute of a Commit is needed
// but the underlying object cannot be located. Expected in shallow clones;
// callers in internal/analytics catch this locally and truncate walks.
type MissingCommit struct {
	Hash string
}

func (e *MissingCommit) Error() string {
	return fmt.Sprintf("shallow clone: commit not found: %s", e.Hash)
}

// DecompressError is returned on a truncated or invalid zlib stream.
type DecompressError struct {
	Reason string
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("decompress error: %s", e.Reason)
}
