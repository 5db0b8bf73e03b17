package gitstore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Ref is the shared capability set of LocalBranch and RemoteBranch: a
// named on-disk reference that resolves to a Commit, per spec §3 and
// Design Note "Polymorphism".
type Ref interface {
	RelativeName() string
	Commit() (Commit, error)
	Exists() bool
}

// Repo bundles the per-process caches (locator, config, packed-refs) that
// back ref and branch resolution, per spec §5 ("Global caches").
type Repo struct {
	GitDir string
	Store  *Store
	Config Config

	packedRefs     map[string]string
	packedRefsRead bool
	head           string
	headRead       bool
}

// OpenRepo locates the .git directory from startDir, loads config, and
// constructs a Repo ready to resolve branches.
func OpenRepo(startDir string) (*Repo, error) {
	gitDir, err := Locate(startDir)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(gitDir, OSEnv)
	if err != nil {
		return nil, err
	}
	return &Repo{
		GitDir: gitDir,
		Store:  NewStore(gitDir),
		Config: cfg,
	}, nil
}

// ResetCaches clears the packed-refs and HEAD caches, for live mode to call
// between renders once the external ChangeWatcher signals a change (spec
// §5, Design Note "Global caches").
func (r *Repo) ResetCaches() {
	r.packedRefs = nil
	r.packedRefsRead = false
	r.headRead = false
	r.Store = NewStore(r.GitDir)
}

// PackedRefs parses "<git>/packed-refs": each non-comment, non-peeled line
// is "<hash> <refname>", keyed by refname relative to "refs/" (spec §4.4).
// Absent file yields an empty map.
func (r *Repo) PackedRefs() (map[string]string, error) {
	if r.packedRefsRead {
		return r.packedRefs, nil
	}
	out := map[string]string{}
	f, err := os.Open(filepath.Join(r.GitDir, "packed-refs"))
	if err != nil {
		if os.IsNotExist(err) {
			r.packedRefs = out
			r.packedRefsRead = true
			return out, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			continue
		}
		hash := line[:sp]
		name := line[sp+1:]
		name = strings.TrimPrefix(name, "refs/")
		out[name] = hash
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	r.packedRefs = out
	r.packedRefsRead = true
	return out, nil
}

// Head returns the raw contents of the .git/HEAD file, trimmed.
func (r *Repo) Head() (string, error) {
	if r.headRead {
		return r.head, nil
	}
	data, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return "", err
	}
	r.head = strings.TrimSpace(string(data))
	r.headRead = true
	return r.head, nil
}

// resolveRefFile reads a loose ref file's content (a single hex hash),
// falling back to packed-refs if the loose file doesn't exist.
func (r *Repo) resolveRefFile(relativeName string) (string, bool, error) {
	path := filepath.Join(r.GitDir, "refs", filepath.FromSlash(relativeName))
	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data)), true, nil
	} else if !os.IsNotExist(err) {
		return "", false, err
	}
	packed, err := r.PackedRefs()
	if err != nil {
		return "", false, err
	}
	if hash, ok := packed[relativeName]; ok {
		return hash, true, nil
	}
	return "", false, nil
}

// LocalBranch is a ref under refs/heads/<name> (spec §3).
type LocalBranch struct {
	repo *Repo
	name string
}

// NewLocalBranch constructs a LocalBranch handle for name, without reading
// any file.
func (r *Repo) NewLocalBranch(name string) LocalBranch {
	return LocalBranch{repo: r, name: name}
}

func (b LocalBranch) Name() string         { return b.name }
func (b LocalBranch) RelativeName() string { return "heads/" + b.name }
func (b LocalBranch) String() string       { return b.name }

func (b LocalBranch) Exists() bool {
	_, ok, err := b.repo.resolveRefFile(b.RelativeName())
	return err == nil && ok
}

// Commit resolves the branch's current commit from its loose ref file or
// packed-refs.
func (b LocalBranch) Commit() (Commit, error) {
	hash, ok, err := b.repo.resolveRefFile(b.RelativeName())
	if err != nil {
		return Commit{}, err
	}
	if !ok {
		return Commit{}, &MissingObject{Hash: "refs/" + b.RelativeName()}
	}
	return b.repo.Store.Commit(hash), nil
}

// IsHead reports whether HEAD points at this branch (spec §3).
func (b LocalBranch) IsHead() bool {
	head, err := b.repo.Head()
	if err != nil {
		return false
	}
	return head == "ref: refs/heads/"+b.name
}

// Upstream resolves this branch's configured upstream from
// branch."<name>".{remote,merge}, per spec §3 and §4.6's "remote branch
// only if it currently exists" accommodation for fetch-time staleness.
func (b LocalBranch) Upstream() (Ref, bool) {
	key := SectionKey{Section: "branch", Subsection: b.name, HasSub: true}
	remote, hasRemote := b.repo.Config.Get(key, "remote")
	if !hasRemote || remote == "" {
		remote = "."
	}
	merge, hasMerge := b.repo.Config.Get(key, "merge")
	if !hasMerge || !strings.HasPrefix(merge, "refs/heads/") {
		return nil, false
	}
	branchName := strings.TrimPrefix(merge, "refs/heads/")

	if remote == "." {
		return b.repo.NewLocalBranch(branchName), true
	}
	rb := b.repo.NewRemoteBranch(remote, branchName)
	if !rb.Exists() {
		return nil, false
	}
	return rb, true
}

// Reflog returns the reflog entries for this branch, newest first (spec §3,
// §4.4).
func (b LocalBranch) Reflog() ReflogIterator {
	path := filepath.Join(b.repo.GitDir, "logs", "refs", "heads", filepath.FromSlash(b.name))
	return newReflogIterator(path, b.repo.Store)
}

// LocalBranches enumerates every ref under refs/heads/ (spec §4.6's input
// to compute_branch_dag, and the CLI's top-level branch set).
func (r *Repo) LocalBranches() ([]LocalBranch, error) {
	heads := filepath.Join(r.GitDir, "refs", "heads")
	var names []string
	err := filepath.WalkDir(heads, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(heads, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	packed, err := r.PackedRefs()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []LocalBranch
	for _, n := range names {
		seen[n] = true
		out = append(out, r.NewLocalBranch(n))
	}
	for relName := range packed {
		if !strings.HasPrefix(relName, "heads/") {
			continue
		}
		name := strings.TrimPrefix(relName, "heads/")
		if !seen[name] {
			seen[name] = true
			out = append(out, r.NewLocalBranch(name))
		}
	}
	return out, nil
}

// RemoteBranch is a ref under refs/remotes/<remote>/<name> (spec §3).
type RemoteBranch struct {
	repo   *Repo
	remote string
	name   string
}

func (r *Repo) NewRemoteBranch(remote, name string) RemoteBranch {
	return RemoteBranch{repo: r, remote: remote, name: name}
}

func (b RemoteBranch) Remote() string         { return b.remote }
func (b RemoteBranch) Name() string            { return b.name }
func (b RemoteBranch) RelativeName() string    { return "remotes/" + b.remote + "/" + b.name }
func (b RemoteBranch) String() string          { return b.remote + "/" + b.name }

func (b RemoteBranch) Exists() bool {
	_, ok, err := b.repo.resolveRefFile(b.RelativeName())
	return err == nil && ok
}

func (b RemoteBranch) Commit() (Commit, error) {
	hash, ok, err := b.repo.resolveRefFile(b.RelativeName())
	if err != nil {
		return Commit{}, err
	}
	if !ok {
		return Commit{}, &MissingObject{Hash: "refs/" + b.RelativeName()}
	}
	return b.repo.Store.Commit(hash), nil
}
