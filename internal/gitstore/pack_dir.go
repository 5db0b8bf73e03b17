package gitstore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// packFile pairs a pack's data file with its index, both unopened until
// looked up.
type packFile struct {
	dataPath string
	idxPath  string
	index    *PackIndex
	data     *PackData
}

// PackDir enumerates "<git>/objects/pack/*.pack" paired with ".idx",
// searched most-recently-written first, per spec §4.3.
type PackDir struct {
	gitDir string
	packs  []*packFile
	loaded bool
}

// NewPackDir constructs a PackDir rooted at gitDir. Pack discovery is
// deferred until the first lookup.
func NewPackDir(gitDir string) *PackDir {
	return &PackDir{gitDir: gitDir}
}

func (d *PackDir) ensureLoaded() error {
	if d.loaded {
		return nil
	}
	dir := filepath.Join(d.gitDir, "objects", "pack")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			d.loaded = true
			return nil
		}
		return err
	}

	type withMtime struct {
		pf    *packFile
		mtime int64
	}
	var found []withMtime
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".pack") {
			continue
		}
		base := strings.TrimSuffix(name, ".pack")
		dataPath := filepath.Join(dir, name)
		idxPath := filepath.Join(dir, base+".idx")
		if _, err := os.Stat(idxPath); err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		pf := &packFile{dataPath: dataPath, idxPath: idxPath}
		pf.index = NewPackIndex(idxPath)
		found = append(found, withMtime{pf: pf, mtime: info.ModTime().UnixNano()})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].mtime > found[j].mtime })
	d.packs = make([]*packFile, len(found))
	for i, w := range found {
		d.packs[i] = w.pf
	}
	d.loaded = true
	return nil
}

// Contains reports whether hash is present in any pack.
func (d *PackDir) Contains(hash string) (bool, error) {
	if err := d.ensureLoaded(); err != nil {
		return false, err
	}
	for _, pf := range d.packs {
		if err := pf.index.Open(); err != nil {
			return false, err
		}
		_, ok, err := pf.index.Offset(hash)
		pf.index.Close()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Get resolves hash across the packs (most recently written first),
// decoding OFS_DELTA/REF_DELTA chains as needed, and returns its kind and
// raw payload.
func (d *PackDir) Get(hash string) (ObjectKind, []byte, error) {
	if err := d.ensureLoaded(); err != nil {
		return 0, nil, err
	}
	for _, pf := range d.packs {
		if err := pf.index.Open(); err != nil {
			return 0, nil, err
		}
		off, ok, err := pf.index.Offset(hash)
		if err != nil {
			pf.index.Close()
			return 0, nil, err
		}
		if !ok {
			pf.index.Close()
			continue
		}

		if pf.data == nil {
			pf.data = NewPackData(pf.dataPath, func(refHash string) (int64, bool, error) {
				return pf.index.Offset(refHash)
			})
		}
		if err := pf.data.Open(); err != nil {
			pf.index.Close()
			return 0, nil, err
		}
		kind, payload, err := pf.data.Get(off)
		pf.data.Close()
		pf.index.Close()
		return kind, payload, err
	}
	return 0, nil, &MissingObject{Hash: hash}
}
