package gitstore

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
)

var packIndexMagic = [8]byte{0xff, 't', 'O', 'c', 0x00, 0x00, 0x00, 0x02}

const (
	idxFanoutOffset = 4
	idxHashesOffset = 0x408
)

// PackIndex is a v2 pack index (*.idx) reader: a 256-entry fanout table
// followed by a sorted array of object hashes and a CRC/offset table, per
// spec §4.3. A single file handle is held open between Open and Close, and
// lookups never re-seek past what's needed for one binary search plus one
// offset read, matching the teacher domain's "single open-once handle
// reused within a with-open scope" resource policy (spec §5).
type PackIndex struct {
	path string
	f    *os.File

	fanout        [257]uint32
	smallOffsets  int64
	largeOffsets  int64
	objectCount   uint32
	cache         map[string]int64
	negativeCache map[string]bool
}

// NewPackIndex constructs a PackIndex for path without opening it.
func NewPackIndex(path string) *PackIndex {
	return &PackIndex{path: path, cache: map[string]int64{}, negativeCache: map[string]bool{}}
}

// Open opens the underlying file and reads the fanout table. Callers must
// call Close when done with a batch of lookups.
func (p *PackIndex) Open() error {
	f, err := os.Open(p.path)
	if err != nil {
		return err
	}
	p.f = f

	var header [8]byte
	if _, err := io_ReadFull(f, header[:]); err != nil {
		f.Close()
		p.f = nil
		return err
	}
	if header != packIndexMagic {
		f.Close()
		p.f = nil
		return &UnsupportedIndex{Path: p.path}
	}

	fanoutBytes := make([]byte, 256*4)
	if _, err := f.ReadAt(fanoutBytes, idxFanoutOffset); err != nil {
		f.Close()
		p.f = nil
		return err
	}
	p.fanout[0] = 0
	for i := 0; i < 256; i++ {
		p.fanout[i+1] = binary.BigEndian.Uint32(fanoutBytes[i*4 : i*4+4])
	}
	p.objectCount = p.fanout[256]
	n := int64(p.objectCount)
	p.smallOffsets = idxHashesOffset + 24*n
	p.largeOffsets = idxHashesOffset + 28*n
	return nil
}

// Close releases the held file handle.
func (p *PackIndex) Close() error {
	if p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	return err
}

// findIndex binary-searches the sorted hash table for hash, returning its
// position, or -1 if not present.
func (p *PackIndex) findIndex(hash []byte) (int, error) {
	start := int64(p.fanout[hash[0]])
	end := int64(p.fanout[int(hash[0])+1])

	buf := make([]byte, 20)
	for start < end {
		mid := (start + end) / 2
		if _, err := p.f.ReadAt(buf, idxHashesOffset+20*mid); err != nil {
			return -1, err
		}
		switch {
		case bytesEqual(hash, buf):
			return int(mid), nil
		case bytesLess(hash, buf):
			end = mid
		default:
			start = mid + 1
		}
	}
	return -1, nil
}

// Offset returns the byte offset of hash within the paired pack data file,
// or ok=false if hash is not present in this index. A miss is cached and
// never triggers a re-read on a subsequent lookup for the same hash.
func (p *PackIndex) Offset(hash string) (int64, bool, error) {
	if off, ok := p.cache[hash]; ok {
		return off, true, nil
	}
	if p.negativeCache[hash] {
		return 0, false, nil
	}
	raw, err := hex.DecodeString(hash)
	if err != nil || len(raw) != 20 {
		return 0, false, fmt.Errorf("invalid hash %q", hash)
	}
	idx, err := p.findIndex(raw)
	if err != nil {
		return 0, false, err
	}
	if idx < 0 {
		p.negativeCache[hash] = true
		return 0, false, nil
	}

	shortBytes := make([]byte, 4)
	if _, err := p.f.ReadAt(shortBytes, p.smallOffsets+4*int64(idx)); err != nil {
		return 0, false, err
	}
	short := binary.BigEndian.Uint32(shortBytes)
	var off int64
	if short&0x80000000 == 0 {
		// Direct offset: top bit of the 4-byte field is clear.
		off = int64(short)
	} else {
		// Top bit set: low bits select a slot in the large-offset table.
		// See spec Design Notes (b): existing fixtures only exercise the
		// direct-offset branch, but this is the formula later tooling
		// confirmed against a large-index fixture.
		largeBytes := make([]byte, 8)
		slot := int64(short & 0x7FFF)
		if _, err := p.f.ReadAt(largeBytes, p.largeOffsets+8*slot); err != nil {
			return 0, false, err
		}
		off = int64(binary.BigEndian.Uint64(largeBytes))
	}
	p.cache[hash] = off
	return off, true, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func bytesLess(a, b []byte) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func io_ReadFull(f *os.File, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := f.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
		if m == 0 {
			break
		}
	}
	return n, nil
}
