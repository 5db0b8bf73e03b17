package gitstore

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"io"
	"os"
)

var packDataMagic = [8]byte{'P', 'A', 'C', 'K', 0x00, 0x00, 0x00, 0x02}

// ObjectKind identifies the type of an object stored in a pack, per the
// type bits in a pack object header (spec §4.3).
type ObjectKind int

const (
	KindCommit ObjectKind = 1
	KindTree   ObjectKind = 2
	KindBlob   ObjectKind = 3
	KindTag    ObjectKind = 4
	kindOfsDelta ObjectKind = 6
	kindRefDelta ObjectKind = 7
)

// PackData is a v2 pack data (*.pack) reader: given a byte offset, it
// decodes the variable-length object header, resolving OFS_DELTA and
// REF_DELTA chains against a base-hash resolver, per spec §4.3.
type PackData struct {
	path string
	f    *os.File

	// resolveRef looks up the byte offset of a REF_DELTA base hash within
	// this same pack.
	resolveRef func(hash string) (int64, bool, error)
}

// NewPackData constructs a PackData for path. resolveRef is used to find
// the offset of REF_DELTA bases (typically backed by the paired PackIndex).
func NewPackData(path string, resolveRef func(hash string) (int64, bool, error)) *PackData {
	return &PackData{path: path, resolveRef: resolveRef}
}

func (p *PackData) Open() error {
	f, err := os.Open(p.path)
	if err != nil {
		return err
	}
	var header [8]byte
	if _, err := io_ReadFull(f, header[:]); err != nil {
		f.Close()
		return err
	}
	if header != packDataMagic {
		f.Close()
		return &UnsupportedPack{Path: p.path}
	}
	p.f = f
	return nil
}

func (p *PackData) Close() error {
	if p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	return err
}

// packCursor wraps *os.File with a virtual cursor so the header/byte decoders
// below can be written as simple sequential reads regardless of offset.
type packCursor struct {
	f   *os.File
	pos int64
}

func (c *packCursor) readByte() (byte, error) {
	var b [1]byte
	if _, err := c.f.ReadAt(b[:], c.pos); err != nil {
		return 0, err
	}
	c.pos++
	return b[0], nil
}

func (c *packCursor) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := c.f.ReadAt(buf, c.pos); err != nil {
		return nil, err
	}
	c.pos += int64(n)
	return buf, nil
}

// Get decodes the object at the given offset, following delta chains as
// needed, and returns its final (kind, decompressed-payload).
func (p *PackData) Get(offset int64) (ObjectKind, []byte, error) {
	return p.get(offset, 0)
}

func (p *PackData) get(offset int64, depth int) (ObjectKind, []byte, error) {
	if depth > 1000 {
		return 0, nil, &CorruptObject{Reason: "delta chain too deep"}
	}
	c := &packCursor{f: p.f, pos: offset}

	first, err := c.readByte()
	if err != nil {
		return 0, nil, err
	}
	kind := ObjectKind((first >> 4) & 0x7)
	size := uint64(first & 0x0f)
	shift := uint(4)
	for first&0x80 != 0 {
		b, err := c.readByte()
		if err != nil {
			return 0, nil, err
		}
		first = b
		size |= uint64(first&0x7f) << shift
		shift += 7
	}

	switch kind {
	case KindCommit, KindTree, KindBlob, KindTag:
		payload, err := p.decompressAt(c.pos)
		if err != nil {
			return 0, nil, err
		}
		if uint64(len(payload)) != size {
			return 0, nil, &CorruptObject{Reason: "object size mismatch"}
		}
		return kind, payload, nil

	case kindOfsDelta:
		negOffset, newPos, err := readOfsDeltaOffset(p.f, c.pos)
		if err != nil {
			return 0, nil, err
		}
		baseOffset := offset - negOffset
		delta, err := p.decompressAt(newPos)
		if err != nil {
			return 0, nil, err
		}
		baseKind, base, err := p.get(baseOffset, depth+1)
		if err != nil {
			return 0, nil, err
		}
		out, err := ApplyDelta(base, delta)
		if err != nil {
			return 0, nil, err
		}
		return baseKind, out, nil

	case kindRefDelta:
		hashBytes, err := c.readN(20)
		if err != nil {
			return 0, nil, err
		}
		hash := hex.EncodeToString(hashBytes)
		delta, err := p.decompressAt(c.pos)
		if err != nil {
			return 0, nil, err
		}
		baseOffset, ok, err := p.resolveRef(hash)
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			return 0, nil, &MissingObject{Hash: hash}
		}
		baseKind, base, err := p.get(baseOffset, depth+1)
		if err != nil {
			return 0, nil, err
		}
		out, err := ApplyDelta(base, delta)
		if err != nil {
			return 0, nil, err
		}
		return baseKind, out, nil

	default:
		return 0, nil, &CorruptObject{Reason: "unknown pack object type"}
	}
}

// readOfsDeltaOffset decodes the OFS_DELTA base-offset varint starting at
// pos: big-endian, MSB-continuation, with the "+1 between bytes" quirk
// described in spec §4.3.
func readOfsDeltaOffset(f *os.File, pos int64) (int64, int64, error) {
	c := &packCursor{f: f, pos: pos}
	b, err := c.readByte()
	if err != nil {
		return 0, 0, err
	}
	result := int64(b & 0x7f)
	for b&0x80 != 0 {
		b, err = c.readByte()
		if err != nil {
			return 0, 0, err
		}
		result = ((result + 1) << 7) | int64(b&0x7f)
	}
	return result, c.pos, nil
}

func (p *PackData) decompressAt(pos int64) ([]byte, error) {
	sr := io.NewSectionReader(p.f, pos, 1<<40)
	zr, err := zlib.NewReader(sr)
	if err != nil {
		return nil, &DecompressError{Reason: err.Error()}
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, &DecompressError{Reason: err.Error()}
	}
	return data, nil
}

// readDeltaSize reads a size-encoded integer from the front of a delta
// stream: 7 bits per byte, little-endian (least-significant group first),
// continuing while the MSB is set. Returns the value and the number of
// bytes consumed.
func readDeltaSize(delta []byte) (uint64, int) {
	var size uint64
	shift := uint(0)
	i := 0
	for i < len(delta) {
		b := delta[i]
		i++
		size |= uint64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	return size, i
}

// ApplyDelta reconstructs an object from a delta encoded against base, per
// spec §4.3.
func ApplyDelta(base, delta []byte) ([]byte, error) {
	baseSize, n := readDeltaSize(delta)
	delta = delta[n:]
	if baseSize != uint64(len(base)) {
		return nil, &CorruptObject{Reason: "delta base size mismatch"}
	}
	outputSize, n := readDeltaSize(delta)
	delta = delta[n:]

	var out bytes.Buffer
	out.Grow(int(outputSize))

	for len(delta) > 0 {
		instr := delta[0]
		delta = delta[1:]
		if instr&0x80 != 0 {
			var offset, size uint64
			if instr&0x01 != 0 {
				offset |= uint64(delta[0])
				delta = delta[1:]
			}
			if instr&0x02 != 0 {
				offset |= uint64(delta[0]) << 8
				delta = delta[1:]
			}
			if instr&0x04 != 0 {
				offset |= uint64(delta[0]) << 16
				delta = delta[1:]
			}
			if instr&0x08 != 0 {
				offset |= uint64(delta[0]) << 24
				delta = delta[1:]
			}
			if instr&0x10 != 0 {
				size |= uint64(delta[0])
				delta = delta[1:]
			}
			if instr&0x20 != 0 {
				size |= uint64(delta[0]) << 8
				delta = delta[1:]
			}
			if instr&0x40 != 0 {
				size |= uint64(delta[0]) << 16
				delta = delta[1:]
			}
			if size == 0 {
				size = 0x10000
			}
			if offset+size > uint64(len(base)) {
				return nil, &CorruptObject{Reason: "delta copy out of range"}
			}
			out.Write(base[offset : offset+size])
		} else if instr == 0 {
			return nil, &CorruptObject{Reason: "reserved delta instruction 0"}
		} else {
			n := int(instr)
			if n > len(delta) {
				return nil, &CorruptObject{Reason: "delta insert truncated"}
			}
			out.Write(delta[:n])
			delta = delta[n:]
		}
	}

	if uint64(out.Len()) != outputSize {
		return nil, &CorruptObject{Reason: "delta output size mismatch"}
	}
	return out.Bytes(), nil
}
