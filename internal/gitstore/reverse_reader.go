package gitstore

import (
	"bytes"
	"io"
	"os"
)

const reverseReadChunkSize = 1024

// splitLinesKeepEnds splits b the way Python's bytes.splitlines(keepends=True)
// does: on "\n", "\r\n", or a lone "\r", keeping the terminator attached to
// the preceding line.
func splitLinesKeepEnds(b []byte) [][]byte {
	var lines [][]byte
	start := 0
	i := 0
	for i < len(b) {
		switch b[i] {
		case '\n':
			lines = append(lines, b[start:i+1])
			i++
			start = i
		case '\r':
			if i+1 < len(b) && b[i+1] == '\n' {
				lines = append(lines, b[start:i+2])
				i += 2
			} else {
				lines = append(lines, b[start:i+1])
				i++
			}
			start = i
		default:
			i++
		}
	}
	if start < len(b) {
		lines = append(lines, b[start:])
	}
	return lines
}

// joinReversed concatenates chunks in reverse order: chunks[len-1] first,
// chunks[0] last. Mirrors b"".join(reversed(chunks)).
func joinReversed(chunks [][]byte) []byte {
	var out []byte
	for i := len(chunks) - 1; i >= 0; i-- {
		out = append(out, chunks[i]...)
	}
	return out
}

func byteLineToString(line []byte) string {
	if bytes.HasSuffix(line, []byte("\r\n")) {
		return string(line[:len(line)-2]) + "\n"
	}
	if bytes.HasSuffix(line, []byte("\r")) || bytes.HasSuffix(line, []byte("\n")) {
		return string(line[:len(line)-1]) + "\n"
	}
	return string(line)
}

// readRawLinesReversed reads path from the end in fixed-size chunks through
// the bounded handle pool, without loading the whole file into one
// contiguous buffer at once, and returns every line (raw bytes, terminator
// attached) in reverse order: equivalent to
// reversed(list(a line-oriented forward reader)), per spec §4.4. Handles
// the edge cases spec §4.4 calls out: missing trailing newline, "\r\n" and
// lone "\r" endings, a line longer than one chunk, a newline exactly on a
// chunk boundary, and multi-byte UTF-8 spanning chunks (never split mid
// sequence, since continuation bytes never equal '\n'/'\r').
func readRawLinesReversed(path string) ([][]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	h, err := newPooledHandle(path)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	pos := info.Size()
	var lines [][]byte
	var chunks [][]byte

	for pos > 0 {
		readLen := int64(reverseReadChunkSize)
		if readLen > pos {
			readLen = pos
		}
		pos -= readLen
		buf := make([]byte, readLen)
		if _, err := h.ReadAt(buf, pos); err != nil && err != io.EOF {
			return nil, err
		}

		if len(chunks) > 0 {
			endsNL := len(buf) > 0 && buf[len(buf)-1] == '\n'
			endsCR := len(buf) > 0 && buf[len(buf)-1] == '\r'
			isJustNL := len(chunks) == 1 && len(chunks[0]) == 1 && chunks[0][0] == '\n'
			if endsNL || (endsCR && !isJustNL) {
				lines = append(lines, joinReversed(chunks))
				chunks = nil
			}
		}

		splitted := splitLinesKeepEnds(buf)
		for len(splitted) > 1 {
			line := splitted[len(splitted)-1]
			splitted = splitted[:len(splitted)-1]
			if len(chunks) > 0 {
				full := append(append([]byte{}, line...), joinReversed(chunks)...)
				line = full
				chunks = nil
			}
			lines = append(lines, line)
		}
		if len(splitted[0]) > 0 {
			chunks = append(chunks, splitted[0])
		}
	}
	if len(chunks) > 0 {
		lines = append(lines, joinReversed(chunks))
	}
	return lines, nil
}

// ReadLinesReversed returns every line of path (decoded as UTF-8, newline
// normalised to "\n"), newest (last-in-file) first.
func ReadLinesReversed(path string) ([]string, error) {
	raw, err := readRawLinesReversed(path)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = byteLineToString(l)
	}
	return out, nil
}
