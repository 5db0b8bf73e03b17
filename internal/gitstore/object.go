package gitstore

import (
	"bytes"
	"compress/zlib"
	"io"
	"strconv"
)

// Decompress consumes a zlib (DEFLATE-wrapped) stream from r, reading until
// the decompressor reports end-of-stream. Extra trailing bytes in r beyond
// the stream are tolerated, not an error; unless r implements io.ByteReader,
// the decompressor may read some of them.
func Decompress(r io.Reader) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, &DecompressError{Reason: "premature EOF"}
		}
		return nil, &DecompressError{Reason: err.Error()}
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, &DecompressError{Reason: "premature EOF"}
		}
		return nil, &DecompressError{Reason: err.Error()}
	}
	return data, nil
}

// GitObject is a parsed commit object body: parents, author/commit time,
// and message, per spec §4.2.
type GitObject struct {
	Parents    []string
	AuthorTime int64
	CommitTime int64
	Message    []byte
}

// FirstParent returns Parents[0], or "" with ok=false if there are none.
func (o *GitObject) FirstParent() (string, bool) {
	if len(o.Parents) == 0 {
		return "", false
	}
	return o.Parents[0], true
}

// DecodeCommit parses a raw (already decompressed) commit object body:
// bytes up to the first NUL are a header (discarded), then newline-delimited
// header lines, a blank line, then the message (spec §4.2).
func DecodeCommit(raw []byte) (*GitObject, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return nil, &CorruptObject{Reason: "missing NUL header terminator"}
	}
	body := raw[nul+1:]

	var parents []string
	var authorTime, commitTime int64
	haveAuthor, haveCommitter := false, false

	rest := body
	for {
		nl := bytes.IndexByte(rest, '\n')
		var line []byte
		if nl < 0 {
			line = rest
			rest = nil
		} else {
			line = rest[:nl]
			rest = rest[nl+1:]
		}
		if len(line) == 0 {
			break
		}
		switch {
		case bytes.HasPrefix(line, []byte("parent ")):
			parents = append(parents, string(line[len("parent "):]))
		case bytes.HasPrefix(line, []byte("author ")):
			t, err := extractEpochSeconds(line)
			if err != nil {
				return nil, err
			}
			authorTime = t
			haveAuthor = true
		case bytes.HasPrefix(line, []byte("committer ")):
			t, err := extractEpochSeconds(line)
			if err != nil {
				return nil, err
			}
			commitTime = t
			haveCommitter = true
		}
		if rest == nil {
			break
		}
	}
	if !haveAuthor || !haveCommitter {
		return nil, &CorruptObject{Reason: "missing author or committer header"}
	}

	var message []byte
	if rest != nil {
		message = rest
	}

	return &GitObject{
		Parents:    parents,
		AuthorTime: authorTime,
		CommitTime: commitTime,
		Message:    message,
	}, nil
}

// extractEpochSeconds pulls "<epoch-seconds> <tz>" off the end of an
// "author ..." or "committer ..." header line and returns the seconds field.
func extractEpochSeconds(line []byte) (int64, error) {
	fields := bytes.Fields(line)
	if len(fields) < 2 {
		return 0, &CorruptObject{Reason: "malformed author/committer header"}
	}
	secField := fields[len(fields)-2]
	t, err := strconv.ParseInt(string(secField), 10, 64)
	if err != nil {
		return 0, &CorruptObject{Reason: "malformed author/committer timestamp"}
	}
	return t, nil
}
