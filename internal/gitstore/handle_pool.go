package gitstore

import (
	"os"
	"sync"
	"time"
)

// maxOpenHandles bounds the number of simultaneously open reflog file
// handles when many reflogs are consumed interleaved, as
// WindowedFirstBranchReferences does (spec §5: "target: 5").
const maxOpenHandles = 5

// pooledHandle is a reopenable file handle: closed by the pool when it
// falls out of the least-recently-used set, and transparently reopened (at
// its last known offset) on the next use.
type pooledHandle struct {
	path   string
	mu     sync.Mutex
	f      *os.File
	pos    int64
	closed bool
}

type handlePool struct {
	mu      sync.Mutex
	entries map[*pooledHandle]time.Time
	max     int
}

var globalHandlePool = &handlePool{entries: map[*pooledHandle]time.Time{}, max: maxOpenHandles}

func (p *handlePool) touch(h *pooledHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[h] = time.Now()
	p.evictLocked()
}

func (p *handlePool) evictLocked() {
	if len(p.entries) <= p.max {
		return
	}
	type kv struct {
		h  *pooledHandle
		ts time.Time
	}
	all := make([]kv, 0, len(p.entries))
	for h, ts := range p.entries {
		all = append(all, kv{h, ts})
	}
	for len(p.entries) > p.max {
		oldestIdx := 0
		for i, e := range all {
			if e.ts.Before(all[oldestIdx].ts) {
				oldestIdx = i
			}
		}
		victim := all[oldestIdx]
		delete(p.entries, victim.h)
		all = append(all[:oldestIdx], all[oldestIdx+1:]...)
		victim.h.forceClose()
	}
}

func (p *handlePool) remove(h *pooledHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, h)
}

func newPooledHandle(path string) (*pooledHandle, error) {
	h := &pooledHandle{path: path}
	if err := h.reopen(); err != nil {
		return nil, err
	}
	globalHandlePool.touch(h)
	return h, nil
}

func (h *pooledHandle) reopen() error {
	f, err := os.Open(h.path)
	if err != nil {
		return err
	}
	h.f = f
	if h.pos != 0 {
		if _, err := f.Seek(h.pos, os.SEEK_SET); err != nil {
			f.Close()
			return err
		}
	}
	return nil
}

func (h *pooledHandle) forceClose() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.f != nil {
		h.f.Close()
		h.f = nil
	}
}

// ReadAt reads at an absolute offset, transparently reopening the
// underlying file if the pool closed it out from under us.
func (h *pooledHandle) ReadAt(buf []byte, off int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	globalHandlePool.touch(h)
	if h.f == nil {
		if h.closed {
			return 0, os.ErrClosed
		}
		if err := h.reopen(); err != nil {
			return 0, err
		}
	}
	n, err := h.f.ReadAt(buf, off)
	if n > 0 {
		h.pos = off + int64(n)
	}
	return n, err
}

func (h *pooledHandle) Close() error {
	h.mu.Lock()
	h.closed = true
	f := h.f
	h.f = nil
	h.mu.Unlock()
	globalHandlePool.remove(h)
	if f != nil {
		return f.Close()
	}
	return nil
}
