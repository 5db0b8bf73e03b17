package dag

import "strings"

// boxChars is the 16-entry box-drawing table indexed by the 4-bit pattern
// up | right<<1 | down<<2 | left<<3 (spec §4.8).
const boxChars = " ╵╶└╷│┌├╴┘─┴┐┤┬┼"

// NodeArt describes one row's incoming, outgoing, and pass-through edges in
// the rendered branch graph: the node occupies column At, up/down name the
// columns of its child/parent edges, and through names columns merely
// passed over by other branches' edges (spec §4.7, §4.8).
type NodeArt struct {
	At      int
	Up      map[int]bool
	Down    map[int]bool
	Through map[int]bool
}

// NewNodeArt constructs a NodeArt with empty edge sets at column at.
func NewNodeArt(at int) NodeArt {
	return NodeArt{At: at, Up: map[int]bool{}, Down: map[int]bool{}, Through: map[int]bool{}}
}

func (n NodeArt) bounds() (int, int) {
	minV, maxV := n.At, n.At
	upd := func(v int) {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	for c := range n.Up {
		upd(c)
	}
	for c := range n.Down {
		upd(c)
	}
	return minV, maxV
}

func (n NodeArt) cols() int {
	maxV := n.At
	upd := func(v int) {
		if v > maxV {
			maxV = v
		}
	}
	for c := range n.Up {
		upd(c)
	}
	for c := range n.Down {
		upd(c)
	}
	for c := range n.Through {
		upd(c)
	}
	return maxV + 1
}

// String renders the row, per spec §4.8's first/second-codepoint rules.
func (n NodeArt) String() string {
	cols := n.cols()
	minV, maxV := n.bounds()
	runes := []rune(boxChars)

	var b strings.Builder
	for c := 0; c < cols; c++ {
		var up, down, left, right bool
		if n.Through[c] {
			up, down = true, true
		} else {
			up = n.Up[c]
			down = n.Down[c]
			switch {
			case minV == c && c == maxV:
				left, right = true, true
			case n.At == c && down:
				left, right = true, true
			default:
				left = minV < c && c <= maxV
				right = minV <= c && c < maxV
			}
		}
		idx := 0
		if up {
			idx |= 1
		}
		if right {
			idx |= 2
		}
		if down {
			idx |= 4
		}
		if left {
			idx |= 8
		}
		b.WriteRune(runes[idx])

		if c < cols-1 {
			second := ' '
			if minV <= c && c < maxV {
				switch {
				case c+1 == n.At:
					second = '▶'
				case c == n.At:
					second = '◀'
				case n.Through[c] || n.Through[c+1]:
					second = '┄'
				default:
					second = '─'
				}
			}
			b.WriteRune(second)
		}
	}
	return b.String()
}
