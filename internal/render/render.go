// Package render defines the Renderer contract the core graph-builder
// draws against, plus a terminal implementation (spec §6). The contract is
// an external collaborator: the core never imports a terminal library
// directly, only this package's Row type.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// SyncStatus is a branch's remote-tracking status, per spec §6.
type SyncStatus int

const (
	// NoRemote means no remote-tracking information exists for this branch.
	NoRemote SyncStatus = iota
	// InSync means every remote check that applies agrees with the branch.
	InSync
	// OutOfSync means some remote check found a divergent commit.
	OutOfSync
)

// Row is one rendered line of the branch graph: the caller (the core) is
// responsible for every field; the Renderer only lays them out (spec §6).
type Row struct {
	Art           string
	Name          string
	IsHead        bool
	SafeToDelete  bool
	UnmergedCount int
	Sync          SyncStatus
}

// Renderer is the external collaborator the core draws the graph through.
// Argument parsing and terminal I/O are out of scope for the core; this
// interface is its entire view of both.
type Renderer interface {
	// RenderFrame draws one full frame: rows top-to-bottom.
	RenderFrame(rows []Row) error
}

// clearHomeSequence is emitted before a live-mode redraw: ESC[2J ESC[0;0H.
const clearHomeSequence = "\x1b[2J\x1b[0;0H"

// Terminal is the concrete Renderer used by the CLI (spec §6): plain
// Unicode art, optional ANSI branch-name coloring, and optional remote-sync
// icons.
type Terminal struct {
	Out         io.Writer
	Color       bool
	RemoteIcons bool
	Live        bool

	head    *color.Color
	grey    *color.Color
	unmerge *color.Color
}

// NewTerminal constructs a Terminal renderer writing to out.
func NewTerminal(out io.Writer, useColor, remoteIcons, live bool) *Terminal {
	t := &Terminal{
		Out:         out,
		Color:       useColor,
		RemoteIcons: remoteIcons,
		Live:        live,
		head:        color.New(color.Bold, color.FgMagenta),
		grey:        color.New(color.FgWhite),
		unmerge:     color.New(color.Bold, color.FgRed),
	}
	if !useColor {
		t.head.DisableColor()
		t.grey.DisableColor()
		t.unmerge.DisableColor()
	} else {
		t.head.EnableColor()
		t.grey.EnableColor()
		t.unmerge.EnableColor()
	}
	return t
}

// RenderFrame draws one full frame, per spec §6's exact row format.
func (t *Terminal) RenderFrame(rows []Row) error {
	var buf []byte
	if t.Live {
		buf = append(buf, clearHomeSequence...)
	}
	for _, r := range rows {
		buf = append(buf, t.renderRow(r)...)
	}
	_, err := t.Out.Write(buf)
	return err
}

func (t *Terminal) renderRow(r Row) string {
	name := r.Name
	switch {
	case r.IsHead:
		name = t.head.Sprint(name)
	case r.SafeToDelete:
		name = t.grey.Sprint(name)
	}

	line := fmt.Sprintf("%s  %s", r.Art, name)
	if r.UnmergedCount > 0 {
		line += " " + t.unmerge.Sprintf("[%d unmerged]", r.UnmergedCount)
	}
	if t.RemoteIcons {
		switch r.Sync {
		case InSync:
			line += " \U0001F537" // 🔷
		case OutOfSync:
			line += " \U0001F536" // 🔶
		}
	}
	return line + "\n"
}
