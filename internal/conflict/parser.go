// Package conflict implements the merge-conflict resolution engine: parsing
// conflict markers into hunks, applying a chosen side to a hunk, and tracking
// when a file has become fully resolved.
package conflict

import "strings"

// Side identifies one of the three competing versions of a conflicted path.
type Side int

const (
	// SideLocal is the "ours" version
	SideLocal Side = iota
	// SideBase is the common-ancestor version
	SideBase
	// SideRemote is the "theirs" version
	SideRemote
)

func (s Side) String() string {
	switch s {
	case SideLocal:
		return "local"
	case SideBase:
		return "base"
	case SideRemote:
		return "remote"
	}
	return "unknown"
}

// Conflict marker prefixes. Git writes runs of exactly seven characters,
// optionally followed by a label.
const (
	markerStart     = "<<<<<<<"
	markerBase      = "|||||||"
	markerSeparator = "======="
	markerEnd       = ">>>>>>>"
)

// Hunk is one fully delimited conflict block in a file. StartLine and EndLine
// are 1-based inclusive line positions covering the whole marker block,
// and are only valid against the exact text that was parsed.
type Hunk struct {
	Index     int // 1-based position among the file's hunks
	StartLine int
	EndLine   int

	Local  []string
	Base   []string
	Remote []string
}

// Lines returns the hunk's content for the given side.
func (h Hunk) Lines(side Side) []string {
	switch side {
	case SideLocal:
		return h.Local
	case SideBase:
		return h.Base
	case SideRemote:
		return h.Remote
	}
	return nil
}

// section tracks which part of an open hunk content lines belong to
type section int

const (
	sectionLocal section = iota
	sectionBase
	sectionRemote
)

// ParseMarkers scans lines sequentially for three-way conflict marker blocks
// and returns the fully delimited hunks in order of appearance. An unterminated
// start marker produces no hunk; a fresh start marker inside an open hunk
// restarts the block there. Marker lines only advance sections in grammar
// order (base after ours, separator before theirs); out-of-order marker text
// is content of the current section. The function is pure: same lines, same
// hunks.
func ParseMarkers(lines []string) []Hunk {
	var hunks []Hunk
	var open *Hunk
	var current section

	for i, line := range lines {
		num := i + 1
		switch {
		case strings.HasPrefix(line, markerStart):
			open = &Hunk{StartLine: num}
			current = sectionLocal
		case open == nil:
			// plain text between hunks
		case strings.HasPrefix(line, markerBase) && current == sectionLocal:
			current = sectionBase
		case strings.HasPrefix(line, markerSeparator) && current != sectionRemote:
			current = sectionRemote
		case strings.HasPrefix(line, markerEnd) && current == sectionRemote:
			open.EndLine = num
			open.Index = len(hunks) + 1
			hunks = append(hunks, *open)
			open = nil
		default:
			switch current {
			case sectionLocal:
				open.Local = append(open.Local, line)
			case sectionBase:
				open.Base = append(open.Base, line)
			case sectionRemote:
				open.Remote = append(open.Remote, line)
			}
		}
	}

	return hunks
}
