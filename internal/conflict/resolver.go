package conflict

import (
	mergeiterrors "mergeit.dev/mergeit/internal/errors"
)

// ResolveHunk replaces the marker block of hunk index in path with the chosen
// side's lines and rewrites the file. The index is validated against a fresh
// parse of the on-disk text: callers must not cache indices across mutations.
func ResolveHunk(path string, index int, choice Side) error {
	return resolve(path, index, func(h Hunk) []string { return h.Lines(choice) })
}

// ResolveHunkManual replaces the marker block of hunk index in path with
// replacement verbatim.
func ResolveHunkManual(path string, index int, replacement []string) error {
	return resolve(path, index, func(Hunk) []string { return replacement })
}

func resolve(path string, index int, pick func(Hunk) []string) error {
	lines, err := ReadLines(path)
	if err != nil {
		return err
	}

	hunks := ParseMarkers(lines)
	if index < 1 || index > len(hunks) {
		return mergeiterrors.NewHunkNotFoundError(path, index, len(hunks))
	}

	h := hunks[index-1]
	picked := pick(h)

	out := make([]string, 0, len(lines)-(h.EndLine-h.StartLine+1)+len(picked))
	out = append(out, lines[:h.StartLine-1]...)
	out = append(out, picked...)
	out = append(out, lines[h.EndLine:]...)

	return WriteLines(path, out)
}

// ResolveAll resolves every remaining hunk in path from one side. Resolving a
// hunk shifts the line numbers of everything after it, so each iteration
// re-parses the file and takes the highest index, whose predecessors are
// unaffected by the splice. The first failure aborts the remainder.
func ResolveAll(path string, side Side) error {
	for {
		lines, err := ReadLines(path)
		if err != nil {
			return err
		}
		hunks := ParseMarkers(lines)
		if len(hunks) == 0 {
			return nil
		}
		last := hunks[len(hunks)-1]
		if err := ResolveHunk(path, last.Index, side); err != nil {
			return err
		}
	}
}
