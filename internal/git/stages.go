package git

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	mergeiterrors "mergeit.dev/mergeit/internal/errors"
)

// Stage identifies one of the three pre-merge index slots of a conflicted path.
type Stage int

const (
	// StageBase is the common ancestor version
	StageBase Stage = 1
	// StageOurs is the local version
	StageOurs Stage = 2
	// StageTheirs is the remote version
	StageTheirs Stage = 3
)

func (s Stage) String() string {
	switch s {
	case StageBase:
		return "base"
	case StageOurs:
		return "ours"
	case StageTheirs:
		return "theirs"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ReadStage returns the content of path at the given pre-merge index stage.
// A stage that does not exist for this conflict (e.g. no common ancestor in an
// add/add conflict) yields nil content and no error so callers can render a
// placeholder instead of aborting.
func ReadStage(ctx context.Context, path string, stage Stage) ([]byte, error) {
	return readStage(ctx, defaultRunner, path, stage)
}

func readStage(ctx context.Context, r *CommandRunner, path string, stage Stage) ([]byte, error) {
	stages, err := presentStages(ctx, r, path)
	if err != nil {
		return nil, err
	}
	if !stages[stage] {
		return nil, nil
	}

	output, err := r.RunRaw(ctx, "show", fmt.Sprintf(":%d:%s", int(stage), path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s version of %s: %w", stage, path, err)
	}

	data := []byte(output)
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, mergeiterrors.NewBinaryContentError(path)
	}
	return data, nil
}

// presentStages lists which index stages exist for path, parsed from
// `git ls-files -u` output ("<mode> <sha> <stage>\t<path>" per line).
func presentStages(ctx context.Context, r *CommandRunner, path string) (map[Stage]bool, error) {
	output, err := r.Run(ctx, "ls-files", "-u", "--", path)
	if err != nil {
		return nil, fmt.Errorf("failed to list index stages of %s: %w", path, err)
	}

	stages := make(map[Stage]bool)
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		meta, _, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) < 3 {
			continue
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		stages[Stage(n)] = true
	}
	return stages, nil
}
