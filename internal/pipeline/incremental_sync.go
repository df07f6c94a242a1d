package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"autodocstring/internal/crawler"
	"autodocstring/internal/git"
)

// changedFiles is how the planner asks for the diff. Tests replace it.
var changedFiles = git.GetChangedFiles

// detectChangesStage turns the diff against opts.ChangedSince into targets.
// Each changed line selects the declaration enclosing it. When paths are
// given, only changed files among them are kept.
func (r *Runner) detectChangesStage(ctx context.Context, opts Options) ([]target, error) {
	changes, err := changedFiles(ctx, r.ProjectRoot, opts.ChangedSince)
	if err != nil {
		return nil, fmt.Errorf("failed to get git changes: %w", err)
	}

	var allowed map[string]bool
	if len(opts.Paths) > 0 {
		files, err := r.crawler.Collect(opts.Paths)
		if err != nil {
			return nil, fmt.Errorf("failed to collect files: %w", err)
		}
		allowed = make(map[string]bool, len(files))
		for _, f := range files {
			allowed[filepath.Clean(f)] = true
		}
	}

	var targets []target
	for _, change := range changes {
		path := filepath.Join(r.ProjectRoot, filepath.FromSlash(change.Path))
		if !crawler.IsPython(path) || len(change.ChangedLines) == 0 {
			continue
		}
		if allowed != nil && !allowed[filepath.Clean(path)] {
			continue
		}
		lines := make([]int, 0, len(change.ChangedLines))
		for _, l := range change.ChangedLines {
			lines = append(lines, l-1)
		}
		targets = append(targets, target{path: path, lines: lines})
	}

	r.log.WithField("files", len(targets)).Infof("detected changes since %s", opts.ChangedSince)
	return targets, nil
}
