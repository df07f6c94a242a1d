package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"autodocstring/internal/autodoc"
	"autodocstring/internal/crawler"
	"autodocstring/internal/docstring"
)

// ErrLineNeedsOneFile is returned when a line is selected while several
// files are being processed.
var ErrLineNeedsOneFile = errors.New("a line can only be selected in a single file")

// Runner applies the engine to files on a file system.
type Runner struct {
	fs      afero.Fs
	engine  *autodoc.Engine
	crawler *crawler.Crawler
	log     logrus.FieldLogger

	// ProjectRoot is where git is asked for changes.
	ProjectRoot string
}

// Options select what a documenting run touches.
type Options struct {
	Paths []string
	// Line is a 1-based line whose enclosing declaration is documented.
	// Zero documents every declaration.
	Line int
	// ChangedSince limits the run to declarations touched since a git ref.
	ChangedSince string
	Write        bool
	Quote        string
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path    string
	Changed bool
	Output  []byte
	Report  *autodoc.Report
}

// RunReport collects the outcome of a run.
type RunReport struct {
	Files []FileResult
}

// ChangedFiles lists the files whose content changed, or would change.
func (r *RunReport) ChangedFiles() []string {
	var out []string
	for _, f := range r.Files {
		if f.Changed {
			out = append(out, f.Path)
		}
	}
	return out
}

// Err joins the declaration failures of every file.
func (r *RunReport) Err() error {
	var errs []error
	for _, f := range r.Files {
		if err := f.Report.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Path, err))
		}
	}
	return errors.Join(errs...)
}

// NewRunner creates a runner working on fs.
func NewRunner(fs afero.Fs, engine *autodoc.Engine, log logrus.FieldLogger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{
		fs:          fs,
		engine:      engine,
		crawler:     crawler.NewCrawler(fs),
		log:         log,
		ProjectRoot: ".",
	}
}

type target struct {
	path  string
	lines []int // 0-based; nil means every declaration
}

// Document inserts or revises docstrings in the files opts selects.
func (r *Runner) Document(ctx context.Context, opts Options) (*RunReport, error) {
	targets, err := r.planStage(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		r.log.Info("nothing to document")
		return &RunReport{}, nil
	}

	report := &RunReport{}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.transformStage(t.path, opts.Write, func(src []byte) ([]byte, *autodoc.Report, error) {
			return r.engine.DocumentSource(t.path, src, autodoc.Selection{Lines: t.lines, Quote: opts.Quote})
		})
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, *res)
	}
	r.log.WithFields(logrus.Fields{
		"files":   len(report.Files),
		"changed": len(report.ChangedFiles()),
	}).Info("documentation run finished")
	return report, nil
}

// Convert rewrites existing docstrings under paths into style.
func (r *Runner) Convert(ctx context.Context, paths []string, style docstring.Style, write bool) (*RunReport, error) {
	files, err := r.crawler.Collect(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}

	report := &RunReport{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := r.transformStage(path, write, func(src []byte) ([]byte, *autodoc.Report, error) {
			return r.engine.ConvertSource(path, src, style)
		})
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, *res)
	}
	return report, nil
}

// Detection is the docstring style found in a file.
type Detection struct {
	Path  string
	Style docstring.Style
	Found bool
}

// Detect reports the docstring style of every file under paths.
func (r *Runner) Detect(paths []string) ([]Detection, error) {
	files, err := r.crawler.Collect(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}
	out := make([]Detection, 0, len(files))
	for _, path := range files {
		src, err := afero.ReadFile(r.fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		style, ok, err := r.engine.DetectSource(src)
		if err != nil {
			return nil, fmt.Errorf("failed to detect %s: %w", path, err)
		}
		out = append(out, Detection{Path: path, Style: style, Found: ok})
	}
	return out, nil
}

func (r *Runner) planStage(ctx context.Context, opts Options) ([]target, error) {
	if opts.ChangedSince != "" {
		return r.detectChangesStage(ctx, opts)
	}

	files, err := r.crawler.Collect(opts.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}
	if opts.Line > 0 {
		if len(files) != 1 {
			return nil, ErrLineNeedsOneFile
		}
		return []target{{path: files[0], lines: []int{opts.Line - 1}}}, nil
	}

	targets := make([]target, 0, len(files))
	for _, f := range files {
		targets = append(targets, target{path: f})
	}
	return targets, nil
}

// transformStage reads path, runs fn over it and writes the result back
// when asked to and the content changed.
func (r *Runner) transformStage(path string, write bool, fn func([]byte) ([]byte, *autodoc.Report, error)) (*FileResult, error) {
	src, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	out, rep, err := fn(src)
	if err != nil {
		return nil, err
	}

	res := &FileResult{Path: path, Changed: !bytes.Equal(src, out), Output: out, Report: rep}
	for _, f := range rep.Failures {
		r.log.WithField("path", path).Warn(f.Error())
	}
	if res.Changed && write {
		if err := r.writeStage(path, out); err != nil {
			return nil, err
		}
		r.log.WithField("path", path).Info("updated")
	}
	return res, nil
}

func (r *Runner) writeStage(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := r.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(r.fs, path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
