// Package output writes rendered files, or previews them when the run is
// not confirmed.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cameronsjo/iftool/internal/backup"
	"github.com/cameronsjo/iftool/internal/config"
	"github.com/cameronsjo/iftool/internal/fileutil"
	"github.com/cameronsjo/iftool/internal/lock"
	"github.com/cameronsjo/iftool/internal/render"
	"github.com/cameronsjo/iftool/internal/ui"
)

// ErrFileExists indicates a file would be replaced without --overwrite.
var ErrFileExists = errors.New("file exists")

// FileMode is the mode written files get.
const FileMode os.FileMode = 0644

// Result summarizes what Emit did.
type Result struct {
	// Written lists the paths written, in order.
	Written []string

	// Previewed counts files shown in a dry run.
	Previewed int

	// Backup names the backup of replaced files, if one was taken.
	Backup string
}

// Sink hands rendered files to disk or to the console.
type Sink struct {
	out  io.Writer
	opts *config.Options
}

// NewSink creates a Sink printing to out.
func NewSink(out io.Writer, opts *config.Options) *Sink {
	return &Sink{out: out, opts: opts}
}

// Emit previews files when the run is a dry run and writes them otherwise.
// Before writing, every target is checked: an existing file without
// --overwrite aborts the batch before anything is touched.
func (s *Sink) Emit(files []*render.File) (*Result, error) {
	if s.opts.DryRun() {
		for _, f := range files {
			s.preview(f)
		}
		return &Result{Previewed: len(files)}, nil
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}

	if !s.opts.Overwrite {
		if existing := existingFiles(paths); len(existing) > 0 {
			return nil, fmt.Errorf("%w: %s (use --overwrite to replace)", ErrFileExists, strings.Join(existing, ", "))
		}
	}

	result := &Result{}
	err := lock.WithLock(s.opts.StateDir, lock.ForDestination(s.opts.Destination), func() error {
		name, err := backup.Create(s.opts.StateDir, s.opts.Destination, paths)
		if err != nil {
			return fmt.Errorf("back up existing files: %w", err)
		}
		if name != "" {
			result.Backup = name
			ui.Verbose(s.out, s.opts.Verbose, "Backed up existing files to %s", name)
		}

		for _, f := range files {
			if err := s.write(f); err != nil {
				return err
			}
			result.Written = append(result.Written, f.Path)
		}
		return nil
	})
	return result, err
}

func (s *Sink) write(f *render.File) error {
	ui.Verbose(s.out, s.opts.Verbose, "Writing %s (%s)", f.Path, humanize.Bytes(uint64(len(f.Content))))
	if err := fileutil.WriteFile(f.Path, []byte(f.Content), FileMode); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

func (s *Sink) preview(f *render.File) {
	ui.Yellow.Fprintf(s.out, "<DRY-RUN> not writing %s\n", f.Path)
	for _, line := range Lines(f.Content) {
		ui.Plain(s.out, "> %s", line)
	}
	ui.Plain(s.out, `Use "--yes" option to write file.`)
	if _, err := os.Stat(f.Path); err == nil && !s.opts.Overwrite {
		ui.Warning(s.out, "%s exists; --overwrite is required to replace it", f.Path)
	}
}

// Lines splits content into lines without their terminators. A trailing
// newline does not produce an empty last line.
func Lines(content string) []string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func existingFiles(paths []string) []string {
	var existing []string
	for _, path := range paths {
		if _, err := os.Lstat(path); err == nil {
			existing = append(existing, path)
		}
	}
	return existing
}
