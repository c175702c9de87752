package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mhodges/phraserank/internal/extractor"
	"github.com/mhodges/phraserank/internal/pipeline"
	"github.com/mhodges/phraserank/internal/writer"
)

// OutputSuffix is the extension of every produced record file, regardless
// of the input suffix.
const OutputSuffix = ".csv"

// DefaultInputSuffix filters directory children when none is configured.
const DefaultInputSuffix = ".txt"

// ErrPairingMismatch reports that the pipeline yielded a different number
// of phrase lists than the file set it was built over. Positional pairing
// of files to results depends on exact parity, so this is checked rather
// than trusted.
var ErrPairingMismatch = errors.New("phrase stream out of step with file list")

// Options configures a single run.
type Options struct {
	InputPath  string
	OutputPath string

	// Recursive descends into subdirectories, rebasing the output path per
	// level. Ignored for single-file targets.
	Recursive bool

	// InputSuffix filters directory children. Defaults to ".txt".
	InputSuffix string

	// PhraseLimit truncates each file's phrase list. 0 keeps everything.
	PhraseLimit int

	// BatchSize groups files per extractor call. 0 scores a whole
	// directory level in one call; negative values are rejected.
	BatchSize int

	// OnProgress, if set, is called per directory level as files complete.
	// Purely observational.
	OnProgress func(Progress)

	// OnWarning, if set, receives every non-fatal warning as it surfaces.
	OnWarning func(writer.Warning)
}

// Progress reports per-directory-level completion.
type Progress struct {
	Dir        string
	Processed  int
	Discovered int
}

// Stats summarizes a completed run.
type Stats struct {
	FilesProcessed int
	FilesWritten   int
	FilesSkipped   int // empty-result skips
	DirsVisited    int
	Warnings       []writer.Warning
	Duration       time.Duration
}

// Dispatcher resolves run targets and drives the batch pipeline, pairing
// each input file with its phrase list and handing the pair to the writer.
type Dispatcher struct {
	ext extractor.Extractor
	out *writer.Writer
}

// New creates a Dispatcher around an extractor instance.
func New(ext extractor.Extractor) *Dispatcher {
	return &Dispatcher{
		ext: ext,
		out: writer.New(0),
	}
}

// Run processes opts.InputPath. A file target writes exactly one record
// file at the literal opts.OutputPath; a directory target mirrors matched
// children into opts.OutputPath, one level at a time under recursion.
// Warnings never abort the run; any other failure does, including pending
// recursion.
func (d *Dispatcher) Run(ctx context.Context, opts Options) (*Stats, error) {
	if opts.InputSuffix == "" {
		opts.InputSuffix = DefaultInputSuffix
	}
	if opts.BatchSize < 0 {
		return nil, fmt.Errorf("%w: got %d", pipeline.ErrInvalidBatchSize, opts.BatchSize)
	}

	start := time.Now()
	stats := &Stats{}

	info, err := os.Stat(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("resolve input: %w", err)
	}

	if !info.IsDir() {
		// Single-file target: literal output path, no directory creation,
		// never any recursion.
		err := d.processLevel(ctx, opts.InputPath, []string{opts.InputPath},
			func(string) string { return opts.OutputPath }, opts, stats)
		if err != nil {
			return nil, err
		}
		stats.Duration = time.Since(start)
		return stats, nil
	}

	// Directory target: an explicit worklist keeps deep trees off the call
	// stack. Depth-first pre-order; a level's own files complete before its
	// subdirectories, which are visited in directory-listing order.
	type dirPair struct {
		in, out string
	}
	work := []dirPair{{opts.InputPath, opts.OutputPath}}

	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]

		subdirs, err := d.processDir(ctx, cur.in, cur.out, opts, stats)
		if err != nil {
			return nil, err
		}

		if opts.Recursive {
			// Pushed in reverse so they pop in listing order
			for i := len(subdirs) - 1; i >= 0; i-- {
				work = append(work, dirPair{
					in:  subdirs[i],
					out: filepath.Join(cur.out, filepath.Base(subdirs[i])),
				})
			}
		}
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// processDir handles one directory level: matches direct children against
// the suffix filter, ensures the output directory exists, and runs the
// pipeline over the matched files. It returns the level's subdirectories
// in listing order for the caller to enqueue.
func (d *Dispatcher) processDir(ctx context.Context, inDir, outDir string, opts Options, stats *Stats) ([]string, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", inDir, err)
	}

	var files []string
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(inDir, entry.Name()))
			continue
		}
		if filepath.Ext(entry.Name()) == opts.InputSuffix {
			files = append(files, filepath.Join(inDir, entry.Name()))
		}
	}

	// Non-recursive mkdir, tolerant of a pre-existing directory
	if err := os.Mkdir(outDir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	stats.DirsVisited++

	destFor := func(path string) string {
		name := filepath.Base(path)
		stem := name[:len(name)-len(filepath.Ext(name))]
		return filepath.Join(outDir, stem+OutputSuffix)
	}

	if err := d.processLevel(ctx, inDir, files, destFor, opts, stats); err != nil {
		return nil, err
	}

	return subdirs, nil
}

// processLevel streams one file set through a fresh pipeline, pairing
// files with phrase lists positionally and asserting exact parity.
func (d *Dispatcher) processLevel(ctx context.Context, dir string, files []string,
	destFor func(string) string, opts Options, stats *Stats) error {

	cur, err := pipeline.New(d.ext, files, pipeline.Config{
		BatchSize:   opts.BatchSize,
		PhraseLimit: opts.PhraseLimit,
	})
	if err != nil {
		return err
	}

	d.progress(opts, Progress{Dir: dir, Processed: 0, Discovered: len(files)})

	for i, path := range files {
		if !cur.Next(ctx) {
			if err := cur.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w: %d results for %d files", ErrPairingMismatch, i, len(files))
		}

		warnings, err := d.out.Write(destFor(path), cur.Phrases())
		skipped := false
		for _, warn := range warnings {
			stats.Warnings = append(stats.Warnings, warn)
			if opts.OnWarning != nil {
				opts.OnWarning(warn)
			}
			if warn.Kind == writer.WarnEmptyResult {
				skipped = true
			}
		}
		if err != nil {
			return err
		}

		stats.FilesProcessed++
		if skipped {
			stats.FilesSkipped++
		} else {
			stats.FilesWritten++
		}

		d.progress(opts, Progress{Dir: dir, Processed: i + 1, Discovered: len(files)})
	}

	if cur.Next(ctx) {
		return fmt.Errorf("%w: more results than files", ErrPairingMismatch)
	}
	return cur.Err()
}

func (d *Dispatcher) progress(opts Options, p Progress) {
	if opts.OnProgress != nil {
		opts.OnProgress(p)
	}
}
