package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mhodges/phraserank/internal/config"
	"github.com/mhodges/phraserank/internal/dispatch"
	"github.com/mhodges/phraserank/internal/extractor"
	"github.com/mhodges/phraserank/internal/writer"
)

var version = "dev"

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(0)

	// Single exit point so deferred teardown in run always executes
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("phraserank: %v", err)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("phraserank", flag.ContinueOnError)
	var (
		configPath  = flags.String("config", "", "path to YAML configuration file")
		inputPath   = flags.String("input", "", "input file or directory")
		outputPath  = flags.String("output", "", "output file or directory")
		recursive   = flags.Bool("recursive", false, "recurse into subdirectories")
		inputSuffix = flags.String("suffix", "", "input file suffix filter (default .txt)")
		phraseLimit = flags.Int("limit", 0, "max phrases per file (0 = all)")
		batchSize   = flags.Int("batch", 0, "files per extractor call (0 = whole directory)")
		quiet       = flags.Bool("quiet", false, "suppress progress output")
		showVersion = flags.Bool("version", false, "print version and exit")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		log.Printf("phraserank %s", version)
		return nil
	}

	// Optional .env for remote extractor credentials
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	// Flags override the config file
	if *inputPath != "" {
		cfg.Run.InputPath = *inputPath
	}
	if *outputPath != "" {
		cfg.Run.OutputPath = *outputPath
	}
	if *recursive {
		cfg.Run.Recursive = true
	}
	if *inputSuffix != "" {
		cfg.Run.InputSuffix = *inputSuffix
	}
	if *phraseLimit != 0 {
		cfg.Run.PhraseLimit = *phraseLimit
	}
	if *batchSize != 0 {
		cfg.Run.BatchSize = *batchSize
	}

	if cfg.Run.InputPath == "" || cfg.Run.OutputPath == "" {
		return errors.New("-input and -output are required (or set them in the config file)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ext, err := extractor.New(extractor.Config{
		Provider:  cfg.Extractor.Provider,
		RemoteURL: cfg.Extractor.RemoteURL,
		APIKey:    cfg.APIKey(),
		CacheSize: cfg.Extractor.CacheSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = ext.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigChan)
		close(sigChan)
	}()
	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		log.Printf("received %v, stopping after the current batch", sig)
		cancel()
	}()

	opts := dispatch.Options{
		InputPath:   cfg.Run.InputPath,
		OutputPath:  cfg.Run.OutputPath,
		Recursive:   cfg.Run.Recursive,
		InputSuffix: cfg.Run.InputSuffix,
		PhraseLimit: cfg.Run.PhraseLimit,
		BatchSize:   cfg.Run.BatchSize,
		OnWarning: func(w writer.Warning) {
			log.Printf("warning: %s", w)
		},
	}
	if !*quiet {
		opts.OnProgress = func(p dispatch.Progress) {
			log.Printf("%s: %d/%d", p.Dir, p.Processed, p.Discovered)
		}
	}

	stats, err := dispatch.New(ext).Run(ctx, opts)
	if err != nil {
		return err
	}

	log.Printf("done: %d files processed (%d written, %d skipped), %d directories, %d warnings, %v",
		stats.FilesProcessed, stats.FilesWritten, stats.FilesSkipped,
		stats.DirsVisited, len(stats.Warnings), stats.Duration)
	return nil
}
