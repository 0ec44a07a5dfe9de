package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/pkg/errors"

	"github.com/sourcegraph/lsif-flow/internal/config"
	"github.com/sourcegraph/lsif-flow/internal/index"
	"github.com/sourcegraph/lsif-flow/internal/log"
	"github.com/sourcegraph/lsif-flow/internal/metrics"
	"github.com/sourcegraph/lsif-flow/internal/protocol"
	"github.com/sourcegraph/lsif-flow/internal/semanticdb"
)

const indexCommandName = "index"

type indexFlags struct {
	root       string
	configFile string

	output        string
	parallelism   int
	startID       uint64
	language      string
	monikerScheme string
	exclude       []string
	metricsFile   string
	progress      bool
	quiet         bool
	verbose       bool

	// set records the flags given on the command line; they take precedence
	// over the config file.
	set map[string]bool
}

func registerIndexCommand(app *kingpin.Application) *indexFlags {
	f := &indexFlags{set: map[string]bool{}}
	defaults := config.Default()

	cmd := app.Command(indexCommandName, "Write the LSIF dump of a SemanticDB workspace.").Default()
	cmd.Arg("root", "Directory searched for *.semanticdb files.").Default(".").ExistingDirVar(&f.root)
	cmd.Flag("config", "YAML file with default settings.").ExistingFileVar(&f.configFile)
	cmd.Flag("out", "The output file.").Short('o').Default(defaults.Output).Action(f.mark("out")).StringVar(&f.output)
	cmd.Flag("parallelism", "Concurrent hover lookups. 0 selects the sequential indexer, which is slower but needs less memory.").
		Short('p').Default(strconv.Itoa(defaults.Parallelism)).Action(f.mark("parallelism")).IntVar(&f.parallelism)
	cmd.Flag("index", "The id preceding the first item. Use a different value when concatenating dumps.").
		Short('i').Default("0").Action(f.mark("index")).Uint64Var(&f.startID)
	cmd.Flag("language", "Language of the projects to index.").Default(defaults.Language).Action(f.mark("language")).StringVar(&f.language)
	cmd.Flag("moniker-scheme", "Scheme of emitted monikers.").Default(defaults.MonikerScheme).Action(f.mark("moniker-scheme")).StringVar(&f.monikerScheme)
	cmd.Flag("exclude", "Path or glob of a project or document to leave out. Repeatable.").Short('e').Action(f.mark("exclude")).StringsVar(&f.exclude)
	cmd.Flag("metrics-file", "Write Prometheus metrics to this file when done.").Action(f.mark("metrics-file")).StringVar(&f.metricsFile)
	cmd.Flag("progress", "Print a dot per document.").Default("true").Action(f.mark("progress")).BoolVar(&f.progress)
	cmd.Flag("quiet", "Only log warnings and errors.").Short('q').Action(f.mark("quiet")).BoolVar(&f.quiet)
	cmd.Flag("verbose", "Log debug output.").Short('v').Action(f.mark("verbose")).BoolVar(&f.verbose)

	return f
}

func (f *indexFlags) mark(name string) kingpin.Action {
	return func(*kingpin.ParseContext) error {
		f.set[name] = true
		return nil
	}
}

// resolveConfig layers explicitly passed flags over the config file.
func (f *indexFlags) resolveConfig() (config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return cfg, err
		}
	}

	if f.set["out"] {
		cfg.Output = f.output
	}
	if f.set["parallelism"] {
		cfg.Parallelism = f.parallelism
	}
	if f.set["index"] {
		cfg.StartID = f.startID
	}
	if f.set["language"] {
		cfg.Language = f.language
	}
	if f.set["moniker-scheme"] {
		cfg.MonikerScheme = f.monikerScheme
	}
	if f.set["exclude"] {
		cfg.Exclude = append(cfg.Exclude, f.exclude...)
	}
	if f.set["metrics-file"] {
		cfg.MetricsFile = f.metricsFile
	}
	if f.set["progress"] {
		cfg.NoProgress = !f.progress
	}
	if f.set["quiet"] {
		cfg.Quiet = f.quiet
	}
	if f.set["verbose"] {
		cfg.Verbose = f.verbose
	}

	return cfg, cfg.Validate()
}

func runIndex(f *indexFlags) error {
	cfg, err := f.resolveConfig()
	if err != nil {
		return err
	}
	log.Configure(cfg.Verbose, cfg.Quiet)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	workspace, err := semanticdb.Load(f.root)
	if err != nil {
		return err
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		return errors.Wrap(err, "create dump file")
	}
	defer out.Close()

	var recorder *metrics.Recorder
	if cfg.MetricsFile != "" {
		recorder = metrics.New()
	}

	indexer := index.NewIndexer(workspace, workspace, index.Options{
		Parallelism:   cfg.Parallelism,
		StartID:       cfg.StartID,
		Language:      cfg.Language,
		MonikerScheme: cfg.MonikerScheme,
		Exclude:       cfg.Exclude,
		ToolInfo: protocol.ToolInfo{
			Name:    "lsif-flow",
			Version: version,
			Args:    os.Args[1:],
		},
		PrintProgressDots: !cfg.NoProgress && !cfg.Quiet,
		Metrics:           recorder,
	}, out)

	stats, err := indexer.Index(ctx)
	if !cfg.NoProgress && !cfg.Quiet {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return errors.Wrap(err, "index")
	}

	if err := out.Close(); err != nil {
		return errors.Wrap(err, "close dump file")
	}

	log.Info("indexing complete",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"projects", stats.NumProjects,
		"documents", stats.NumDocuments,
		"symbols", stats.NumSymbols,
		"elements", stats.NumElements,
		"output", cfg.Output,
	)

	return recorder.WriteTextfile(cfg.MetricsFile)
}
