package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"codescope/internal/analyzer"
	"codescope/internal/config"
	"codescope/internal/model"
	"codescope/internal/storage"
)

var (
	languagesFlag []string
	languageFlag  string
	formatFlag    string
	outputFlag    string
	dbFlag        string
	includeFlag   []string
	ignoreFlag    []string
	workersFlag   int
	quietFlag     bool
	watchFlag     bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze source files and emit the structural document",
	Long: `Analyze walks a directory tree (or takes explicit files), parses every
supported source file, and emits one document describing the structure of
each file: top-level variables, functions, and classes.

Files that cannot be read or parsed degrade to empty records with
diagnostics on stderr; they never abort the run.

Examples:
  # Analyze the current directory, JSON to stdout
  codescope analyze

  # Analyze a project into a YAML file
  codescope analyze ./myproject --format yaml --output structure.yml

  # Restrict to two languages and persist the run
  codescope analyze --languages python,typescript --db runs.db

  # Watch for changes and keep the output current
  codescope analyze --output structure.json --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringSliceVar(&languagesFlag, "languages", nil, "Restrict analysis to these languages")
	analyzeCmd.Flags().StringVar(&languageFlag, "language", "", "Force every file through one language handler")
	analyzeCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: json or yaml")
	analyzeCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file ('-' for stdout)")
	analyzeCmd.Flags().StringVar(&dbFlag, "db", "", "Persist the run to this SQLite database")
	analyzeCmd.Flags().StringSliceVar(&includeFlag, "include", nil, "Glob patterns to include")
	analyzeCmd.Flags().StringSliceVar(&ignoreFlag, "ignore", nil, "Glob patterns to ignore")
	analyzeCmd.Flags().IntVar(&workersFlag, "workers", 0, "Parallel workers (0 = GOMAXPROCS)")
	analyzeCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	analyzeCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and reanalyze")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling analysis...")
		cancel()
	}()

	rootDir, err := resolveRootDir(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cfg)

	format, err := model.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	agg, err := analyzer.NewAggregator(Version, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	defer agg.Close()

	opts := analyzer.Options{
		RootDir:      rootDir,
		LanguageHint: languageFlag,
		Languages:    cfg.Languages,
		Include:      cfg.Paths.Include,
		Ignore:       cfg.Paths.Ignore,
		Workers:      cfg.Analysis.Workers,
		Progress:     NewCLIProgressReporter(quietFlag),
		Logger:       slog.Default(),
	}

	var store *storage.Store
	if cfg.Database.Path != "" {
		store, err = storage.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	emit := func(result *analyzer.Result) error {
		reportDiagnostics(result.Diagnostics)
		if err := writeDocument(result.Document, cfg.Output.Path, format); err != nil {
			return err
		}
		if store != nil {
			runID, created, err := store.SaveRun(rootDir, result.Document)
			if err != nil {
				return fmt.Errorf("failed to persist run: %w", err)
			}
			if created && !quietFlag {
				fmt.Fprintf(os.Stderr, "Run saved: %s\n", runID)
			}
		}
		return nil
	}

	result, err := agg.Run(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("analysis cancelled")
		}
		return fmt.Errorf("analysis failed: %w", err)
	}
	if err := emit(result); err != nil {
		return err
	}

	if !watchFlag {
		return nil
	}

	// Watch mode: reruns go through the same emit path, so output and
	// database stay consistent with the tree.
	watchOpts := opts
	watchOpts.Progress = nil
	watcher, err := analyzer.NewWatcher(agg, watchOpts, func(result *analyzer.Result) {
		if err := emit(result); err != nil {
			slog.Error("failed to write reanalysis result", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watch mode: %w", err)
	}
	defer watcher.Stop()

	if !quietFlag {
		fmt.Fprintln(os.Stderr, "Watching for changes (Ctrl+C to stop)...")
	}
	watcher.Start(ctx)
	<-ctx.Done()
	return nil
}

func resolveRootDir(args []string) (string, error) {
	rootDir := "."
	if len(args) == 1 {
		rootDir = args[0]
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return "", fmt.Errorf("cannot analyze %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("cannot analyze %s: not a directory", rootDir)
	}
	return rootDir, nil
}

// applyFlags overlays explicit command-line flags onto the loaded config.
func applyFlags(cfg *config.Config) {
	if len(languagesFlag) > 0 {
		cfg.Languages = languagesFlag
	}
	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if outputFlag != "" {
		cfg.Output.Path = outputFlag
	}
	if dbFlag != "" {
		cfg.Database.Path = dbFlag
	}
	if len(includeFlag) > 0 {
		cfg.Paths.Include = includeFlag
	}
	if len(ignoreFlag) > 0 {
		cfg.Paths.Ignore = ignoreFlag
	}
	if workersFlag > 0 {
		cfg.Analysis.Workers = workersFlag
	}
}

func writeDocument(doc *model.Document, path string, format model.Format) error {
	if path == "" || path == "-" {
		encoded, err := doc.Encode(format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(encoded)
		return err
	}
	return doc.WriteFile(path, format)
}

func reportDiagnostics(diagnostics []analyzer.Diagnostic) {
	for _, d := range diagnostics {
		if d.Stage == "resolve" && !verbose {
			// Unsupported files are routine; only surface them with -v.
			continue
		}
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", d.FilePath, d.Message)
	}
}
