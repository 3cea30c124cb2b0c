package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaman1337/neo-data/internal/compile"
	"github.com/yaman1337/neo-data/internal/config"
	"github.com/yaman1337/neo-data/internal/neows"
	"github.com/yaman1337/neo-data/internal/observability"
	"github.com/yaman1337/neo-data/internal/sbdb"
	"github.com/yaman1337/neo-data/internal/store"
)

var compileCommand = &cobra.Command{
	Use:   "compile",
	Short: "Fetch, join, and write the NEO dataset",
	Long: `Pages through the NeoWs browse service, looks up orbital parameters for every
near-earth object from the Small-Body Database, and writes the joined records
to a JSON file.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runCompileCmd,
}

var (
	compileConfigPath  string
	compileAPIKey      string
	compileOutput      string
	compilePageSize    int
	compileMaxPages    int
	compileConcurrency int
	compileDatabaseURL string
	compileVerbose     bool
)

func init() {
	// Config file flag (processed first)
	compileCommand.Flags().StringVar(&compileConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	// API key can be passed as a flag, or read from env var NASA_API_KEY
	compileCommand.Flags().StringVar(&compileAPIKey, "api-key", "", "NASA API key (optional, defaults to NASA_API_KEY env var)")
	compileCommand.Flags().StringVarP(&compileOutput, "output", "o", "", "Destination path for the compiled dataset")
	compileCommand.Flags().IntVar(&compilePageSize, "page-size", 0, "NEOs requested per browse page (default 20)")
	compileCommand.Flags().IntVar(&compileMaxPages, "max-pages", 0, "Stop after this many browse pages (0 = all)")
	compileCommand.Flags().IntVar(&compileConcurrency, "concurrency", 0, "Bounded pool size for orbital lookups (default 1 = sequential)")
	compileCommand.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "Print detailed progress information")

	// Database URL for the optional run ledger
	compileCommand.Flags().StringVar(&compileDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(compileCommand)
}

func runCompileCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if compileConfigPath != "" {
		loadedCfg, err := config.LoadConfig(compileConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if compileVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", compileConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = compileAPIKey
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputPath = compileOutput
	}
	if cmd.Flags().Changed("page-size") {
		cfg.PageSize = compilePageSize
	}
	if cmd.Flags().Changed("max-pages") {
		cfg.MaxPages = compileMaxPages
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = compileConcurrency
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = compileDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Defaults())

	// Step 4: Validate
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("an API key is required: pass --api-key, set NASA_API_KEY, or use a config file")
	}

	browser := neows.NewClient(neows.DefaultBaseURL, cfg.APIKey, cfg.PageSize, nil)
	lookup := sbdb.NewClient(sbdb.DefaultBaseURL, nil)

	// Initialize the run ledger if configured
	var ledger *store.DB
	if cfg.DatabaseURL != "" {
		var err error
		ledger, err = store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to connect to database: %v\n", err)
			fmt.Fprintf(os.Stderr, "Continuing without run ledger...\n")
			ledger = nil
		} else {
			defer ledger.Close()
			if err := ledger.EnsureSchema(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				fmt.Fprintf(os.Stderr, "Continuing without run ledger...\n")
				ledger.Close()
				ledger = nil
			}
		}
	}

	opts := compile.Options{
		OutputPath:  cfg.OutputPath,
		MaxPages:    cfg.MaxPages,
		Concurrency: cfg.Concurrency,
	}
	if compileVerbose {
		opts.OnSkip = func(identifier string, err error) {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", identifier, err)
		}
	}

	result, runErr := runWithLedger(ctx, ledger, browser, lookup, opts)
	if runErr != nil {
		return runErr
	}

	if compileVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintCompileResult(cfg.OutputPath, result)
	} else {
		fmt.Fprintf(os.Stdout, "Wrote %d entries to %s (%d skipped)\n",
			result.Entries, cfg.OutputPath, len(result.Skipped))
	}
	return nil
}

// runWithLedger wraps compile.Run with run-ledger bookkeeping when a database
// is configured. Ledger failures degrade to warnings; the compile result wins.
func runWithLedger(ctx context.Context, ledger *store.DB, browser compile.Browser, lookup compile.Lookup, opts compile.Options) (*compile.Result, error) {
	if ledger == nil {
		return compile.Run(ctx, browser, lookup, opts)
	}

	runID, err := ledger.CreateRun(ctx, opts.OutputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return compile.Run(ctx, browser, lookup, opts)
	}

	result, runErr := compile.Run(ctx, browser, lookup, opts)
	if runErr != nil {
		if err := ledger.CompleteRun(ctx, runID, "failed", 0, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		return nil, runErr
	}

	if err := ledger.CompleteRun(ctx, runID, "completed", result.Entries, result.Skipped); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := ledger.SaveDataset(ctx, runID, result.Dataset); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return result, nil
}
