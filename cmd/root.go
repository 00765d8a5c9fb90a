package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/tsorg/api"
	"github.com/agentic-research/tsorg/internal/cache"
	"github.com/agentic-research/tsorg/internal/config"
	"github.com/agentic-research/tsorg/internal/hostfs"
	"github.com/agentic-research/tsorg/internal/organize"
	"github.com/agentic-research/tsorg/internal/runner"
	"github.com/agentic-research/tsorg/internal/writeback"
)

const version = "0.1.0"

// cacheFileName is created next to the resolved configuration (or in
// the target directory) when --cache is on.
const cacheFileName = ".tsorg.cache.db"

var (
	configPath string
	checkMode  bool
	useCache   bool
	toStdout   bool
)

func init() {
	// --config is shared with subcommands (serve resolves it per request)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (discovery walks parent directories when unset)")
	rootCmd.Flags().BoolVar(&checkMode, "check", false, "Report files not in canonical form without writing")
	rootCmd.Flags().BoolVar(&useCache, "cache", false, "Skip files recorded as clean in the result cache")
	rootCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the organized text of a single file instead of writing")
}

var rootCmd = &cobra.Command{
	Use:     "tsorg [paths...]",
	Short:   "Organize TypeScript source files into labeled, counted sections",
	Version: version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveConfig loads the explicit --config file, or discovers one by
// walking up from dir.
func resolveConfig(dir string) (*api.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg, found, err := config.Discover(dir)
	if err != nil {
		return nil, err
	}
	if found != "" {
		fmt.Fprintf(os.Stderr, "Using configuration %s\n", found)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	if toStdout {
		if len(args) != 1 {
			return fmt.Errorf("--stdout takes exactly one file")
		}
		return printOrganized(args[0])
	}

	var organized, unchanged, skipped, failed int
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}

		dir := abs
		if !info.IsDir() {
			dir = filepath.Dir(abs)
		}
		cfg, err := resolveConfig(dir)
		if err != nil {
			return err
		}

		src := hostfs.New(osfs.New("/"))
		r, err := runner.New(src, cfg, writeback.Replace)
		if err != nil {
			return err
		}

		opts := runner.Options{Check: checkMode}
		if useCache {
			c, err := cache.Open(filepath.Join(dir, cacheFileName), config.Hash(cfg))
			if err != nil {
				return err
			}
			opts.Cache = c
		}

		var results []runner.FileResult
		if info.IsDir() {
			results, err = r.Run(abs, opts)
		} else {
			results = []runner.FileResult{r.File(abs, opts)}
		}

		if opts.Cache != nil {
			if ferr := opts.Cache.Flush(); ferr != nil {
				fmt.Fprintf(os.Stderr, "warning: cache flush: %v\n", ferr)
			}
			_ = opts.Cache.Close()
		}
		if err != nil {
			return err
		}

		for _, res := range results {
			switch res.Status {
			case runner.StatusOrganized:
				organized++
				if checkMode {
					fmt.Printf("would organize %s\n", res.Path)
				} else {
					fmt.Printf("organized %s\n", res.Path)
				}
			case runner.StatusUnchanged:
				unchanged++
			case runner.StatusSkipped:
				skipped++
			case runner.StatusFailed:
				failed++
				fmt.Fprintf(os.Stderr, "%s: %v\n", res.Path, res.Err)
			}
		}
	}

	fmt.Printf("%d organized, %d unchanged, %d skipped, %d failed\n",
		organized, unchanged, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	if checkMode && organized > 0 {
		return fmt.Errorf("%d file(s) not in canonical form", organized)
	}
	return nil
}

func printOrganized(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(filepath.Dir(abs))
	if err != nil {
		return err
	}
	res, err := organize.Organize(abs, string(data), cfg)
	if err != nil {
		return err
	}
	fmt.Print(res.Output)
	return nil
}
