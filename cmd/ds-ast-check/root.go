package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dsastcheck/app"
	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/config"
	"github.com/ludo-technologies/dsastcheck/internal/version"
	"github.com/ludo-technologies/dsastcheck/service"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	root       string
	configPath string
	verbose    bool
}

// runOptions are the per-run flags of the check commands
type runOptions struct {
	allowlist  string
	format     string
	jobs       int
	noProgress bool
}

func (o *runOptions) overrides() service.ConfigOverrides {
	return service.ConfigOverrides{
		Format:        o.format,
		AllowlistPath: o.allowlist,
		Jobs:          o.jobs,
		NoProgress:    o.noProgress,
	}
}

// environment is the resolved root, configuration and logger of a command
type environment struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	global := &globalOptions{}
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "ds-ast-check [file...]",
		Short: "ds-ast-check - design-system conformance checker",
		Long: `ds-ast-check parses every source file under the scan roots and reports
design-token violations: deprecated or raw palette classes, disallowed UI
libraries, hardcoded inline styles and missing agentic chat primitives.

Findings listed in scripts/ds-ast-allowlist.json are suppressed.

Exit codes:
  0 - No issues
  1 - Issues found, or the run could not complete

Examples:
  # Check the project in the current directory
  ds-ast-check

  # Check another project with 4 workers
  ds-ast-check --root ../web -j 4

  # Machine-readable report
  ds-ast-check --format json`,
		Version:       version.GetVersion(),
		Args:          cobra.ArbitraryArgs,
		RunE:          func(cmd *cobra.Command, args []string) error { return runCheck(cmd, global, opts, args) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&global.root, "root", "",
		"Project root (default: current directory)")
	cmd.PersistentFlags().StringVarP(&global.configPath, "config", "c", "",
		"Path to config file (default: .ds-ast-check.yaml in the root)")
	cmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false,
		"Write debug logs to stderr")
	addRunFlags(cmd, opts, true)

	cmd.AddCommand(linesCmd(global))
	cmd.AddCommand(watchCmd(global))
	cmd.AddCommand(rulesCmd())
	cmd.AddCommand(initCmd(global))
	cmd.AddCommand(versionCmd(global))

	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *runOptions, withAllowlist bool) {
	if withAllowlist {
		cmd.Flags().StringVar(&opts.allowlist, "allowlist", "",
			"Allowlist file (default: scripts/ds-ast-allowlist.json)")
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "",
		"Output format: text, json, yaml")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0,
		"Files analysed at once (default from config: 1)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false,
		"Disable the progress bar")
}

// newLogger writes warnings, or everything with verbose, as slog text to w
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func setupEnvironment(cmd *cobra.Command, global *globalOptions, overrides service.ConfigOverrides) (*environment, error) {
	loader := service.NewConfigurationLoader()

	root, err := loader.ResolveRoot(global.root)
	if err != nil {
		return nil, err
	}

	cfg, err := loader.LoadConfig(global.configPath, root, overrides)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), global.verbose)
	logger.Debug("configuration loaded",
		"root", root,
		"scan_roots", cfg.Analysis.ScanRoots,
		"workers", cfg.Performance.MaxWorkers,
		"format", cfg.Output.Format,
	)
	return &environment{root: root, cfg: cfg, logger: logger}, nil
}

// fatal converts a run-aborting error into the exit error printed by main
func fatal(err error) error {
	return &CheckExitError{Code: 1, Message: service.FormatFatal(err)}
}

func runCheck(cmd *cobra.Command, global *globalOptions, opts *runOptions, files []string) error {
	env, err := setupEnvironment(cmd, global, opts.overrides())
	if err != nil {
		return fatal(err)
	}

	format := domain.OutputFormat(env.cfg.Output.Format)
	pm := service.NewProgressManager(env.cfg.Output.Progress && format == domain.OutputFormatText, cmd.ErrOrStderr())

	uc, err := app.NewCheckUseCaseBuilder().
		WithConfig(env.cfg).
		WithProgress(pm).
		WithLogger(env.logger).
		Build()
	if err != nil {
		pm.Close()
		return fatal(err)
	}

	result, err := uc.Execute(cmd.Context(), domain.CheckRequest{Root: env.root, Files: files})
	pm.Close()
	if err != nil {
		return fatal(err)
	}

	if err := service.NewOutputFormatter().WriteCheck(result, format, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
		return fatal(err)
	}

	if !result.Passed {
		return &CheckExitError{Code: result.ExitCode}
	}
	return nil
}

func versionCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if global.verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "ds-ast-check version %s\n", version.GetVersion())
			}
		},
	}
}
