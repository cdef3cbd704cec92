package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dsastcheck/app"
	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/constants"
	"github.com/ludo-technologies/dsastcheck/service"
)

func linesCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "lines [file...]",
		Short: "Run the line-oriented check (ds:check)",
		Long: `Run the older line-oriented check. It scans the same roots as the AST
check plus .mdx files and reports, per line, direct lucide-react imports,
deprecated class literals and raw palette classes. No allowlist applies.

Examples:
  ds-ast-check lines
  ds-ast-check lines --format yaml`,
		RunE:          func(cmd *cobra.Command, args []string) error { return runLines(cmd, global, opts, args) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addRunFlags(cmd, opts, false)
	return cmd
}

func runLines(cmd *cobra.Command, global *globalOptions, opts *runOptions, files []string) error {
	linesFatal := func(err error) error {
		return &CheckExitError{Code: 1, Message: fmt.Sprintf("%s failed: %v", constants.LinesReportPrefix, err)}
	}

	env, err := setupEnvironment(cmd, global, opts.overrides())
	if err != nil {
		return linesFatal(err)
	}

	format := domain.OutputFormat(env.cfg.Output.Format)
	pm := service.NewProgressManager(env.cfg.Output.Progress && format == domain.OutputFormatText, cmd.ErrOrStderr())

	result, err := app.NewLinesUseCase(env.cfg, pm).Execute(cmd.Context(), domain.CheckRequest{Root: env.root, Files: files})
	pm.Close()
	if err != nil {
		return linesFatal(err)
	}

	if err := service.NewOutputFormatter().WriteLines(result, format, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
		return linesFatal(err)
	}

	if !result.Passed() {
		return &CheckExitError{Code: 1}
	}
	return nil
}
