package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dsastcheck/internal/config"
	"github.com/ludo-technologies/dsastcheck/internal/constants"
)

func initCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter allowlist and configuration file",
		Long: `Create scripts/ds-ast-allowlist.json and .ds-ast-check.yaml in the
project root. Existing files are kept unless --force is given.

Examples:
  # Write both files with defaults
  ds-ast-check init

  # Choose scan roots and options interactively
  ds-ast-check init --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error { return runInit(cmd, global) },
	}

	cmd.Flags().Bool("force", false, "Overwrite existing files")
	cmd.Flags().BoolP("interactive", "i", false, "Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, global *globalOptions) error {
	force, _ := cmd.Flags().GetBool("force")
	interactive, _ := cmd.Flags().GetBool("interactive")

	root := global.root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("directory does not exist: %s", root)
	}

	cfg := config.DefaultConfig()
	if interactive {
		if err := runInteractiveSetup(cfg); err != nil {
			return err
		}
	}

	configPath := global.configPath
	if configPath == "" {
		configPath = filepath.Join(root, constants.ConfigFileName)
	}
	allowlistPath := cfg.AllowlistPath(root)

	if !force {
		for _, path := range []string{configPath, allowlistPath} {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists. Use --force to overwrite", path)
			}
		}
	}

	content, err := config.GetConfigTemplate(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := writeFile(configPath, content); err != nil {
		return err
	}
	if err := writeFile(allowlistPath, config.GetAllowlistTemplate()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", configPath)
	fmt.Fprintf(out, "Created %s\n", allowlistPath)
	fmt.Fprintln(out, "\nRun 'ds-ast-check' to check your project.")
	return nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// parseScanRoots splits a comma-separated list, dropping blanks
func parseScanRoots(input string) []string {
	var roots []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.Trim(strings.TrimSpace(part), "/"); part != "" {
			roots = append(roots, part)
		}
	}
	return roots
}

func runInteractiveSetup(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("ds-ast-check Setup")
	fmt.Println("==================")
	fmt.Println()

	rootsPrompt := promptui.Prompt{
		Label:   "Scan roots (comma-separated)",
		Default: strings.Join(cfg.Analysis.ScanRoots, ","),
		Validate: func(input string) error {
			if len(parseScanRoots(input)) == 0 {
				return fmt.Errorf("at least one scan root is required")
			}
			return nil
		},
	}
	rootsInput, err := rootsPrompt.Run()
	if err != nil {
		return fmt.Errorf("scan roots input cancelled: %w", err)
	}
	cfg.Analysis.ScanRoots = parseScanRoots(rootsInput)

	gitignoreTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ . | cyan }}",
		Inactive: "   {{ . | white }}",
		Selected: "\U00002705 {{ . | green }}",
	}
	gitignorePrompt := promptui.Select{
		Label:     "Skip files ignored by the root .gitignore?",
		Items:     []string{"No", "Yes"},
		Templates: gitignoreTemplates,
	}
	idx, _, err := gitignorePrompt.Run()
	if err != nil {
		return fmt.Errorf("gitignore selection cancelled: %w", err)
	}
	cfg.Analysis.RespectGitignore = idx == 1

	workersPrompt := promptui.Prompt{
		Label:   "Files analysed at once (0 = one per CPU)",
		Default: strconv.Itoa(cfg.Performance.MaxWorkers),
		Validate: func(input string) error {
			n, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || n < 0 {
				return fmt.Errorf("enter a number >= 0")
			}
			return nil
		},
	}
	workersInput, err := workersPrompt.Run()
	if err != nil {
		return fmt.Errorf("workers input cancelled: %w", err)
	}
	cfg.Performance.MaxWorkers, _ = strconv.Atoi(strings.TrimSpace(workersInput))

	fmt.Println()
	return nil
}
