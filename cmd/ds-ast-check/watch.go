package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dsastcheck/app"
	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/service"
)

var (
	passStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E7D32")).
			Padding(0, 1)

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#C62828")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func watchCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the check whenever source files change",
		Long: `Run the AST check, then watch the scan roots and re-run it after files
change. Unchanged files are served from a report cache. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, cmd, global, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.allowlist, "allowlist", "",
		"Allowlist file (default: scripts/ds-ast-allowlist.json)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0,
		"Files analysed at once (default from config: 1)")
	return cmd
}

// watchSession holds the state of one watch command
type watchSession struct {
	env           *environment
	helper        *app.FileHelper
	cache         *service.ReportCache
	uc            *app.CheckUseCase
	allowlistPath string
	out           io.Writer
}

func runWatch(ctx context.Context, cmd *cobra.Command, global *globalOptions, opts *runOptions) error {
	overrides := opts.overrides()
	overrides.Format = string(domain.OutputFormatText)
	overrides.NoProgress = true

	env, err := setupEnvironment(cmd, global, overrides)
	if err != nil {
		return fatal(err)
	}

	session, err := newWatchSession(env, cmd.OutOrStdout())
	if err != nil {
		return fatal(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fatal(fmt.Errorf("watch init failed: %w", err))
	}
	defer watcher.Close()

	if err := session.addWatches(watcher); err != nil {
		return fatal(fmt.Errorf("watch failed: %w", err))
	}

	session.run(ctx)
	fmt.Fprintln(session.out, dimStyle.Render("watching for changes, press Ctrl+C to stop"))

	debounce := time.Duration(env.cfg.Watch.DebounceMS) * time.Millisecond
	pending := make(chan struct{}, 1)
	var timer *time.Timer
	trigger := func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !session.handleEvent(watcher, ev) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, trigger)
		case <-pending:
			session.run(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			env.logger.Warn("watch error", "error", err)
		}
	}
}

func newWatchSession(env *environment, out io.Writer) (*watchSession, error) {
	cache, err := service.NewReportCache(env.cfg.Watch.CacheSize)
	if err != nil {
		return nil, err
	}

	uc, err := app.NewCheckUseCaseBuilder().
		WithConfig(env.cfg).
		WithCache(cache).
		WithLogger(env.logger).
		Build()
	if err != nil {
		return nil, err
	}

	return &watchSession{
		env:           env,
		helper:        app.NewFileHelper(env.cfg.Analysis),
		cache:         cache,
		uc:            uc,
		allowlistPath: env.cfg.AllowlistPath(env.root),
		out:           out,
	}, nil
}

// addWatches watches the root, the allowlist directory and every directory
// under the scan roots except skipped ones
func (s *watchSession) addWatches(w *fsnotify.Watcher) error {
	if err := w.Add(s.env.root); err != nil {
		return err
	}
	if dir := filepath.Dir(s.allowlistPath); dir != s.env.root {
		if _, err := os.Stat(dir); err == nil {
			if err := w.Add(dir); err != nil {
				return err
			}
		}
	}
	for _, scanRoot := range s.env.cfg.Analysis.ScanRoots {
		dir := filepath.Join(s.env.root, filepath.FromSlash(scanRoot))
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := s.addWatchRecursive(w, dir); err != nil {
			return err
		}
	}
	return nil
}

func (s *watchSession) addWatchRecursive(w *fsnotify.Watcher, dir string) error {
	if err := w.Add(dir); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() || s.isSkipped(entry.Name()) {
			continue
		}
		if err := s.addWatchRecursive(w, filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (s *watchSession) isSkipped(name string) bool {
	for _, skip := range s.env.cfg.Analysis.SkipDirs {
		if name == skip {
			return true
		}
	}
	return false
}

// handleEvent updates watches and the cache for ev and reports whether the
// event should trigger a re-run
func (s *watchSession) handleEvent(w *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}

	if ev.Name == s.allowlistPath {
		// suppression applies inside cached reports
		s.cache.Purge()
		return true
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if s.isSkipped(filepath.Base(ev.Name)) || !s.underScanRoot(ev.Name) {
				return false
			}
			if err := s.addWatchRecursive(w, ev.Name); err != nil {
				s.env.logger.Warn("cannot watch directory", "dir", ev.Name, "error", err)
			}
			return true
		}
	}

	if !s.helper.IsSourceFile(filepath.Base(ev.Name)) || !s.underScanRoot(ev.Name) {
		// a removed directory drops its files from the next run
		return ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
	}

	s.cache.Invalidate(ev.Name)
	s.env.logger.Debug("file changed", "file", ev.Name, "op", ev.Op.String())
	return true
}

func (s *watchSession) underScanRoot(path string) bool {
	for _, scanRoot := range s.env.cfg.Analysis.ScanRoots {
		dir := filepath.Join(s.env.root, filepath.FromSlash(scanRoot))
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// run performs one check and prints the banner and issues
func (s *watchSession) run(ctx context.Context) {
	result, err := s.uc.Execute(ctx, domain.CheckRequest{Root: s.env.root})
	if err != nil {
		fmt.Fprintln(s.out, renderFailureBanner(time.Now()))
		fmt.Fprintln(s.out, service.FormatFatal(err))
		return
	}

	fmt.Fprintln(s.out, renderBanner(result, time.Now()))
	if !result.Passed {
		_ = service.NewOutputFormatter().WriteCheck(result, domain.OutputFormatText, s.out, s.out)
	}
}

// renderBanner renders the one-line PASS/FAIL summary of a watch run
func renderBanner(result *domain.CheckResult, at time.Time) string {
	stamp := at.Format("15:04:05")
	if result.Passed {
		return passStyle.Render("PASS") + " " +
			dimStyle.Render(fmt.Sprintf("%s  %d files scanned in %dms", stamp, result.Summary.FilesScanned, result.Duration))
	}
	return failStyle.Render("FAIL") + " " +
		dimStyle.Render(fmt.Sprintf("%s  %d issue(s) in %d file(s)", stamp, len(result.Issues), result.Summary.FilesWithIssues))
}

func renderFailureBanner(at time.Time) string {
	return failStyle.Render("FAIL") + " " + dimStyle.Render(at.Format("15:04:05")+"  run aborted")
}
