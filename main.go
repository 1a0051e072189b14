package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/orgtodo/pkg/agenda"
	"github.com/harrisonrobin/orgtodo/pkg/auth"
	"github.com/harrisonrobin/orgtodo/pkg/colors"
	"github.com/harrisonrobin/orgtodo/pkg/config"
	"github.com/harrisonrobin/orgtodo/pkg/google"
	"github.com/harrisonrobin/orgtodo/pkg/index"
	"github.com/harrisonrobin/orgtodo/pkg/logging"
	"github.com/harrisonrobin/orgtodo/pkg/model"
	"github.com/harrisonrobin/orgtodo/pkg/taskwarrior"
	"github.com/harrisonrobin/orgtodo/pkg/watch"
	"github.com/spf13/cobra"
)

type flags struct {
	source      string
	postdays    int
	output      string
	suffix      string
	tag         string
	today       string
	calendar    string
	logLevel    string
	doAuth      bool
	watch       bool
	saveConfig  bool
	taskwarrior bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "orgtodo",
		Short: "Collect scheduled org-mode TODOs into a markdown checklist",
		Long: `orgtodo scans the .org files of a directory for "* TODO" headlines whose next
line is a SCHEDULED date, keeps those due today, overdue, or within --postdays
days, and writes them as a markdown checklist.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.source, "source", "s", config.DefaultSource, "directory containing the org files")
	fl.IntVarP(&f.postdays, "postdays", "p", 0, "also include entries scheduled up to this many days ahead")
	fl.StringVarP(&f.output, "output", "o", config.DefaultOutput, "checklist file to write")
	fl.StringVar(&f.suffix, "suffix", config.DefaultSuffix, "suffix of the files to scan")
	fl.StringVar(&f.tag, "tag", "", "only include entries carrying this tag")
	fl.StringVar(&f.today, "today", "", "treat this date (YYYY-MM-DD) as today")
	fl.StringVar(&f.calendar, "calendar", "", "mirror retained entries into this Google Calendar")
	fl.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fl.BoolVar(&f.doAuth, "auth", false, "authenticate with Google Calendar and exit")
	fl.BoolVar(&f.watch, "watch", false, "keep running and rebuild the checklist when org files change")
	fl.BoolVar(&f.saveConfig, "save-config", false, "save the given settings as defaults and exit")
	fl.BoolVar(&f.taskwarrior, "taskwarrior", false, "import retained entries into Taskwarrior")
	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Priority: flag > env > config file > default
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cmd, f, cfg)

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	logging.Setup(cmd.ErrOrStderr(), opts)

	if f.saveConfig {
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		path, _ := config.GetConfigPath()
		fmt.Fprintf(cmd.OutOrStdout(), "Defaults saved to %s\n", path)
		return nil
	}

	if f.doAuth {
		return authenticate(ctx)
	}

	if err := cfg.Finalize(); err != nil {
		return err
	}

	runOpts := agenda.Options{
		Source:   cfg.Source,
		Suffix:   cfg.Suffix,
		PostDays: cfg.PostDays,
		Output:   cfg.Output,
		Tag:      cfg.Tag,
	}
	if f.today != "" {
		today, err := model.ParseDate(f.today)
		if err != nil {
			return fmt.Errorf("--today: %w", err)
		}
		runOpts.Today = &today
	}

	var mirror *google.CalendarClient
	if cfg.Calendar != "" {
		mirror, err = newMirror(ctx, cfg.Calendar)
		if err != nil {
			log.Error("calendar mirror disabled", "calendar", cfg.Calendar, "err", err)
		}
	}

	runOnce := func(ctx context.Context) error {
		res, err := agenda.Run(ctx, runOpts)
		if err != nil {
			return err
		}
		if mirror != nil {
			synced, failed := mirror.SyncEntries(ctx, res.Retained)
			log.Info("calendar mirrored", "calendar", cfg.Calendar, "synced", synced, "failed", failed)
		}
		if cfg.Taskwarrior {
			if err := taskwarrior.NewClient().Import(ctx, taskwarrior.FromEntries(res.Retained)); err != nil {
				log.Error("taskwarrior import failed", "err", err)
			}
		}
		return nil
	}

	if err := runOnce(ctx); err != nil {
		return err
	}
	if !f.watch {
		return nil
	}

	w, err := watch.New(cfg.Source, cfg.Suffix)
	if err != nil {
		return fmt.Errorf("watching %s: %w", cfg.Source, err)
	}
	return w.Run(ctx, runOnce)
}

func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("source") {
		cfg.Source = f.source
	}
	if changed("postdays") {
		cfg.PostDays = f.postdays
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("suffix") {
		cfg.Suffix = f.suffix
	}
	if changed("tag") {
		cfg.Tag = f.tag
	}
	if changed("calendar") {
		cfg.Calendar = f.calendar
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("taskwarrior") {
		cfg.Taskwarrior = f.taskwarrior
	}
}

func authenticate(ctx context.Context) error {
	dir, err := auth.GetXdgHome()
	if err != nil {
		return fmt.Errorf("could not find path to configuration directory: %w", err)
	}
	if err := auth.Reset(dir); err != nil {
		return err
	}
	if _, err := auth.GetClient(ctx, dir, auth.Scopes); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	log.Info("authentication successful", "dir", dir)
	return nil
}

func newMirror(ctx context.Context, calendarName string) (*google.CalendarClient, error) {
	dir, err := auth.GetXdgHome()
	if err != nil {
		return nil, err
	}

	var idx *index.EventIndex
	if path, err := index.DefaultPath(); err == nil {
		if idx, err = index.NewEventIndex(path); err != nil {
			log.Warn("failed to initialize event index", "err", err)
		}
	}
	var cc *colors.ColorCache
	if path, err := colors.DefaultPath(); err == nil {
		if cc, err = colors.NewColorCache(path); err != nil {
			log.Warn("could not load tag colors", "err", err)
		}
	}

	return google.NewClient(ctx, dir, calendarName, idx, cc)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error(err)
		stop()
		os.Exit(1)
	}
}
