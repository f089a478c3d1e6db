package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/mindcanvas/pkg/config"
	"github.com/vanderheijden86/mindcanvas/pkg/controller"
	"github.com/vanderheijden86/mindcanvas/pkg/debug"
	"github.com/vanderheijden86/mindcanvas/pkg/export"
	"github.com/vanderheijden86/mindcanvas/pkg/metrics"
	"github.com/vanderheijden86/mindcanvas/pkg/mindmap"
	"github.com/vanderheijden86/mindcanvas/pkg/store"
	"github.com/vanderheijden86/mindcanvas/pkg/ui"
	"github.com/vanderheijden86/mindcanvas/pkg/version"
	"github.com/vanderheijden86/mindcanvas/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	renderOut  string
	width      int
	height     int
	exportDir  string
	autosaveDB string
	noAutosave bool
	noWatch    bool
	root       string
	debugLog   string
	help       bool
	version    bool
	file       string
}

func parseArgs(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("mindcanvas", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/mindcanvas/config.yaml)")
	fs.StringVar(&o.renderOut, "render", "", "Render the file to a .png or .svg picture and exit")
	fs.IntVar(&o.width, "width", 0, "Picture width for --render (0 fits the tree)")
	fs.IntVar(&o.height, "height", 0, "Picture height for --render (0 fits the tree)")
	fs.StringVar(&o.exportDir, "export-dir", "", "Directory for exported JSON and pictures")
	fs.StringVar(&o.autosaveDB, "autosave-db", "", "Auto-save database path")
	fs.BoolVar(&o.noAutosave, "no-autosave", false, "Disable auto-save")
	fs.BoolVar(&o.noWatch, "no-watch", false, "Do not reload the file when it changes on disk")
	fs.StringVar(&o.root, "root", "", "Create a root node with this label when starting without a file")
	fs.StringVar(&o.debugLog, "debug-log", "", "Write debug output to this file")
	fs.BoolVar(&o.help, "help", false, "Show help")
	fs.BoolVar(&o.version, "version", false, "Show version")
	if err := fs.Parse(args); err != nil {
		return o, fs, err
	}
	if fs.NArg() > 1 {
		return o, fs, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}
	o.file = fs.Arg(0)
	return o, fs, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if o.help {
		fmt.Fprintln(stdout, "Usage: mindcanvas [options] [file.json]")
		fmt.Fprintln(stdout, "\nA terminal mind-map editor.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}
	if o.version {
		fmt.Fprintf(stdout, "mindcanvas %s\n", version.Version)
		return 0
	}

	if o.debugLog != "" {
		f, err := os.OpenFile(o.debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "Could not open debug log: %v\n", err)
			return 1
		}
		defer f.Close()
		debug.SetOutput(f)
		debug.SetEnabled(true)
	}
	defer logTimings()

	if o.renderOut != "" {
		return renderPicture(o, stdout, stderr)
	}

	cfgPath := o.configPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	cfg := config.DefaultConfig()
	if cfgPath != "" {
		if cfg, err = config.LoadFrom(cfgPath); err != nil {
			// Non-fatal: continue with defaults
			fmt.Fprintf(stderr, "Warning: %v\n", err)
			cfg = config.DefaultConfig()
		}
	}
	if o.exportDir != "" {
		cfg.Export.Dir = o.exportDir
	}
	if o.autosaveDB != "" {
		cfg.Autosave.DBPath = o.autosaveDB
	}
	if o.noAutosave {
		cfg.Autosave.Enabled = false
	}

	var doc []byte
	if o.file != "" {
		doc, err = export.ReadJSON(o.file)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Created on the first ctrl+s.
			doc = nil
		case err != nil:
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	rootLabel := o.root
	if len(doc) == 0 && rootLabel == "" && isTerminal() {
		if rootLabel, err = askRootLabel(cfg); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return 0
			}
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st *store.Store
	if cfg.Autosave.Enabled {
		if path := cfg.AutosavePath(); path != "" {
			if st, err = store.Open(ctx, path); err != nil {
				fmt.Fprintf(stderr, "Warning: auto-save disabled: %v\n", err)
				st = nil
			} else {
				defer st.Close()
			}
		}
	}

	var w *watcher.Watcher
	if o.file != "" && !o.noWatch {
		if w, err = watcher.New(o.file, watcher.WithOnError(func(err error) {
			debug.Log("watch %s: %v", o.file, err)
		})); err == nil {
			if err = w.Start(ctx); err != nil {
				debug.Log("watcher: %v", err)
				w = nil
			} else {
				defer w.Stop()
			}
		}
	}

	opts := ui.Options{
		Config:    cfg,
		FilePath:  o.file,
		Document:  doc,
		RootLabel: rootLabel,
		Store:     st,
		Watcher:   w,
	}
	if cfgPath != "" {
		opts.SaveConfig = func(c config.Config) error { return config.SaveTo(c, cfgPath) }
	}
	m, err := ui.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(stderr, "Error running mindcanvas: %v\n", err)
		return 1
	}
	return 0
}

// renderPicture draws the file headlessly.
func renderPicture(o options, stdout, stderr io.Writer) int {
	if o.file == "" {
		fmt.Fprintln(stderr, "Error: --render needs a mind-map file")
		return 2
	}
	data, err := export.ReadJSON(o.file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	m := mindmap.New()
	if err := m.Import(data); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	paths, err := export.SaveSnapshot(context.Background(), m, export.SnapshotOptions{
		Paths:      []string{o.renderOut},
		Width:      o.width,
		Height:     o.height,
		Background: color.White,
		Selected:   mindmap.NoParent,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}
	return 0
}

// logTimings writes collected timings to the debug log.
func logTimings() {
	if !debug.Enabled() {
		return
	}
	debug.Section("timings")
	for _, s := range metrics.AllTimingStats() {
		debug.Log("%s", s)
	}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// askRootLabel asks for the central idea before the editor opens. A blank
// answer starts with an empty canvas. Callers only ask on a terminal.
func askRootLabel(cfg config.Config) (string, error) {
	rules, err := controller.NewLabelRules(cfg.Labels.MinLength, cfg.Labels.MaxLength,
		cfg.Labels.Pattern, cfg.Labels.PatternMessage)
	if err != nil {
		return "", err
	}

	var label string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Central idea").
				Description("Label for the root node (leave blank to start empty)").
				Placeholder("Central idea").
				Value(&label).
				Validate(rootLabelValidator(rules)),
		),
	).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return "", err
	}
	return label, nil
}

// rootLabelValidator applies rules to non-blank answers.
func rootLabelValidator(rules controller.LabelRules) func(string) error {
	return func(s string) error {
		if s == "" {
			return nil
		}
		_, err := rules.Check(s)
		if errors.Is(err, controller.ErrEmptyLabel) {
			return nil
		}
		return err
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set MINDCANVAS_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("MINDCANVAS_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
