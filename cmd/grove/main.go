// Command grove is a terminal dashboard for running multiple long-lived
// coding agents in parallel, each in its own git worktree and tmux session.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/groveworks/grove/internal/config"
	"github.com/groveworks/grove/internal/eventlog"
	"github.com/groveworks/grove/internal/git"
	"github.com/groveworks/grove/internal/keymap"
	"github.com/groveworks/grove/internal/preview"
	"github.com/groveworks/grove/internal/tmuxio"
	"github.com/groveworks/grove/internal/tui"
)

// Version is set at build time via ldflags.
var Version = ""

var (
	configPath  = flag.String("config", "", "path to config file")
	projectRoot = flag.String("project", ".", "project root directory")
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

func main() {
	// A known cobra subcommand in argv[1] hands off entirely before flag
	// parsing touches argv, since "doctor"/"version" don't take the
	// dashboard's own flags.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "doctor", "version":
			if err := newRootCmd(effectiveVersion(Version)).Execute(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}

	flag.Parse()

	// Unset TMUX so Grove's own tmux sessions are independent of any outer
	// tmux session the operator is running it inside.
	_ = os.Unsetenv("TMUX")

	if *versionFlag {
		fmt.Printf("grove version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logFile, err := openLogFile()
	if err != nil {
		logFile = nil
	}
	logWriter := io.Writer(io.Discard)
	if logFile != nil {
		logWriter = logFile
		defer func() {
			if err := logFile.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
			}
		}()
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	dispatcher := eventlog.NewWithLogger(logger)
	defer dispatcher.Close()

	workDir, err := filepath.Abs(*projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve project root: %v\n", err)
		os.Exit(1)
	}
	projectRootPath, err := git.MainPath(workDir)
	if err != nil {
		projectRootPath = workDir
	}
	if len(cfg.Projects) == 0 {
		cfg.Projects = append(cfg.Projects, configProject(projectRootPath))
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for key, cmdID := range cfg.Keymap.Overrides {
		km.RegisterBinding(keymap.Binding{Key: key, Command: cmdID, Context: "global"})
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "grove requires an interactive terminal")
		os.Exit(1)
	}

	model := tui.New(cfg, km, dispatcher, tmuxio.New(), preview.SystemClipboard{}, effectiveVersion(Version))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running grove: %v\n", err)
		os.Exit(1)
	}
}

func configProject(path string) config.ProjectEntry {
	return config.ProjectEntry{Name: filepath.Base(path), Path: path}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// effectiveVersion returns the version string, falling back to build info
// embedded by `go install`/module-aware builds without an ldflags override.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: grove [options]\n       grove doctor\n       grove version\n\n")
		fmt.Fprintf(os.Stderr, "A TUI dashboard for running coding agents across git worktrees.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}

// openLogFile creates/opens the debug log file in the config directory.
func openLogFile() (*os.File, error) {
	dir := filepath.Dir(config.ConfigPath())
	if dir == "" || dir == "." {
		return nil, fmt.Errorf("no config directory resolved")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
