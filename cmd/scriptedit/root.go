package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/scriptedit/internal/config"
	"github.com/dshills/scriptedit/internal/log"
)

// globals holds the persistent flags and what they set up.
type globals struct {
	configFile string
	logFormat  string
	logLevel   string
	logFile    string
	debug      bool
	themeDir   string

	manager *config.Manager
	stopLog func()
	logOut  io.Closer
}

// newRootCmd builds the command tree. The caller runs g.teardown once the
// command has finished, whatever its outcome.
func newRootCmd() (*cobra.Command, *globals) {
	g := &globals{}
	cmd := &cobra.Command{
		Use:   "scriptedit",
		Short: "Multi-caret editor and highlighter for Python, MEL and log files",
		Long: `scriptedit highlights Python, MEL and application log files, edits them
with any number of carets, and runs Lua macros over them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "config file (default: the user config directory)")
	pf.StringVar(&g.logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error, off)")
	pf.StringVar(&g.logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.BoolVarP(&g.debug, "debug", "d", false, "enable debug logging")
	pf.StringVar(&g.themeDir, "theme-dir", "", "directory holding {kind}/{theme} palette files")

	cmd.AddCommand(
		newHighlightCmd(g),
		newEditCmd(g),
		newThemesCmd(g),
		newMacroCmd(g),
		newVersionCmd(),
	)
	return cmd, g
}

// setup loads the configuration, applies the flags over it and starts
// logging.
func (g *globals) setup(cmd *cobra.Command) error {
	files := config.DefaultFiles()
	if g.configFile != "" {
		files = []string{g.configFile}
	}
	m := config.NewManager(config.WithFiles(files...))
	if _, err := m.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := make(map[string]any)
	pf := cmd.Flags()
	if pf.Changed("debug") {
		flags["editor.debug"] = g.debug
	}
	if pf.Changed("log-format") {
		flags["editor.log_format"] = g.logFormat
	}
	if pf.Changed("log-level") {
		if g.logLevel != "off" && !log.ValidLevel(g.logLevel) {
			return fmt.Errorf("invalid log level %q", g.logLevel)
		}
		flags["editor.log_level"] = g.logLevel
	}
	if pf.Changed("theme-dir") {
		flags["theme.dir"] = g.themeDir
	}
	if len(flags) > 0 {
		if err := m.SetFlags(flags); err != nil {
			return fmt.Errorf("apply flags: %w", err)
		}
	}
	g.manager = m

	return g.startLogging(cmd, m.Config().Editor)
}

func (g *globals) startLogging(cmd *cobra.Command, ed config.EditorConfig) error {
	if !ed.LoggingEnabled() {
		return nil
	}
	out := cmd.ErrOrStderr()
	if g.logFile != "" {
		f, err := os.OpenFile(g.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out, g.logOut = f, f
	}
	level := log.ParseLevel(ed.LogLevel)
	if ed.Debug {
		level = log.LevelDebug
	}
	g.stopLog = log.Init(log.Options{
		Output: out,
		Format: log.Format(ed.LogFormat),
		Level:  level,
	})
	log.Debug(log.CatCLI, "command started", "command", cmd.CommandPath())
	return nil
}

func (g *globals) teardown() error {
	if g.stopLog != nil {
		g.stopLog()
		g.stopLog = nil
	}
	var err error
	if g.logOut != nil {
		err = g.logOut.Close()
		g.logOut = nil
	}
	if g.manager != nil {
		if cerr := g.manager.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// config returns the loaded configuration.
func (g *globals) config() config.Config {
	if g.manager == nil {
		return config.Default()
	}
	return g.manager.Config()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scriptedit %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
