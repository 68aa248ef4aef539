package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finquest/internal/config"
	"github.com/rgehrsitz/finquest/internal/output"
	"github.com/rgehrsitz/finquest/internal/service"
	"github.com/rgehrsitz/finquest/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions are the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	user       string
	format     string
	debug      bool
	logFormat  string
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finquest %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// newLogger writes to w at warn level, or debug level with --debug
func newLogger(w io.Writer, debugMode bool, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unsupported log format %q (use text or json)", format)
	}
	logger.SetLevel(logrus.WarnLevel)
	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger, nil
}

// app is the wiring a command needs: settings, an open store and the service
type app struct {
	settings config.Settings
	store    store.Store
	svc      *service.Service
	log      *logrus.Entry
	user     string
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warnf("closing store: %v", err)
	}
}

func (o *rootOptions) logger(cmd *cobra.Command) (*logrus.Logger, error) {
	return newLogger(cmd.ErrOrStderr(), o.debug, o.logFormat)
}

// open loads settings, opens the configured store and builds the service
func (o *rootOptions) open(cmd *cobra.Command) (*app, error) {
	logger, err := o.logger(cmd)
	if err != nil {
		return nil, err
	}

	settings, err := config.NewInputParser().LoadSettings(o.configPath)
	if err != nil {
		return nil, err
	}
	user := settings.User
	if strings.TrimSpace(o.user) != "" {
		user = strings.TrimSpace(o.user)
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}

	catalog, err := config.LoadCatalogOrDefault(settings.CatalogPath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(settings.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", settings.Store.Engine, err)
	}

	entry := logger.WithField("user", user)
	svc := service.New(st, catalog, service.SystemClock{Location: loc})
	svc.SetLogger(entry)
	entry.Debugf("using %s store at %q", settings.Store.Engine, settings.Store.Path)

	return &app{settings: settings, store: st, svc: svc, log: entry, user: user}, nil
}

// render writes the report with the formatter named by --format
func (o *rootOptions) render(cmd *cobra.Command, report *output.Report) error {
	formatter := output.GetFormatterByName(o.format)
	if formatter == nil {
		return fmt.Errorf("unsupported format %q (available: %s; aliases: %s)", o.format,
			strings.Join(output.AvailableFormatterNames(), ", "),
			strings.Join(output.AvailableFormatAliases(), ", "))
	}
	return output.WriteFormatted(cmd.OutOrStdout(), formatter, report)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "finquest",
		Short: "Financial wellness and gamification CLI",
		Long: "Score a monthly budget, run loan and savings calculators, and earn coins, XP and " +
			"badges by completing daily money challenges",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to a settings YAML file")
	pf.StringVarP(&opts.user, "user", "u", "", "User id (default from settings or "+config.EnvUser+")")
	pf.StringVarP(&opts.format, "format", "f", "console", "Output format (console, json, csv)")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(scoreCmd(opts))
	root.AddCommand(validateCmd(opts))
	root.AddCommand(emiCmd(opts))
	root.AddCommand(projectCmd(opts))
	root.AddCommand(emergencyCmd(opts))
	root.AddCommand(challengesCmd(opts))
	root.AddCommand(completeCmd(opts))
	root.AddCommand(quizCmd(opts))
	root.AddCommand(dashboardCmd(opts))
	root.AddCommand(badgesCmd(opts))
	root.AddCommand(historyCmd(opts))
	root.AddCommand(whatifCmd(opts))
	root.AddCommand(goalCmd(opts))
	root.AddCommand(versionCmd())
	return root
}

var rootCmd = newRootCmd()

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
