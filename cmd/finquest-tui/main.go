package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/rgehrsitz/finquest/internal/config"
	"github.com/rgehrsitz/finquest/internal/service"
	"github.com/rgehrsitz/finquest/internal/store"
	"github.com/rgehrsitz/finquest/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to a settings YAML file")
	user := flag.String("user", "", "User id (default from settings)")
	logPath := flag.String("log", "", "Write debug logs to this file")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: finquest-tui [flags] [profile-file]")
		flag.PrintDefaults()
	}
	flag.Parse()

	// the optional profile is scored with the u key
	profilePath := flag.Arg(0)
	if profilePath != "" {
		if _, err := os.Stat(profilePath); os.IsNotExist(err) {
			fmt.Printf("Error: Profile file not found: %s\n", profilePath)
			os.Exit(1)
		}
	}

	settings, err := config.NewInputParser().LoadSettings(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(*user) != "" {
		settings.User = strings.TrimSpace(*user)
	}
	loc, err := settings.Location()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	catalog, err := config.LoadCatalogOrDefault(settings.CatalogPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	st, err := store.Open(settings.Store)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	svc := service.New(st, catalog, service.SystemClock{Location: loc})

	// the alt screen owns stdout, so logs only go to a file
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger := logrus.New()
		logger.SetOutput(f)
		logger.SetLevel(logrus.DebugLevel)
		svc.SetLogger(logger.WithField("user", settings.User))
	}

	p := tea.NewProgram(
		tui.NewModel(svc, settings.User, profilePath),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
