package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"leek/internal/audio"
	"leek/internal/browser"
	"leek/internal/config"
	"leek/internal/logger"
	"leek/internal/playback"
)

type flags struct {
	volume   int
	logLevel string
	logFile  string
	tick     int
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "leek [dir]",
		Short: "leek is a terminal music player for local files.",
		Long: "leek browses a directory tree and plays mp3, wav, flac and ogg files,\n" +
			"either one at a time or a whole folder as a queue.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) > 0 {
				dir = args[0]
			}
			return run(cmd, f, dir)
		},
	}
	cmd.Flags().IntVar(&f.volume, "volume", playback.DefaultVolume, "initial volume (0-100)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "log file path")
	cmd.Flags().IntVar(&f.tick, "tick", 0, "tick interval in milliseconds")
	return cmd
}

// loadSettings layers the settings file, the environment and command line
// flags, in that order.
func loadSettings(cmd *cobra.Command, f flags) (*config.Manager, config.Settings, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, config.Settings{}, err
	}
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, config.Settings{}, err
	}

	config.LoadEnv()
	settings := config.ApplyEnv(manager.Settings())

	if cmd.Flags().Changed("volume") {
		settings.Volume = f.volume
	}
	if f.logLevel != "" {
		settings.LogLevel = f.logLevel
	}
	if f.logFile != "" {
		settings.LogFile = f.logFile
	}
	if f.tick > 0 {
		settings.TickMillis = f.tick
	}
	if settings.LogFile == "" {
		settings.LogFile = filepath.Join(dir, "leek.log")
	}
	settings.Normalize()
	return manager, settings, nil
}

func run(cmd *cobra.Command, f flags, dir string) error {
	manager, settings, err := loadSettings(cmd, f)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:      logger.LogLevel(settings.LogLevel),
		OutputPath: settings.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	start := config.StartDir(dir)
	b, err := browser.New(start)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", start, err)
	}

	watcher, err := browser.NewWatcher()
	if err != nil {
		logger.Warn("Directory watching disabled", logger.ErrorField(err))
	} else {
		defer watcher.Close()
	}

	backend := audio.NewBackend()
	defer backend.Close()

	player := playback.New(backend, playback.WithVolume(settings.Volume))
	defer player.Close()

	logger.Info("Starting leek",
		logger.String("dir", b.CurrentPath()),
		logger.Int("volume", settings.Volume))

	p := tea.NewProgram(newModel(player, b, watcher, settings), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	// Only what the user changed while running is persisted, not the
	// environment or flag overrides.
	saved := manager.Settings()
	saved.Volume = player.Volume()
	if fm, ok := final.(model); ok {
		saved.Theme = fm.themeName
	}
	manager.Update(saved)
	if err := manager.Save(); err != nil {
		logger.Error("Failed to save settings", logger.ErrorField(err))
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
