// campfire TUI - A terminal client for AI-driven tabletop campaigns.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/campfire-tui/internal/api"
	"github.com/jeranaias/campfire-tui/internal/config"
	"github.com/jeranaias/campfire-tui/internal/model"
	"github.com/jeranaias/campfire-tui/internal/notify"
	"github.com/jeranaias/campfire-tui/internal/storage"
	"github.com/jeranaias/campfire-tui/internal/store"
	"github.com/jeranaias/campfire-tui/internal/transport"
	"github.com/jeranaias/campfire-tui/internal/ui/game"
	"github.com/jeranaias/campfire-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (default ~/.campfire/config.toml)")
		serverURL   = flag.String("server", "", "campaign server URL (overrides config)")
		debugLog    = flag.String("debug-log", "", "write debug logs to this file")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("campfire %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*configPath, *serverURL, *debugLog); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, serverURL, debugLog string) error {
	// ==========================================================================
	// CONFIGURATION
	// ==========================================================================

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid server URL: %w", err)
		}
	}

	// Optional debug logging. The TUI owns the terminal, so logs go to a
	// file or nowhere.
	logf := func(string, ...any) {}
	if debugLog != "" {
		f, err := tea.LogToFile(debugLog, "campfire")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		logf = log.Printf
	}

	// ==========================================================================
	// TRANSPORT AND STORES
	// ==========================================================================

	channel := transport.NewChannel(cfg.ChannelURL())
	channel.SetLogf(logf)
	channel.SetReconnectMax(cfg.ReconnectMax())

	req := transport.NewCorrelator(channel)
	req.SetTimeout(cfg.RequestTimeout())

	center := notify.NewCenter()
	center.Bind(channel)

	personas := store.NewPersona(channel, req)
	chat := store.NewChat(channel, req, center, personas)
	characters := store.NewCharacter(channel, req)
	inventory := store.NewInventory(channel, req)
	settings := store.NewSettings(channel, req, center)
	sidebar := store.NewSidebar(channel)

	for _, s := range []interface {
		SetLogf(func(format string, args ...any))
	}{personas, chat, characters, inventory, sidebar} {
		s.SetLogf(logf)
	}

	if cfg.Game.SaveFilePath != "" {
		chat.SetSaveFilePath(cfg.Game.SaveFilePath)
	}
	chat.SetVoice(cfg.Voice.TTSEnabled, cfg.Voice.InputEnabled)
	if cfg.Autosave.Enabled {
		settings.SetAutosavePrefs(model.AutosaveSettings{
			Enabled:   true,
			Threshold: cfg.Autosave.Threshold,
		})
	}

	// Avatar uploads go over the REST surface, not the event channel.
	uploader := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Server.URL,
		Timeout: cfg.RequestTimeout(),
	})
	personas.SetUploader(uploader)
	characters.SetUploader(uploader)

	// Local transcript archive
	if cfg.Game.ArchiveEnabled {
		dbPath, err := cfg.TranscriptDBPath()
		if err != nil {
			return fmt.Errorf("resolve transcript path: %w", err)
		}
		archive, err := storage.OpenTranscript(dbPath)
		if err != nil {
			return fmt.Errorf("open transcript archive: %w", err)
		}
		defer archive.Close()
		chat.SetArchive(archive)
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	theme := styles.NewThemeWithBackground(strings.ToLower(cfg.UI.Theme) != "light")

	m := game.New(theme, game.Stores{
		Chat:       chat,
		Characters: characters,
		Personas:   personas,
		Inventory:  inventory,
		Settings:   settings,
		Sidebar:    sidebar,
	}, center, channel, game.Options{
		Markdown:    cfg.UI.Markdown,
		ShowSidebar: cfg.UI.ShowSidebar,
		Compact:     cfg.UI.CompactMode,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	unsubscribe := m.Subscriptions(p.Send)
	defer unsubscribe()

	// Hot-reload config edits while the session runs. Only the settings
	// that can safely change mid-session are applied.
	if path := resolveConfigPath(configPath); path != "" {
		watcher, err := config.NewWatcher(path, func(next *config.Config) {
			req.SetTimeout(next.RequestTimeout())
			chat.SetVoice(next.Voice.TTSEnabled, next.Voice.InputEnabled)
			if next.Autosave.Enabled {
				settings.SetAutosavePrefs(model.AutosaveSettings{
					Enabled:   true,
					Threshold: next.Autosave.Threshold,
				})
			}
		}, func(err error) {
			logf("config reload: %v", err)
		})
		if err == nil {
			if err := watcher.Watch(); err == nil {
				defer watcher.Close()
			}
		}
	}

	// ==========================================================================
	// RUN
	// ==========================================================================

	channel.Start()
	defer channel.Close()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}

// loadConfig loads from an explicit path, or the default location.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// resolveConfigPath returns the path the watcher should follow, or ""
// when the default config file does not exist yet.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	path, err := config.ConfigPath()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
