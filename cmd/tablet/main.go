package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sunnyfarm/tablet/internal/config"
	"github.com/sunnyfarm/tablet/internal/host"
	"github.com/sunnyfarm/tablet/internal/store"
	"github.com/sunnyfarm/tablet/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// The session journal is best-effort: a failed open degrades to
	// in-memory behavior, it never blocks the panel.
	var journal *store.Store
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		log.Printf("warn: session journal disabled: %v", err)
	} else if journal, err = store.Open(cfg.Store.Path); err != nil {
		log.Printf("warn: session journal disabled: %v", err)
		journal = nil
	}
	defer journal.Close()

	client := host.New(cfg.Host.URL, cfg.Host.ReconnectMin, cfg.Host.ReconnectMax, log.Default())
	defer client.Close()

	p := tea.NewProgram(tui.New(cfg, client, journal), tea.WithAltScreen())
	client.Start(p.Send)

	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
