package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/hiquote/internal/config"
	"github.com/rgehrsitz/hiquote/internal/rates"
	"github.com/rgehrsitz/hiquote/internal/tui"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println("Usage: hiquote-tui <quote-file> [rates-file]")
		os.Exit(1)
	}
	quotePath := os.Args[1]

	if _, err := os.Stat(quotePath); os.IsNotExist(err) {
		fmt.Printf("Error: Quote file not found: %s\n", quotePath)
		os.Exit(1)
	}

	// Built-in rates unless a rate file is given
	var cfg *rates.Config
	if len(os.Args) == 3 {
		var err error
		cfg, err = config.LoadRateConfig(os.Args[2])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	p := tea.NewProgram(
		tui.NewModel(quotePath, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
