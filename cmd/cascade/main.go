// cmd/cascade/main.go
//
// This is the entry point for the cascade CLI.
// When you run `cascade` from any directory, this is what executes.
//
// Flow:
// 1. Initialize the .cascade folder in the working directory
// 2. Load appearance settings, falling back to defaults when they're broken
// 3. Run the interactive session until the sorted result is printed

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/cascade/internal/config"
	"github.com/kingrea/cascade/internal/tui"
)

func main() {
	// Get the current working directory - this is where .cascade/ lives
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitCascadeDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .cascade directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(cwd)
	if err != nil {
		// Broken settings never block a session; run with the defaults.
		fmt.Fprintf(os.Stderr, "Warning: %v (using default settings)\n", err)
		cfg = config.Default(cwd)
	}

	app := tui.NewApp(cfg)

	// tea.NewProgram creates a new bubbletea application.
	// No alt screen here: the transcript has to stay in the terminal
	// after the program exits, the way a plain console program prints.
	p := tea.NewProgram(app)

	// Run blocks until the session completes or the user quits
	if _, err := p.Run(); err != nil {
		_ = app.Close()
		fmt.Fprintf(os.Stderr, "Error running session: %v\n", err)
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: closing session log: %v\n", err)
	}
}
