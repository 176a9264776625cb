package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"storyreel/demo/tui"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	serverURL := flag.String("url", "http://localhost:8080", "Render server URL")
	flag.Parse()

	m := tui.NewModel(*serverURL)
	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
