package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"podvox/demo/tui"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	// Parse command-line flags
	apiURL := flag.String("url", "http://localhost:8000", "Podvox API URL")
	prospect := flag.String("prospect", "Steven Bartlett", "Prospect name")
	podcastURL := flag.String("podcast", "", "Direct podcast media URL")
	feedURL := flag.String("feed", "", "Podcast RSS feed URL (newest episode is used)")
	topic := flag.String("topic", "", "Topic to search for in the episode")
	tone := flag.String("tone", "casual", "Script tone: casual, professional, friendly")
	skipVoice := flag.Bool("skip-voice", false, "Generate the script only, skip synthesis")
	flag.Parse()

	m := tui.NewModel(*apiURL, tui.GenerateRequest{
		ProspectName: *prospect,
		PodcastURL:   *podcastURL,
		FeedURL:      *feedURL,
		QueryTopic:   *topic,
		Tone:         *tone,
		SkipVoice:    *skipVoice,
	})

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
