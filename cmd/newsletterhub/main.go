package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/zapidan/newsletter-hub-sub011/internal/collection"
	"github.com/zapidan/newsletter-hub-sub011/internal/config"
	"github.com/zapidan/newsletter-hub-sub011/internal/eventbus"
	"github.com/zapidan/newsletter-hub-sub011/internal/feed"
	"github.com/zapidan/newsletter-hub-sub011/internal/logging"
	"github.com/zapidan/newsletter-hub-sub011/internal/ui"
)

func main() {
	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create event bus
	bus := eventbus.New()

	// Load configuration
	configSvc := config.NewConfigServiceWithBus(bus)
	cfg, err := configSvc.Load()
	if err != nil {
		log.Warn().Err(err).Msg("error loading config, using defaults")
		cfg = config.DefaultConfig()
	}

	// Set up logging; the TUI owns stdout, so logs go to a file
	logOutput := os.Stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open log file: %v\n", err)
		} else {
			defer f.Close()
			logOutput = f
		}
	}
	logging.Setup(logging.Config{Level: cfg.Log.Level, Output: logOutput})

	// Optional Prometheus listener
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Warn().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	// Create the API client
	retry := feed.DefaultRetryConfig()
	if cfg.Feed.MaxRetries > 0 {
		retry.MaxAttempts = cfg.Feed.MaxRetries
	}
	client, err := feed.New(feed.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
		Retry:   retry,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating API client: %v\n", err)
		os.Exit(1)
	}

	// Initialize the loaded window under the saved query
	coll := collection.NewService(bus, cfg.Feed.PageSize, cfg.Query())

	// Create UI model
	uiModel := ui.NewModel(bus, cfg, configSvc, coll, client)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Warn().Msg("event channel full, dropping event")
		}
	}
	bus.Subscribe(eventbus.EventError, forward)
	bus.Subscribe(eventbus.EventConfigSaved, forward)
	bus.Subscribe(eventbus.EventWindowReset, forward)

	// Start forwarding events to UI in background
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			}
		}
	}()

	// Run the UI
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}

	cancel()
}
