// termux-gui-events opens an empty activity and prints every event the
// Termux:GUI host sends as one JSON line on stdout. Useful to learn which
// events a gesture produces.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/config"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/gui"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/protocol"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var dialog bool
	var count int
	var verbose bool

	flagSet := pflag.NewFlagSet("termux-gui-events", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML settings file (default: $"+config.EnvConfigPath+")")
	flagSet.BoolVar(&dialog, "dialog", false, "show the activity as a dialog")
	flagSet.IntVarP(&count, "count", "n", 0, "stop after this many events (0: until the activity is destroyed)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log protocol events to stderr")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	var settings config.Config
	var err error
	if configPath != "" {
		settings, err = config.ParseFromFile(configPath)
	} else {
		settings, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := protocol.Connect(ctx, protocol.ConnectionConfig{Settings: settings, Logger: logger})
	if err != nil {
		return fmt.Errorf("connecting to Termux:GUI: %w", err)
	}
	defer conn.Close()

	activity, err := gui.NewActivity(ctx, conn, gui.ActivityOptions{Dialog: dialog, CancelOutside: dialog})
	if err != nil {
		return err
	}
	if _, err := activity.CreateTextView(ctx, "Interact with this window; events are printed in Termux.", nil); err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	seen := 0
	return conn.RunEventLoop(ctx, func(event models.Event) error {
		if err := encoder.Encode(event); err != nil {
			return err
		}
		seen++
		if count > 0 && seen >= count {
			if err := activity.Finish(ctx); err != nil {
				return err
			}
			return protocol.ErrStopEventLoop
		}
		return nil
	})
}
