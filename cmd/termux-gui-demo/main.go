// termux-gui-demo opens a small form on the Termux:GUI host: a title, a text
// field, a checkbox, a progress bar and two buttons. It exits when the
// activity is closed or the Quit button is pressed.
package main

import (
	"context"
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
	var verbose bool
	var title string

	flagSet := pflag.NewFlagSet("termux-gui-demo", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML settings file (default: $"+config.EnvConfigPath+")")
	flagSet.BoolVar(&dialog, "dialog", false, "show the activity as a dialog")
	flagSet.StringVar(&title, "title", "GoTermuxGUI demo", "task title")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log protocol events to stderr")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	settings, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

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
	form, err := buildForm(ctx, activity, title)
	if err != nil {
		return err
	}

	return conn.RunEventLoop(ctx, func(event models.Event) error {
		return form.handle(ctx, activity, event)
	})
}

func loadSettings(path string) (config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.ParseFromFile(path)
}

type form struct {
	name     *gui.EditText
	greeting *gui.TextView
	shout    *gui.Checkbox
	progress *gui.ProgressBar
	greet    *gui.Button
	quit     *gui.Button

	loud    bool
	presses int
}

func buildForm(ctx context.Context, activity *gui.Activity, title string) (*form, error) {
	if err := activity.SetTitle(ctx, title); err != nil {
		return nil, err
	}

	root, err := activity.CreateLinearLayout(ctx, true, nil)
	if err != nil {
		return nil, err
	}
	heading, err := activity.CreateTextView(ctx, title, root)
	if err != nil {
		return nil, err
	}
	if err := heading.SetTextSize(ctx, 24); err != nil {
		return nil, err
	}

	f := &form{}
	if f.name, err = activity.CreateEditText(ctx, "", root, gui.EditTextOptions{SingleLine: true}); err != nil {
		return nil, err
	}
	if err := f.name.SetHint(ctx, "Your name"); err != nil {
		return nil, err
	}
	if f.shout, err = activity.CreateCheckbox(ctx, "Shout", false, root); err != nil {
		return nil, err
	}
	if f.greeting, err = activity.CreateTextView(ctx, "", root); err != nil {
		return nil, err
	}
	if f.progress, err = activity.CreateProgressBar(ctx, root); err != nil {
		return nil, err
	}

	buttons, err := activity.CreateLinearLayout(ctx, false, root)
	if err != nil {
		return nil, err
	}
	if f.greet, err = activity.CreateButton(ctx, "Greet", buttons); err != nil {
		return nil, err
	}
	if f.quit, err = activity.CreateButton(ctx, "Quit", buttons); err != nil {
		return nil, err
	}
	for _, button := range []*gui.Button{f.greet, f.quit} {
		if err := button.SetLinearLayoutParams(ctx, 1, -1); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *form) handle(ctx context.Context, activity *gui.Activity, event models.Event) error {
	id, _ := event.TargetID()

	switch {
	case event.Type == models.EventChecked && id == f.shout.ID():
		fields, err := event.Fields()
		if err != nil {
			return err
		}
		f.loud = fields.Set != nil && *fields.Set
	case event.Type == models.EventClick && id == f.greet.ID():
		name, err := f.name.GetText(ctx)
		if err != nil {
			return err
		}
		if name == "" {
			name = "stranger"
		}
		greeting := "Hello, " + name
		if f.loud {
			greeting += "!"
		}
		f.presses++
		if err := f.progress.SetProgress(ctx, f.presses*10); err != nil {
			return err
		}
		return f.greeting.SetText(ctx, greeting)
	case event.Type == models.EventClick && id == f.quit.ID():
		return activity.Finish(ctx)
	}
	return nil
}
