package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// Activator tells the GUI host which abstract sockets to connect back to.
// There is no acknowledgement: success only shows when the host connects.
type Activator interface {
	Activate(ctx context.Context, mainToken, eventToken string) error
}

// ActivatorFunc adapts a function to the Activator interface
type ActivatorFunc func(ctx context.Context, mainToken, eventToken string) error

// Activate calls f
func (f ActivatorFunc) Activate(ctx context.Context, mainToken, eventToken string) error {
	return f(ctx, mainToken, eventToken)
}

// CommandRunner runs an external command and returns its combined output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	err := cmd.Run()
	return output.Bytes(), err
}

// BroadcastActivatorConfig holds the broadcast target and the commands to try
type BroadcastActivatorConfig struct {
	// Receiver is the component the broadcast is addressed to
	Receiver string
	// Commands are tried in order until one exits successfully
	Commands []string
	// MainSocketExtra and EventSocketExtra name the string extras carrying the tokens
	MainSocketExtra  string
	EventSocketExtra string
}

// DefaultBroadcastActivatorConfig returns the Termux:GUI receiver with the
// termux-am → am fallback order
func DefaultBroadcastActivatorConfig() BroadcastActivatorConfig {
	return BroadcastActivatorConfig{
		Receiver:         "com.termux.gui/.GUIReceiver",
		Commands:         []string{"termux-am", "am"},
		MainSocketExtra:  "mainSocket",
		EventSocketExtra: "eventSocket",
	}
}

// BroadcastActivator sends an activity-manager broadcast naming both tokens
type BroadcastActivator struct {
	config BroadcastActivatorConfig
	runner CommandRunner
}

// NewBroadcastActivator creates an activator. A nil runner uses ExecRunner.
func NewBroadcastActivator(config BroadcastActivatorConfig, runner CommandRunner) *BroadcastActivator {
	if runner == nil {
		runner = ExecRunner
	}
	return &BroadcastActivator{
		config: config,
		runner: runner,
	}
}

// BroadcastArgs returns the argument list passed to each broadcast command
func (a *BroadcastActivator) BroadcastArgs(mainToken, eventToken string) []string {
	return []string{
		"broadcast",
		"-n", a.config.Receiver,
		"--es", a.config.MainSocketExtra, mainToken,
		"--es", a.config.EventSocketExtra, eventToken,
	}
}

// Activate runs each configured command until one succeeds.
// A missing binary or a non-zero exit falls through to the next command.
func (a *BroadcastActivator) Activate(ctx context.Context, mainToken, eventToken string) error {
	if len(a.config.Commands) == 0 {
		return models.NewGUIError(models.ActivationFailed, "no broadcast commands configured")
	}

	args := a.BroadcastArgs(mainToken, eventToken)
	var failures []string
	var lastErr error
	for _, command := range a.config.Commands {
		output, err := a.runner(ctx, command, args...)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return models.WrapError(models.ActivationFailed, "activation cancelled", ctx.Err())
		}

		lastErr = err
		failure := fmt.Sprintf("%s: %v", command, err)
		if IsCommandNotFound(err) {
			failure = command + ": not installed"
		}
		if trimmed := strings.TrimSpace(string(output)); trimmed != "" {
			failure += " (" + trimmed + ")"
		}
		failures = append(failures, failure)
	}

	return models.WrapError(models.ActivationFailed, strings.Join(failures, "; "), lastErr)
}

// IsCommandNotFound reports whether err means the broadcast binary is absent
func IsCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
