package core

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"reflect"
	"strings"
	"testing"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

type recordedRun struct {
	name string
	args []string
}

type fakeRunner struct {
	runs    []recordedRun
	results map[string]error
	output  map[string]string
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.runs = append(f.runs, recordedRun{name: name, args: args})
	return []byte(f.output[name]), f.results[name]
}

func TestBroadcastActivator_BroadcastArgs(t *testing.T) {
	activator := NewBroadcastActivator(DefaultBroadcastActivatorConfig(), nil)

	got := activator.BroadcastArgs("MAIN", "EVENT")
	want := []string{
		"broadcast", "-n", "com.termux.gui/.GUIReceiver",
		"--es", "mainSocket", "MAIN",
		"--es", "eventSocket", "EVENT",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BroadcastArgs = %v, want %v", got, want)
	}
}

func TestBroadcastActivator_Activate(t *testing.T) {
	ctx := context.Background()

	t.Run("should stop at the first command that succeeds", func(t *testing.T) {
		runner := &fakeRunner{}
		activator := NewBroadcastActivator(DefaultBroadcastActivatorConfig(), runner.run)

		if err := activator.Activate(ctx, "m", "e"); err != nil {
			t.Fatalf("Activate: %v", err)
		}
		if len(runner.runs) != 1 || runner.runs[0].name != "termux-am" {
			t.Errorf("Expected a single termux-am run, got %+v", runner.runs)
		}
	})

	t.Run("should fall back when the primary command is missing", func(t *testing.T) {
		runner := &fakeRunner{results: map[string]error{
			"termux-am": &exec.Error{Name: "termux-am", Err: exec.ErrNotFound},
		}}
		activator := NewBroadcastActivator(DefaultBroadcastActivatorConfig(), runner.run)

		if err := activator.Activate(ctx, "m", "e"); err != nil {
			t.Fatalf("Activate: %v", err)
		}
		if len(runner.runs) != 2 || runner.runs[1].name != "am" {
			t.Fatalf("Expected termux-am then am, got %+v", runner.runs)
		}
		if !reflect.DeepEqual(runner.runs[0].args, runner.runs[1].args) {
			t.Errorf("Fallback used different arguments: %v vs %v", runner.runs[0].args, runner.runs[1].args)
		}
	})

	t.Run("should fall back when the primary command exits non-zero", func(t *testing.T) {
		runner := &fakeRunner{results: map[string]error{
			"termux-am": errors.New("exit status 1"),
		}}
		activator := NewBroadcastActivator(DefaultBroadcastActivatorConfig(), runner.run)

		if err := activator.Activate(ctx, "m", "e"); err != nil {
			t.Fatalf("Activate: %v", err)
		}
		if len(runner.runs) != 2 {
			t.Errorf("Expected two runs, got %d", len(runner.runs))
		}
	})

	t.Run("should report every failure when all commands fail", func(t *testing.T) {
		runner := &fakeRunner{
			results: map[string]error{
				"termux-am": &exec.Error{Name: "termux-am", Err: exec.ErrNotFound},
				"am":        errors.New("exit status 255"),
			},
			output: map[string]string{"am": "  Security exception  \n"},
		}
		activator := NewBroadcastActivator(DefaultBroadcastActivatorConfig(), runner.run)

		err := activator.Activate(ctx, "m", "e")
		if !models.IsCode(err, models.ActivationFailed) {
			t.Fatalf("Expected ActivationFailed, got %v", err)
		}
		msg := err.Error()
		for _, part := range []string{"termux-am: not installed", "am: exit status 255", "(Security exception)"} {
			if !strings.Contains(msg, part) {
				t.Errorf("Expected %q in %q", part, msg)
			}
		}
	})

	t.Run("should fail without commands", func(t *testing.T) {
		cfg := DefaultBroadcastActivatorConfig()
		cfg.Commands = nil
		activator := NewBroadcastActivator(cfg, (&fakeRunner{}).run)

		if err := activator.Activate(ctx, "m", "e"); !models.IsCode(err, models.ActivationFailed) {
			t.Errorf("Expected ActivationFailed, got %v", err)
		}
	})

	t.Run("should not try the fallback once cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		runner := &fakeRunner{}
		failing := func(ctx context.Context, name string, args ...string) ([]byte, error) {
			cancel()
			return runner.run(ctx, name, args...)
		}
		runner.results = map[string]error{"termux-am": fmt.Errorf("signal: killed")}
		activator := NewBroadcastActivator(DefaultBroadcastActivatorConfig(), failing)

		err := activator.Activate(cancelled, "m", "e")
		if !models.IsCode(err, models.ActivationFailed) {
			t.Fatalf("Expected ActivationFailed, got %v", err)
		}
		if len(runner.runs) != 1 {
			t.Errorf("Expected no fallback after cancellation, got %d runs", len(runner.runs))
		}
	})
}

func TestActivatorFunc(t *testing.T) {
	var gotMain, gotEvent string
	var activator Activator = ActivatorFunc(func(ctx context.Context, mainToken, eventToken string) error {
		gotMain, gotEvent = mainToken, eventToken
		return nil
	})

	if err := activator.Activate(context.Background(), "a", "b"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if gotMain != "a" || gotEvent != "b" {
		t.Errorf("Tokens not passed through: %q %q", gotMain, gotEvent)
	}
}
