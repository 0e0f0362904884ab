// Package gotermuxgui drives native Android GUIs from a Termux process by
// talking to the Termux:GUI app over its local socket protocol.
//
// The package is organised in layers:
// - Core Layer: length-prefixed JSON framing, abstract socket rendezvous and the broadcast that activates the host
// - Protocol Layer: the session with its version handshake, command dispatcher and event stream
// - GUI Layer: Activity, View and widget wrappers over the remote method catalog
//
// Example Usage:
//
//	ctx := context.Background()
//	conn, activity, err := gotermuxgui.Open(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer conn.Close()
//
//	layout, err := activity.CreateLinearLayout(ctx, true, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	button, err := activity.CreateButton(ctx, "Press me", layout)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = conn.RunEventLoop(ctx, func(event models.Event) error {
//		if id, ok := event.TargetID(); ok && event.Type == models.EventClick && id == button.ID() {
//			return activity.Finish(ctx)
//		}
//		return nil
//	})
package gotermuxgui

import (
	"context"
	"log/slog"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/config"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/core"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/gui"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/protocol"
)

// Version represents the library version
const Version = "0.3.0"

// Re-export main types for convenient access

// Protocol layer types
type (
	Connection       = protocol.Connection
	ConnectionConfig = protocol.ConnectionConfig
	State            = protocol.State
	EventHandler     = protocol.EventHandler
)

// GUI layer types
type (
	Activity        = gui.Activity
	ActivityOptions = gui.ActivityOptions
	View            = gui.View
)

// Model types
type (
	Request   = models.Request
	Event     = models.Event
	Handle    = models.Handle
	GUIError  = models.GUIError
	ErrorCode = models.ErrorCode
)

// Core layer types
type (
	Activator          = core.Activator
	BroadcastActivator = core.BroadcastActivator
	MessageFraming     = core.MessageFraming
)

// Connect establishes a session with settings from TERMUX_GUI_CONFIG, or the
// defaults when it is unset
func Connect(ctx context.Context, logger *slog.Logger) (*Connection, error) {
	settings, err := config.LoadFromEnv()
	if err != nil {
		return nil, models.WrapError(models.ConfigurationError, "failed to load settings", err)
	}
	return protocol.Connect(ctx, protocol.ConnectionConfig{
		Settings: settings,
		Logger:   logger,
	})
}

// Open connects and opens a full screen activity. The connection is closed
// again if the activity cannot be created.
func Open(ctx context.Context, opts ...ActivityOptions) (*Connection, *Activity, error) {
	conn, err := Connect(ctx, nil)
	if err != nil {
		return nil, nil, err
	}

	var activityOpts ActivityOptions
	if len(opts) > 0 {
		activityOpts = opts[0]
	}
	activity, err := gui.NewActivity(ctx, conn, activityOpts)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, activity, nil
}

// Toast shows a message without opening an activity
func Toast(ctx context.Context, conn *Connection, text string, long bool) error {
	return gui.Toast(ctx, conn, text, long)
}
