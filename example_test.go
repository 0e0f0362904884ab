package gotermuxgui_test

import (
	"context"
	"log"

	gotermuxgui "github.com/jowharshamshiri/GoTermuxGUI"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/gui"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

func ExampleOpen() {
	ctx := context.Background()
	conn, activity, err := gotermuxgui.Open(ctx, gotermuxgui.ActivityOptions{Dialog: true})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	layout, err := activity.CreateLinearLayout(ctx, true, nil)
	if err != nil {
		log.Fatal(err)
	}
	name, err := activity.CreateEditText(ctx, "", layout, gui.EditTextOptions{SingleLine: true})
	if err != nil {
		log.Fatal(err)
	}
	ok, err := activity.CreateButton(ctx, "OK", layout)
	if err != nil {
		log.Fatal(err)
	}

	err = conn.RunEventLoop(ctx, func(event models.Event) error {
		if id, found := event.TargetID(); found && event.Type == models.EventClick && id == ok.ID() {
			text, err := name.GetText(ctx)
			if err != nil {
				return err
			}
			if err := gotermuxgui.Toast(ctx, conn, "Hello, "+text, false); err != nil {
				return err
			}
			return activity.Finish(ctx)
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}

func ExampleConnect() {
	ctx := context.Background()
	conn, err := gotermuxgui.Connect(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := gotermuxgui.Toast(ctx, conn, "Build finished", true); err != nil {
		log.Fatal(err)
	}
}
