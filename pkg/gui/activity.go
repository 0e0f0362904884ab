package gui

import (
	"context"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// ActivityOptions configures a new activity
type ActivityOptions struct {
	// Dialog shows the activity as a dialog over the current app
	Dialog bool
	// CancelOutside closes a dialog when the user taps outside it
	CancelOutside bool
	// PictureInPicture starts the activity in picture-in-picture mode
	PictureInPicture bool
	// LockScreen shows the activity over the lock screen
	LockScreen bool
	// TaskID starts the activity in an existing task, 0 creates a new one
	TaskID models.Handle
}

func (o ActivityOptions) params() Params {
	params := Params{
		"dialog":        o.Dialog,
		"canceloutside": o.CancelOutside,
		"pip":           o.PictureInPicture,
		"lockscreen":    o.LockScreen,
	}
	if o.TaskID != 0 {
		params["tid"] = o.TaskID
	}
	return params
}

// Orientation values for SetOrientation
const (
	OrientationUnspecified      = "unspecified"
	OrientationPortrait         = "portrait"
	OrientationLandscape        = "landscape"
	OrientationReversePortrait  = "reversePortrait"
	OrientationReverseLandscape = "reverseLandscape"
	OrientationSensor           = "sensor"
	OrientationNoSensor         = "nosensor"
	OrientationUser             = "user"
	OrientationBehind           = "behind"
	OrientationFullSensor       = "fullSensor"
	OrientationLocked           = "locked"
)

// Soft keyboard modes for SetInputMode
const (
	InputModePan    = "pan"
	InputModeResize = "resize"
)

// Theme colors, all ARGB
type Theme struct {
	StatusBarColor   uint32
	ColorPrimary     uint32
	WindowBackground uint32
	TextColor        uint32
	ColorAccent      uint32
}

// Activity is a window on the host
type Activity struct {
	session Session
	aid     models.Handle
	tid     models.Handle
}

// NewActivity opens a new activity in session
func NewActivity(ctx context.Context, session Session, opts ActivityOptions) (*Activity, error) {
	const method = "newActivity"
	if err := expectMethod(method, ReplyIntPair); err != nil {
		return nil, err
	}

	raw, err := session.SendRead(ctx, models.NewRequest(method, opts.params()))
	if err != nil {
		return nil, err
	}
	aid, tid, err := DecodeIntPair(method, raw)
	if err != nil {
		return nil, err
	}
	return &Activity{session: session, aid: aid, tid: tid}, nil
}

// ID returns the activity id
func (a *Activity) ID() models.Handle {
	return a.aid
}

// TaskID returns the id of the task the activity runs in
func (a *Activity) TaskID() models.Handle {
	return a.tid
}

// Session returns the session the activity belongs to
func (a *Activity) Session() Session {
	return a.session
}

func (a *Activity) send(ctx context.Context, method string, params Params) error {
	if params == nil {
		params = Params{}
	}
	params["aid"] = a.aid
	return send(ctx, a.session, method, params)
}

// Finish closes the activity. The host answers with a destroy event.
func (a *Activity) Finish(ctx context.Context) error {
	return a.send(ctx, "finishActivity", nil)
}

// SetTitle sets the label shown in the recent apps list
func (a *Activity) SetTitle(ctx context.Context, title string) error {
	return a.send(ctx, "setTaskDescription", Params{"label": title})
}

// SetTheme sets the activity colors
func (a *Activity) SetTheme(ctx context.Context, theme Theme) error {
	return a.send(ctx, "setTheme", Params{
		"statusBarColor":   int32(theme.StatusBarColor),
		"colorPrimary":     int32(theme.ColorPrimary),
		"windowBackground": int32(theme.WindowBackground),
		"textColor":        int32(theme.TextColor),
		"colorAccent":      int32(theme.ColorAccent),
	})
}

// KeepScreenOn keeps the screen on while the activity is visible
func (a *Activity) KeepScreenOn(ctx context.Context, on bool) error {
	return a.send(ctx, "keepScreenOn", Params{"on": on})
}

// SetOrientation locks the screen orientation
func (a *Activity) SetOrientation(ctx context.Context, orientation string) error {
	return a.send(ctx, "setOrientation", Params{"orientation": orientation})
}

// SetInputMode selects how the activity reacts to the soft keyboard
func (a *Activity) SetInputMode(ctx context.Context, mode string) error {
	return a.send(ctx, "setInputMode", Params{"mode": mode})
}

func (a *Activity) create(ctx context.Context, method string, parent Parent, params Params) (View, error) {
	entity, err := create(ctx, a.session, a.aid, method, parent, params)
	if err != nil {
		return View{}, err
	}
	return View{Entity: entity}, nil
}

// CreateTextView adds a TextView
func (a *Activity) CreateTextView(ctx context.Context, text string, parent Parent) (*TextView, error) {
	view, err := a.create(ctx, "createTextView", parent, Params{"text": text})
	if err != nil {
		return nil, err
	}
	return &TextView{View: view}, nil
}

// CreateButton adds a Button
func (a *Activity) CreateButton(ctx context.Context, text string, parent Parent) (*Button, error) {
	view, err := a.create(ctx, "createButton", parent, Params{"text": text})
	if err != nil {
		return nil, err
	}
	return &Button{TextView{View: view}}, nil
}

// CreateEditText adds an EditText
func (a *Activity) CreateEditText(ctx context.Context, text string, parent Parent, opts EditTextOptions) (*EditText, error) {
	inputType := opts.InputType
	if inputType == "" {
		inputType = InputText
	}
	view, err := a.create(ctx, "createEditText", parent, Params{
		"text":       text,
		"singleline": opts.SingleLine,
		"line":       !opts.NoLine,
		"type":       inputType,
	})
	if err != nil {
		return nil, err
	}
	return &EditText{TextView{View: view}}, nil
}

func (a *Activity) createCompound(ctx context.Context, method, text string, checked bool, parent Parent) (CompoundButton, error) {
	view, err := a.create(ctx, method, parent, Params{"text": text, "checked": checked})
	if err != nil {
		return CompoundButton{}, err
	}
	return CompoundButton{TextView{View: view}}, nil
}

// CreateCheckbox adds a Checkbox
func (a *Activity) CreateCheckbox(ctx context.Context, text string, checked bool, parent Parent) (*Checkbox, error) {
	cb, err := a.createCompound(ctx, "createCheckbox", text, checked, parent)
	if err != nil {
		return nil, err
	}
	return &Checkbox{cb}, nil
}

// CreateSwitch adds a Switch
func (a *Activity) CreateSwitch(ctx context.Context, text string, checked bool, parent Parent) (*Switch, error) {
	cb, err := a.createCompound(ctx, "createSwitch", text, checked, parent)
	if err != nil {
		return nil, err
	}
	return &Switch{cb}, nil
}

// CreateToggleButton adds a ToggleButton
func (a *Activity) CreateToggleButton(ctx context.Context, text string, checked bool, parent Parent) (*ToggleButton, error) {
	cb, err := a.createCompound(ctx, "createToggleButton", text, checked, parent)
	if err != nil {
		return nil, err
	}
	return &ToggleButton{cb}, nil
}

// CreateRadioButton adds a RadioButton, usually inside a RadioGroup
func (a *Activity) CreateRadioButton(ctx context.Context, text string, checked bool, parent Parent) (*RadioButton, error) {
	cb, err := a.createCompound(ctx, "createRadioButton", text, checked, parent)
	if err != nil {
		return nil, err
	}
	return &RadioButton{cb}, nil
}

// CreateRadioGroup adds a RadioGroup
func (a *Activity) CreateRadioGroup(ctx context.Context, parent Parent) (*RadioGroup, error) {
	view, err := a.create(ctx, "createRadioGroup", parent, nil)
	if err != nil {
		return nil, err
	}
	return &RadioGroup{view}, nil
}

// CreateSpinner adds a Spinner
func (a *Activity) CreateSpinner(ctx context.Context, parent Parent) (*Spinner, error) {
	view, err := a.create(ctx, "createSpinner", parent, nil)
	if err != nil {
		return nil, err
	}
	return &Spinner{view}, nil
}

// CreateLinearLayout adds a vertical (or horizontal) LinearLayout
func (a *Activity) CreateLinearLayout(ctx context.Context, vertical bool, parent Parent) (*LinearLayout, error) {
	view, err := a.create(ctx, "createLinearLayout", parent, Params{"vertical": vertical})
	if err != nil {
		return nil, err
	}
	return &LinearLayout{view}, nil
}

// CreateNestedScrollView adds a vertical scroll container
func (a *Activity) CreateNestedScrollView(ctx context.Context, parent Parent, opts ScrollOptions) (*NestedScrollView, error) {
	view, err := a.create(ctx, "createNestedScrollView", parent, opts.params())
	if err != nil {
		return nil, err
	}
	return &NestedScrollView{scrollable{view}}, nil
}

// CreateHorizontalScrollView adds a horizontal scroll container
func (a *Activity) CreateHorizontalScrollView(ctx context.Context, parent Parent, opts ScrollOptions) (*HorizontalScrollView, error) {
	view, err := a.create(ctx, "createHorizontalScrollView", parent, opts.params())
	if err != nil {
		return nil, err
	}
	return &HorizontalScrollView{scrollable{view}}, nil
}

// CreateFrameLayout adds a FrameLayout
func (a *Activity) CreateFrameLayout(ctx context.Context, parent Parent) (*FrameLayout, error) {
	view, err := a.create(ctx, "createFrameLayout", parent, nil)
	if err != nil {
		return nil, err
	}
	return &FrameLayout{view}, nil
}

// CreateGridLayout adds a GridLayout with the given number of rows and columns
func (a *Activity) CreateGridLayout(ctx context.Context, rows, cols int, parent Parent) (*GridLayout, error) {
	if rows < 1 || cols < 1 {
		return nil, models.NewMethodError(models.ConfigurationError, "createGridLayout", "rows and cols must be positive")
	}
	view, err := a.create(ctx, "createGridLayout", parent, Params{"rows": rows, "cols": cols})
	if err != nil {
		return nil, err
	}
	return &GridLayout{view}, nil
}

// CreateSwipeRefreshLayout adds a SwipeRefreshLayout
func (a *Activity) CreateSwipeRefreshLayout(ctx context.Context, parent Parent) (*SwipeRefreshLayout, error) {
	view, err := a.create(ctx, "createSwipeRefreshLayout", parent, nil)
	if err != nil {
		return nil, err
	}
	return &SwipeRefreshLayout{view}, nil
}

// CreateTabLayout adds a TabLayout
func (a *Activity) CreateTabLayout(ctx context.Context, parent Parent) (*TabLayout, error) {
	view, err := a.create(ctx, "createTabLayout", parent, nil)
	if err != nil {
		return nil, err
	}
	return &TabLayout{view}, nil
}

// CreateImageView adds an ImageView
func (a *Activity) CreateImageView(ctx context.Context, parent Parent) (*ImageView, error) {
	view, err := a.create(ctx, "createImageView", parent, nil)
	if err != nil {
		return nil, err
	}
	return &ImageView{view}, nil
}

// CreateProgressBar adds a ProgressBar
func (a *Activity) CreateProgressBar(ctx context.Context, parent Parent) (*ProgressBar, error) {
	view, err := a.create(ctx, "createProgressBar", parent, nil)
	if err != nil {
		return nil, err
	}
	return &ProgressBar{view}, nil
}

// CreateSpace adds an empty Space
func (a *Activity) CreateSpace(ctx context.Context, parent Parent) (*Space, error) {
	view, err := a.create(ctx, "createSpace", parent, nil)
	if err != nil {
		return nil, err
	}
	return &Space{view}, nil
}

// CreateWebView adds a WebView
func (a *Activity) CreateWebView(ctx context.Context, parent Parent) (*WebView, error) {
	view, err := a.create(ctx, "createWebView", parent, nil)
	if err != nil {
		return nil, err
	}
	return &WebView{view}, nil
}

// Toast shows a short message over whatever is on screen
func Toast(ctx context.Context, session Session, text string, long bool) error {
	return send(ctx, session, "toast", Params{"text": text, "long": long})
}
