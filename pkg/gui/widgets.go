package gui

import (
	"context"
)

// TextView displays text
type TextView struct {
	View
}

// SetText replaces the displayed text
func (tv *TextView) SetText(ctx context.Context, text string) error {
	return tv.mutate(ctx, "setText", Params{"text": text})
}

// GetText returns the current text, including user edits for an EditText
func (tv *TextView) GetText(ctx context.Context) (string, error) {
	return tv.queryString(ctx, "getText", nil)
}

// SetTextSize sets the font size in sp
func (tv *TextView) SetTextSize(ctx context.Context, size int) error {
	return tv.mutate(ctx, "setTextSize", Params{"size": size})
}

// SetTextColor sets the text color as ARGB
func (tv *TextView) SetTextColor(ctx context.Context, color uint32) error {
	return tv.mutate(ctx, "setTextColor", Params{"color": int32(color)})
}

// Button is a push button
type Button struct {
	TextView
}

// EditText is a text input field
type EditText struct {
	TextView
}

// Input types for EditTextOptions.InputType
const (
	InputText           = "text"
	InputTextMultiLine  = "textMultiLine"
	InputPassword       = "textPassword"
	InputEmail          = "textEmailAddress"
	InputURI            = "textUri"
	InputNumber         = "number"
	InputNumberDecimal  = "numberDecimal"
	InputNumberSigned   = "numberSigned"
	InputNumberPassword = "numberPassword"
	InputPhone          = "phone"
	InputDatetime       = "datetime"
	InputDate           = "date"
	InputTime           = "time"
)

// EditTextOptions configures a new EditText
type EditTextOptions struct {
	// SingleLine keeps the input on one line
	SingleLine bool
	// InputType selects the keyboard, default text
	InputType string
	// NoLine hides the underline
	NoLine bool
}

// SetHint sets the placeholder shown while the field is empty
func (et *EditText) SetHint(ctx context.Context, hint string) error {
	return et.mutate(ctx, "setHint", Params{"hint": hint})
}

// CompoundButton is a two-state button
type CompoundButton struct {
	TextView
}

// SetChecked sets the checked state without emitting an event
func (cb *CompoundButton) SetChecked(ctx context.Context, checked bool) error {
	return cb.mutate(ctx, "setChecked", Params{"checked": checked})
}

// Checkbox is a check box with a label
type Checkbox struct {
	CompoundButton
}

// Switch is a toggle switch with a label
type Switch struct {
	CompoundButton
}

// ToggleButton is a button that stays pressed
type ToggleButton struct {
	CompoundButton
}

// RadioButton is one choice of a RadioGroup
type RadioButton struct {
	CompoundButton
}

// RadioGroup holds mutually exclusive RadioButtons
type RadioGroup struct {
	View
}

// Spinner is a drop-down list
type Spinner struct {
	View
}

// SetList replaces the items
func (s *Spinner) SetList(ctx context.Context, items []string) error {
	if items == nil {
		items = []string{}
	}
	return s.mutate(ctx, "setList", Params{"list": items})
}

// Refresh redraws the spinner after its items changed
func (s *Spinner) Refresh(ctx context.Context) error {
	return s.mutate(ctx, "refreshSpinner", nil)
}

// SelectItem selects the item at index
func (s *Spinner) SelectItem(ctx context.Context, index int) error {
	return s.mutate(ctx, "selectItem", Params{"item": index})
}

// ImageView displays an image
type ImageView struct {
	View
}

// SetImage sets the image from base64 encoded PNG or JPEG data
func (iv *ImageView) SetImage(ctx context.Context, base64Image string) error {
	return iv.mutate(ctx, "setImage", Params{"img": base64Image})
}

// Refresh redraws the image
func (iv *ImageView) Refresh(ctx context.Context) error {
	return iv.mutate(ctx, "refreshImageView", nil)
}

// ProgressBar is a horizontal progress bar
type ProgressBar struct {
	View
}

// SetProgress sets progress in percent; values outside 0..100 are clamped
func (pb *ProgressBar) SetProgress(ctx context.Context, progress int) error {
	return pb.mutate(ctx, "setProgress", Params{"progress": min(max(progress, 0), 100)})
}

// Space is an empty view used for spacing
type Space struct {
	View
}
