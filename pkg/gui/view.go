package gui

import (
	"context"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// Layout size keywords accepted wherever a width or height is expected
const (
	MatchParent = "MATCH_PARENT"
	WrapContent = "WRAP_CONTENT"
)

// Visibility values for SetVisibility
type Visibility int

const (
	Gone      Visibility = 0
	Invisible Visibility = 1
	Visible   Visibility = 2
)

// Margin directions for SetMarginSide
const (
	MarginTop    = "top"
	MarginBottom = "bottom"
	MarginLeft   = "left"
	MarginRight  = "right"
)

// Grid alignments for GridLayoutParams
const (
	AlignCenter   = "center"
	AlignTop      = "top"
	AlignBottom   = "bottom"
	AlignLeft     = "left"
	AlignRight    = "right"
	AlignBaseline = "baseline"
	AlignFill     = "fill"
)

// View is the part shared by every widget
type View struct {
	Entity
}

// ParentID lets any view be used as a Parent
func (v *View) ParentID() models.Handle {
	return v.id
}

// SetWidth sets the width in dp, or in px when px is true
func (v *View) SetWidth(ctx context.Context, width int, px bool) error {
	return v.mutate(ctx, "setWidth", Params{"width": width, "px": px})
}

// SetHeight sets the height in dp, or in px when px is true
func (v *View) SetHeight(ctx context.Context, height int, px bool) error {
	return v.mutate(ctx, "setHeight", Params{"height": height, "px": px})
}

// SetWidthMatchParent makes the view as wide as its parent
func (v *View) SetWidthMatchParent(ctx context.Context) error {
	return v.mutate(ctx, "setWidth", Params{"width": MatchParent})
}

// SetWidthWrapContent makes the view as wide as its content
func (v *View) SetWidthWrapContent(ctx context.Context) error {
	return v.mutate(ctx, "setWidth", Params{"width": WrapContent})
}

// SetHeightMatchParent makes the view as tall as its parent
func (v *View) SetHeightMatchParent(ctx context.Context) error {
	return v.mutate(ctx, "setHeight", Params{"height": MatchParent})
}

// SetHeightWrapContent makes the view as tall as its content
func (v *View) SetHeightWrapContent(ctx context.Context) error {
	return v.mutate(ctx, "setHeight", Params{"height": WrapContent})
}

// SetDimensions sets width and height in dp
func (v *View) SetDimensions(ctx context.Context, width, height int) error {
	if err := v.SetWidth(ctx, width, false); err != nil {
		return err
	}
	return v.SetHeight(ctx, height, false)
}

// GetDimensions returns the laid out size in px
func (v *View) GetDimensions(ctx context.Context) (width, height int64, err error) {
	return v.queryIntPair(ctx, "getDimensions", nil)
}

// SetMargin sets the margin on all sides, in dp
func (v *View) SetMargin(ctx context.Context, margin int) error {
	return v.mutate(ctx, "setMargin", Params{"margin": margin})
}

// SetMarginSide sets the margin on one side, in dp
func (v *View) SetMarginSide(ctx context.Context, margin int, dir string) error {
	return v.mutate(ctx, "setMargin", Params{"margin": margin, "dir": dir})
}

// SetLinearLayoutParams sets the weight of a view inside a LinearLayout.
// position < 0 leaves the position unchanged.
func (v *View) SetLinearLayoutParams(ctx context.Context, weight float64, position int) error {
	params := Params{"weight": weight}
	if position >= 0 {
		params["position"] = position
	}
	return v.mutate(ctx, "setLinearLayoutParams", params)
}

// GridLayoutParams places a view inside a GridLayout
type GridLayoutParams struct {
	Row, Col              int
	RowSize, ColSize      int
	AlignRow, AlignColumn string
}

// SetGridLayoutParams places the view inside its GridLayout parent
func (v *View) SetGridLayoutParams(ctx context.Context, p GridLayoutParams) error {
	params := Params{
		"row":     p.Row,
		"col":     p.Col,
		"rowsize": max(p.RowSize, 1),
		"colsize": max(p.ColSize, 1),
	}
	if p.AlignRow != "" {
		params["alignmentrow"] = p.AlignRow
	}
	if p.AlignColumn != "" {
		params["alignmentcol"] = p.AlignColumn
	}
	return v.mutate(ctx, "setGridLayoutParams", params)
}

// SetBackgroundColor sets the background as an ARGB color
func (v *View) SetBackgroundColor(ctx context.Context, color uint32) error {
	return v.mutate(ctx, "setBackgroundColor", Params{"color": int32(color)})
}

// SetVisibility shows, hides or removes the view from layout
func (v *View) SetVisibility(ctx context.Context, vis Visibility) error {
	return v.mutate(ctx, "setVisibility", Params{"vis": int(vis)})
}

// SetClickable toggles whether the view emits click events
func (v *View) SetClickable(ctx context.Context, clickable bool) error {
	return v.mutate(ctx, "setClickable", Params{"clickable": clickable})
}

// Focus gives the view input focus, optionally forcing the soft keyboard open
func (v *View) Focus(ctx context.Context, forceSoftKeyboard bool) error {
	return v.mutate(ctx, "requestFocus", Params{"forcesoft": forceSoftKeyboard})
}

// Delete removes the view and its children from the layout.
// The handle is invalid afterwards.
func (v *View) Delete(ctx context.Context) error {
	return v.mutate(ctx, "deleteView", nil)
}
