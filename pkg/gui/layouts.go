package gui

import (
	"context"
)

// LinearLayout stacks its children vertically or horizontally
type LinearLayout struct {
	View
}

// FrameLayout draws its children on top of each other
type FrameLayout struct {
	View
}

// GridLayout places its children in a grid, see View.SetGridLayoutParams
type GridLayout struct {
	View
}

// ScrollOptions configures NestedScrollView and HorizontalScrollView
type ScrollOptions struct {
	// FillViewport stretches the child to fill the visible area
	FillViewport bool
	// Snapping snaps to the nearest child when scrolling stops
	Snapping bool
	// NoBar hides the scroll bar
	NoBar bool
}

func (o ScrollOptions) params() Params {
	return Params{
		"fillviewport": o.FillViewport,
		"snapping":     o.Snapping,
		"nobar":        o.NoBar,
	}
}

// scrollable is shared by both scroll views
type scrollable struct {
	View
}

// SetScrollPosition scrolls to x, y in px; smooth animates the scroll
func (s *scrollable) SetScrollPosition(ctx context.Context, x, y int, smooth bool) error {
	return s.mutate(ctx, "setScrollPosition", Params{"x": x, "y": y, "soft": smooth})
}

// GetScrollPosition returns the current scroll offset in px
func (s *scrollable) GetScrollPosition(ctx context.Context) (x, y int64, err error) {
	return s.queryIntPair(ctx, "getScrollPosition", nil)
}

// NestedScrollView scrolls its single child vertically
type NestedScrollView struct {
	scrollable
}

// HorizontalScrollView scrolls its single child horizontally
type HorizontalScrollView struct {
	scrollable
}

// SwipeRefreshLayout emits a refresh event when pulled down
type SwipeRefreshLayout struct {
	View
}

// SetRefreshing shows or hides the refresh indicator.
// The host shows it automatically on pull; call with false when done.
func (s *SwipeRefreshLayout) SetRefreshing(ctx context.Context, refreshing bool) error {
	return s.mutate(ctx, "setRefreshing", Params{"refreshing": refreshing})
}

// TabLayout is a row of tabs
type TabLayout struct {
	View
}

// SetList replaces the tab labels
func (t *TabLayout) SetList(ctx context.Context, tabs []string) error {
	if tabs == nil {
		tabs = []string{}
	}
	return t.mutate(ctx, "setList", Params{"list": tabs})
}

// SelectTab selects the tab at index
func (t *TabLayout) SelectTab(ctx context.Context, index int) error {
	return t.mutate(ctx, "selectTab", Params{"tab": index})
}
