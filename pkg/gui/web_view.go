package gui

import (
	"context"
)

// WebView displays web content
type WebView struct {
	View
}

// LoadURI navigates to uri
func (w *WebView) LoadURI(ctx context.Context, uri string) error {
	return w.mutate(ctx, "loadURI", Params{"uri": uri})
}

// SetData replaces the page with an HTML document
func (w *WebView) SetData(ctx context.Context, html string) error {
	return w.mutate(ctx, "setData", Params{"doc": html})
}

// AllowJavascript enables or disables JavaScript. Enabling asks the user for
// confirmation; the result reports whether JavaScript is now enabled.
func (w *WebView) AllowJavascript(ctx context.Context, allow bool) (bool, error) {
	return w.queryBool(ctx, "allowJavascript", Params{"allow": allow})
}

// AllowContentURI toggles loading content:// URIs
func (w *WebView) AllowContentURI(ctx context.Context, allow bool) error {
	return w.mutate(ctx, "allowContentURI", Params{"allow": allow})
}

// AllowNavigation toggles navigation by the user or by scripts.
// Blocked navigations are reported as webviewNavigation events.
func (w *WebView) AllowNavigation(ctx context.Context, allow bool) error {
	return w.mutate(ctx, "allowNavigation", Params{"allow": allow})
}

// EvaluateJS runs code in the page
func (w *WebView) EvaluateJS(ctx context.Context, code string) error {
	return w.mutate(ctx, "evaluateJS", Params{"code": code})
}

// GoBack navigates back in history
func (w *WebView) GoBack(ctx context.Context) error {
	return w.mutate(ctx, "goBack", nil)
}

// GoForward navigates forward in history
func (w *WebView) GoForward(ctx context.Context) error {
	return w.mutate(ctx, "goForward", nil)
}
