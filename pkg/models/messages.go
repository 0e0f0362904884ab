package models

import (
	"encoding/json"
	"fmt"
)

// Handle is an opaque id assigned by the GUI host to a window or view.
// It is only meaningful inside the session that created it.
type Handle = int64

// Request is a command sent on the main stream.
// Params is never omitted: the host expects an object even when empty.
type Request struct {
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params"`
}

// NewRequest creates a request with a non-nil params object
func NewRequest(method string, params map[string]interface{}) *Request {
	if params == nil {
		params = map[string]interface{}{}
	}
	return &Request{
		Method: method,
		Params: params,
	}
}

// With sets a param and returns the request for chaining
func (r *Request) With(key string, value interface{}) *Request {
	r.Params[key] = value
	return r
}

// Event types pushed by the host on the event stream
const (
	EventCreate            = "create"
	EventStart             = "start"
	EventResume            = "resume"
	EventPause             = "pause"
	EventStop              = "stop"
	EventDestroy           = "destroy"
	EventUserLeave         = "UserLeave"
	EventBack              = "back"
	EventClick             = "click"
	EventLongClick         = "longClick"
	EventFocusChange       = "focusChange"
	EventText              = "text"
	EventChecked           = "checked"
	EventSelected          = "selected"
	EventItemSelected      = "itemselected"
	EventRefresh           = "refresh"
	EventTouch             = "touch"
	EventWebviewNavigation = "webviewNavigation"
)

// Event is a notification delivered on the event stream
type Event struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// EventValue holds the value fields shared by most event types.
// Fields not present in a given event are left at their zero value.
type EventValue struct {
	ActivityID *int64  `json:"aid,omitempty"`
	ID         *int64  `json:"id,omitempty"`
	Finishing  *bool   `json:"finishing,omitempty"`
	Set        *bool   `json:"set,omitempty"`
	Selected   *int64  `json:"selected,omitempty"`
	Text       *string `json:"text,omitempty"`
}

// Fields decodes the common value fields.
// Non-object values (the host sends null for some lifecycle events) decode to an empty EventValue.
func (e Event) Fields() (EventValue, error) {
	var value EventValue
	if len(e.Value) == 0 || string(e.Value) == "null" || e.Value[0] != '{' {
		return value, nil
	}
	if err := json.Unmarshal(e.Value, &value); err != nil {
		return value, NewGUIError(ProtocolError, fmt.Sprintf("event %q value: %v", e.Type, err))
	}
	return value, nil
}

// DecodeValue unmarshals the raw event value into out
func (e Event) DecodeValue(out interface{}) error {
	if len(e.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		return NewGUIError(ProtocolError, fmt.Sprintf("event %q value: %v", e.Type, err))
	}
	return nil
}

// IsDestroy reports whether the event ends the window
func (e Event) IsDestroy() bool {
	return e.Type == EventDestroy
}

// Finishing reports whether a destroy event is final (the activity will not be recreated).
// A destroy without the field is treated as final.
func (e Event) Finishing() bool {
	fields, err := e.Fields()
	if err != nil || fields.Finishing == nil {
		return true
	}
	return *fields.Finishing
}

// TargetID returns the view id the event refers to, if any
func (e Event) TargetID() (int64, bool) {
	fields, err := e.Fields()
	if err != nil || fields.ID == nil {
		return 0, false
	}
	return *fields.ID, true
}
