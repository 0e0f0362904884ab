// Package gui is the typed facade over the Termux:GUI command set.
//
// Every remote object is an Entity: the session it lives in, the id of the
// activity that owns it and the handle the host assigned to it. Widgets embed
// View, which embeds Entity, and translate their methods into catalogued
// remote calls. The tree of views exists only inside the host.
package gui

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// Session is the command channel the facade talks through.
// *protocol.Connection implements it.
type Session interface {
	// Send sends a request the host does not answer
	Send(ctx context.Context, req *models.Request) error
	// SendRead sends a request and returns the raw reply
	SendRead(ctx context.Context, req *models.Request) (json.RawMessage, error)
}

// Params holds method specific request fields
type Params map[string]interface{}

// Parent is anything views can be attached to. A nil Parent, including a
// nil widget pointer, attaches the view to the activity root.
type Parent interface {
	ParentID() models.Handle
}

// Entity is a remote object owned by an activity
type Entity struct {
	session Session
	aid     models.Handle
	id      models.Handle
}

// NewEntity wraps a handle obtained elsewhere, e.g. from an event
func NewEntity(session Session, aid, id models.Handle) Entity {
	return Entity{session: session, aid: aid, id: id}
}

// ID returns the host assigned handle
func (e Entity) ID() models.Handle {
	return e.id
}

// ActivityID returns the id of the owning activity
func (e Entity) ActivityID() models.Handle {
	return e.aid
}

// Session returns the session the entity belongs to
func (e Entity) Session() Session {
	return e.session
}

func (e Entity) request(method string, params Params) *models.Request {
	req := models.NewRequest(method, nil)
	for key, value := range params {
		req.With(key, value)
	}
	return req.With("aid", e.aid).With("id", e.id)
}

// mutate sends a fire-and-forget method addressed to this entity
func (e Entity) mutate(ctx context.Context, method string, params Params) error {
	if err := expectMethod(method, ReplyNone); err != nil {
		return err
	}
	return e.session.Send(ctx, e.request(method, params))
}

// query sends a method addressed to this entity and returns the raw reply
// after checking that the catalog expects the given shape.
func (e Entity) query(ctx context.Context, method string, reply ReplyShape, params Params) (json.RawMessage, error) {
	if err := expectMethod(method, reply); err != nil {
		return nil, err
	}
	return e.session.SendRead(ctx, e.request(method, params))
}

func (e Entity) queryIntPair(ctx context.Context, method string, params Params) (int64, int64, error) {
	raw, err := e.query(ctx, method, ReplyIntPair, params)
	if err != nil {
		return 0, 0, err
	}
	return DecodeIntPair(method, raw)
}

func (e Entity) queryString(ctx context.Context, method string, params Params) (string, error) {
	raw, err := e.query(ctx, method, ReplyString, params)
	if err != nil {
		return "", err
	}
	return DecodeString(method, raw)
}

func (e Entity) queryBool(ctx context.Context, method string, params Params) (bool, error) {
	raw, err := e.query(ctx, method, ReplyBool, params)
	if err != nil {
		return false, err
	}
	return DecodeBool(method, raw)
}

// create issues a create* method in activity aid and returns the new entity
func create(ctx context.Context, session Session, aid models.Handle, method string, parent Parent, params Params) (Entity, error) {
	if err := expectMethod(method, ReplyInt); err != nil {
		return Entity{}, err
	}

	req := models.NewRequest(method, nil)
	for key, value := range params {
		req.With(key, value)
	}
	req.With("aid", aid)
	if id, ok := parentHandle(parent); ok {
		req.With("parent", id)
	}

	raw, err := session.SendRead(ctx, req)
	if err != nil {
		return Entity{}, err
	}
	id, err := DecodeInt(method, raw)
	if err != nil {
		return Entity{}, err
	}
	return Entity{session: session, aid: aid, id: id}, nil
}

// parentHandle returns the handle of parent, or false for the activity root
func parentHandle(parent Parent) (models.Handle, bool) {
	if parent == nil {
		return 0, false
	}
	if v := reflect.ValueOf(parent); v.Kind() == reflect.Pointer && v.IsNil() {
		return 0, false
	}
	return parent.ParentID(), true
}

// send issues a fire-and-forget method that is not addressed to a view
func send(ctx context.Context, session Session, method string, params Params) error {
	if err := expectMethod(method, ReplyNone); err != nil {
		return err
	}
	req := models.NewRequest(method, nil)
	for key, value := range params {
		req.With(key, value)
	}
	return session.Send(ctx, req)
}
