package gui

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

type sentRequest struct {
	req  *models.Request
	read bool
}

// recordingSession records requests and answers SendRead from replies
type recordingSession struct {
	mu      sync.Mutex
	sent    []sentRequest
	replies map[string]json.RawMessage
	err     error
}

func newRecordingSession() *recordingSession {
	return &recordingSession{replies: make(map[string]json.RawMessage)}
}

func (s *recordingSession) reply(method, raw string) {
	s.replies[method] = json.RawMessage(raw)
}

func (s *recordingSession) Send(_ context.Context, req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentRequest{req: req})
	return s.err
}

func (s *recordingSession) SendRead(_ context.Context, req *models.Request) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentRequest{req: req, read: true})
	if s.err != nil {
		return nil, s.err
	}
	raw, ok := s.replies[req.Method]
	if !ok {
		return nil, errors.New("no reply for " + req.Method)
	}
	return raw, nil
}

func (s *recordingSession) last() sentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return sentRequest{}
	}
	return s.sent[len(s.sent)-1]
}

func (s *recordingSession) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}
