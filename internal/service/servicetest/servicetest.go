// Package servicetest provides in-memory collaborators for service and
// handler tests.
package servicetest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/service"
)

// SentEmail records one Mailer call.
type SentEmail struct {
	Type     string
	To       string
	GoalID   string
	Achieved bool
}

// Mailer records every send. Recipients listed with FailFor get a failed result.
type Mailer struct {
	mu      sync.Mutex
	sent    []SentEmail
	failFor map[string]bool
}

func NewMailer() *Mailer {
	return &Mailer{failFor: make(map[string]bool)}
}

// FailFor makes every later send to addr fail.
func (m *Mailer) FailFor(addr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFor[addr] = true
}

// Sent returns a copy of the recorded sends.
func (m *Mailer) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentEmail(nil), m.sent...)
}

// SentOfType returns the recorded sends with the given email type.
func (m *Mailer) SentOfType(emailType string) []SentEmail {
	var out []SentEmail
	for _, s := range m.Sent() {
		if s.Type == emailType {
			out = append(out, s)
		}
	}
	return out
}

func (m *Mailer) record(e SentEmail) service.SendResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, e)
	if m.failFor[e.To] {
		return service.SendResult{Error: "mailbox unavailable"}
	}
	return service.SendResult{Success: true, MessageID: "test-" + uuid.New().String()}
}

func (m *Mailer) SendConfirmation(_ context.Context, to string, goal *model.Goal) service.SendResult {
	return m.record(SentEmail{Type: model.EmailTypeConfirmation, To: to, GoalID: goal.ID})
}

func (m *Mailer) SendReminder(_ context.Context, to string, goal *model.Goal) service.SendResult {
	return m.record(SentEmail{Type: model.EmailTypeReminder, To: to, GoalID: goal.ID})
}

func (m *Mailer) SendAchievement(_ context.Context, to string, goal *model.Goal, achieved bool) service.SendResult {
	return m.record(SentEmail{Type: model.EmailTypeAchievement, To: to, GoalID: goal.ID, Achieved: achieved})
}

var ErrObjectNotFound = errors.New("object not found")

// Storage keeps objects in a map.
type Storage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func NewStorage() *Storage {
	return &Storage{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *Storage) Put(_ context.Context, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *Storage) PresignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", ErrObjectNotFound
	}
	return "https://storage.test/" + key + "?expires=" + expiry.String(), nil
}

// Object returns the stored bytes and content type for key.
func (s *Storage) Object(key string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return bytes.Clone(data), s.types[key], ok
}
