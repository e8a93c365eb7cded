// Package testutil holds the fakes shared by package tests.
package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nenadlazic8/zinga/internal/protocol"
)

// RecordingSender captures every message pushed to one player.
type RecordingSender struct {
	mu       sync.Mutex
	messages []protocol.Message
}

func (s *RecordingSender) Send(msg protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of everything received so far.
func (s *RecordingSender) Messages() []protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Message(nil), s.messages...)
}

// LastOfType decodes the most recent message of the given type into out.
// Returns false if none was received.
func (s *RecordingSender) LastOfType(t protocol.MessageType, out any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Type == t {
			if out != nil {
				if err := json.Unmarshal(s.messages[i].Payload, out); err != nil {
					return false
				}
			}
			return true
		}
	}
	return false
}

// CountOfType returns how many messages of the given type were received.
func (s *RecordingSender) CountOfType(t protocol.MessageType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.messages {
		if m.Type == t {
			n++
		}
	}
	return n
}

// MemoryHistory is an in-memory room.HistoryStore.
type MemoryHistory struct {
	mu      sync.Mutex
	records map[string][]protocol.HistoryRecord
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{records: make(map[string][]protocol.HistoryRecord)}
}

func (h *MemoryHistory) Append(_ context.Context, key string, rec protocol.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records[key] = append(h.records[key], rec)
	return nil
}

func (h *MemoryHistory) List(_ context.Context, key string) ([]protocol.HistoryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]protocol.HistoryRecord(nil), h.records[key]...), nil
}
