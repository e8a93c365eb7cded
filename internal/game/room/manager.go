package room

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nenadlazic8/zinga/internal/apperrors"
	"github.com/nenadlazic8/zinga/internal/config"
	"github.com/nenadlazic8/zinga/internal/protocol"
)

// Manager owns the live rooms. It is the only place a room is created or
// dropped; everything that needs the room registry gets the manager
// injected instead of reaching for a global.
type Manager struct {
	gameCfg config.GameConfig
	store   HistoryStore
	log     *zap.SugaredLogger

	mu    sync.RWMutex
	rooms map[string]*Room

	stop chan struct{}
}

// NewManager builds a room manager and starts its idle-room sweeper.
func NewManager(gameCfg config.GameConfig, store HistoryStore, log *zap.SugaredLogger) *Manager {
	m := &Manager{
		gameCfg: gameCfg,
		store:   store,
		log:     log,
		rooms:   make(map[string]*Room),
		stop:    make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Close stops the sweeper.
func (m *Manager) Close() {
	close(m.stop)
}

// Join puts a player into the room with the given id, creating the room on
// first use. Room ids are case-insensitive.
func (m *Manager) Join(roomID, name string, sender Sender) (*Room, string, error) {
	roomID = strings.ToUpper(strings.TrimSpace(roomID))
	name = strings.TrimSpace(name)
	if roomID == "" {
		return nil, "", &apperrors.GameError{Code: protocol.ErrCodeInvalidMsg, Message: "room id required"}
	}
	if name == "" {
		return nil, "", &apperrors.GameError{Code: protocol.ErrCodeInvalidMsg, Message: "name required"}
	}

	m.mu.Lock()
	r, ok := m.rooms[roomID]
	if !ok {
		r = newRoom(roomID, m.gameCfg, m.store, m.log)
		m.rooms[roomID] = r
		m.log.Infow("room created", "room", roomID)
	}
	m.mu.Unlock()

	playerID, err := r.Join(name, sender)
	if err != nil {
		m.dropIfEmpty(r)
		return nil, "", err
	}
	return r, playerID, nil
}

// Get returns a live room or nil.
func (m *Manager) Get(roomID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[strings.ToUpper(strings.TrimSpace(roomID))]
}

// Leave removes a player from their room, dropping the room once the last
// human is gone.
func (m *Manager) Leave(r *Room, playerID string) error {
	humans, err := r.Leave(playerID)
	if humans == 0 {
		m.drop(r.ID)
	}
	return err
}

// Disconnect handles a transport loss for a player.
func (m *Manager) Disconnect(r *Room, playerID string) {
	if humans := r.MarkDisconnected(playerID); humans == 0 {
		m.drop(r.ID)
	}
}

func (m *Manager) drop(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; ok {
		delete(m.rooms, roomID)
		m.log.Infow("room dropped", "room", roomID)
	}
}

func (m *Manager) dropIfEmpty(r *Room) {
	r.mu.Lock()
	empty := len(r.players) == 0
	r.mu.Unlock()
	if empty {
		m.drop(r.ID)
	}
}

// RoomCount reports the number of live rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// cleanupLoop drops rooms that have been idle past the configured
// timeout. Finished and aborted rooms linger until then so players can
// still read the result.
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.gameCfg.RoomTimeoutDuration())

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rooms {
		r.mu.Lock()
		stale := r.lastActive.Before(cutoff)
		r.mu.Unlock()
		if stale {
			delete(m.rooms, id)
			m.log.Infow("idle room swept", "room", id)
		}
	}
}
