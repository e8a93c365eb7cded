// Package server is the websocket boundary: it upgrades connections,
// pumps frames, decodes the message envelope and routes requests into the
// room layer. It holds no game state of its own.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nenadlazic8/zinga/internal/config"
	"github.com/nenadlazic8/zinga/internal/game/room"
	"github.com/nenadlazic8/zinga/internal/protocol"
	"github.com/nenadlazic8/zinga/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // browser clients connect from anywhere
	},
}

// Server wires the transport to the room manager.
type Server struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	rooms *room.Manager

	handlers map[protocol.MessageType]handlerFunc

	httpSrv *http.Server
}

// New connects to Redis and builds the server. The Redis connection is
// verified up front so a misconfigured address fails at startup, not on
// the first finished match.
func New(cfg *config.Config, log *zap.SugaredLogger) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	s := &Server{
		cfg:   cfg,
		log:   log,
		redis: rdb,
		rooms: room.NewManager(cfg.Game, storage.NewRedisHistory(rdb), log),
	}
	s.initHandlers()
	return s, nil
}

// Start serves websocket and health endpoints until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.log.Infow("server listening", "addr", "ws://"+addr+"/ws")
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains HTTP, stops the room sweeper and closes Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}
	s.rooms.Close()
	if cerr := s.redis.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade failed", "err", err)
		return
	}

	c := newClient(s, conn)
	s.log.Debugw("client connected", "remote", conn.RemoteAddr())

	go c.readPump()
	go c.writePump()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
