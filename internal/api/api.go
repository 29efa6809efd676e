// Package api provides HTTP handlers and the main API server logic for theraflow.
//
// It exposes RESTful endpoints for creating sessions, advancing turns, and
// inspecting the stage catalog. The API integrates the session engine with
// the store and GenAI modules; it owns session lifecycle and turn
// serialization, the engine itself stays pure.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mindloom/theraflow/internal/genai"
	"github.com/mindloom/theraflow/internal/store"
)

// Server wires the session engine, store, and generator behind HTTP.
type Server struct {
	store store.Store
	genai genai.ClientInterface

	// Turns for a given session must not interleave: the engine mutates
	// session state synchronously and expects the caller to serialize.
	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

// NewServer creates a server with the given store and generator. The
// generator may be nil; turns then return the directive without a reply.
func NewServer(st store.Store, gen genai.ClientInterface) *Server {
	return &Server{
		store:    st,
		genai:    gen,
		sessions: make(map[string]*sync.Mutex),
	}
}

// Handler builds the HTTP route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.createSessionHandler)
	mux.HandleFunc("GET /sessions/{id}", s.getSessionHandler)
	mux.HandleFunc("POST /sessions/{id}/turns", s.turnHandler)
	mux.HandleFunc("GET /stages", s.stagesHandler)
	return mux
}

// Run starts the HTTP server on the given address and blocks.
func (s *Server) Run(addr string) error {
	slog.Info("theraflow API running", "addr", addr)
	if err := http.ListenAndServe(addr, s.Handler()); err != nil {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// sessionLock returns the per-session mutex, creating it on first use.
func (s *Server) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.sessions[id]
	if !ok {
		l = &sync.Mutex{}
		s.sessions[id] = l
	}
	return l
}
