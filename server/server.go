// Package server exposes human-vs-AI games over HTTP. The human plays seat
// one; the AI seat answers automatically after every human move.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"durak/env"
	"durak/game"
	"durak/player"
	"durak/replay"
)

type session struct {
	mu  sync.Mutex
	env *env.Env
	ai  env.Player
}

type Server struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	rules    game.Rules
	logger   zerolog.Logger
}

type Option func(s *Server)

func WithRules(rules game.Rules) Option {
	return func(s *Server) {
		s.rules = rules
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(options ...Option) *Server {
	s := &Server{
		sessions: make(map[uuid.UUID]*session),
		rules:    game.DefaultRules(),
		logger:   log.Logger,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Router builds the HTTP API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/games", s.handleCreate)
	r.Get("/api/games/{id}", s.handleState)
	r.Post("/api/games/{id}/move", s.handleMove)
	r.Get("/api/games/{id}/replay", s.handleReplay)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type createGameRequest struct {
	Seed *uint64 `json:"seed,omitempty"`
}

type createGameResponse struct {
	GameID string `json:"game_id"`
	Seed   uint64 `json:"seed"`
}

type historyEntry struct {
	Player    string      `json:"player"`
	Action    game.Action `json:"action"`
	Timestamp time.Time   `json:"timestamp"`
}

type gameStateResponse struct {
	GameID        string          `json:"game_id"`
	GameState     game.Observable `json:"game_state"`
	LegalActions  game.ActionList `json:"legal_actions"`
	IsOver        bool            `json:"is_over"`
	Winner        *string         `json:"winner,omitempty"`
	ActionHistory []historyEntry  `json:"action_history"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	e := env.New(env.WithRules(s.rules), env.WithLogger(s.logger))
	var seed uint64
	if req.Seed != nil {
		seed = *req.Seed
		e.Reset(seed)
	} else {
		_, seed = e.ResetRandom()
	}

	sess := &session{env: e, ai: player.NewRandom(seed + 1)}
	if err := sess.catchUpAI(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info().Str("game_id", id.String()).Uint64("seed", seed).Msg("game created")
	writeJSON(w, http.StatusOK, createGameResponse{GameID: id.String(), Seed: seed})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *session {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return nil
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return nil
	}
	return sess
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.catchUpAI(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.respondState(w, r, sess)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	var action game.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		http.Error(w, "malformed action", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.env.IsDone() {
		http.Error(w, "game is over", http.StatusConflict)
		return
	}
	if sess.env.ActingPlayer() != game.Player1 {
		http.Error(w, "not your turn", http.StatusConflict)
		return
	}

	actions := sess.env.LegalActions()
	index := -1
	for i, a := range actions {
		if a == action {
			index = i
			break
		}
	}
	if index < 0 {
		http.Error(w, "illegal action", http.StatusBadRequest)
		return
	}
	if _, _, _, _, err := sess.env.Step(index); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := sess.catchUpAI(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.respondState(w, r, sess)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	sess.mu.Lock()
	record := replay.FromEnv(sess.env)
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, record)
}

// respondState renders the game from the human seat's perspective. Callers
// hold the session lock.
func (s *Server) respondState(w http.ResponseWriter, r *http.Request, sess *session) {
	e := sess.env

	var winner *string
	if p, ok := e.Winner(); ok {
		name := p.String()
		winner = &name
	}

	history := make([]historyEntry, 0, len(e.ActionLog()))
	for _, entry := range e.ActionLog() {
		action, err := game.ActionFromID(entry.ActionID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		history = append(history, historyEntry{
			Player:    entry.Player.String(),
			Action:    action,
			Timestamp: entry.Timestamp,
		})
	}

	writeJSON(w, http.StatusOK, gameStateResponse{
		GameID:        chi.URLParam(r, "id"),
		GameState:     e.Observe(game.Player1),
		LegalActions:  e.LegalActions(),
		IsOver:        e.IsDone(),
		Winner:        winner,
		ActionHistory: history,
	})
}

// catchUpAI lets the AI seat act until it is the human's turn or the game
// ends. Callers hold the session lock.
func (sess *session) catchUpAI() error {
	e := sess.env
	for steps := 0; !e.IsDone() && e.ActingPlayer() == game.Player2; steps++ {
		if steps >= env.MaxSteps {
			return errors.New("ai seat made no progress")
		}
		index, err := sess.ai.ChooseAction(
			e.Observe(game.Player2), e.LegalActions(), e.History(game.Player2))
		if err != nil {
			return err
		}
		if _, _, _, _, err := e.Step(index); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
