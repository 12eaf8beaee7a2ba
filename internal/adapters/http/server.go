// Package http exposes the engine over a JSON API for inspection tools and
// remote hosts.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/presentation/graph"
	"github.com/aretw0/cascade/pkg/domain"
)

// Engine defines the interface for the Cascade state machine core.
type Engine interface {
	States() []*domain.StateType
	StateByName(name string) (*domain.StateType, bool)
	Current(target domain.Target, st *domain.StateType) (domain.Repr, error)
	Previous(target domain.Target, st *domain.StateType) (domain.Repr, error)
	IsUpdated(target domain.Target, st *domain.StateType) (bool, error)
	IsReentrant(target domain.Target, st *domain.StateType) (bool, error)
	Set(target domain.Target, st *domain.StateType, next domain.Repr)
	Tick(ctx context.Context)
	Snapshot() *domain.EngineSnapshot
}

// Server serves the JSON API. A single mutex serializes ticks against reads,
// since the engine's query surface is only valid between passes.
type Server struct {
	engine Engine
	mu     sync.Mutex
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine) http.Handler {
	s := &Server{engine: engine}
	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/states", s.listStates)
	r.Get("/states/{name}", s.getState)
	r.Post("/states/{name}", s.setState)
	r.Post("/tick", s.tick)
	r.Get("/graph", s.getGraph)
	r.Get("/snapshot", s.getSnapshot)

	return r
}

// StateInfo describes a registered state type.
type StateInfo struct {
	Name         string   `json:"name"`
	Order        int      `json:"order"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// StateValue describes the live record of one state on one context.
type StateValue struct {
	Name      string      `json:"name"`
	Current   domain.Repr `json:"current"`
	Previous  domain.Repr `json:"previous"`
	Updated   bool        `json:"updated"`
	Reentrant bool        `json:"reentrant"`
}

// SetRequest arms a replacement value for a state.
type SetRequest struct {
	// Value is the next state value. Ignored when Absent is set.
	Value any `json:"value"`
	// Absent requests the absent representation (optional states only).
	Absent bool `json:"absent,omitempty"`
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"app":     "cascade-http",
		"version": strings.TrimSpace(cascade.Version),
	})
}

func (s *Server) listStates(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	states := s.engine.States()
	s.mu.Unlock()

	infos := make([]StateInfo, 0, len(states))
	for _, st := range states {
		info := StateInfo{Name: st.Name(), Order: st.Order()}
		for _, dep := range st.Dependencies() {
			info.Dependencies = append(info.Dependencies, dep.Name())
		}
		infos = append(infos, info)
	}
	writeJSON(w, infos)
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	st, ok := s.engine.StateByName(chi.URLParam(r, "name"))
	if !ok {
		http.Error(w, "Unknown state", http.StatusNotFound)
		return
	}
	target, err := parseTarget(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.engine.Current(target, st)
	if err != nil {
		http.Error(w, fmt.Sprintf("Query error: %v", err), http.StatusNotFound)
		return
	}
	prev, _ := s.engine.Previous(target, st)
	updated, _ := s.engine.IsUpdated(target, st)
	reentrant, _ := s.engine.IsReentrant(target, st)

	writeJSON(w, StateValue{
		Name:      st.Name(),
		Current:   cur,
		Previous:  prev,
		Updated:   updated,
		Reentrant: reentrant,
	})
}

func (s *Server) setState(w http.ResponseWriter, r *http.Request) {
	st, ok := s.engine.StateByName(chi.URLParam(r, "name"))
	if !ok {
		http.Error(w, "Unknown state", http.StatusNotFound)
		return
	}
	target, err := parseTarget(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body SetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Value == nil && !body.Absent {
		http.Error(w, "Missing value: provide \"value\" or set \"absent\"", http.StatusBadRequest)
		return
	}

	next := domain.Some(body.Value)
	if body.Absent {
		next = domain.None()
	}

	s.mu.Lock()
	s.engine.Set(target, st, next)
	s.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) tick(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.engine.Tick(r.Context())
	snap := s.engine.Snapshot()
	s.mu.Unlock()

	writeJSON(w, snap)
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	states := s.engine.States()
	overlay := &graph.GraphOverlay{Values: make(map[string]domain.Repr)}
	for _, st := range states {
		cur, err := s.engine.Current(domain.Global(), st)
		if err != nil {
			continue
		}
		overlay.Values[st.Name()] = cur
		if updated, _ := s.engine.IsUpdated(domain.Global(), st); updated {
			overlay.Updated = append(overlay.Updated, st.Name())
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(states, overlay))
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.engine.Snapshot()
	s.mu.Unlock()

	writeJSON(w, snap)
}

func parseTarget(r *http.Request) (domain.Target, error) {
	raw := r.URL.Query().Get("context")
	if raw == "" {
		return domain.Global(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return domain.Target{}, fmt.Errorf("invalid context handle: %w", err)
	}
	return domain.Local(id), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("Response encode error: %v\n", err)
	}
}
