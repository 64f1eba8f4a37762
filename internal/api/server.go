// Package api exposes the gateways over HTTP: operations are accepted as
// JSON and queued for the dispatch worker, command history is served from
// the log.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/luxbridge/milightd/internal/dispatch"
	"github.com/luxbridge/milightd/internal/ledger"
	"github.com/luxbridge/milightd/internal/protocol"
)

// SceneLister names the registered scenes for the index endpoint.
type SceneLister interface {
	Names() []string
}

// Server is the HTTP control server.
type Server struct {
	addr       string
	queue      *dispatch.Queue
	ledger     *ledger.Ledger // may be nil
	scenes     SceneLister    // may be nil
	gateways   int
	httpServer *http.Server
}

// NewServer creates the control server. gateways is the pool size, used to
// validate targets before queuing.
func NewServer(host string, port int, queue *dispatch.Queue, l *ledger.Ledger, scenes SceneLister, gateways int) *Server {
	return &Server{
		addr:     fmt.Sprintf("%s:%d", host, port),
		queue:    queue,
		ledger:   l,
		scenes:   scenes,
		gateways: gateways,
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /command", s.handleCommand)
	mux.HandleFunc("POST /scenes/{name}", s.handleScene)
	mux.HandleFunc("GET /scenes", s.handleSceneList)
	mux.HandleFunc("GET /colors", s.handleColors)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run starts the server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.routes(),
	}

	log.Info().Str("addr", s.addr).Msg("Starting API server")

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("API server shutdown error")
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var op dispatch.Op
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	defer r.Body.Close()

	if op.Name == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}
	if op.Gateway < 0 || op.Gateway >= s.gateways {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("gateway %d out of range", op.Gateway))
		return
	}

	if !s.queue.Enqueue(op) {
		writeError(w, http.StatusServiceUnavailable, "dispatch queue unavailable")
		return
	}

	log.Debug().Str("op", op.Name).Int("gateway", op.Gateway).Msg("Queued API command")
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "queued"})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.scenes == nil {
		writeError(w, http.StatusNotFound, "no scenes are configured")
		return
	}
	found := false
	for _, n := range s.scenes.Names() {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("scene %q is not registered", name))
		return
	}

	if !s.queue.Enqueue(dispatch.Op{Name: "scene", Scene: name}) {
		writeError(w, http.StatusServiceUnavailable, "dispatch queue unavailable")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "queued", "scene": name})
}

func (s *Server) handleSceneList(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	if s.scenes != nil {
		names = s.scenes.Names()
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenes": names})
}

// handleColors lists the named palette accepted by set_color.
func (s *Server) handleColors(w http.ResponseWriter, r *http.Request) {
	names := protocol.ColorNames()
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]any{"colors": names})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusNotFound, "command log is disabled")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be in [1,1000]")
			return
		}
		limit = n
	}

	var entries []*ledger.Entry
	var err error
	if gateway := strings.TrimSpace(r.URL.Query().Get("gateway")); gateway != "" {
		entries, err = s.ledger.RecentByGateway(gateway, limit)
	} else {
		entries, err = s.ledger.Recent(limit)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to read command log")
		writeError(w, http.StatusInternalServerError, "failed to read command log")
		return
	}

	type historyEntry struct {
		ID        string         `json:"id"`
		Gateway   string         `json:"gateway"`
		Group     int            `json:"group"`
		Operation string         `json:"operation"`
		Args      map[string]any `json:"args,omitempty"`
		Frames    int            `json:"frames"`
		IssuedAt  time.Time      `json:"issued_at"`
	}
	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			ID:        e.ID,
			Gateway:   e.Gateway,
			Group:     e.Group,
			Operation: e.Operation,
			Args:      e.Args,
			Frames:    e.Frames,
			IssuedAt:  e.IssuedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode API response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
