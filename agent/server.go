package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"adversarial2048/experiments/metrics"
	"adversarial2048/game"
	"adversarial2048/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrDesync = errors.New("agent is out of sync with the game")

// Server exposes one search engine over HTTP. Requests are served one at a
// time since the engine's table is mutated by every search.
type Server struct {
	mu     sync.Mutex
	ai     *searcher.Ai
	router chi.Router
}

func NewServer(ai *searcher.Ai) *Server {
	s := &Server{ai: ai}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/reset", s.handleReset)
	r.Post("/pickmove", s.handlePickMove)
	r.Post("/updatemove", s.handleUpdateMove)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("agent server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("agent server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down agent server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// guard runs fn under the lock and reports a broken engine contract as
// ErrDesync instead of crashing the server.
func (s *Server) guard(fn func(ai *searcher.Ai)) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v: %w", r, ErrDesync)
		}
	}()
	fn(s.ai)
	return nil
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.guard(func(ai *searcher.Ai) { ai.Reset(req.State) }); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePickMove(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.State.Terminal {
		writeError(w, http.StatusBadRequest, game.ErrGameOver)
		return
	}

	var move game.Move
	var metric metrics.SearchMetric
	err := s.guard(func(ai *searcher.Ai) {
		move = ai.PickMove(req.State)
		metric = ai.Metric()
	})
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, MoveResponse{Move: game.EncodeMove(move), Metric: metric})
}

func (s *Server) handleUpdateMove(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if !decode(w, r, &req) {
		return
	}
	move, err := game.DecodeMove(req.Move)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.guard(func(ai *searcher.Ai) { ai.UpdateMove(move, req.State) }); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body holding a state with valid tiles.
func decode(w http.ResponseWriter, r *http.Request, req request) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return false
	}
	if _, err := req.state().Exponents(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
