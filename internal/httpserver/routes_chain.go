// internal/httpserver/routes_chain.go
//
// HTTP routes for the shared word chain.
// Exposes two endpoints under /chain:
//   - GET  /chain        → current entries, next letter, input prompt
//   - POST /chain/words  → submit a word to extend the chain
//
// Outcome mapping for POST /chain/words:
//   - success            → 201 with the new entry
//   - validation_failed  → 422 with reason (+ expected letter)
//   - submission_failed  → 401 when unauthenticated, 503 otherwise
//   - dropped            → 409 while another submission is in flight

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordchain/apps/go-server/internal/auth"
	"github.com/robalobadob/wordchain/apps/go-server/internal/chain"
	"github.com/robalobadob/wordchain/apps/go-server/internal/game"
)

// mountChain registers all /chain routes.
func (s *Server) mountChain(r chi.Router) {
	r.Route("/chain", func(r chi.Router) {
		r.Get("/", s.handleChain)
		r.Post("/words", s.handleSubmit)
	})
}

// chainRes is returned by GET /chain.
type chainRes struct {
	Entries    []chain.Entry `json:"entries"`
	Length     int           `json:"length"`
	NextLetter string        `json:"nextLetter,omitempty"` // empty: any letter
	Prompt     string        `json:"prompt"`
	Submitting bool          `json:"submitting"`
}

// handleChain returns a snapshot of the chain.
func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	ch := s.ctrl.Chain()
	entries := ch.Entries()
	res := chainRes{
		Entries:    entries,
		Length:     len(entries),
		Prompt:     ch.Prompt(),
		Submitting: s.ctrl.Submitting(),
	}
	if l, ok := ch.NextLetter(); ok {
		res.NextLetter = string(l)
	}
	writeJSON(w, http.StatusOK, res)
}

// submitReq is the request payload for POST /chain/words.
type submitReq struct {
	Word string `json:"word"`
}

// submitRes is the response payload for POST /chain/words.
type submitRes struct {
	Outcome  game.Kind    `json:"outcome"`
	Message  string       `json:"message"`
	Entry    *chain.Entry `json:"entry,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Expected string       `json:"expected,omitempty"`
}

// handleSubmit trims the word and hands it to the controller.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}

	out, ok := s.ctrl.Submit(r.Context(), strings.TrimSpace(req.Word))
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "submission_in_progress"})
		return
	}

	res := submitRes{Outcome: out.Kind, Message: out.Message()}
	switch out.Kind {
	case game.KindSuccess:
		res.Entry = out.Entry
		writeJSON(w, http.StatusCreated, res)
	case game.KindValidationFailed:
		res.Reason = string(out.Rejection.Reason)
		if out.Rejection.Expected != 0 {
			res.Expected = string(out.Rejection.Expected)
		}
		writeJSON(w, http.StatusUnprocessableEntity, res)
	default:
		status := http.StatusServiceUnavailable
		if errors.Is(out.Err, auth.ErrUnauthenticated) {
			status = http.StatusUnauthorized
		} else {
			s.log.Error().Err(out.Err).Msg("submit word")
		}
		writeJSON(w, status, res)
	}
}
