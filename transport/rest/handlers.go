package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Step *int `json:"step"`
}

type gameResponse struct {
	Game  *view.Game `json:"game,omitempty"`
	Error string     `json:"error,omitempty"`
}

func (that *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleIndex")

	id, game, err := that.game.Session(r.Context(), that.sessions.ID(r))
	if err != nil {
		log.Error("failed to load session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.sessions.Set(w, id)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err = that.templates.ExecuteTemplate(w, "index.tmpl", game); err != nil {
		log.Error("failed to render page", "error", err)
	}
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	cell, err := strconv.Atoi(r.PathValue("cell"))
	if err != nil {
		http.Error(w, "invalid cell", http.StatusBadRequest)
		return
	}

	that.formAction(w, r, "handleMove", func(ctx context.Context, id string) error {
		_, err := that.game.ApplyMove(ctx, id, cell)
		return err
	})
}

func (that *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(r.PathValue("step"))
	if err != nil {
		http.Error(w, "invalid step", http.StatusBadRequest)
		return
	}

	that.formAction(w, r, "handleJump", func(ctx context.Context, id string) error {
		_, err := that.game.JumpTo(ctx, id, step)
		return err
	})
}

func (that *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	that.formAction(w, r, "handleReverse", func(ctx context.Context, id string) error {
		_, err := that.game.ToggleReverse(ctx, id)
		return err
	})
}

func (that *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	that.formAction(w, r, "handleNew", func(ctx context.Context, id string) error {
		_, err := that.game.NewGame(ctx, id)
		return err
	})
}

// formAction - runs an action for the request's session and redirects back to the page.
func (that *Server) formAction(w http.ResponseWriter, r *http.Request, method string, action func(ctx context.Context, id string) error) {
	id, ok := that.session(w, r, method)
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := action(r.Context(), id); err != nil {
		that.logger.Error("failed to apply action", "method", method, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	id, game, err := that.game.Session(r.Context(), that.sessions.ID(r))
	if err != nil {
		that.logger.Error("failed to load session", "method", "handleAPIState", "error", err)
		writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "failed to load game"})
		return
	}

	that.sessions.Set(w, id)
	writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *Server) handleAPIMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		writeJSON(w, http.StatusBadRequest, gameResponse{Error: "cell is required"})
		return
	}

	that.apiAction(w, r, "handleAPIMove", func(ctx context.Context, id string) (*view.Game, error) {
		return that.game.ApplyMove(ctx, id, *req.Cell)
	})
}

func (that *Server) handleAPIJump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Step == nil {
		writeJSON(w, http.StatusBadRequest, gameResponse{Error: "step is required"})
		return
	}

	that.apiAction(w, r, "handleAPIJump", func(ctx context.Context, id string) (*view.Game, error) {
		return that.game.JumpTo(ctx, id, *req.Step)
	})
}

func (that *Server) handleAPIReverse(w http.ResponseWriter, r *http.Request) {
	that.apiAction(w, r, "handleAPIReverse", that.game.ToggleReverse)
}

func (that *Server) handleAPINew(w http.ResponseWriter, r *http.Request) {
	that.apiAction(w, r, "handleAPINew", that.game.NewGame)
}

// handleAPIEnd - forgets the session and its game.
func (that *Server) handleAPIEnd(w http.ResponseWriter, r *http.Request) {
	id := that.sessions.ID(r)
	if id != "" {
		if err := that.game.EndSession(r.Context(), id); err != nil {
			that.logger.Error("failed to end session", "method", "handleAPIEnd", "error", err)
			writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "failed to end session"})
			return
		}
	}

	that.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) apiAction(w http.ResponseWriter, r *http.Request, method string, action func(ctx context.Context, id string) (*view.Game, error)) {
	id, ok := that.session(w, r, method)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "failed to load game"})
		return
	}

	game, err := action(r.Context(), id)
	if err != nil {
		that.logger.Error("failed to apply action", "method", method, "error", err)
		writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "failed to apply action"})
		return
	}

	writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

// session - resolves the request's session, issuing a cookie for new visitors.
func (that *Server) session(w http.ResponseWriter, r *http.Request, method string) (string, bool) {
	id := that.sessions.ID(r)
	if id != "" {
		return id, true
	}

	id, _, err := that.game.Session(r.Context(), "")
	if err != nil {
		that.logger.Error("failed to create session", "method", method, "error", err)
		return "", false
	}

	that.sessions.Set(w, id)

	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
