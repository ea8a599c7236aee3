// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package authority

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AccelByte/extend-escape-room/pkg/progression"
	"github.com/AccelByte/extend-escape-room/pkg/transport"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handler serves an Authority over HTTP under /api.
type Handler struct {
	authority *Authority
	router    *mux.Router
}

func NewHandler(a *Authority) *Handler {
	h := &Handler{authority: a, router: mux.NewRouter()}
	api := h.router.PathPrefix("/api").Subrouter()

	// literal routes first, mux matches in registration order
	api.HandleFunc("/puzzle/all", h.getAllPuzzles).Methods(http.MethodGet)
	api.HandleFunc("/puzzle/order", h.getPuzzleOrder).Methods(http.MethodGet)
	api.HandleFunc("/puzzle/submit", h.submitAnswer).Methods(http.MethodPost)
	api.HandleFunc("/puzzle/player/{playerId}", h.getPlayerPuzzles).Methods(http.MethodGet)
	api.HandleFunc("/puzzle/status/{playerId}/{puzzleId}", h.getPuzzleStatus).Methods(http.MethodGet)
	api.HandleFunc("/puzzle/{puzzleId}", h.getPuzzle).Methods(http.MethodGet)

	api.HandleFunc("/game/info", h.getGameInfo).Methods(http.MethodGet)
	api.HandleFunc("/game/progress", h.saveProgress).Methods(http.MethodPost)
	api.HandleFunc("/game/progress/{playerId}", h.getProgress).Methods(http.MethodGet)
	api.HandleFunc("/game/complete-puzzle", h.completePuzzle).Methods(http.MethodPost)
	api.HandleFunc("/game/reset/{playerId}", h.resetProgress).Methods(http.MethodPost)
	api.HandleFunc("/game/unlock-all/{playerId}", h.unlockAll).Methods(http.MethodPost)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) getAllPuzzles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.authority.Puzzles())
}

func (h *Handler) getPuzzleOrder(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.authority.Order())
}

func (h *Handler) getPuzzle(w http.ResponseWriter, r *http.Request) {
	info, err := h.authority.Puzzle(mux.Vars(r)["puzzleId"])
	respond(w, r, info, err)
}

func (h *Handler) getPlayerPuzzles(w http.ResponseWriter, r *http.Request) {
	states, err := h.authority.PlayerPuzzles(r.Context(), mux.Vars(r)["playerId"])
	respond(w, r, states, err)
}

func (h *Handler) getPuzzleStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	state, err := h.authority.PuzzleStatus(r.Context(), vars["playerId"], vars["puzzleId"])
	respond(w, r, state, err)
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req transport.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, r, nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	result, err := h.authority.Submit(r.Context(), req.PlayerID, req.PuzzleID, req.Answer)
	respond(w, r, result, err)
}

func (h *Handler) getGameInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.authority.Info())
}

func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	rec, err := h.authority.Progress(r.Context(), mux.Vars(r)["playerId"])
	respond(w, r, rec, err)
}

func (h *Handler) saveProgress(w http.ResponseWriter, r *http.Request) {
	var rec progression.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respond(w, r, nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	saved, err := h.authority.SaveProgress(r.Context(), rec)
	respond(w, r, saved, err)
}

func (h *Handler) completePuzzle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	playerID, puzzleID := q.Get("playerId"), q.Get("puzzleId")
	if playerID == "" || puzzleID == "" {
		respond(w, r, nil, fmt.Errorf("%w: playerId and puzzleId are required", ErrInvalidRequest))
		return
	}
	rec, err := h.authority.Complete(r.Context(), playerID, puzzleID)
	respond(w, r, rec, err)
}

func (h *Handler) resetProgress(w http.ResponseWriter, r *http.Request) {
	rec, err := h.authority.Reset(r.Context(), mux.Vars(r)["playerId"])
	respond(w, r, rec, err)
}

func (h *Handler) unlockAll(w http.ResponseWriter, r *http.Request) {
	rec, err := h.authority.UnlockAll(r.Context(), mux.Vars(r)["playerId"])
	respond(w, r, rec, err)
}

func respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		body := errorBody(err)
		if body.Status >= http.StatusInternalServerError {
			logrus.WithField("path", r.URL.Path).Errorf("authority request failed: %v", err)
		}
		writeJSON(w, body.Status, body)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("failed to encode response: %v", err)
	}
}
