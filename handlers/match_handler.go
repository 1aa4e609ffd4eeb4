package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	match, err := h.matchService.Get(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Scores) == 0 && input.WinnerID == "" {
		badRequestResponse(w, r, errors.New("either scores or winner_id is required"))
		return
	}
	result, err := h.matchService.RecordResult(r.Context(), chi.URLParam(r, "matchID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	payload := jsonResponse{"match": result.Match}
	if result.Next != nil {
		payload["next_match_id"] = result.Next.ID
	}
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ManualAdvance(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WinnerID string `json:"winner_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID == "" {
		badRequestResponse(w, r, errors.New("winner_id is required"))
		return
	}
	match, err := h.matchService.ManualAdvance(r.Context(), chi.URLParam(r, "matchID"), input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) SwapParticipants(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CompetitionID string `json:"competition_id"`
		MatchAID      string `json:"match_a_id"`
		MatchBID      string `json:"match_b_id"`
		Slot          int    `json:"slot"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.matchService.SwapParticipants(r.Context(), input.CompetitionID, input.MatchAID, input.MatchBID, input.Slot); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) MoveParticipant(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CompetitionID string `json:"competition_id"`
		SourceMatchID string `json:"source_match_id"`
		Slot          int    `json:"slot"`
		TargetMatchID string `json:"target_match_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.matchService.MoveParticipant(r.Context(), input.CompetitionID, input.SourceMatchID, input.Slot, input.TargetMatchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateScheduleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.matchService.UpdateSchedule(r.Context(), chi.URLParam(r, "matchID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status models.MatchStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.matchService.UpdateStatus(r.Context(), chi.URLParam(r, "matchID"), input.Status); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
