package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rallydesk/rallydesk/models"
	"github.com/rallydesk/rallydesk/services"
)

type CompetitionHandler struct {
	competitionService services.CompetitionService
	drawService        services.DrawService
	standingsService   services.StandingsService
}

func NewCompetitionHandler(
	competitionService services.CompetitionService,
	drawService services.DrawService,
	standingsService services.StandingsService,
) *CompetitionHandler {
	return &CompetitionHandler{
		competitionService: competitionService,
		drawService:        drawService,
		standingsService:   standingsService,
	}
}

func (h *CompetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateCompetitionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = chi.URLParam(r, "tournamentID")
	competition, err := h.competitionService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	competition, err := h.competitionService.Get(r.Context(), chi.URLParam(r, "competitionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"competition": competition}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.competitionService.ListByTournament(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"competitions": competitions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ParticipantID string `json:"participant_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ParticipantID == "" {
		badRequestResponse(w, r, errors.New("participant_id is required"))
		return
	}
	if err := h.competitionService.AddParticipant(r.Context(), chi.URLParam(r, "competitionID"), input.ParticipantID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompetitionHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.competitionService.RemoveParticipant(r.Context(), chi.URLParam(r, "competitionID"), chi.URLParam(r, "participantID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompetitionHandler) GenerateDraw(w http.ResponseWriter, r *http.Request) {
	var input services.GenerateDrawInput
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}
	matches, err := h.drawService.GenerateDraw(r.Context(), chi.URLParam(r, "competitionID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	payload := jsonResponse{"matches": matches, "match_count": len(matches)}
	if err := writeJSON(w, http.StatusCreated, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) GenerateKnockout(w http.ResponseWriter, r *http.Request) {
	matches, err := h.drawService.GenerateKnockoutStage(r.Context(), chi.URLParam(r, "competitionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	payload := jsonResponse{"matches": matches, "qualifier_count": countEntrants(matches)}
	if err := writeJSON(w, http.StatusCreated, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// countEntrants counts distinct participants seeded into the first round of
// a freshly built stage.
func countEntrants(matches []*models.Match) int {
	seen := make(map[string]bool)
	for _, m := range matches {
		for _, id := range []*string{m.Slot1.ParticipantID, m.Slot2.ParticipantID} {
			if id != nil {
				seen[*id] = true
			}
		}
	}
	return len(seen)
}

func (h *CompetitionHandler) ResetDraw(w http.ResponseWriter, r *http.Request) {
	if err := h.drawService.ResetDraw(r.Context(), chi.URLParam(r, "competitionID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompetitionHandler) ListDraw(w http.ResponseWriter, r *http.Request) {
	group, err := optionalIntQuery(r, "group")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var status *models.MatchStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := models.MatchStatus(s)
		status = &st
	}
	matches, err := h.drawService.ListDraw(r.Context(), chi.URLParam(r, "competitionID"), group, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) Standings(w http.ResponseWriter, r *http.Request) {
	group, err := optionalIntQuery(r, "group")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	standings, err := h.standingsService.CompetitionStandings(r.Context(), chi.URLParam(r, "competitionID"), group)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CompetitionHandler) Qualifiers(w http.ResponseWriter, r *http.Request) {
	qualifiers, err := h.standingsService.Qualifiers(r.Context(), chi.URLParam(r, "competitionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"qualifiers": qualifiers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func optionalIntQuery(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New(name + " query parameter must be an integer")
	}
	return &value, nil
}
