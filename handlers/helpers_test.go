package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rallydesk/rallydesk/engine"
	"github.com/rallydesk/rallydesk/services"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	newRequest := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return httptest.NewRecorder(), req
	}

	t.Run("valid body", func(t *testing.T) {
		w, r := newRequest(`{"name": "Summer Open"}`)
		var dst payload
		require.NoError(t, readJSON(w, r, &dst))
		assert.Equal(t, "Summer Open", dst.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		w, r := newRequest("")
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w, r := newRequest(`{"name": `)
		var dst payload
		assert.Error(t, readJSON(w, r, &dst))
	})

	t.Run("unknown field", func(t *testing.T) {
		w, r := newRequest(`{"name": "x", "bogus": 1}`)
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("wrong field type", func(t *testing.T) {
		w, r := newRequest(`{"name": 42}`)
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect JSON type")
	})

	t.Run("trailing second value", func(t *testing.T) {
		w, r := newRequest(`{"name": "x"}{"name": "y"}`)
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single JSON value")
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	err := writeJSON(rec, http.StatusCreated, jsonResponse{"id": "m1"}, http.Header{
		"Location": []string{"/matches/m1"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "/matches/m1", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"id": "m1"}`, rec.Body.String())
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrMatchNotFound, http.StatusNotFound},
		{engine.ErrMatchNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", services.ErrCompetitionNotFound), http.StatusNotFound},
		{services.ErrKnockoutAlreadyBuilt, http.StatusConflict},
		{services.ErrParticipantsLocked, http.StatusConflict},
		{engine.ErrAlreadyCompleted, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{services.ErrGroupStageIncomplete, http.StatusUnprocessableEntity},
		{engine.ErrInconsistentProgression, http.StatusUnprocessableEntity},
		{engine.ErrInsufficientParticipants, http.StatusUnprocessableEntity},
		{fmt.Errorf("some unexpected failure"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		mapServiceErrorToHTTP(rec, req, tt.err)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}
}
