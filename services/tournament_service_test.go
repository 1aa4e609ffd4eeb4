package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rallydesk/rallydesk/models"
)

func TestIsValidTournamentTransition(t *testing.T) {
	tests := []struct {
		name    string
		current models.TournamentStatus
		next    models.TournamentStatus
		want    bool
	}{
		{"upcoming to in_progress", models.TournamentUpcoming, models.TournamentInProgress, true},
		{"upcoming to cancelled", models.TournamentUpcoming, models.TournamentCancelled, true},
		{"upcoming to completed skips play", models.TournamentUpcoming, models.TournamentCompleted, false},
		{"in_progress to completed", models.TournamentInProgress, models.TournamentCompleted, true},
		{"in_progress to cancelled", models.TournamentInProgress, models.TournamentCancelled, true},
		{"in_progress back to upcoming", models.TournamentInProgress, models.TournamentUpcoming, false},
		{"completed is terminal", models.TournamentCompleted, models.TournamentInProgress, false},
		{"cancelled is terminal", models.TournamentCancelled, models.TournamentUpcoming, false},
		{"same status is a no-op", models.TournamentCompleted, models.TournamentCompleted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isValidTournamentTransition(tt.current, tt.next))
		})
	}
}

func TestExtensionForContentType(t *testing.T) {
	for contentType, want := range map[string]string{
		"image/jpeg":    ".jpg",
		"image/jpg":     ".jpg",
		"image/png":     ".png",
		"image/gif":     ".gif",
		"image/webp":    ".webp",
		"image/svg+xml": ".svg",
	} {
		ext, err := extensionForContentType(contentType)
		require.NoError(t, err, contentType)
		assert.Equal(t, want, ext)
	}

	_, err := extensionForContentType("application/pdf")
	assert.Error(t, err)

	_, err = extensionForContentType("")
	assert.Error(t, err)
}
