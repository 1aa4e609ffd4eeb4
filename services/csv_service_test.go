package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlayerRow(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		player, division, err := parsePlayerRow([]string{"Ada Lovelace", "ada@example.com", "1820.5", "Women's Open"}, "t1", "tennis")
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", player.Name)
		assert.Equal(t, "t1", player.TournamentID)
		assert.Equal(t, "tennis", player.Sport)
		require.NotNil(t, player.Email)
		assert.Equal(t, "ada@example.com", *player.Email)
		require.NotNil(t, player.Rating)
		assert.InDelta(t, 1820.5, *player.Rating, 0.001)
		assert.Equal(t, "Women's Open", division)
		assert.NotEmpty(t, player.ID)
	})

	t.Run("name only", func(t *testing.T) {
		player, division, err := parsePlayerRow([]string{"Bob"}, "t1", "tennis")
		require.NoError(t, err)
		assert.Equal(t, "Bob", player.Name)
		assert.Nil(t, player.Email)
		assert.Nil(t, player.Rating)
		assert.Empty(t, division)
	})

	t.Run("empty fields left nil", func(t *testing.T) {
		player, division, err := parsePlayerRow([]string{"Cara", "", "", ""}, "t1", "padel")
		require.NoError(t, err)
		assert.Nil(t, player.Email)
		assert.Nil(t, player.Rating)
		assert.Empty(t, division)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		_, _, err := parsePlayerRow([]string{"  "}, "t1", "tennis")
		assert.Error(t, err)

		_, _, err = parsePlayerRow(nil, "t1", "tennis")
		assert.Error(t, err)
	})

	t.Run("bad rating rejected", func(t *testing.T) {
		_, _, err := parsePlayerRow([]string{"Dana", "", "not-a-number"}, "t1", "tennis")
		assert.Error(t, err)
	})
}

func TestLooksLikeHeader(t *testing.T) {
	assert.True(t, looksLikeHeader([]string{"name", "email"}))
	assert.True(t, looksLikeHeader([]string{" Name ", "Email"}))
	assert.False(t, looksLikeHeader([]string{"Ada Lovelace", "ada@example.com"}))
	assert.False(t, looksLikeHeader(nil))
}
