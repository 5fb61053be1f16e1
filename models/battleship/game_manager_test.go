package battleship

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func TestGameManager(t *testing.T) {
	bgm := NewBattleshipGameManager(smallRules())

	game, err := bgm.CreateGame()
	require.NoError(t, err)
	require.Len(t, game.Uuid(), 6)
	require.Equal(t, 1, bgm.CountGames())

	found, err := bgm.GetGame(game.Uuid())
	require.NoError(t, err)
	require.Same(t, game, found)

	other, err := bgm.CreateGame()
	require.NoError(t, err)
	require.NotEqual(t, game.Uuid(), other.Uuid())
	require.Equal(t, 2, bgm.CountGames())

	bgm.TerminateGame(game.Uuid())
	_, err = bgm.GetGame(game.Uuid())
	require.True(t, errors.Is(err, cerr.ErrGameNotExists))
	require.Equal(t, 1, bgm.CountGames())
}

func TestGameManagerInvalidRules(t *testing.T) {
	bgm := NewBattleshipGameManager(Rules{})

	_, err := bgm.CreateGame()
	require.True(t, errors.Is(err, cerr.ErrInvalidRules))
	require.Zero(t, bgm.CountGames())
}
