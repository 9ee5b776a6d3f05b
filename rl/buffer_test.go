package rl

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"durak/env"
	"durak/game"
	"durak/player"
)

func sampleExperience(id int) Experience {
	return Experience{
		ActionID: id,
		Reward:   0,
		State:    game.Observable{DeckSize: id},
		Next:     game.Observable{DeckSize: id},
	}
}

func TestBufferCapacity(t *testing.T) {
	buffer := NewBuffer(3, 1)
	for i := 0; i < 5; i++ {
		buffer.Add(sampleExperience(i))
	}
	require.Equal(t, 3, buffer.Len())

	// Oldest entries were evicted first.
	sample := buffer.Sample(3)
	for _, exp := range sample {
		require.GreaterOrEqual(t, exp.ActionID, 2)
	}
}

func TestSample(t *testing.T) {
	buffer := NewBuffer(0, 5)
	for i := 0; i < 10; i++ {
		buffer.Add(sampleExperience(i))
	}

	t.Run("distinct draws", func(t *testing.T) {
		sample := buffer.Sample(10)
		seen := map[int]bool{}
		for _, exp := range sample {
			require.False(t, seen[exp.ActionID])
			seen[exp.ActionID] = true
		}
	})

	t.Run("clamped to buffer size", func(t *testing.T) {
		require.Len(t, buffer.Sample(50), 10)
	})

	t.Run("seeded streams repeat", func(t *testing.T) {
		a := NewBuffer(0, 7)
		b := NewBuffer(0, 7)
		for i := 0; i < 10; i++ {
			a.Add(sampleExperience(i))
			b.Add(sampleExperience(i))
		}
		require.Equal(t, a.Sample(4), b.Sample(4))
	})
}

func TestSaveLoad(t *testing.T) {
	buffer := NewBuffer(0, 1)
	for i := 0; i < 4; i++ {
		buffer.Add(sampleExperience(i))
	}
	path := filepath.Join(t.TempDir(), "exp", "experience.json")
	require.NoError(t, buffer.Save(path))

	loaded := NewBuffer(2, 1)
	require.NoError(t, loaded.Load(path))
	require.Equal(t, 2, loaded.Len(), "load trims to capacity, keeping the newest")
}

func TestCollect(t *testing.T) {
	buffer := NewBuffer(0, 1)
	e := env.New()
	e.Reset(1)

	r1, r2, err := Collect(buffer, e, player.NewRandom(1), player.NewRandom(2))
	require.NoError(t, err)
	require.True(t, e.IsDone())
	require.Zero(t, r1+r2)
	require.Greater(t, buffer.Len(), 0)

	sample := buffer.Sample(buffer.Len())
	for _, exp := range sample {
		require.GreaterOrEqual(t, exp.ActionID, 0)
		require.Less(t, exp.ActionID, game.NumActions)
	}

	_, _, err = Collect(buffer, e, player.NewRandom(1), player.NewRandom(2))
	require.Error(t, err, "collecting on a finished game is refused")
}
