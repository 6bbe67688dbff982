package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func sampleState(id string) *entity.SessionState {
	return &entity.SessionState{
		ID: id,
		Board: entity.Grid{
			entity.MarkerX, entity.EmptyCell, entity.EmptyCell,
			entity.EmptyCell, entity.MarkerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		},
		Players: [2]entity.Player{
			{Name: "Ann", Marker: entity.MarkerX},
			{Name: "Bot", Marker: entity.MarkerO, Automated: true},
		},
		ActivePlayer: 0,
		Status:       entity.StatusPlaying,
	}
}

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	t.Run("Stores a new session", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, time.Minute)

		// Given: a fresh session state
		state := sampleState("abc")

		// When: CreateOrUpdate is called
		err := repo.CreateOrUpdate(ctx, state)

		// Then: the key exists with a TTL
		require.NoError(t, err)

		ttl, err := st.Storage.TTL(ctx, "session:abc").Result()
		require.NoError(t, err)
		assert.Positive(t, ttl)
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("Overwrites an existing session", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, time.Minute)

		state := sampleState("abc")
		require.NoError(t, repo.CreateOrUpdate(ctx, state))

		// When: the state changes and is saved again
		state.Board[8] = entity.MarkerX
		state.ActivePlayer = 1
		require.NoError(t, repo.CreateOrUpdate(ctx, state))

		// Then: the latest state is returned
		got, err := repo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, state, got)
	})
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("Round-trips the full state", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, time.Minute)

		// Given: a finished game
		state := sampleState("won")
		state.Board = entity.Grid{
			entity.MarkerX, entity.MarkerX, entity.MarkerX,
			entity.MarkerO, entity.MarkerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		}
		state.Status = entity.StatusWon
		state.Win = &entity.WinResult{Winner: entity.MarkerX, Line: [3]int{0, 1, 2}}
		require.NoError(t, repo.CreateOrUpdate(ctx, state))

		// When: GetByID is called
		got, err := repo.GetByID(ctx, "won")

		// Then: nothing is lost on the way through redis
		require.NoError(t, err)
		assert.Equal(t, state, got)
	})

	t.Run("Unknown id", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, time.Minute)

		got, err := repo.GetByID(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, got)
	})

	t.Run("Corrupted payload", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, time.Minute)

		// Given: garbage under a session key
		require.NoError(t, st.Storage.Set(ctx, "session:bad", `{"board":"XXXX"}`, time.Minute).Err())

		// When: it is read back
		_, err := repo.GetByID(ctx, "bad")

		// Then: decoding fails instead of yielding a half-built state
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	t.Run("Deletes a stored session", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, time.Minute)
		require.NoError(t, repo.CreateOrUpdate(ctx, sampleState("abc")))

		// When: DeleteByID is called
		err := repo.DeleteByID(ctx, "abc")

		// Then: the session is gone
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, "abc")
		assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Unknown id", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, time.Minute)

		err := repo.DeleteByID(ctx, "missing")

		assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
