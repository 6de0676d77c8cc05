package statemachine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shieldstack/billing/pkg/statemachine"
)

const (
	stateDraft     = statemachine.StringState("draft")
	statePublished = statemachine.StringState("published")
	stateArchived  = statemachine.StringState("archived")

	eventPublish = statemachine.StringEvent("publish")
	eventArchive = statemachine.StringEvent("archive")
)

func newTestMachine(t *testing.T) *statemachine.Machine {
	t.Helper()
	m := statemachine.New()
	require.NoError(t, m.AddTransition(stateDraft, eventPublish, statePublished))
	require.NoError(t, m.AddTransition(statePublished, eventArchive, stateArchived))
	return m
}

func TestMachine_Next(t *testing.T) {
	t.Parallel()

	t.Run("follows a registered edge", func(t *testing.T) {
		t.Parallel()
		m := newTestMachine(t)

		to, err := m.Next(stateDraft, eventPublish)
		require.NoError(t, err)
		assert.Equal(t, statePublished.Name(), to.Name())
	})

	t.Run("rejects unknown event for state", func(t *testing.T) {
		t.Parallel()
		m := newTestMachine(t)

		_, err := m.Next(stateDraft, eventArchive)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		t.Parallel()
		m := newTestMachine(t)

		_, err := m.Next(stateArchived, eventPublish)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
	})

	t.Run("rejects nil state or event", func(t *testing.T) {
		t.Parallel()
		m := newTestMachine(t)

		_, err := m.Next(nil, eventPublish)
		assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

		_, err = m.Next(stateDraft, nil)
		assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
	})

	t.Run("later registration overwrites target", func(t *testing.T) {
		t.Parallel()
		m := newTestMachine(t)
		require.NoError(t, m.AddTransition(stateDraft, eventPublish, stateArchived))

		to, err := m.Next(stateDraft, eventPublish)
		require.NoError(t, err)
		assert.Equal(t, stateArchived.Name(), to.Name())
	})
}

func TestMachine_Can(t *testing.T) {
	t.Parallel()

	m := newTestMachine(t)

	assert.True(t, m.Can(stateDraft, eventPublish))
	assert.False(t, m.Can(stateDraft, eventArchive))
	assert.False(t, m.Can(stateArchived, eventArchive))
}

func TestMachine_AddTransition(t *testing.T) {
	t.Parallel()

	m := statemachine.New()
	err := m.AddTransition(nil, eventPublish, statePublished)
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

	err = m.AddTransition(stateDraft, nil, statePublished)
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

	err = m.AddTransition(stateDraft, eventPublish, nil)
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
}
