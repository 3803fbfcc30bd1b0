package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-procure-ledger/internal/repository"
)

func TestLostVersionRaceIsAnInvalidTransition(t *testing.T) {
	// The loser of a concurrent workflow transition must see the same
	// condition as a stale status check, not a generic failure.
	assert.ErrorIs(t, mapTransitionErr(repository.ErrGRNVersionConflict), ErrInvalidTransition)

	other := errors.New("purchase order line not found")
	assert.Equal(t, other, mapTransitionErr(other))
	assert.NoError(t, mapTransitionErr(nil))
}
