package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"go-procure-ledger/internal/model"
)

func TestGRNStatus_CanTransitionTo(t *testing.T) {
	all := []model.GRNStatus{
		model.GRNStatusDraft,
		model.GRNStatusPendingApproval,
		model.GRNStatusApproved,
		model.GRNStatusRejected,
		model.GRNStatusCancelled,
	}

	allowed := map[model.GRNStatus][]model.GRNStatus{
		model.GRNStatusDraft:           {model.GRNStatusPendingApproval, model.GRNStatusCancelled},
		model.GRNStatusPendingApproval: {model.GRNStatusApproved, model.GRNStatusRejected, model.GRNStatusCancelled},
	}

	// Exhaustive: every (from, to) pair must match the workflow table, so a
	// new status or edge cannot sneak in unnoticed.
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestGRNStatus_TerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []model.GRNStatus{model.GRNStatusApproved, model.GRNStatusRejected, model.GRNStatusCancelled} {
		assert.False(t, terminal.CanTransitionTo(model.GRNStatusDraft), "%s must not reopen", terminal)
		assert.False(t, terminal.CanTransitionTo(terminal), "%s must not self-transition", terminal)
	}
}

func TestGRNItem_Validate(t *testing.T) {
	item := func(received, accepted, rejected int64) *model.GRNItem {
		return &model.GRNItem{
			QuantityReceived: decimal.NewFromInt(received),
			QuantityAccepted: decimal.NewFromInt(accepted),
			QuantityRejected: decimal.NewFromInt(rejected),
		}
	}

	assert.NoError(t, item(10, 10, 0).Validate())
	assert.NoError(t, item(10, 7, 3).Validate())
	assert.NoError(t, item(0, 0, 0).Validate())

	assert.ErrorIs(t, item(10, 7, 2).Validate(), model.ErrAcceptedRejectedMismatch)
	assert.ErrorIs(t, item(10, 11, 0).Validate(), model.ErrAcceptedRejectedMismatch)

	assert.Error(t, item(10, 12, -2).Validate(), "negative quantities are rejected before the split check")
}
