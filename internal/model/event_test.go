package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"go-procure-ledger/internal/model"
)

func TestTransactionEvent_Validate(t *testing.T) {
	w1 := uuid.New()
	w2 := uuid.New()

	base := func(typ model.EventType, source, target *uuid.UUID) *model.TransactionEvent {
		return &model.TransactionEvent{
			Type:              typ,
			ProductID:         uuid.New(),
			SourceWarehouseID: source,
			TargetWarehouseID: target,
			Quantity:          decimal.NewFromInt(10),
			TransactionDate:   time.Now(),
		}
	}

	tests := []struct {
		name    string
		event   *model.TransactionEvent
		wantErr error
	}{
		{"check-in with target only", base(model.EventCheckIn, nil, &w1), nil},
		{"check-in missing target", base(model.EventCheckIn, nil, nil), model.ErrMissingTarget},
		{"check-in with stray source", base(model.EventCheckIn, &w1, &w2), model.ErrUnexpectedSource},
		{"check-out with source only", base(model.EventCheckOut, &w1, nil), nil},
		{"check-out missing source", base(model.EventCheckOut, nil, nil), model.ErrMissingSource},
		{"check-out with stray target", base(model.EventCheckOut, &w1, &w2), model.ErrUnexpectedTarget},
		{"transfer with both sides", base(model.EventTransfer, &w1, &w2), nil},
		{"transfer missing target", base(model.EventTransfer, &w1, nil), model.ErrMissingTarget},
		{"transfer to same warehouse", base(model.EventTransfer, &w1, &w1), model.ErrSameWarehouse},
		{"adjustment up", base(model.EventAdjustment, nil, &w1), nil},
		{"adjustment down", base(model.EventAdjustment, &w1, nil), nil},
		{"adjustment with both sides", base(model.EventAdjustment, &w1, &w2), model.ErrAdjustmentSides},
		{"adjustment with no sides", base(model.EventAdjustment, nil, nil), model.ErrAdjustmentSides},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.event.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestTransactionEvent_Validate_Quantity(t *testing.T) {
	w1 := uuid.New()

	e := &model.TransactionEvent{
		Type:              model.EventCheckIn,
		ProductID:         uuid.New(),
		TargetWarehouseID: &w1,
		Quantity:          decimal.Zero,
		TransactionDate:   time.Now(),
	}
	assert.ErrorIs(t, e.Validate(), model.ErrNonPositiveQuantity)

	e.Quantity = decimal.NewFromInt(-5)
	assert.ErrorIs(t, e.Validate(), model.ErrNonPositiveQuantity)

	e.Quantity = decimal.NewFromInt(5)
	e.UnitPrice = decimal.NewFromInt(-1)
	assert.ErrorIs(t, e.Validate(), model.ErrNegativeUnitPrice)
}

func TestTransactionEvent_Validate_UnknownType(t *testing.T) {
	w1 := uuid.New()
	e := &model.TransactionEvent{
		Type:              model.EventType("RECOUNT"),
		ProductID:         uuid.New(),
		TargetWarehouseID: &w1,
		Quantity:          decimal.NewFromInt(1),
		TransactionDate:   time.Now(),
	}
	assert.Error(t, e.Validate())
}
