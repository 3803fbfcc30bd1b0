package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors. Validation failures and policy blocks get their own names
// so handlers can surface the specific condition instead of a generic
// failure.
var (
	// ErrInvalidTransition is fatal for the request: retrying a transition
	// that the current state does not permit will never make it valid.
	ErrInvalidTransition = errors.New("invalid GRN state transition")

	// ErrNoReceivedItems blocks submission of a GRN where nothing was
	// actually received.
	ErrNoReceivedItems = errors.New("GRN must have at least one item with a received quantity")

	// ErrEmptyRejectReason blocks a rejection without a stated reason.
	ErrEmptyRejectReason = errors.New("rejection requires a non-empty reason")

	// ErrEmptyOverrideReason blocks a manual match override without a
	// stated reason.
	ErrEmptyOverrideReason = errors.New("manual override requires a non-empty reason")

	// ErrLineAlreadyOverridden guards the one-shot nature of a manual
	// override: once recorded it supersedes the computed result for good.
	ErrLineAlreadyOverridden = errors.New("invoice line already has a manual override")
)

// OverReceiptError is a policy block: a GRN proposes accepting more than a
// PO line still has pending and over-receipt is not authorized. It carries
// the per-line warnings so the caller can present the exact lines involved.
type OverReceiptError struct {
	Warnings []string
}

func (e *OverReceiptError) Error() string {
	return fmt.Sprintf("over-receipt not allowed: %d line(s) exceed pending quantity", len(e.Warnings))
}

// overReceiptWarning names the offending line and the pending quantity, as
// the receiving UI presents it.
func overReceiptWarning(productSKU string, accepted, pending decimal.Decimal) string {
	return fmt.Sprintf("line %s: accepted quantity %s exceeds pending quantity %s",
		productSKU, accepted.String(), pending.String())
}
