package webhook

import (
	"strings"
	"time"

	"github.com/tuannda/membership-payments/internal/core/datamodel/order"
	webhookmodel "github.com/tuannda/membership-payments/internal/core/datamodel/webhook"
)

// GuardSettings are the reconciliation knobs: the expected settlement account
// (empty disables the check) and the absolute amount tolerance in currency
// units (default zero: exact match).
type GuardSettings struct {
	SettlementAccount string
	AmountTolerance   int64
}

// Decision is the outcome of reconciling one transaction against one matched
// order. At most one of ReviewReason / MarkPaid / Fulfill is set; all may be
// empty when the order is already finalized and only the transaction record
// needs refreshing.
type Decision struct {
	TxnStatus    string
	ReviewReason string
	MarkPaid     bool
	Fulfill      bool
}

// Reconcile decides what a transaction does to its matched order. Pure
// function of (order, transaction, settings, now) so the invariants are
// directly testable.
//
// Guards are computed independently, then combined with a fixed precedence:
// account mismatch, then late delivery, then amount mismatch. A paid order is
// never moved: the transaction outcome is still recorded for audit but no
// order transition is emitted.
func Reconcile(ord *order.PaymentOrder, txn *Transaction, settings GuardSettings, now time.Time) Decision {
	accountOK := accountMatches(settings.SettlementAccount, txn.AccountNumber)
	late := !ord.IsPaid() && ord.Expired(now)
	amountOK := amountWithinTolerance(ord.AmountVND, txn.TransferAmount, settings.AmountTolerance)

	var d Decision
	switch {
	case !accountOK:
		d.TxnStatus = webhookmodel.TxnStatusAccountMismatch
		if !ord.IsPaid() {
			d.ReviewReason = order.ReviewAccountMismatch
		}
	case late:
		d.TxnStatus = webhookmodel.TxnStatusReceivedLate
		d.ReviewReason = order.ReviewExpired
	case !amountOK:
		d.TxnStatus = webhookmodel.TxnStatusAmountMismatch
		if !ord.IsPaid() {
			d.ReviewReason = order.ReviewAmountMismatch
		}
	default:
		d.TxnStatus = webhookmodel.TxnStatusReceived
		if !ord.IsPaid() {
			if ord.IsMembership() {
				d.Fulfill = true
			} else {
				d.MarkPaid = true
			}
		}
	}

	return d
}

// accountMatches compares settlement accounts digits-only. An empty
// configured or received value passes: the check is simply not enforced.
func accountMatches(expected, received string) bool {
	e := digitsOnly(expected)
	r := digitsOnly(received)
	if e == "" || r == "" {
		return true
	}
	return e == r
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// amountWithinTolerance checks |expected - received| <= tolerance. Orders
// with a non-positive expected amount skip the check.
func amountWithinTolerance(expected, received, tolerance int64) bool {
	if expected <= 0 {
		return true
	}
	diff := expected - received
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
