// Package allocation decides, for a requested refund amount against an
// order funded by split payments, which sub-payments to refund, in what
// order, and for how much. It performs no I/O.
package allocation

import (
	"fmt"
	"math"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
)

// Instruction is one refund decision: the operation to dispatch, the psp
// reference to dispatch it against and the amount. Amount is always
// positive for refunds and zero for cancel-or-refund (the gateway voids
// or refunds the full authorisation itself).
type Instruction struct {
	Operation    domain.Operation
	PspReference string
	Amount       int64

	// SplitPaymentID identifies the sub-payment whose total_refunded
	// must be incremented on success. Zero when the instruction targets
	// the order's own psp reference.
	SplitPaymentID int64
}

// Input is everything the allocator needs for one pass. SplitPayments
// must be in ascending creation order.
type Input struct {
	RequestedAmount int64
	GrandTotal      int64
	OrderCurrency   string
	BaseCurrency    string

	// CreditMemoTotal, when present, is the already-converted credit
	// memo grand total. It overrides RequestedAmount for orders placed
	// in a currency other than the base currency.
	CreditMemoTotal *int64

	// OrderPspReference is the original authorisation's psp reference,
	// targeted when the order has no split payments.
	OrderPspReference string

	SplitPayments []domain.SplitPayment
	Strategy      domain.RefundStrategy
}

// Allocate produces the ordered refund instructions for one request.
// A zero requested amount yields no instructions and no error.
func Allocate(in Input) ([]Instruction, error) {
	amount := in.RequestedAmount
	if amount < 0 {
		return nil, domain.NewInvalidAmountError(amount)
	}

	// Converted credit memo totals differ from the nominal request.
	if in.CreditMemoTotal != nil && in.OrderCurrency != in.BaseCurrency {
		amount = *in.CreditMemoTotal
	}

	if amount == 0 {
		return nil, nil
	}

	for _, sp := range in.SplitPayments {
		if sp.RefundableRemainder() < 0 {
			return nil, domain.NewDataIntegrityError(
				fmt.Sprintf("split payment %d refunded %d of %d", sp.ID, sp.TotalRefunded, sp.AuthorizedAmount))
		}
	}

	// A full refund always attempts cancellation first so authorisations
	// not yet captured are voided rather than refunded. Creation order,
	// regardless of the configured strategy.
	if amount == in.GrandTotal {
		if len(in.SplitPayments) == 0 {
			return []Instruction{{
				Operation:    domain.OpCancelOrRefund,
				PspReference: in.OrderPspReference,
			}}, nil
		}
		out := make([]Instruction, 0, len(in.SplitPayments))
		for _, sp := range in.SplitPayments {
			out = append(out, Instruction{
				Operation:      domain.OpCancelOrRefund,
				PspReference:   sp.PspReference,
				SplitPaymentID: sp.ID,
			})
		}
		return out, nil
	}

	if len(in.SplitPayments) > 1 {
		return allocatePartial(amount, in)
	}

	// One or no split payments: no strategy logic, one instruction for
	// the full requested amount.
	target := in.OrderPspReference
	var splitID int64
	if len(in.SplitPayments) == 1 {
		target = in.SplitPayments[0].PspReference
		splitID = in.SplitPayments[0].ID
	}
	return []Instruction{{
		Operation:      domain.OpRefund,
		PspReference:   target,
		Amount:         amount,
		SplitPaymentID: splitID,
	}}, nil
}

func allocatePartial(amount int64, in Input) ([]Instruction, error) {
	ordered := in.SplitPayments
	if in.Strategy == domain.StrategyDescending {
		ordered = make([]domain.SplitPayment, len(in.SplitPayments))
		for i, sp := range in.SplitPayments {
			ordered[len(ordered)-1-i] = sp
		}
	}

	if in.Strategy == domain.StrategyRatio {
		return allocateByRatio(amount, in.GrandTotal, ordered), nil
	}

	// Walk the ordered sub-payments drawing from each remainder in turn
	// until the requested amount is exhausted. Sub-payments reached
	// after exhaustion receive no instruction.
	out := make([]Instruction, 0, len(ordered))
	left := amount
	for _, sp := range ordered {
		if left <= 0 {
			break
		}
		remainder := sp.RefundableRemainder()
		if remainder <= 0 {
			continue
		}

		take := left
		if left >= remainder {
			take = remainder
		}
		out = append(out, Instruction{
			Operation:      domain.OpRefund,
			PspReference:   sp.PspReference,
			Amount:         take,
			SplitPaymentID: sp.ID,
		})
		left -= take
	}
	return out, nil
}

// allocateByRatio refunds each sub-payment the same fraction of its
// remainder, where the fraction is requested amount over grand total.
func allocateByRatio(amount, grandTotal int64, ordered []domain.SplitPayment) []Instruction {
	ratio := float64(amount) / float64(grandTotal)

	out := make([]Instruction, 0, len(ordered))
	for _, sp := range ordered {
		remainder := sp.RefundableRemainder()
		if remainder <= 0 {
			continue
		}
		share := int64(math.Round(ratio * float64(remainder)))
		if share <= 0 {
			continue
		}
		out = append(out, Instruction{
			Operation:      domain.OpRefund,
			PspReference:   sp.PspReference,
			Amount:         share,
			SplitPaymentID: sp.ID,
		})
	}
	return out
}
