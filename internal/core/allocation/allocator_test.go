package allocation

import (
	"testing"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
)

func splits(remainders ...[2]int64) []domain.SplitPayment {
	out := make([]domain.SplitPayment, 0, len(remainders))
	for i, r := range remainders {
		out = append(out, domain.SplitPayment{
			ID:               int64(i + 1),
			PaymentID:        42,
			PspReference:     string(rune('A' + i)),
			AuthorizedAmount: r[0],
			TotalRefunded:    r[1],
		})
	}
	return out
}

func TestAllocate_FullRefund_CancelOrRefundPerSplit(t *testing.T) {
	in := Input{
		RequestedAmount:   100,
		GrandTotal:        100,
		OrderCurrency:     "EUR",
		BaseCurrency:      "EUR",
		OrderPspReference: "ORDER-PSP",
		SplitPayments:     splits([2]int64{60, 0}, [2]int64{40, 0}),
		// Configured strategy must be ignored for full refunds.
		Strategy: domain.StrategyDescending,
	}

	got, err := Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(got))
	}
	for i, ins := range got {
		if ins.Operation != domain.OpCancelOrRefund {
			t.Errorf("instruction %d: expected cancel_or_refund, got %s", i, ins.Operation)
		}
	}
	if got[0].PspReference != "A" || got[1].PspReference != "B" {
		t.Errorf("expected ascending creation order, got %s then %s", got[0].PspReference, got[1].PspReference)
	}
}

func TestAllocate_FullRefund_NoSplits_TargetsOrderReference(t *testing.T) {
	in := Input{
		RequestedAmount:   250,
		GrandTotal:        250,
		OrderPspReference: "ORDER-PSP",
	}

	got, err := Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(got))
	}
	if got[0].Operation != domain.OpCancelOrRefund || got[0].PspReference != "ORDER-PSP" {
		t.Errorf("unexpected instruction %+v", got[0])
	}
}

func TestAllocate_PartialAscending_WalksRemainders(t *testing.T) {
	// Remainders [30, 50, 20], request 60: sp1 gets 30, sp2 gets 30,
	// sp3 gets nothing.
	in := Input{
		RequestedAmount: 60,
		GrandTotal:      100,
		SplitPayments:   splits([2]int64{30, 0}, [2]int64{50, 0}, [2]int64{20, 0}),
		Strategy:        domain.StrategyAscending,
	}

	got, err := Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(got))
	}
	if got[0].PspReference != "A" || got[0].Amount != 30 {
		t.Errorf("unexpected first instruction %+v", got[0])
	}
	if got[1].PspReference != "B" || got[1].Amount != 30 {
		t.Errorf("unexpected second instruction %+v", got[1])
	}
	for _, ins := range got {
		if ins.Operation != domain.OpRefund {
			t.Errorf("expected plain refund, got %s", ins.Operation)
		}
	}
}

func TestAllocate_PartialDescending_ReversesCreationOrder(t *testing.T) {
	in := Input{
		RequestedAmount: 60,
		GrandTotal:      100,
		SplitPayments:   splits([2]int64{30, 0}, [2]int64{50, 0}),
		Strategy:        domain.StrategyDescending,
	}

	got, err := Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(got))
	}
	if got[0].PspReference != "B" || got[0].Amount != 50 {
		t.Errorf("unexpected first instruction %+v", got[0])
	}
	if got[1].PspReference != "A" || got[1].Amount != 10 {
		t.Errorf("unexpected second instruction %+v", got[1])
	}
}

func TestAllocate_PartialAscending_SkipsExhaustedRemainders(t *testing.T) {
	in := Input{
		RequestedAmount: 40,
		GrandTotal:      100,
		SplitPayments:   splits([2]int64{30, 30}, [2]int64{50, 0}),
		Strategy:        domain.StrategyAscending,
	}

	got, err := Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(got))
	}
	if got[0].PspReference != "B" || got[0].Amount != 40 {
		t.Errorf("unexpected instruction %+v", got[0])
	}
}

func TestAllocate_PartialRatio_SharesProportionally(t *testing.T) {
	// ratio = 50/200; remainders 120 and 80 give shares 30 and 20.
	in := Input{
		RequestedAmount: 50,
		GrandTotal:      200,
		SplitPayments:   splits([2]int64{120, 0}, [2]int64{80, 0}),
		Strategy:        domain.StrategyRatio,
	}

	got, err := Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(got))
	}
	if got[0].Amount != 30 || got[1].Amount != 20 {
		t.Errorf("expected shares 30 and 20, got %d and %d", got[0].Amount, got[1].Amount)
	}

	var sum int64
	for _, ins := range got {
		sum += ins.Amount
		if ins.Amount <= 0 {
			t.Errorf("emitted non-positive amount %d", ins.Amount)
		}
	}
	if sum != 50 {
		t.Errorf("expected allocations to sum to ratio * total remainder = 50, got %d", sum)
	}
}

func TestAllocate_SingleSplit_FullRequestedAmount(t *testing.T) {
	in := Input{
		RequestedAmount: 75,
		GrandTotal:      100,
		SplitPayments:   splits([2]int64{100, 0}),
		Strategy:        domain.StrategyRatio,
	}

	got, err := Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(got))
	}
	if got[0].Amount != 75 || got[0].PspReference != "A" {
		t.Errorf("unexpected instruction %+v", got[0])
	}
}

func TestAllocate_NoSplits_TargetsOrderReference(t *testing.T) {
	in := Input{
		RequestedAmount:   75,
		GrandTotal:        100,
		OrderPspReference: "ORDER-PSP",
	}

	got, err := Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(got))
	}
	if got[0].PspReference != "ORDER-PSP" || got[0].Amount != 75 || got[0].SplitPaymentID != 0 {
		t.Errorf("unexpected instruction %+v", got[0])
	}
}

func TestAllocate_ZeroAmount_NoInstructions(t *testing.T) {
	got, err := Allocate(Input{GrandTotal: 100, SplitPayments: splits([2]int64{100, 0})})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no instructions, got %d", len(got))
	}
}

func TestAllocate_CreditMemoOverride_OnlyAcrossCurrencies(t *testing.T) {
	memo := int64(80)

	in := Input{
		RequestedAmount: 60,
		GrandTotal:      100,
		OrderCurrency:   "USD",
		BaseCurrency:    "EUR",
		CreditMemoTotal: &memo,
		SplitPayments:   splits([2]int64{100, 0}),
	}
	got, err := Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got[0].Amount != 80 {
		t.Errorf("expected credit memo total 80 to override request, got %d", got[0].Amount)
	}

	// Same currency: the nominal request stands.
	in.BaseCurrency = "USD"
	got, err = Allocate(in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got[0].Amount != 60 {
		t.Errorf("expected requested amount 60, got %d", got[0].Amount)
	}
}

func TestAllocate_NegativeRemainder_DataIntegrityError(t *testing.T) {
	in := Input{
		RequestedAmount: 10,
		GrandTotal:      100,
		SplitPayments:   splits([2]int64{30, 45}, [2]int64{50, 0}),
		Strategy:        domain.StrategyAscending,
	}

	_, err := Allocate(in)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !domain.IsErrorCode(err, domain.ErrCodeDataIntegrity) {
		t.Errorf("expected data integrity error, got %v", err)
	}
}

func TestAllocate_NegativeAmount_Invalid(t *testing.T) {
	_, err := Allocate(Input{RequestedAmount: -1, GrandTotal: 100})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !domain.IsErrorCode(err, domain.ErrCodeInvalidAmount) {
		t.Errorf("expected invalid amount error, got %v", err)
	}
}
