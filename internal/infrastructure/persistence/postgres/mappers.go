package postgres

import (
	"github.com/google/uuid"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
)

func toOrderDomain(m OrderModel) *domain.Order {
	return &domain.Order{
		IncrementID:      m.IncrementID,
		StoreID:          m.StoreID,
		CustomerID:       m.CustomerID,
		QuoteID:          m.QuoteID,
		GrandTotal:       m.GrandTotal,
		CurrencyCode:     m.CurrencyCode,
		BaseCurrencyCode: m.BaseCurrencyCode,
		CreatedAt:        m.CreatedAt,
	}
}

func toPaymentDomain(m PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:                 m.ID,
		OrderID:            m.OrderID,
		Method:             m.Method,
		CcType:             deref(m.CcType),
		PspReference:       deref(m.PspReference),
		FraudScore:         m.FraudScore,
		RecurringReference: deref(m.RecurringReference),
	}
}

func toSplitPaymentDomain(m SplitPaymentModel) domain.SplitPayment {
	return domain.SplitPayment{
		ID:               m.ID,
		PaymentID:        m.PaymentID,
		PspReference:     m.PspReference,
		AuthorizedAmount: m.AuthorizedAmount,
		TotalRefunded:    m.TotalRefunded,
	}
}

func toEventModel(e domain.Event) EventModel {
	return EventModel{
		ID:            e.ID.String(),
		PspReference:  e.PspReference,
		EventCode:     e.EventCode,
		EventResult:   e.EventResult,
		IncrementID:   e.IncrementID,
		PaymentMethod: nilIfEmpty(e.PaymentMethod),
		CreatedAt:     e.CreatedAt,
	}
}

func toEventDomain(m EventModel) (domain.Event, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return domain.Event{}, err
	}
	return domain.Event{
		ID:            id,
		PspReference:  m.PspReference,
		EventCode:     m.EventCode,
		EventResult:   m.EventResult,
		IncrementID:   m.IncrementID,
		PaymentMethod: deref(m.PaymentMethod),
		CreatedAt:     m.CreatedAt,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
