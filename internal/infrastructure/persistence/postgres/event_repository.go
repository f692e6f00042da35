package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/harborline/payment-orchestrator/internal/core/domain"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/persistence"
)

type EventRepository struct {
	db persistence.Executor
}

func NewEventRepository(db persistence.Executor) *EventRepository {
	return &EventRepository{db: db}
}

// Record appends the event without a uniqueness check; the downstream
// notification handler deduplicates on (psp_reference, event_code).
func (r *EventRepository) Record(ctx context.Context, event domain.Event) error {
	query := `
		INSERT INTO events (id, psp_reference, event_code, event_result,
		                    increment_id, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	m := toEventModel(event)
	_, err := r.db.Exec(ctx, query,
		m.ID,
		m.PspReference,
		m.EventCode,
		m.EventResult,
		m.IncrementID,
		m.PaymentMethod,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// OriginalPspReference returns the psp reference of the order's
// earliest AUTHORISATION event.
func (r *EventRepository) OriginalPspReference(ctx context.Context, incrementID string) (string, error) {
	query := `
		SELECT psp_reference
		FROM events
		WHERE increment_id = $1 AND event_code = 'AUTHORISATION'
		ORDER BY created_at ASC
		LIMIT 1
	`

	var pspReference string
	err := r.db.QueryRow(ctx, query, incrementID).Scan(&pspReference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.NewOrderNotFoundError(incrementID)
		}
		return "", fmt.Errorf("failed to scan original psp reference: %w", err)
	}
	return pspReference, nil
}
