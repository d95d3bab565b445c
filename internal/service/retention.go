package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tripmind/tripmind/internal/domain"
)

// TxRunner runs a function inside one storage transaction
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pruner enforces the per-session cap on retained user messages. The
// overflow is deleted oldest-first together with the AI replies to those
// messages, inside one transaction, so history never holds an AI reply
// whose originating question is gone.
type Pruner struct {
	messages domain.MessageRepository
	tx       TxRunner
	limit    int
}

// NewPruner creates a new retention pruner
func NewPruner(messages domain.MessageRepository, tx TxRunner, limit int) *Pruner {
	return &Pruner{messages: messages, tx: tx, limit: limit}
}

// Prune applies the retention cap to a session. Safe to invoke after
// every append; at or below the limit it is a no-op.
func (p *Pruner) Prune(ctx context.Context, sessionID uuid.UUID) error {
	count, err := p.messages.CountByType(ctx, sessionID, domain.MessageUser)
	if err != nil {
		return fmt.Errorf("failed to count user messages: %w", err)
	}
	if count <= int64(p.limit) {
		return nil
	}

	return p.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		// Recount inside the transaction; appends may have landed since.
		count, err := p.messages.CountByType(txCtx, sessionID, domain.MessageUser)
		if err != nil {
			return fmt.Errorf("failed to count user messages: %w", err)
		}
		overflow := int(count) - p.limit
		if overflow <= 0 {
			return nil
		}

		oldest, err := p.messages.ListOldestByType(txCtx, sessionID, domain.MessageUser, overflow)
		if err != nil {
			return fmt.Errorf("failed to select overflow messages: %w", err)
		}

		userIDs := lo.Map(oldest, func(m domain.Message, _ int) uuid.UUID {
			return m.ID
		})

		replies, err := p.messages.ListRepliesTo(txCtx, sessionID, userIDs)
		if err != nil {
			return fmt.Errorf("failed to select replies: %w", err)
		}

		deleteSet := append(userIDs, lo.Map(replies, func(m domain.Message, _ int) uuid.UUID {
			return m.ID
		})...)

		if _, err := p.messages.DeleteByIDs(txCtx, sessionID, deleteSet); err != nil {
			return fmt.Errorf("failed to delete pruned messages: %w", err)
		}
		return nil
	})
}
