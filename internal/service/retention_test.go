package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tripmind/tripmind/internal/domain"
)

func TestPruner_Prune(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()

	messagesOfType := func(n int) []domain.Message {
		msgs := make([]domain.Message, n)
		for i := range msgs {
			msgs[i] = domain.Message{ID: uuid.New(), SessionID: sessionID, Type: domain.MessageUser}
		}
		return msgs
	}

	t.Run("at the limit is a no-op", func(t *testing.T) {
		messages := new(MockMessageRepository)
		tx := &fakeTxRunner{}
		pruner := NewPruner(messages, tx, 50)

		messages.On("CountByType", ctx, sessionID, domain.MessageUser).Return(int64(50), nil)

		err := pruner.Prune(ctx, sessionID)
		assert.NoError(t, err)
		assert.Equal(t, 0, tx.calls)
		messages.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("overflow deletes oldest user messages and their replies", func(t *testing.T) {
		messages := new(MockMessageRepository)
		tx := &fakeTxRunner{}
		pruner := NewPruner(messages, tx, 50)

		oldest := messagesOfType(7)
		oldestIDs := make([]uuid.UUID, len(oldest))
		for i, m := range oldest {
			oldestIDs[i] = m.ID
		}
		// Two of the pruned questions have AI replies; system messages
		// and unanswered questions do not add to the delete set.
		replies := []domain.Message{
			{ID: uuid.New(), SessionID: sessionID, Type: domain.MessageAI, InReplyTo: &oldestIDs[0]},
			{ID: uuid.New(), SessionID: sessionID, Type: domain.MessageAI, InReplyTo: &oldestIDs[3]},
		}

		messages.On("CountByType", ctx, sessionID, domain.MessageUser).Return(int64(57), nil)
		messages.On("ListOldestByType", ctx, sessionID, domain.MessageUser, 7).Return(oldest, nil)
		messages.On("ListRepliesTo", ctx, sessionID, oldestIDs).Return(replies, nil)
		messages.On("DeleteByIDs", ctx, sessionID, mock.MatchedBy(func(ids []uuid.UUID) bool {
			return len(ids) == 9
		})).Return(int64(9), nil)

		err := pruner.Prune(ctx, sessionID)
		assert.NoError(t, err)
		assert.Equal(t, 1, tx.calls)
		messages.AssertExpectations(t)
	})

	t.Run("recount inside the transaction can cancel the prune", func(t *testing.T) {
		messages := new(MockMessageRepository)
		tx := &fakeTxRunner{}
		pruner := NewPruner(messages, tx, 50)

		// First count sees overflow, the transactional recount does not.
		messages.On("CountByType", ctx, sessionID, domain.MessageUser).Return(int64(51), nil).Once()
		messages.On("CountByType", ctx, sessionID, domain.MessageUser).Return(int64(50), nil).Once()

		err := pruner.Prune(ctx, sessionID)
		assert.NoError(t, err)
		messages.AssertNotCalled(t, "ListOldestByType", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		messages.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repeated prune is idempotent", func(t *testing.T) {
		messages := new(MockMessageRepository)
		tx := &fakeTxRunner{}
		pruner := NewPruner(messages, tx, 2)

		oldest := messagesOfType(1)
		messages.On("CountByType", ctx, sessionID, domain.MessageUser).Return(int64(3), nil).Times(2)
		messages.On("ListOldestByType", ctx, sessionID, domain.MessageUser, 1).Return(oldest, nil)
		messages.On("ListRepliesTo", ctx, sessionID, mock.Anything).Return([]domain.Message{}, nil)
		messages.On("DeleteByIDs", ctx, sessionID, mock.Anything).Return(int64(1), nil)

		assert.NoError(t, pruner.Prune(ctx, sessionID))

		// After the delete the count is back under the limit.
		messages.On("CountByType", ctx, sessionID, domain.MessageUser).Return(int64(2), nil)
		assert.NoError(t, pruner.Prune(ctx, sessionID))

		messages.AssertNumberOfCalls(t, "DeleteByIDs", 1)
	})
}
