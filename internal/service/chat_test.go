package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tripmind/tripmind/internal/dialogue"
	"github.com/tripmind/tripmind/internal/domain"
	"github.com/tripmind/tripmind/internal/nlu"
	"github.com/tripmind/tripmind/internal/repository/mongo"
)

// fakeConvStore is an in-memory ConversationStore
type fakeConvStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]*domain.ConversationState
}

func newFakeConvStore() *fakeConvStore {
	return &fakeConvStore{states: make(map[uuid.UUID]*domain.ConversationState)}
}

func (f *fakeConvStore) Get(ctx context.Context, userID uuid.UUID) (*domain.ConversationState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[userID], nil
}

func (f *fakeConvStore) Save(ctx context.Context, userID uuid.UUID, state *domain.ConversationState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[userID] = state
	return nil
}

func (f *fakeConvStore) Delete(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, userID)
	return nil
}

type chatFixture struct {
	store    *fakeConvStore
	provider *MockNLUProvider
	sessions *MockSessionRepository
	messages *MockMessageRepository
	users    *MockUserRepository
	trips    *MockTripRepository
	bus      *MockEventPublisher
	assembly *assemblyFixture
	svc      *ChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		store:    newFakeConvStore(),
		provider: new(MockNLUProvider),
		sessions: new(MockSessionRepository),
		messages: new(MockMessageRepository),
		users:    new(MockUserRepository),
		trips:    new(MockTripRepository),
		bus:      new(MockEventPublisher),
		assembly: newAssemblyFixture(),
	}

	nluRouter := nlu.NewRouter("mock")
	nluRouter.RegisterProvider(f.provider)
	machine := dialogue.NewMachine(f.store, nluRouter, dialogue.CreateTripFlow())

	pruner := NewPruner(f.messages, &fakeTxRunner{}, 50)
	f.svc = NewChatService(machine, f.sessions, f.messages, f.users, f.trips, f.assembly.svc, pruner, f.bus)
	return f
}

func (f *chatFixture) expectAppendBookkeeping(session *domain.ChatSession, user *domain.User) {
	f.sessions.On("UpdateLastMessage", mock.Anything, session.ID, mock.AnythingOfType("*domain.MessageSummary")).Return(nil)
	f.bus.On("PublishToSession", mock.Anything, session.ID, domain.EventNewMessage, mock.Anything).Return(nil)
	if user != nil {
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	}
	// The detached prune may or may not land before the test finishes.
	f.messages.On("CountByType", mock.Anything, session.ID, domain.MessageUser).Return(int64(1), nil).Maybe()
}

func aiSession(userID uuid.UUID) *domain.ChatSession {
	return &domain.ChatSession{
		ID:           uuid.New(),
		Type:         domain.SessionAI,
		Name:         "Trip Assistant",
		Participants: []uuid.UUID{userID},
	}
}

func TestChatService_HandleInbound(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the turn and fans it out", func(t *testing.T) {
		f := newChatFixture()
		userID := uuid.New()
		user := &domain.User{ID: userID, Name: "Asha"}
		session := aiSession(userID)

		f.sessions.On("GetAIByUser", ctx, userID).Return(session, nil)
		f.messages.On("Create", ctx, mock.AnythingOfType("*domain.Message")).Return(nil)
		f.provider.On("Classify", ctx, "hello").Return(&nlu.Classification{Intent: nlu.IntentSmallTalk}, nil)
		f.expectAppendBookkeeping(session, user)

		reply, err := f.svc.HandleInbound(ctx, userID, "hello")
		assert.NoError(t, err)
		assert.Equal(t, domain.MessageAI, reply.Type)
		assert.NotEmpty(t, reply.Content)
		assert.NotNil(t, reply.InReplyTo)

		userMsg := f.messages.Calls[0].Arguments.Get(1).(*domain.Message)
		assert.Equal(t, domain.MessageUser, userMsg.Type)
		assert.Equal(t, "hello", userMsg.Content)
		assert.Equal(t, *reply.InReplyTo, userMsg.ID)

		f.messages.AssertNumberOfCalls(t, "Create", 2)
		f.bus.AssertNumberOfCalls(t, "PublishToSession", 2)
		f.sessions.AssertCalled(t, "UpdateLastMessage", mock.Anything, session.ID, mock.Anything)
	})

	t.Run("creates the assistant session on first contact", func(t *testing.T) {
		f := newChatFixture()
		userID := uuid.New()

		f.sessions.On("GetAIByUser", ctx, userID).Return(nil, mongo.ErrNotFound)
		f.sessions.On("Create", ctx, mock.AnythingOfType("*domain.ChatSession")).Return(nil)
		f.messages.On("Create", ctx, mock.Anything).Return(nil)
		f.provider.On("Classify", ctx, mock.Anything).Return(&nlu.Classification{Intent: nlu.IntentSmallTalk}, nil)
		f.users.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
		f.sessions.On("UpdateLastMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.bus.On("PublishToSession", mock.Anything, mock.Anything, domain.EventNewMessage, mock.Anything).Return(nil)
		f.messages.On("CountByType", mock.Anything, mock.Anything, domain.MessageUser).Return(int64(1), nil).Maybe()

		_, err := f.svc.HandleInbound(ctx, userID, "hi")
		assert.NoError(t, err)

		created := f.sessions.Calls[1].Arguments.Get(1).(*domain.ChatSession)
		assert.Equal(t, domain.SessionAI, created.Type)
		assert.Equal(t, []uuid.UUID{userID}, created.Participants)
	})

	t.Run("completed flow hands off to the assembly pipeline", func(t *testing.T) {
		f := newChatFixture()
		userID := uuid.New()
		user := &domain.User{ID: userID, Name: "Asha"}
		session := aiSession(userID)

		// One slot left; this answer completes the flow.
		state := domain.NewConversationState(domain.FlowCreateTrip)
		state.CollectedData = map[string]any{
			dialogue.SlotDestination:   "Goa",
			dialogue.SlotDates:         map[string]any{"start": "2026-09-01", "end": "2026-09-05"},
			dialogue.SlotTravelers:     float64(2),
			dialogue.SlotBudget:        "mid-range",
			dialogue.SlotVibe:          "relaxing",
			dialogue.SlotTransportMode: "flight",
		}
		state.SetPending(dialogue.SlotInterests)
		f.store.states[userID] = state

		f.sessions.On("GetAIByUser", ctx, userID).Return(session, nil)
		f.messages.On("Create", ctx, mock.Anything).Return(nil)
		f.provider.On("Extract", ctx, "beaches", mock.Anything).Return([]string{"beaches"}, nil)
		f.expectAppendBookkeeping(session, user)

		// The pipeline itself fails fast at geocoding; the outcome still
		// goes to the creator's private channel, not the HTTP reply.
		f.assembly.geo.On("Geocode", mock.Anything, mock.Anything).Return(nil, assert.AnError)
		f.assembly.bus.On("PublishToUser", mock.Anything, userID, domain.EventTripCreationError, mock.Anything).Return(nil)

		reply, err := f.svc.HandleInbound(ctx, userID, "beaches")
		assert.NoError(t, err)
		assert.Contains(t, reply.Content, "everything I need")

		f.assembly.svc.Wait()
		f.assembly.bus.AssertNumberOfCalls(t, "PublishToUser", 1)
	})

	t.Run("trip detail question is answered from the stored trip", func(t *testing.T) {
		f := newChatFixture()
		userID := uuid.New()
		user := &domain.User{ID: userID, Name: "Asha"}
		session := aiSession(userID)

		trip := &domain.Trip{
			ID:          uuid.New(),
			Destination: "Goa",
			Dates: domain.DateRange{
				Start: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
			},
			Budget:  domain.Budget{Total: 48000, Currency: "INR"},
			Weather: domain.WeatherSummary{Description: "partly cloudy", HighC: 31, LowC: 24},
		}

		f.sessions.On("GetAIByUser", ctx, userID).Return(session, nil)
		f.messages.On("Create", ctx, mock.Anything).Return(nil)
		f.provider.On("Classify", ctx, mock.Anything).Return(&nlu.Classification{Intent: nlu.IntentTripDetail}, nil)
		f.trips.On("LatestByUser", ctx, userID).Return(trip, nil)
		f.expectAppendBookkeeping(session, user)

		reply, err := f.svc.HandleInbound(ctx, userID, "what's the weather on my trip?")
		assert.NoError(t, err)
		assert.Contains(t, reply.Content, "Goa")
		assert.Contains(t, reply.Content, "partly cloudy")
		assert.Contains(t, reply.Content, "48000 INR")
	})

	t.Run("trip detail with no trips nudges toward planning", func(t *testing.T) {
		f := newChatFixture()
		userID := uuid.New()
		session := aiSession(userID)

		f.sessions.On("GetAIByUser", ctx, userID).Return(session, nil)
		f.messages.On("Create", ctx, mock.Anything).Return(nil)
		f.provider.On("Classify", ctx, mock.Anything).Return(&nlu.Classification{Intent: nlu.IntentTripDetail}, nil)
		f.trips.On("LatestByUser", ctx, userID).Return(nil, mongo.ErrNotFound)
		f.expectAppendBookkeeping(session, &domain.User{ID: userID})

		reply, err := f.svc.HandleInbound(ctx, userID, "show my trip")
		assert.NoError(t, err)
		assert.Contains(t, reply.Content, "don't have any trips")
	})
}

func TestChatService_PostMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("participant can post", func(t *testing.T) {
		f := newChatFixture()
		userID := uuid.New()
		session := &domain.ChatSession{
			ID:           uuid.New(),
			Type:         domain.SessionGroup,
			Participants: []uuid.UUID{userID, uuid.New()},
		}

		f.sessions.On("Get", ctx, session.ID).Return(session, nil)
		f.messages.On("Create", ctx, mock.Anything).Return(nil)
		f.expectAppendBookkeeping(session, &domain.User{ID: userID, Name: "Asha"})

		msg, err := f.svc.PostMessage(ctx, userID, session.ID, "anyone up for the fort?", "")
		assert.NoError(t, err)
		assert.Equal(t, domain.MessageUser, msg.Type)
		assert.Equal(t, userID, *msg.SenderID)
	})

	t.Run("non-participant is rejected", func(t *testing.T) {
		f := newChatFixture()
		session := &domain.ChatSession{
			ID:           uuid.New(),
			Type:         domain.SessionGroup,
			Participants: []uuid.UUID{uuid.New()},
		}

		f.sessions.On("Get", ctx, session.ID).Return(session, nil)

		_, err := f.svc.PostMessage(ctx, uuid.New(), session.ID, "hi", "")
		assert.ErrorIs(t, err, ErrAccessDenied)
		f.messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestChatService_GetMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("non-participant is rejected", func(t *testing.T) {
		f := newChatFixture()
		session := &domain.ChatSession{
			ID:           uuid.New(),
			Type:         domain.SessionGroup,
			Participants: []uuid.UUID{uuid.New()},
		}

		f.sessions.On("Get", ctx, session.ID).Return(session, nil)

		_, err := f.svc.GetMessages(ctx, uuid.New(), session.ID, 50, time.Time{})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("participant gets history", func(t *testing.T) {
		f := newChatFixture()
		userID := uuid.New()
		session := &domain.ChatSession{
			ID:           uuid.New(),
			Type:         domain.SessionAI,
			Participants: []uuid.UUID{userID},
		}
		history := []domain.Message{{ID: uuid.New(), SessionID: session.ID}}

		f.sessions.On("Get", ctx, session.ID).Return(session, nil)
		f.messages.On("ListBySession", ctx, session.ID, 50, time.Time{}).Return(history, nil)

		got, err := f.svc.GetMessages(ctx, userID, session.ID, 50, time.Time{})
		assert.NoError(t, err)
		assert.Equal(t, history, got)
	})
}
