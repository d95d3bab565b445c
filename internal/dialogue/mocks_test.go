package dialogue

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tripmind/tripmind/internal/domain"
	"github.com/tripmind/tripmind/internal/nlu"
)

// MockConversationStore mocks the ConversationStore interface
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) Get(ctx context.Context, userID uuid.UUID) (*domain.ConversationState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversationState), args.Error(1)
}

func (m *MockConversationStore) Save(ctx context.Context, userID uuid.UUID, state *domain.ConversationState) error {
	args := m.Called(ctx, userID, state)
	return args.Error(0)
}

func (m *MockConversationStore) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockNLUProvider mocks nlu.Provider
type MockNLUProvider struct {
	mock.Mock
}

func (m *MockNLUProvider) Name() string {
	return "mock"
}

func (m *MockNLUProvider) IsConfigured() bool {
	return true
}

func (m *MockNLUProvider) Classify(ctx context.Context, text string) (*nlu.Classification, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nlu.Classification), args.Error(1)
}

func (m *MockNLUProvider) Extract(ctx context.Context, text string, shape nlu.Shape) (any, error) {
	args := m.Called(ctx, text, shape)
	return args.Get(0), args.Error(1)
}

func (m *MockNLUProvider) GenerateItinerary(ctx context.Context, req nlu.ItineraryRequest) (*nlu.ItineraryResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nlu.ItineraryResult), args.Error(1)
}
