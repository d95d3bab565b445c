package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tripmind/tripmind/internal/domain"
	"github.com/tripmind/tripmind/internal/nlu"
	"github.com/tripmind/tripmind/internal/providers"
)

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int, before time.Time) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID, limit, before)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) CountByType(ctx context.Context, sessionID uuid.UUID, msgType domain.MessageType) (int64, error) {
	args := m.Called(ctx, sessionID, msgType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) ListOldestByType(ctx context.Context, sessionID uuid.UUID, msgType domain.MessageType, n int) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID, msgType, n)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) ListRepliesTo(ctx context.Context, sessionID uuid.UUID, messageIDs []uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID, messageIDs)
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) DeleteByIDs(ctx context.Context, sessionID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, sessionID, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) GetAIByUser(ctx context.Context, userID uuid.UUID) (*domain.ChatSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatSession, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) UpdateLastMessage(ctx context.Context, id uuid.UUID, summary *domain.MessageSummary) error {
	args := m.Called(ctx, id, summary)
	return args.Error(0)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTripRepository mocks the TripRepository interface
type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Trip), args.Error(1)
}

func (m *MockTripRepository) LatestByUser(ctx context.Context, userID uuid.UUID) (*domain.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripRepository) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	args := m.Called(ctx, id, favorite)
	return args.Error(0)
}

// MockTripWriter mocks the TripWriter interface
type MockTripWriter struct {
	mock.Mock
}

func (m *MockTripWriter) CreateWithSession(ctx context.Context, trip *domain.Trip, session *domain.ChatSession) error {
	args := m.Called(ctx, trip, session)
	return args.Error(0)
}

// MockEventPublisher mocks the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	args := m.Called(ctx, userID, event, payload)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishToSession(ctx context.Context, sessionID uuid.UUID, event string, payload any) error {
	args := m.Called(ctx, sessionID, event, payload)
	return args.Error(0)
}

// fakeTxRunner runs the function directly; transactional behavior itself
// is the store driver's concern, not the pruner's.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
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

// MockGeocoder mocks providers.Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, place string) (*providers.GeoResult, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.GeoResult), args.Error(1)
}

// MockWeatherProvider mocks providers.WeatherProvider
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Forecast(ctx context.Context, coords providers.Coordinates, dates domain.DateRange) (*providers.WeatherInfo, error) {
	args := m.Called(ctx, coords, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.WeatherInfo), args.Error(1)
}

// MockRouteProvider mocks providers.RouteProvider
type MockRouteProvider struct {
	mock.Mock
}

func (m *MockRouteProvider) Route(ctx context.Context, from, to providers.Coordinates) (*providers.RouteInfo, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.RouteInfo), args.Error(1)
}

// MockAttractionProvider mocks providers.AttractionProvider
type MockAttractionProvider struct {
	mock.Mock
}

func (m *MockAttractionProvider) Nearby(ctx context.Context, coords providers.Coordinates, interests []string) ([]providers.Attraction, error) {
	args := m.Called(ctx, coords, interests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]providers.Attraction), args.Error(1)
}

// MockStayProvider mocks providers.StayProvider
type MockStayProvider struct {
	mock.Mock
}

func (m *MockStayProvider) Search(ctx context.Context, place string, dates domain.DateRange, tier string) ([]providers.Stay, error) {
	args := m.Called(ctx, place, dates, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]providers.Stay), args.Error(1)
}

// MockEventProvider mocks providers.EventProvider
type MockEventProvider struct {
	mock.Mock
}

func (m *MockEventProvider) Upcoming(ctx context.Context, place string, dates domain.DateRange) ([]providers.LocalEvent, error) {
	args := m.Called(ctx, place, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]providers.LocalEvent), args.Error(1)
}
