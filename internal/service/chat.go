package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tripmind/tripmind/internal/dialogue"
	"github.com/tripmind/tripmind/internal/domain"
	"github.com/tripmind/tripmind/internal/repository/mongo"
)

// ErrAccessDenied is returned when a user acts on a session or trip they
// do not belong to
var ErrAccessDenied = errors.New("access denied")

// ChatService orchestrates inbound messages: persistence, the dialogue
// machine, retention, assembly hand-off and realtime fan-out.
type ChatService struct {
	machine  *dialogue.Machine
	sessions domain.SessionRepository
	messages domain.MessageRepository
	users    domain.UserRepository
	trips    domain.TripRepository
	assembly *AssemblyService
	pruner   *Pruner
	bus      domain.EventPublisher
}

// NewChatService creates a new chat service
func NewChatService(
	machine *dialogue.Machine,
	sessions domain.SessionRepository,
	messages domain.MessageRepository,
	users domain.UserRepository,
	trips domain.TripRepository,
	assembly *AssemblyService,
	pruner *Pruner,
	bus domain.EventPublisher,
) *ChatService {
	return &ChatService{
		machine:  machine,
		sessions: sessions,
		messages: messages,
		users:    users,
		trips:    trips,
		assembly: assembly,
		pruner:   pruner,
		bus:      bus,
	}
}

// HandleInbound processes one assistant message from a user and returns
// the assistant's reply message.
func (s *ChatService) HandleInbound(ctx context.Context, userID uuid.UUID, text string) (*domain.Message, error) {
	session, err := s.ensureAISession(ctx, userID)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.Message{
		ID:        uuid.New(),
		SessionID: session.ID,
		SenderID:  &userID,
		Type:      domain.MessageUser,
		Content:   text,
		CreatedAt: time.Now(),
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	result, err := s.machine.HandleMessage(ctx, userID, text)
	if err != nil {
		return nil, fmt.Errorf("conversation turn failed: %w", err)
	}

	reply := result.Reply
	switch result.Action {
	case dialogue.ActionTriggerAssembly:
		// Fire and forget; the outcome arrives on the user's private
		// channel, never through this response.
		s.assembly.Trigger(userID, result.Data)
	case dialogue.ActionTripDetail:
		reply = s.answerTripDetail(ctx, userID)
	}

	aiMsg := &domain.Message{
		ID:        uuid.New(),
		SessionID: session.ID,
		Type:      domain.MessageAI,
		Content:   reply,
		InReplyTo: &userMsg.ID,
		CreatedAt: time.Now(),
	}
	if err := s.messages.Create(ctx, aiMsg); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	s.finishAppend(session.ID, userMsg, aiMsg)

	return aiMsg, nil
}

// PostMessage appends a message to a group session and fans it out
func (s *ChatService) PostMessage(ctx context.Context, userID, sessionID uuid.UUID, content, mediaURL string) (*domain.Message, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasParticipant(userID) {
		return nil, ErrAccessDenied
	}

	msg := &domain.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		SenderID:  &userID,
		Type:      domain.MessageUser,
		Content:   content,
		MediaURL:  mediaURL,
		CreatedAt: time.Now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	s.finishAppend(sessionID, msg)

	return msg, nil
}

// ListSessions returns the sessions a user participates in
func (s *ChatService) ListSessions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatSession, error) {
	return s.sessions.ListByUser(ctx, userID, limit, offset)
}

// GetMessages returns paginated history for a session the user belongs to
func (s *ChatService) GetMessages(ctx context.Context, userID, sessionID uuid.UUID, limit int, before time.Time) ([]domain.Message, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasParticipant(userID) {
		return nil, ErrAccessDenied
	}
	return s.messages.ListBySession(ctx, sessionID, limit, before)
}

// finishAppend runs the post-append bookkeeping shared by both inbound
// paths: last-message digest, realtime fan-out and detached pruning.
func (s *ChatService) finishAppend(sessionID uuid.UUID, msgs ...*domain.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	last := msgs[len(msgs)-1]
	summary := &domain.MessageSummary{
		Content:   last.Content,
		Type:      string(last.Type),
		CreatedAt: last.CreatedAt,
	}
	if last.SenderID != nil {
		summary.SenderID = *last.SenderID
	}
	if err := s.sessions.UpdateLastMessage(ctx, sessionID, summary); err != nil {
		log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to update last message")
	}

	for _, msg := range msgs {
		s.populateSender(ctx, msg)
		if err := s.bus.PublishToSession(ctx, sessionID, domain.EventNewMessage, domain.NewMessagePayload{Message: msg}); err != nil {
			log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to publish new message")
		}
	}

	go func() {
		defer cancel()
		if err := s.pruner.Prune(ctx, sessionID); err != nil {
			log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to prune session")
		}
	}()
}

func (s *ChatService) populateSender(ctx context.Context, msg *domain.Message) {
	if msg.SenderID == nil {
		return
	}
	user, err := s.users.GetByID(ctx, *msg.SenderID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", msg.SenderID.String()).Msg("failed to load sender")
		return
	}
	msg.SenderName = user.Name
	msg.SenderAvatar = user.AvatarURL
}

// ensureAISession finds or creates the user's assistant session
func (s *ChatService) ensureAISession(ctx context.Context, userID uuid.UUID) (*domain.ChatSession, error) {
	session, err := s.sessions.GetAIByUser(ctx, userID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, mongo.ErrNotFound) {
		return nil, fmt.Errorf("failed to load assistant session: %w", err)
	}

	now := time.Now()
	session = &domain.ChatSession{
		ID:           uuid.New(),
		Type:         domain.SessionAI,
		Name:         "Trip Assistant",
		Participants: []uuid.UUID{userID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create assistant session: %w", err)
	}
	return session, nil
}

// answerTripDetail responds to a question about an existing trip from
// the stored record
func (s *ChatService) answerTripDetail(ctx context.Context, userID uuid.UUID) string {
	trip, err := s.trips.LatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNotFound) {
			return "You don't have any trips yet. Tell me where you'd like to go and I'll plan one!"
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load latest trip")
		return "I couldn't look up your trip right now. Please try again."
	}

	return fmt.Sprintf(
		"Your trip to %s runs %s to %s. %s. The estimated budget is %.0f %s. Ask me anytime for the full day-by-day plan!",
		trip.Destination,
		trip.Dates.Start.Format("Jan 2"),
		trip.Dates.End.Format("Jan 2"),
		weatherLine(trip.Weather),
		trip.Budget.Total,
		trip.Budget.Currency,
	)
}
