package dialogue

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tripmind/tripmind/internal/domain"
	"github.com/tripmind/tripmind/internal/nlu"
)

// Action tells the caller what to do after a turn
type Action int

const (
	// ActionNone means the reply is the whole outcome
	ActionNone Action = iota
	// ActionTriggerAssembly means the flow completed and Data carries the
	// trip request for the assembly pipeline
	ActionTriggerAssembly
	// ActionTripDetail means the user asked about an existing trip and the
	// caller should answer from stored trip data
	ActionTripDetail
)

// Result is the outcome of one conversation turn
type Result struct {
	Reply  string
	Action Action
	Data   *domain.TripRequest
}

// Machine drives slot collection for conversation flows. Turns for the
// same user are serialized so concurrent messages cannot race the state
// store's read-modify-write.
type Machine struct {
	flows map[string]*domain.FlowDefinition
	store domain.ConversationStore
	nlu   *nlu.Router
	locks userLocks
}

// NewMachine creates a dialogue machine with the given flows
func NewMachine(store domain.ConversationStore, nluRouter *nlu.Router, flows ...*domain.FlowDefinition) *Machine {
	m := &Machine{
		flows: make(map[string]*domain.FlowDefinition),
		store: store,
		nlu:   nluRouter,
	}
	for _, f := range flows {
		m.flows[f.ID] = f
	}
	return m
}

// HandleMessage processes one user turn. With no active conversation the
// message is classified and may start a flow; with an active conversation
// the message is treated as the answer to the pending slot.
func (m *Machine) HandleMessage(ctx context.Context, userID uuid.UUID, text string) (*Result, error) {
	unlock := m.locks.lock(userID)
	defer unlock()

	state, err := m.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation state: %w", err)
	}

	if state == nil {
		return m.startConversation(ctx, userID, text)
	}
	return m.continueConversation(ctx, userID, state, text)
}

func (m *Machine) startConversation(ctx context.Context, userID uuid.UUID, text string) (*Result, error) {
	provider, err := m.nlu.Default()
	if err != nil {
		return nil, fmt.Errorf("no NLU provider: %w", err)
	}

	cls, err := provider.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to classify message: %w", err)
	}

	switch cls.Intent {
	case nlu.IntentTripDetail:
		return &Result{Action: ActionTripDetail}, nil
	case nlu.IntentCreateTrip:
		// fall through to flow start
	default:
		return &Result{
			Reply:  "Hi! I can plan a trip for you. Just tell me where you'd like to go.",
			Action: ActionNone,
		}, nil
	}

	flow := m.flows[domain.FlowCreateTrip]
	state := domain.NewConversationState(flow.ID)

	// Pre-seed slots from entities already present in the opening message
	// so a rich first utterance skips their questions entirely.
	for _, name := range flow.Slots {
		raw, ok := cls.Entities[name]
		if !ok {
			continue
		}
		def, _ := flow.Slot(name)
		if value := nlu.NormalizeValue(raw, nlu.Shape{Kind: def.Validation, Options: def.Options}); value != nil {
			state.CollectedData[name] = value
		}
	}

	return m.advance(ctx, userID, flow, state, "")
}

func (m *Machine) continueConversation(ctx context.Context, userID uuid.UUID, state *domain.ConversationState, text string) (*Result, error) {
	flow, ok := m.flows[state.FlowID]
	if !ok {
		// State from a flow this build no longer knows; discard it.
		if err := m.store.Delete(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to discard stale conversation: %w", err)
		}
		return m.startConversation(ctx, userID, text)
	}

	slot := state.PendingSlot()
	if slot == "" {
		slot = state.NextSlot(flow)
	}
	def, ok := flow.Slot(slot)
	if !ok {
		return nil, fmt.Errorf("flow %s has no slot %q", flow.ID, slot)
	}

	provider, err := m.nlu.Default()
	if err != nil {
		return nil, fmt.Errorf("no NLU provider: %w", err)
	}

	value, err := provider.Extract(ctx, text, nlu.Shape{Kind: def.Validation, Options: def.Options})
	if err != nil {
		// A gateway failure is recovered the same way as a null
		// extraction: the slot is asked again next turn.
		log.Warn().Err(err).Str("slot", slot).Msg("slot extraction failed")
		value = nil
	}

	if value != nil {
		state.CollectedData[slot] = value
		delete(state.Misses, slot)
	} else {
		state.RecordMiss(slot)
	}

	return m.advance(ctx, userID, flow, state, slot)
}

// advance picks the first missing slot, asks its question, or completes
// the flow. askedSlot is the slot just answered ("" on conversation
// start); a repeated miss on it switches to the reprompt text.
func (m *Machine) advance(ctx context.Context, userID uuid.UUID, flow *domain.FlowDefinition, state *domain.ConversationState, askedSlot string) (*Result, error) {
	next := state.NextSlot(flow)

	if next == "" {
		state.Status = domain.StatusComplete
		if err := m.store.Delete(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to end conversation: %w", err)
		}

		request, err := BuildTripRequest(state.CollectedData)
		if err != nil {
			return nil, fmt.Errorf("failed to build trip request: %w", err)
		}

		return &Result{
			Reply:  "I have everything I need. Give me a moment while I put your trip together!",
			Action: ActionTriggerAssembly,
			Data:   request,
		}, nil
	}

	state.SetPending(next)
	if err := m.store.Save(ctx, userID, state); err != nil {
		return nil, fmt.Errorf("failed to save conversation state: %w", err)
	}

	def, _ := flow.Slot(next)
	reply := def.Question
	if next == askedSlot && state.Misses[next] > 0 && def.Reprompt != "" {
		reply = def.Reprompt
	}

	return &Result{Reply: reply, Action: ActionNone}, nil
}

// userLocks serializes turns per user. Entries are refcounted and
// removed when the last holder releases, so the map only holds users
// with a turn in flight.
type userLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

func (l *userLocks) lock(userID uuid.UUID) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[uuid.UUID]*userLock)
	}
	lock, ok := l.locks[userID]
	if !ok {
		lock = &userLock{}
		l.locks[userID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
