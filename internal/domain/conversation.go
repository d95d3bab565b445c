package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Flow identifiers
const (
	FlowCreateTrip = "create_trip"
)

// Conversation status values as persisted in the state store.
// A pending status carries the slot currently being asked: "pending:<slot>".
const (
	StatusComplete      = "complete"
	statusPendingPrefix = "pending:"
)

// SlotValidation describes the value shape expected for a slot answer
type SlotValidation string

const (
	ValidationNone      SlotValidation = "none"
	ValidationString    SlotValidation = "string"
	ValidationDateRange SlotValidation = "date_range"
	ValidationNumber    SlotValidation = "number"
	ValidationChoice    SlotValidation = "choice"
	ValidationList      SlotValidation = "list"
)

// SlotDefinition holds the question and validation shape for one slot
type SlotDefinition struct {
	Question   string         `json:"question"`
	Reprompt   string         `json:"reprompt"`
	Validation SlotValidation `json:"validation"`
	Options    []string       `json:"options,omitempty"` // choice validation only
}

// FlowDefinition is static, process-wide conversation configuration.
// Slots defines the only valid collection order.
type FlowDefinition struct {
	ID         string                    `json:"id"`
	Slots      []string                  `json:"slots"`
	Definition map[string]SlotDefinition `json:"definition"`
}

// Slot returns the definition for a slot name
func (f *FlowDefinition) Slot(name string) (SlotDefinition, bool) {
	def, ok := f.Definition[name]
	return def, ok
}

// ConversationState is the ephemeral per-user dialogue state.
// At most one exists per user; it lives in a TTL store and expiry
// is equivalent to the conversation never having existed.
type ConversationState struct {
	FlowID        string         `json:"flow_id"`
	Status        string         `json:"status"`
	CollectedData map[string]any `json:"collected_data"`
	// Misses counts consecutive failed extractions per slot, used to
	// switch from the question to the reprompt text.
	Misses    map[string]int `json:"misses,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewConversationState creates a fresh state for a flow
func NewConversationState(flowID string) *ConversationState {
	return &ConversationState{
		FlowID:        flowID,
		CollectedData: make(map[string]any),
		UpdatedAt:     time.Now(),
	}
}

// NextSlot returns the first slot in flow order with no collected value.
// Empty string means every slot is satisfied. The pending slot is always
// recomputed from the data, never tracked with a cursor, so slots filled
// out of order are not re-asked.
func (s *ConversationState) NextSlot(flow *FlowDefinition) string {
	for _, name := range flow.Slots {
		if _, ok := s.CollectedData[name]; !ok {
			return name
		}
	}
	return ""
}

// SetPending marks the slot currently being asked
func (s *ConversationState) SetPending(slot string) {
	s.Status = statusPendingPrefix + slot
}

// PendingSlot returns the slot named in a pending status, or ""
func (s *ConversationState) PendingSlot() string {
	return strings.TrimPrefix(s.Status, statusPendingPrefix)
}

// RecordMiss increments the failed-extraction counter for a slot
func (s *ConversationState) RecordMiss(slot string) int {
	if s.Misses == nil {
		s.Misses = make(map[string]int)
	}
	s.Misses[slot]++
	return s.Misses[slot]
}

// ConversationStore is the TTL-backed state store, keyed by user.
// Get returns (nil, nil) when no state exists or it has expired;
// every read and write slides the expiry window.
type ConversationStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*ConversationState, error)
	Save(ctx context.Context, userID uuid.UUID, state *ConversationState) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
