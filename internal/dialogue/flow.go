package dialogue

import "github.com/tripmind/tripmind/internal/domain"

// Slot names for the trip-creation flow
const (
	SlotDestination   = "destination"
	SlotDates         = "dates"
	SlotTravelers     = "travelers"
	SlotBudget        = "budget"
	SlotVibe          = "vibe"
	SlotTransportMode = "transportMode"
	SlotInterests     = "interests"
)

// BudgetTiers are the accepted budget answers
var BudgetTiers = []string{"budget", "mid-range", "luxury"}

// CreateTripFlow returns the trip-creation flow definition. The slot
// order is the only order questions are ever asked in; pre-seeded slots
// are skipped, not re-asked.
func CreateTripFlow() *domain.FlowDefinition {
	return &domain.FlowDefinition{
		ID: domain.FlowCreateTrip,
		Slots: []string{
			SlotDestination,
			SlotDates,
			SlotTravelers,
			SlotBudget,
			SlotVibe,
			SlotTransportMode,
			SlotInterests,
		},
		Definition: map[string]domain.SlotDefinition{
			SlotDestination: {
				Question:   "Where would you like to go?",
				Reprompt:   "I didn't catch a destination. Which city or region should I plan for?",
				Validation: domain.ValidationString,
			},
			SlotDates: {
				Question:   "When are you traveling? You can give me dates or something like \"next week for 5 days\".",
				Reprompt:   "Sorry, I couldn't work out the dates. Could you give me a start and end date?",
				Validation: domain.ValidationDateRange,
			},
			SlotTravelers: {
				Question:   "How many people are traveling?",
				Reprompt:   "Just a number is fine. How many travelers?",
				Validation: domain.ValidationNumber,
			},
			SlotBudget: {
				Question:   "What's your budget like: budget, mid-range, or luxury?",
				Reprompt:   "Please pick one: budget, mid-range, or luxury.",
				Validation: domain.ValidationChoice,
				Options:    BudgetTiers,
			},
			SlotVibe: {
				Question:   "What kind of vibe are you after: relaxing, adventurous, romantic, party?",
				Reprompt:   "Tell me the mood of the trip in a word or two, like relaxing or adventurous.",
				Validation: domain.ValidationString,
			},
			SlotTransportMode: {
				Question:   "How do you want to get there: flight, train, car, or bus?",
				Reprompt:   "Please pick a way to travel: flight, train, car, or bus.",
				Validation: domain.ValidationChoice,
				Options:    []string{"flight", "train", "car", "bus"},
			},
			SlotInterests: {
				Question:   "What are you into? Beaches, history, food, nightlife, nature, anything you like.",
				Reprompt:   "Give me a few interests, like beaches, food, or history.",
				Validation: domain.ValidationList,
			},
		},
	}
}
