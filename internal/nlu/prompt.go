package nlu

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tripmind/tripmind/internal/domain"
)

// BuildClassifyPrompt creates the intent-classification prompt
func BuildClassifyPrompt(text string) string {
	return fmt.Sprintf(`You are the intent classifier for a travel planning assistant.

Classify the user message into exactly one intent:
- create_trip: the user wants to plan a new trip
- trip_detail: the user asks about an existing trip (weather, budget, itinerary)
- smalltalk: greetings or chit-chat
- unknown: anything else

Also extract any trip entities already present in the message. Known entity
keys: destination (string), dates (object with "start" and "end" as
YYYY-MM-DD), travelers (number), budget (one of "budget", "mid-range",
"luxury"), vibe (string), transportMode (string), interests (array of strings).
Only include keys the message actually mentions. Resolve relative dates
against today, %s.

Respond with ONLY a JSON object: {"intent": "...", "entities": {...}}

Message: %s`, time.Now().Format("2006-01-02"), text)
}

// BuildExtractPrompt creates the single-answer extraction prompt
func BuildExtractPrompt(text string, shape Shape) string {
	var expected string
	switch shape.Kind {
	case domain.ValidationDateRange:
		expected = `an object {"start": "YYYY-MM-DD", "end": "YYYY-MM-DD"}; resolve relative dates against today, ` + time.Now().Format("2006-01-02")
	case domain.ValidationNumber:
		expected = "a number"
	case domain.ValidationChoice:
		expected = fmt.Sprintf("one of: %s", strings.Join(shape.Options, ", "))
	case domain.ValidationList:
		expected = "an array of short strings"
	default:
		expected = "a short string"
	}

	return fmt.Sprintf(`You normalize a single free-text answer from a travel planning conversation.

The expected value is %s.

Respond with ONLY a JSON object: {"value": <normalized value>}.
If the answer does not contain a usable value of that shape, respond with
{"value": null}.

Answer: %s`, expected, text)
}

// BuildItineraryPrompt creates the itinerary-generation prompt
func BuildItineraryPrompt(req ItineraryRequest) string {
	days := req.Dates.Days()

	return fmt.Sprintf(`You are a travel content writer. Create a %d-day trip plan.

Destination: %s
Travel dates: %s to %s
Travelers: %d
Budget tier: %s, estimated total %.0f %s
Vibe: %s
Transport: %s
Interests: %s
Weather outlook: %s
Route: %s
Notable attractions: %s
Accommodation options: %s
Local events during the stay: %s

Respond with ONLY a JSON object of this shape:
{
  "itinerary": [{"day": 1, "date": "YYYY-MM-DD", "title": "...", "activities": [{"time": "09:00", "title": "...", "location": "...", "note": "..."}]}],
  "formatted_text": "a friendly narrative of the whole plan",
  "tips": ["..."],
  "must_eats": ["..."],
  "highlights": ["..."],
  "packing_checklist": ["..."]
}`,
		days,
		req.Destination,
		req.Dates.Start.Format("2006-01-02"), req.Dates.End.Format("2006-01-02"),
		req.Travelers,
		req.Preferences.BudgetTier, req.BudgetTotal, req.Currency,
		req.Preferences.Vibe,
		req.Preferences.TransportMode,
		strings.Join(req.Preferences.Interests, ", "),
		req.Weather,
		req.Route,
		strings.Join(req.Attractions, "; "),
		strings.Join(req.Stays, "; "),
		strings.Join(req.LocalEvents, "; "),
	)
}

// ExtractJSON strips markdown fences and surrounding prose from a model
// response, returning the JSON payload
func ExtractJSON(content string) string {
	if body := extractFromCodeBlock(content, "```json", "```"); body != "" {
		return body
	}
	if body := extractFromCodeBlock(content, "```", "```"); body != "" {
		return body
	}

	content = strings.TrimSpace(content)
	start := strings.IndexAny(content, "{[")
	if start == -1 {
		return content
	}
	var end int
	if content[start] == '{' {
		end = strings.LastIndex(content, "}")
	} else {
		end = strings.LastIndex(content, "]")
	}
	if end <= start {
		return content
	}
	return content[start : end+1]
}

func extractFromCodeBlock(content, startMarker, endMarker string) string {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return ""
	}

	contentStart := startIdx + len(startMarker)
	if contentStart < len(content) && content[contentStart] == '\n' {
		contentStart++
	}

	endIdx := strings.Index(content[contentStart:], endMarker)
	if endIdx == -1 {
		return ""
	}

	return strings.TrimSpace(content[contentStart : contentStart+endIdx])
}

// ParseClassification decodes a classification response
func ParseClassification(output string) (*Classification, error) {
	var c Classification
	if err := json.Unmarshal([]byte(ExtractJSON(output)), &c); err != nil {
		return nil, fmt.Errorf("failed to parse classification: %w", err)
	}

	switch c.Intent {
	case IntentCreateTrip, IntentTripDetail, IntentSmallTalk:
	default:
		c.Intent = IntentUnknown
	}

	return &c, nil
}

// ParseValue decodes an extraction response and normalizes it to the
// requested shape. A null or un-normalizable value yields (nil, nil).
func ParseValue(output string, shape Shape) (any, error) {
	var envelope struct {
		Value any `json:"value"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(output)), &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse extracted value: %w", err)
	}
	if envelope.Value == nil {
		return nil, nil
	}
	return NormalizeValue(envelope.Value, shape), nil
}

// ParseItinerary decodes an itinerary-generation response
func ParseItinerary(output string) (*ItineraryResult, error) {
	var result ItineraryResult
	if err := json.Unmarshal([]byte(ExtractJSON(output)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse itinerary: %w", err)
	}
	if len(result.Itinerary) == 0 {
		return nil, fmt.Errorf("itinerary response contained no days")
	}
	return &result, nil
}

// NormalizeValue coerces a raw extracted value into the canonical
// representation for its shape. Values that cannot be coerced come back
// as nil, which the dialogue machine records as a miss.
func NormalizeValue(raw any, shape Shape) any {
	switch shape.Kind {
	case domain.ValidationNumber:
		return normalizeNumber(raw)
	case domain.ValidationDateRange:
		return normalizeDateRange(raw)
	case domain.ValidationChoice:
		return normalizeChoice(raw, shape.Options)
	case domain.ValidationList:
		return normalizeList(raw)
	default:
		s := strings.TrimSpace(asString(raw))
		if s == "" {
			return nil
		}
		return s
	}
}

func normalizeNumber(raw any) any {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return nil
}

func normalizeDateRange(raw any) any {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	start, startOK := parseDate(asString(m["start"]))
	end, endOK := parseDate(asString(m["end"]))
	if !startOK || !endOK || end.Before(start) {
		return nil
	}
	return map[string]any{
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
	}
}

func normalizeChoice(raw any, options []string) any {
	s := strings.TrimSpace(strings.ToLower(asString(raw)))
	for _, opt := range options {
		if strings.ToLower(opt) == s {
			return opt
		}
	}
	return nil
}

func normalizeList(raw any) any {
	switch v := raw.(type) {
	case []any:
		var items []string
		for _, item := range v {
			if s := strings.TrimSpace(asString(item)); s != "" {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return nil
		}
		return items
	case []string:
		if len(v) == 0 {
			return nil
		}
		return v
	case string:
		var items []string
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return nil
		}
		return items
	}
	return nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}
