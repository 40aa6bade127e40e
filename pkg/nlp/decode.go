package nlp

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// DecodeCandidate parses the model's JSON reply into a ParsedCandidate.
// Models drift from the schema in small ways (markdown fences, strings where
// numbers belong, missing keys), so every field is read defensively: an
// absent or ill-typed field becomes null/zero, never a decode failure. Only
// a reply that is not a JSON object at all is an error.
func DecodeCandidate(raw []byte) (ParsedCandidate, error) {
	trimmed := stripCodeFences(string(raw))

	var doc map[string]any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return ParsedCandidate{}, errors.New("nlp: reply is not a JSON object")
	}

	c := ParsedCandidate{
		Title:           optString(doc, "title"),
		StartDate:       optString(doc, "start_date"),
		StartTime:       optString(doc, "start_time"),
		EndTime:         optString(doc, "end_time"),
		DurationMinutes: optMinutes(doc, "duration_minutes"),
		AllDay:          optBool(doc, "all_day"),
		Description:     optString(doc, "description"),
		Location:        optString(doc, "location"),
		Ambiguities:     optStrings(doc, "ambiguities"),
		Confidence:      optConfidence(doc, "confidence"),
		Participants:    optParticipants(doc, "participants"),
	}

	switch strings.ToLower(strings.TrimSpace(stringOr(doc, "status"))) {
	case "ambiguous":
		c.Status = StatusAmbiguous
	case "error":
		c.Status = StatusError
	default:
		// Missing or unrecognized status: trust the fields and let the
		// validator sort out what is actually usable.
		c.Status = StatusSuccess
		if len(c.Ambiguities) > 0 {
			c.Status = StatusAmbiguous
		}
	}
	return c, nil
}

// stripCodeFences removes a surrounding ```json ... ``` block if present and
// otherwise cuts the reply down to its outermost {...} object.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

func stringOr(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func optString(doc map[string]any, key string) *string {
	v, ok := doc[key].(string)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func optBool(doc map[string]any, key string) bool {
	v, _ := doc[key].(bool)
	return v
}

// optMinutes keeps zero distinct from absent: a reply carrying
// "duration_minutes": 0 yields a pointer to 0, not nil.
func optMinutes(doc map[string]any, key string) *int {
	f, ok := doc[key].(float64)
	if !ok || f < 0 || f != math.Trunc(f) {
		return nil
	}
	n := int(f)
	return &n
}

func optConfidence(doc map[string]any, key string) float64 {
	f, ok := doc[key].(float64)
	if !ok {
		return 0
	}
	return math.Min(1, math.Max(0, f))
}

func optStrings(doc map[string]any, key string) []string {
	items, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func optParticipants(doc map[string]any, key string) []Participant {
	items, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	var out []Participant
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := Participant{
			Name:  strings.TrimSpace(stringOr(entry, "name")),
			Email: strings.TrimSpace(stringOr(entry, "email")),
		}
		if p.Name == "" && p.Email == "" {
			continue
		}
		if v, ok := entry["resolved"].(bool); ok {
			p.Resolved = v
		} else {
			p.Resolved = strings.Contains(p.Email, "@")
		}
		out = append(out, p)
	}
	return out
}
