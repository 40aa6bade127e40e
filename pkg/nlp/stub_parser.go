package nlp

import (
	"context"
	"time"
)

// StubParser returns a fixed candidate for tests.
type StubParser struct {
	Candidate ParsedCandidate
	Err       error
	LastText  string
	LastRef   time.Time
	Calls     int
}

func (s *StubParser) Parse(_ context.Context, text string, ref time.Time) (ParsedCandidate, error) {
	s.Calls++
	s.LastText = text
	s.LastRef = ref
	if s.Err != nil {
		return ParsedCandidate{}, s.Err
	}
	return s.Candidate, nil
}
