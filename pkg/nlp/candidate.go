package nlp

// Status classifies how confident the extraction was.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusAmbiguous Status = "ambiguous"
	StatusError     Status = "error"
)

type Participant struct {
	Name     string
	Email    string
	Resolved bool
}

// ParsedCandidate is the model's best-effort structured guess for one
// message. Optional fields are pointers so that a present-but-zero value
// (duration_minutes = 0, empty description) survives instead of collapsing
// into a default. Candidates are built once per input and never mutated.
type ParsedCandidate struct {
	Title           *string
	StartDate       *string // YYYY-MM-DD
	StartTime       *string // HH:MM, 24h
	EndTime         *string
	DurationMinutes *int
	AllDay          bool
	Participants    []Participant
	Description     *string
	Location        *string
	Ambiguities     []string
	Confidence      float64
	Status          Status
}

// ErrorCandidate builds the candidate the pipeline synthesizes when the
// parser collaborator fails or the input is empty. The reason travels as the
// single ambiguity so the validator can pass it through.
func ErrorCandidate(reason string) ParsedCandidate {
	return ParsedCandidate{
		Status:      StatusError,
		Ambiguities: []string{reason},
	}
}
