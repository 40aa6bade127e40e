package calendar

// DayEvent is one existing entry on a calendar day, reduced to what conflict
// checking needs. StartTime/EndTime are wall-clock "HH:MM" in the reference
// timezone and empty for all-day entries.
type DayEvent struct {
	ID        string
	Title     string
	StartTime string
	EndTime   string
	AllDay    bool
}

// Draft is the normalized event shape handed to the backend for creation.
// EndDate can differ from StartDate when a timed event crosses midnight.
// Times are empty when AllDay is set.
type Draft struct {
	Title       string
	Description string
	Location    string
	StartDate   string // YYYY-MM-DD
	EndDate     string
	StartTime   string // HH:MM
	EndTime     string
	AllDay      bool
	Attendees   []string // resolved e-mail addresses only
}

// CreatedEvent is the backend's receipt for a successful creation.
type CreatedEvent struct {
	ID       string
	HTMLLink string
	Start    string
	End      string
}
