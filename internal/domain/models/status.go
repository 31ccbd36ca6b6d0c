package models

// Status is the canonical lifecycle vocabulary shared by transactions and
// events. Any other literal is rejected at the boundary.
type Status string

const (
	StatusCreated    Status = "created"
	StatusPending    Status = "pending"
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
)

var transitions = map[Status][]Status{
	// created may settle straight to successful when the provider's
	// notification arrives before the initialize response is recorded
	StatusCreated: {StatusPending, StatusSuccessful, StatusFailed},
	StatusPending: {StatusSuccessful, StatusFailed},
	// terminal states never move
	StatusSuccessful: {},
	StatusFailed:     {},
}

// Valid reports whether s is one of the canonical status literals.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusSuccessful || s == StatusFailed
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
