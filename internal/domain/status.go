package domain

// Status is the lifecycle marker of a generation request.
type Status int

// Statuses a request moves through.
const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// CanTransition reports whether moving from s to next is a legal step.
// Every submit (including a retry) enters pending; only pending resolves.
func (s Status) CanTransition(next Status) bool {
	switch next {
	case StatusPending:
		return s == StatusIdle || s == StatusError || s == StatusSuccess || s == StatusPending
	case StatusSuccess, StatusError:
		return s == StatusPending
	default:
		return false
	}
}
