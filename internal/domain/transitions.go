package domain

import (
	"fmt"
	"strings"
)

// statusTransitions defines the legal lifecycle moves. Solved is terminal.
var statusTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusNew:      {RequestStatusAssigned, RequestStatusSolved},
	RequestStatusAssigned: {RequestStatusNew, RequestStatusBlocked, RequestStatusSolved},
	RequestStatusBlocked:  {RequestStatusNew, RequestStatusAssigned, RequestStatusSolved},
	RequestStatusSolved:   {},
}

// ValidTransitions returns the statuses reachable from current.
func ValidTransitions(current RequestStatus) []RequestStatus {
	return statusTransitions[current]
}

// IsValidTransition reports whether current -> next is in the table.
func IsValidTransition(current, next RequestStatus) bool {
	for _, s := range statusTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns nil for legal moves. A transition to the same
// state is always legal.
func ValidateTransition(current, next RequestStatus) error {
	if current == next {
		return nil
	}
	if IsValidTransition(current, next) {
		return nil
	}
	if current == RequestStatusSolved {
		return fmt.Errorf("cannot change status from %q: this request is already solved", current)
	}
	targets := make([]string, 0, len(statusTransitions[current]))
	for _, s := range statusTransitions[current] {
		targets = append(targets, string(s))
	}
	return fmt.Errorf("cannot change status from %q to %q, valid transitions: %s",
		current, next, strings.Join(targets, ", "))
}
