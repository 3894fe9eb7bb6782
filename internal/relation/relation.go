// Package relation decides what to do with a user-to-object link
// (favorite, shopping cart entry, subscription) given its current state.
package relation

import "errors"

type State int

const (
	Absent State = iota
	Exists
)

// StateOf converts an existence check into a State.
func StateOf(exists bool) State {
	if exists {
		return Exists
	}
	return Absent
}

type Action int

const (
	Add Action = iota
	Remove
)

type Outcome int

const (
	// Apply means the action should be carried out.
	Apply Outcome = iota
	// AlreadyExists is the result of adding a link that is present.
	AlreadyExists
	// NotFound is the result of removing a link that is absent.
	NotFound
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

func Decide(action Action, state State) Outcome {
	switch {
	case action == Add && state == Exists:
		return AlreadyExists
	case action == Remove && state == Absent:
		return NotFound
	default:
		return Apply
	}
}

// Err returns the error matching a rejected outcome, or nil for Apply.
func (o Outcome) Err() error {
	switch o {
	case AlreadyExists:
		return ErrAlreadyExists
	case NotFound:
		return ErrNotFound
	default:
		return nil
	}
}
