package tcr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the on-chain status of an item.
type Status uint8

const (
	Absent Status = iota
	Registered
	RegistrationRequested
	ClearingRequested
)

var statusNames = [...]string{"Absent", "Registered", "RegistrationRequested", "ClearingRequested"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Label is the human-facing name of the status.
func (s Status) Label() string {
	switch s {
	case Registered:
		return "Registered"
	case RegistrationRequested:
		return "Registration Pending"
	case ClearingRequested:
		return "Removal Pending"
	default:
		return "Not Registered"
	}
}

// Pending reports whether a request is waiting out its challenge period.
func (s Status) Pending() bool {
	return s == RegistrationRequested || s == ClearingRequested
}

// ParseStatus parses the subgraph/contract enum name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if strings.EqualFold(name, s) {
			return Status(i), nil
		}
	}
	return Absent, fmt.Errorf("unknown item status %q", s)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Action is what a user can do with an item in its current state.
type Action int

const (
	ActionNone Action = iota
	ActionRemove
	ActionChallenge
)

// Label is the button text for the action.
func (a Action) Label() string {
	switch a {
	case ActionRemove:
		return "Suggest Removal"
	case ActionChallenge:
		return "Challenge Request"
	default:
		return ""
	}
}

// Action returns the action available for an item in status s. Pending
// requests that are already disputed cannot be challenged again.
func (s Status) Action(disputed bool) Action {
	switch {
	case s == Registered:
		return ActionRemove
	case s.Pending() && !disputed:
		return ActionChallenge
	default:
		return ActionNone
	}
}

// Party is a side of a request, as used for rulings.
type Party uint8

const (
	PartyNone Party = iota
	PartyRequester
	PartyChallenger
)

func (p Party) String() string {
	switch p {
	case PartyRequester:
		return "Requester"
	case PartyChallenger:
		return "Challenger"
	default:
		return "None"
	}
}
