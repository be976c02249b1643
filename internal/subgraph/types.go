package subgraph

import (
	"math/big"
	"strconv"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/tcr"
)

// NotAvailable is shown for props an item does not carry.
const NotAvailable = "N/A"

// Prop is one labelled value of an item's metadata.
type Prop struct {
	Label        string  `json:"label"`
	Value        *string `json:"value"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	IsIdentifier bool    `json:"isIdentifier"`
}

// Metadata holds an item's decoded props.
type Metadata struct {
	Props []Prop `json:"props"`
}

// Round is one funding round of a request's dispute.
type Round struct {
	AmountPaidRequester  string `json:"amountPaidRequester"`
	AmountPaidChallenger string `json:"amountPaidChallenger"`
	HasPaidRequester     bool   `json:"hasPaidRequester"`
	HasPaidChallenger    bool   `json:"hasPaidChallenger"`
	AppealPeriodStart    string `json:"appealPeriodStart"`
	AppealPeriodEnd      string `json:"appealPeriodEnd"`
	Ruling               string `json:"ruling"`
}

// Request is a registration or removal request of an item. Numbers arrive
// as decimal strings.
type Request struct {
	Requester      string  `json:"requester"`
	Challenger     string  `json:"challenger"`
	Deposit        string  `json:"deposit"`
	DisputeID      string  `json:"disputeID"`
	Disputed       bool    `json:"disputed"`
	Resolved       bool    `json:"resolved"`
	SubmissionTime string  `json:"submissionTime"`
	ResolutionTime string  `json:"resolutionTime"`
	Rounds         []Round `json:"rounds"`
}

// SubmittedAt parses SubmissionTime (unix seconds).
func (r Request) SubmittedAt() time.Time {
	return unixTime(r.SubmissionTime)
}

// ResolvedAt parses ResolutionTime; zero if unresolved.
func (r Request) ResolvedAt() time.Time {
	return unixTime(r.ResolutionTime)
}

// DepositWei parses Deposit; nil if malformed.
func (r Request) DepositWei() *big.Int {
	n, ok := new(big.Int).SetString(r.Deposit, 10)
	if !ok {
		return nil
	}
	return n
}

// Item is a registry entry as indexed by the subgraph.
type Item struct {
	ItemID   string     `json:"itemID"`
	Data     string     `json:"data"`
	Status   tcr.Status `json:"status"`
	Metadata *Metadata  `json:"metadata"`
	Requests []Request  `json:"requests"`
}

// Prop returns the value of the prop labelled label, or NotAvailable.
func (i Item) Prop(label string) string {
	if i.Metadata == nil {
		return NotAvailable
	}
	for _, p := range i.Metadata.Props {
		if p.Label == label {
			if p.Value == nil || *p.Value == "" {
				return NotAvailable
			}
			return *p.Value
		}
	}
	return NotAvailable
}

// Props returns the item's props, never nil.
func (i Item) Props() []Prop {
	if i.Metadata == nil {
		return []Prop{}
	}
	return i.Metadata.Props
}

// Latest returns the most recent request, or nil. Requests are queried
// newest first.
func (i Item) Latest() *Request {
	if len(i.Requests) == 0 {
		return nil
	}
	return &i.Requests[0]
}

// Disputed reports whether the latest request is under dispute.
func (i Item) Disputed() bool {
	if r := i.Latest(); r != nil {
		return r.Disputed && !r.Resolved
	}
	return false
}

// Action returns what a user can do with the item now.
func (i Item) Action() tcr.Action {
	return i.Status.Action(i.Disputed())
}

// Stats are the registry-wide counters.
type Stats struct {
	NumberOfAbsent                  int64
	NumberOfRegistered              int64
	NumberOfRegistrationRequested   int64
	NumberOfClearingRequested       int64
	NumberOfChallengedRegistrations int64
	NumberOfChallengedClearing      int64
}

// Total returns the number of items ever submitted.
func (s Stats) Total() int64 {
	return s.NumberOfAbsent + s.NumberOfRegistered + s.NumberOfRegistrationRequested + s.NumberOfClearingRequested
}

// rawStats mirrors the subgraph's string-encoded BigInt counters.
type rawStats struct {
	NumberOfAbsent                  string `json:"numberOfAbsent"`
	NumberOfRegistered              string `json:"numberOfRegistered"`
	NumberOfRegistrationRequested   string `json:"numberOfRegistrationRequested"`
	NumberOfClearingRequested       string `json:"numberOfClearingRequested"`
	NumberOfChallengedRegistrations string `json:"numberOfChallengedRegistrations"`
	NumberOfChallengedClearing      string `json:"numberOfChallengedClearing"`
}

func (r rawStats) parse() Stats {
	return Stats{
		NumberOfAbsent:                  atoi(r.NumberOfAbsent),
		NumberOfRegistered:              atoi(r.NumberOfRegistered),
		NumberOfRegistrationRequested:   atoi(r.NumberOfRegistrationRequested),
		NumberOfClearingRequested:       atoi(r.NumberOfClearingRequested),
		NumberOfChallengedRegistrations: atoi(r.NumberOfChallengedRegistrations),
		NumberOfChallengedClearing:      atoi(r.NumberOfChallengedClearing),
	}
}

func atoi(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func unixTime(s string) time.Time {
	n := atoi(s)
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}
