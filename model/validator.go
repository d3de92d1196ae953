package model

import (
	"sort"
	"time"
)

type CandidateState string

const (
	NotRequested CandidateState = "NotRequested"
	Pending      CandidateState = "Pending"
	Active       CandidateState = "Active"
)

// Candidacy is a pending request of a department to join the validator set.
type Candidacy struct {
	Candidate   string    `json:"candidate"`
	RequestedAt time.Time `json:"requested_at"`
	// Voter address to the time the vote was cast.
	Votes map[string]time.Time `json:"votes"`
}

// Voters returns the distinct voters in lexical order.
func (c *Candidacy) Voters() []string {
	voters := make([]string, 0, len(c.Votes))
	for v := range c.Votes {
		voters = append(voters, v)
	}
	sort.Strings(voters)
	return voters
}

// CandidacyStatus is the outcome of a candidacy request or a vote.
type CandidacyStatus struct {
	Candidate string         `json:"candidate"`
	State     CandidateState `json:"state"`
	Votes     []string       `json:"votes"`
	Threshold int            `json:"threshold"`
	// Requirements a candidate at the threshold no longer meets, which keeps it pending.
	Unmet []string `json:"unmet,omitempty"`
}
