// Package consensus runs validator candidacies: eligibility, peer votes and activation.
package consensus

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Luismorlan/dept_ledger/journal"
	"github.com/Luismorlan/dept_ledger/model"
)

// Stats exposes what eligibility is computed from.
type Stats interface {
	Exists(address string) bool
	Balance(address string) (uint64, error)
	Age(address string) (time.Duration, error)
	TransactionCount(address string) int
}

type Rules struct {
	MinBalance uint64
	MinTxCount int
	MinAge     time.Duration
	// Distinct votes that activate a candidate.
	Threshold int
}

type Consensus struct {
	rules   Rules
	stats   Stats
	journal journal.Journal
	clock   func() time.Time

	// One mutex per candidate serializes requests, votes and resignation of that candidate.
	locksM sync.Mutex
	locks  map[string]*sync.Mutex

	// Never held while waiting on a candidate mutex.
	m          sync.RWMutex
	pending    map[string]*model.Candidacy
	validators map[string]bool
}

func NewConsensus(rules Rules, stats Stats, j journal.Journal) *Consensus {
	if j == nil {
		j = journal.Discard{}
	}
	return &Consensus{
		rules:      rules,
		stats:      stats,
		journal:    j,
		clock:      time.Now,
		locks:      make(map[string]*sync.Mutex),
		pending:    make(map[string]*model.Candidacy),
		validators: make(map[string]bool),
	}
}

func (c *Consensus) SetClock(clock func() time.Time) {
	c.clock = clock
}

func (c *Consensus) lock(candidate string) func() {
	c.locksM.Lock()
	l, ok := c.locks[candidate]
	if !ok {
		l = &sync.Mutex{}
		c.locks[candidate] = l
	}
	c.locksM.Unlock()
	l.Lock()
	return l.Unlock
}

// Seed makes addresses validators without a vote, for the genesis validator set.
func (c *Consensus) Seed(addresses []string) error {
	for _, address := range addresses {
		if err := c.seed(address); err != nil {
			return err
		}
	}
	return nil
}

// seed promotes one address, retiring any candidacy it had open.
func (c *Consensus) seed(address string) error {
	unlock := c.lock(address)
	defer unlock()
	if c.IsValidator(address) {
		return nil
	}
	if err := c.journal.PromoteValidator(address); err != nil {
		return fmt.Errorf("journal validator %s: %w", address, err)
	}
	c.m.Lock()
	delete(c.pending, address)
	c.validators[address] = true
	c.m.Unlock()
	log.Printf("%s seeded as validator", address)
	return nil
}

// Restore loads journaled candidacies and validators.
func (c *Consensus) Restore(candidacies []model.Candidacy, validators []string) {
	c.m.Lock()
	defer c.m.Unlock()
	for i := range candidacies {
		candidacy := candidacies[i]
		if candidacy.Votes == nil {
			candidacy.Votes = make(map[string]time.Time)
		}
		c.pending[candidacy.Candidate] = &candidacy
	}
	for _, v := range validators {
		c.validators[v] = true
		delete(c.pending, v)
	}
}

// unmet lists the eligibility requirements address fails. A deactivated wallet fails all
// of them at once.
func (c *Consensus) unmet(address string) ([]string, error) {
	if !c.stats.Exists(address) {
		return []string{model.RequirementActiveWallet}, nil
	}
	balance, err := c.stats.Balance(address)
	if err != nil {
		return nil, err
	}
	age, err := c.stats.Age(address)
	if err != nil {
		return nil, err
	}
	var unmet []string
	if balance < c.rules.MinBalance {
		unmet = append(unmet, model.RequirementMinBalance)
	}
	if c.stats.TransactionCount(address) < c.rules.MinTxCount {
		unmet = append(unmet, model.RequirementMinTxCount)
	}
	if age < c.rules.MinAge {
		unmet = append(unmet, model.RequirementMinAgeDays)
	}
	return unmet, nil
}

func (c *Consensus) status(candidate string) model.CandidacyStatus {
	c.m.RLock()
	defer c.m.RUnlock()
	s := model.CandidacyStatus{Candidate: candidate, State: model.NotRequested, Votes: []string{}, Threshold: c.rules.Threshold}
	if c.validators[candidate] {
		s.State = model.Active
	} else if p, ok := c.pending[candidate]; ok {
		s.State = model.Pending
		s.Votes = p.Voters()
	}
	return s
}

// RequestCandidacy opens a candidacy for an eligible department. Asking again while pending
// or active returns the current status.
func (c *Consensus) RequestCandidacy(address string) (model.CandidacyStatus, error) {
	unlock := c.lock(address)
	defer unlock()

	if !c.stats.Exists(address) {
		return model.CandidacyStatus{}, model.Errorf(model.KindUnknownAddress, "unknown address %s", address)
	}
	if s := c.status(address); s.State != model.NotRequested {
		return s, nil
	}
	unmet, err := c.unmet(address)
	if err != nil {
		return model.CandidacyStatus{}, err
	}
	if len(unmet) > 0 {
		return model.CandidacyStatus{}, model.Ineligible(address, unmet)
	}

	candidacy := &model.Candidacy{Candidate: address, RequestedAt: c.clock().UTC(), Votes: make(map[string]time.Time)}
	if err := c.journal.PutCandidacy(*candidacy); err != nil {
		return model.CandidacyStatus{}, fmt.Errorf("journal candidacy %s: %w", address, err)
	}
	c.m.Lock()
	c.pending[address] = candidacy
	c.m.Unlock()
	log.Printf("%s requested to become a validator", address)
	return c.status(address), nil
}

// Vote records one vote of voter for a pending candidate. The vote that reaches the threshold
// activates the candidate if it is still eligible; otherwise it stays pending.
func (c *Consensus) Vote(voter, candidate string) (model.CandidacyStatus, error) {
	if voter == candidate {
		return model.CandidacyStatus{}, model.Errorf(model.KindSelfVote, "%s cannot vote for itself", voter)
	}
	if !c.stats.Exists(voter) {
		return model.CandidacyStatus{}, model.Errorf(model.KindUnknownAddress, "unknown voter %s", voter)
	}
	unlock := c.lock(candidate)
	defer unlock()

	c.m.RLock()
	current, ok := c.pending[candidate]
	c.m.RUnlock()
	if !ok {
		return model.CandidacyStatus{}, model.Errorf(model.KindUnknownCandidate, "%s has no pending candidacy", candidate)
	}
	if _, voted := current.Votes[voter]; voted {
		return model.CandidacyStatus{}, model.Errorf(model.KindAlreadyVoted, "%s already voted for %s", voter, candidate)
	}

	updated := &model.Candidacy{Candidate: candidate, RequestedAt: current.RequestedAt, Votes: make(map[string]time.Time, len(current.Votes)+1)}
	for v, at := range current.Votes {
		updated.Votes[v] = at
	}
	updated.Votes[voter] = c.clock().UTC()
	if err := c.journal.PutCandidacy(*updated); err != nil {
		return model.CandidacyStatus{}, fmt.Errorf("journal candidacy %s: %w", candidate, err)
	}
	c.m.Lock()
	c.pending[candidate] = updated
	c.m.Unlock()
	log.Printf("%s voted for %s (%d/%d)", voter, candidate, len(updated.Votes), c.rules.Threshold)

	if len(updated.Votes) < c.rules.Threshold {
		return c.status(candidate), nil
	}
	unmet, err := c.unmet(candidate)
	if err != nil {
		return model.CandidacyStatus{}, err
	}
	if len(unmet) > 0 {
		log.Printf("%s reached the vote threshold but is no longer eligible: %v", candidate, unmet)
		s := c.status(candidate)
		s.Unmet = unmet
		return s, nil
	}
	if err := c.journal.PromoteValidator(candidate); err != nil {
		return model.CandidacyStatus{}, fmt.Errorf("journal validator %s: %w", candidate, err)
	}
	c.m.Lock()
	delete(c.pending, candidate)
	c.validators[candidate] = true
	c.m.Unlock()
	log.Printf("%s is now a validator", candidate)

	s := c.status(candidate)
	s.Votes = updated.Voters()
	return s, nil
}

// Withdraw retires the pending candidacy of address together with its votes.
func (c *Consensus) Withdraw(address string) error {
	unlock := c.lock(address)
	defer unlock()
	c.m.RLock()
	_, ok := c.pending[address]
	c.m.RUnlock()
	if !ok {
		return model.Errorf(model.KindUnknownCandidate, "%s has no pending candidacy", address)
	}
	if err := c.journal.DeleteCandidacy(address); err != nil {
		return fmt.Errorf("journal withdrawal %s: %w", address, err)
	}
	c.m.Lock()
	delete(c.pending, address)
	c.m.Unlock()
	log.Printf("%s withdrew its candidacy", address)
	return nil
}

// Resign removes address from the validator set. Prior votes are not restored.
func (c *Consensus) Resign(address string) error {
	unlock := c.lock(address)
	defer unlock()
	if !c.IsValidator(address) {
		return model.Errorf(model.KindNotValidator, "%s is not a validator", address)
	}
	if err := c.journal.DeleteValidator(address); err != nil {
		return fmt.Errorf("journal resignation %s: %w", address, err)
	}
	c.m.Lock()
	delete(c.validators, address)
	c.m.Unlock()
	log.Printf("%s resigned as validator", address)
	return nil
}

func (c *Consensus) IsValidator(address string) bool {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.validators[address]
}

func (c *Consensus) State(address string) model.CandidateState {
	return c.status(address).State
}

// ListActive returns the validators in lexical order.
func (c *Consensus) ListActive() []string {
	c.m.RLock()
	defer c.m.RUnlock()
	active := make([]string, 0, len(c.validators))
	for v := range c.validators {
		active = append(active, v)
	}
	sort.Strings(active)
	return active
}

// ListPending maps every pending candidate to its voters.
func (c *Consensus) ListPending() map[string][]string {
	c.m.RLock()
	defer c.m.RUnlock()
	pending := make(map[string][]string, len(c.pending))
	for candidate, p := range c.pending {
		pending[candidate] = p.Voters()
	}
	return pending
}

func (c *Consensus) VotesFor(candidate string) ([]string, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	p, ok := c.pending[candidate]
	if !ok {
		return nil, model.Errorf(model.KindUnknownCandidate, "%s has no pending candidacy", candidate)
	}
	return p.Voters(), nil
}
