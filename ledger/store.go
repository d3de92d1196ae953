package ledger

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Luismorlan/dept_ledger/journal"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/utils"
)

// Store owns every chain of the ledger.
type Store struct {
	journal journal.Journal
	clock   func() time.Time

	// Guards the branch map only, never held while waiting on a chain.
	m        sync.RWMutex
	main     *chain
	branches map[string]*chain
}

func NewStore(j journal.Journal) *Store {
	if j == nil {
		j = journal.Discard{}
	}
	return &Store{
		journal:  j,
		clock:    time.Now,
		main:     newChain(model.MainChain),
		branches: make(map[string]*chain),
	}
}

func (s *Store) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Commit describes one atomic write to one or more chains.
type Commit struct {
	Chains       []model.ChainID
	Transactions []model.Transaction
	// Guard runs once every target chain is locked and before anything is written.
	// An error aborts the commit.
	Guard func() error
	// Apply runs after the blocks are appended, while the chains are still locked.
	Apply func()
}

// lookup returns the chain with the given id, creating an empty branch if needed. The new
// branch gets its genesis block in the first commit that succeeds on it.
func (s *Store) lookup(id model.ChainID, create bool) *chain {
	if id.IsMain() {
		return s.main
	}
	s.m.RLock()
	c, ok := s.branches[string(id)]
	s.m.RUnlock()
	if ok || !create {
		return c
	}
	s.m.Lock()
	defer s.m.Unlock()
	if c, ok = s.branches[string(id)]; !ok {
		c = newChain(id)
		s.branches[string(id)] = c
	}
	return c
}

// lockOrder dedupes ids and sorts them with the main chain first, then branches by address.
func lockOrder(ids []model.ChainID) []model.ChainID {
	seen := make(map[model.ChainID]bool)
	ordered := make([]model.ChainID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].IsMain() != ordered[j].IsMain() {
			return ordered[i].IsMain()
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}

// Append commits c.Transactions as one new block on every chain of c. Either every block is
// written and Apply runs, or nothing changes. It returns the new block of each chain.
func (s *Store) Append(c Commit) (map[model.ChainID]model.Block, error) {
	if len(c.Chains) == 0 {
		return nil, model.Errorf(model.KindInvalidInput, "commit names no chain")
	}
	ids := lockOrder(c.Chains)
	chains := make([]*chain, len(ids))
	for i, id := range ids {
		chains[i] = s.lookup(id, true)
	}
	for _, ch := range chains {
		ch.m.Lock()
		defer ch.m.Unlock()
	}

	for _, ch := range chains {
		if err := ch.checkWritable(); err != nil {
			log.Println(err)
			return nil, err
		}
	}
	if c.Guard != nil {
		if err := c.Guard(); err != nil {
			return nil, err
		}
	}

	now := s.clock().Unix()
	pending := make([][]model.Block, len(chains))
	var all []model.Block
	for i, ch := range chains {
		prev := ch.head()
		if prev == nil {
			genesis := utils.CreateNewBlock(ch.id, nil, nil, now)
			pending[i] = append(pending[i], genesis)
			prev = &genesis
		}
		txs := make([]model.Transaction, len(c.Transactions))
		copy(txs, c.Transactions)
		pending[i] = append(pending[i], utils.CreateNewBlock(ch.id, prev, txs, now))
		all = append(all, pending[i]...)
	}
	if err := s.journal.PutBlocks(all); err != nil {
		return nil, fmt.Errorf("journal blocks: %w", err)
	}

	written := make(map[model.ChainID]model.Block, len(chains))
	for i, ch := range chains {
		ch.blocks = append(ch.blocks, pending[i]...)
		written[ch.id] = pending[i][len(pending[i])-1]
	}
	if c.Apply != nil {
		c.Apply()
	}
	return written, nil
}

// AppendMainChainBlock appends one block holding txs to the main chain.
func (s *Store) AppendMainChainBlock(txs []model.Transaction) (model.Block, error) {
	written, err := s.Append(Commit{Chains: []model.ChainID{model.MainChain}, Transactions: txs})
	if err != nil {
		return model.Block{}, err
	}
	return written[model.MainChain], nil
}

// AppendBranchBlock appends one block holding txs to the branch of owner, creating it if needed.
func (s *Store) AppendBranchBlock(owner string, txs []model.Transaction) (model.Block, error) {
	id := model.BranchOf(owner)
	written, err := s.Append(Commit{Chains: []model.ChainID{id}, Transactions: txs})
	if err != nil {
		return model.Block{}, err
	}
	return written[id], nil
}

// EnsureGenesis writes the main chain genesis block if the main chain is empty.
func (s *Store) EnsureGenesis() error {
	s.main.m.Lock()
	defer s.main.m.Unlock()
	if len(s.main.blocks) > 0 {
		return nil
	}
	genesis := utils.CreateNewBlock(model.MainChain, nil, nil, s.clock().Unix())
	if err := s.journal.PutBlocks([]model.Block{genesis}); err != nil {
		return fmt.Errorf("journal genesis: %w", err)
	}
	s.main.blocks = append(s.main.blocks, genesis)
	log.Printf("main chain genesis %s", genesis.Hash)
	return nil
}

// Restore loads journaled chains. Chains failing verification are loaded halted and reported.
func (s *Store) Restore(chains map[model.ChainID][]model.Block) map[model.ChainID]error {
	violations := make(map[model.ChainID]error)
	for id, blocks := range chains {
		ch := s.lookup(id, true)
		ch.m.Lock()
		ch.blocks = append(ch.blocks[:0], blocks...)
		if err := VerifyChain(ch.blocks); err != nil {
			ch.halted = err
			violations[id] = err
			log.Printf("chain %s restored halted: %v", id, err)
		}
		ch.m.Unlock()
	}
	return violations
}
