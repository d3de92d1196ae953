package ledger

import (
	"sort"

	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/utils"
)

func (s *Store) branchList() []*chain {
	s.m.RLock()
	defer s.m.RUnlock()
	list := make([]*chain, 0, len(s.branches))
	for _, c := range s.branches {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].id < list[j].id })
	return list
}

// Snapshot returns a deep copy of the main chain and every non-empty branch.
func (s *Store) Snapshot() (model.ChainView, error) {
	view := model.ChainView{Branches: make(map[string][]model.Block)}
	main, err := s.main.copyBlocks()
	if err != nil {
		return view, err
	}
	view.MainChain = main
	for _, c := range s.branchList() {
		blocks, err := c.copyBlocks()
		if err != nil {
			return view, err
		}
		if len(blocks) > 0 {
			view.Branches[string(c.id)] = blocks
		}
	}
	return view, nil
}

// Chain returns a copy of one chain, nil if it does not exist.
func (s *Store) Chain(id model.ChainID) ([]model.Block, error) {
	c := s.lookup(id, false)
	if c == nil {
		return nil, nil
	}
	return c.copyBlocks()
}

// Heights maps every non-empty chain to its number of blocks.
func (s *Store) Heights() map[model.ChainID]int {
	heights := make(map[model.ChainID]int)
	for _, c := range append([]*chain{s.main}, s.branchList()...) {
		c.m.RLock()
		if n := len(c.blocks); n > 0 {
			heights[c.id] = n
		}
		c.m.RUnlock()
	}
	return heights
}

// readAccount runs fn over the main chain and the branch of address, both read locked.
func (s *Store) readAccount(address string, fn func(chains [][]model.Block)) {
	chains := []*chain{s.main}
	if b := s.lookup(model.BranchOf(address), false); b != nil {
		chains = append(chains, b)
	}
	views := make([][]model.Block, len(chains))
	for i, c := range chains {
		c.m.RLock()
		defer c.m.RUnlock()
		views[i] = c.blocks
	}
	fn(views)
}

// NetFlow is received minus sent over every transaction touching address.
func (s *Store) NetFlow(address string) int64 {
	var flow int64
	s.readAccount(address, func(chains [][]model.Block) {
		flow = utils.NetFlow(chains, address)
	})
	return flow
}

// TransactionCount is the number of distinct committed transactions address took part in.
func (s *Store) TransactionCount(address string) int {
	var count int
	s.readAccount(address, func(chains [][]model.Block) {
		count = utils.CountTransactions(chains, address)
	})
	return count
}

// NetFlows computes the net flow of every address over the whole ledger.
func (s *Store) NetFlows() (map[string]int64, error) {
	view, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	chains := [][]model.Block{view.MainChain}
	for _, blocks := range view.Branches {
		chains = append(chains, blocks)
	}
	flows := make(map[string]int64)
	utils.ForEachUniqueTransaction(chains, func(tx *model.Transaction) {
		flows[tx.Receiver] += int64(tx.Amount)
		flows[tx.Sender] -= int64(tx.Amount)
	})
	return flows, nil
}
