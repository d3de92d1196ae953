package ledger

import (
	"fmt"
	"sync"

	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/utils"
	"github.com/jinzhu/copier"
)

type chain struct {
	id model.ChainID
	// Writers hold the lock for a whole commit, readers only to copy blocks out.
	m      sync.RWMutex
	blocks []model.Block
	// Non-nil once verification failed.
	halted error
}

func newChain(id model.ChainID) *chain {
	return &chain{id: id, blocks: make([]model.Block, 0)}
}

// head returns the last block, nil for a chain that has no genesis yet. Caller holds the lock.
func (c *chain) head() *model.Block {
	if len(c.blocks) == 0 {
		return nil
	}
	return &c.blocks[len(c.blocks)-1]
}

// checkWritable refuses halted chains and re-verifies the head link. Caller holds the write lock.
func (c *chain) checkWritable() error {
	if c.halted != nil {
		return model.Errorf(model.KindChainIntegrityViolation, "chain %s is halted: %v", c.id, c.halted)
	}
	n := len(c.blocks)
	var err error
	switch {
	case n == 1:
		err = utils.ValidateGenesis(&c.blocks[0])
	case n > 1:
		err = utils.ValidateBlock(&c.blocks[n-1], &c.blocks[n-2])
	}
	if err != nil {
		c.halted = err
		return model.Errorf(model.KindChainIntegrityViolation, "chain %s head failed verification: %v", c.id, err)
	}
	return nil
}

// copyBlocks returns a deep copy that callers may keep without holding any lock.
func (c *chain) copyBlocks() ([]model.Block, error) {
	c.m.RLock()
	defer c.m.RUnlock()
	blocks := make([]model.Block, 0, len(c.blocks))
	if err := copier.CopyWithOption(&blocks, &c.blocks, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy chain %s: %w", c.id, err)
	}
	return blocks, nil
}

// VerifyChain recomputes every hash of blocks and checks index and previous hash linkage.
// An empty chain is valid.
func VerifyChain(blocks []model.Block) error {
	if len(blocks) == 0 {
		return nil
	}
	if err := utils.ValidateGenesis(&blocks[0]); err != nil {
		return err
	}
	for i := 1; i < len(blocks); i++ {
		if err := utils.ValidateBlock(&blocks[i], &blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}
	return nil
}
