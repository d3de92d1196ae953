package ledger

import (
	"fmt"
	"log"

	"github.com/Luismorlan/dept_ledger/model"
)

// Verify walks one stored chain. A failing chain is halted.
func (s *Store) Verify(id model.ChainID) error {
	c := s.lookup(id, false)
	if c == nil {
		return model.Errorf(model.KindUnknownAddress, "no chain %s", id)
	}
	c.m.RLock()
	err := VerifyChain(c.blocks)
	c.m.RUnlock()
	if err == nil {
		return nil
	}
	c.m.Lock()
	c.halted = err
	c.m.Unlock()
	log.Printf("chain %s halted: %v", id, err)
	return model.Errorf(model.KindChainIntegrityViolation, "chain %s: %v", id, err)
}

// VerifyAll verifies every chain and returns the violations found.
func (s *Store) VerifyAll() map[model.ChainID]error {
	violations := make(map[model.ChainID]error)
	for _, c := range append([]*chain{s.main}, s.branchList()...) {
		if err := s.Verify(c.id); err != nil {
			violations[c.id] = err
		}
	}
	return violations
}

// Halted reports why a chain refuses writes, nil if it does not.
func (s *Store) Halted(id model.ChainID) error {
	c := s.lookup(id, false)
	if c == nil {
		return nil
	}
	c.m.RLock()
	defer c.m.RUnlock()
	return c.halted
}

// Resume lifts the halt of a chain once it verifies again.
func (s *Store) Resume(id model.ChainID) error {
	c := s.lookup(id, false)
	if c == nil {
		return model.Errorf(model.KindUnknownAddress, "no chain %s", id)
	}
	c.m.Lock()
	defer c.m.Unlock()
	if err := VerifyChain(c.blocks); err != nil {
		return fmt.Errorf("chain %s still fails verification: %w", id, err)
	}
	c.halted = nil
	log.Printf("chain %s resumed", id)
	return nil
}
