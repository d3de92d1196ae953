// Package journal persists ledger state so a node can be restarted without losing
// committed blocks, wallets or validator decisions.
package journal

import "github.com/Luismorlan/dept_ledger/model"

// Journal records every committed mutation. Implementations must make PutBlocks and
// PromoteValidator atomic.
type Journal interface {
	PutWallet(w model.WalletAccount) error
	// PutBlocks stores the blocks of one commit, possibly spanning several chains.
	PutBlocks(blocks []model.Block) error
	PutCandidacy(c model.Candidacy) error
	DeleteCandidacy(address string) error
	// PromoteValidator drops the candidacy of address and records it as a validator.
	PromoteValidator(address string) error
	DeleteValidator(address string) error
	Load() (*Snapshot, error)
	Close() error
}

// Snapshot is everything a journal holds, as loaded at startup.
type Snapshot struct {
	Wallets     []model.WalletAccount
	Chains      map[model.ChainID][]model.Block
	Candidacies []model.Candidacy
	Validators  []string
}

// IsEmpty reports whether nothing was ever journaled.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Wallets) == 0 && len(s.Chains) == 0 && len(s.Candidacies) == 0 && len(s.Validators) == 0
}

// Discard is a journal that keeps nothing, for purely in-memory nodes.
type Discard struct{}

func (Discard) PutWallet(model.WalletAccount) error { return nil }
func (Discard) PutBlocks([]model.Block) error       { return nil }
func (Discard) PutCandidacy(model.Candidacy) error  { return nil }
func (Discard) DeleteCandidacy(string) error        { return nil }
func (Discard) PromoteValidator(string) error       { return nil }
func (Discard) DeleteValidator(string) error        { return nil }
func (Discard) Close() error                        { return nil }

func (Discard) Load() (*Snapshot, error) {
	return &Snapshot{Chains: map[model.ChainID][]model.Block{}}, nil
}
