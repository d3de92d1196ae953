// Package processor admits transactions into the ledger.
package processor

import (
	"log"
	"sort"
	"time"

	"github.com/Luismorlan/dept_ledger/ledger"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/registry"
	"github.com/Luismorlan/dept_ledger/utils"
)

// ValidatorSet tells whether a department currently validates.
type ValidatorSet interface {
	IsValidator(address string) bool
}

// Processor validates transfers and commits them together with the balance update they imply.
type Processor struct {
	store   *ledger.Store
	wallets *registry.Registry
	// Consulted for branch transfers when requireValidator is set.
	validators       ValidatorSet
	requireValidator bool
	clock            func() time.Time
}

func NewProcessor(store *ledger.Store, wallets *registry.Registry, validators ValidatorSet, requireValidator bool) *Processor {
	return &Processor{
		store:            store,
		wallets:          wallets,
		validators:       validators,
		requireValidator: requireValidator,
		clock:            time.Now,
	}
}

func (p *Processor) SetClock(clock func() time.Time) {
	p.clock = clock
}

func (p *Processor) precheck(sender, receiver string, amount uint64) error {
	if sender == receiver {
		return model.Errorf(model.KindSelfTransfer, "%s cannot transfer to itself", sender)
	}
	if amount == 0 {
		return model.Errorf(model.KindInvalidAmount, "amount must be a positive integer")
	}
	for _, address := range []string{sender, receiver} {
		if !p.wallets.Exists(address) {
			return model.Errorf(model.KindUnknownAddress, "unknown address %s", address)
		}
	}
	return nil
}

// fundsGuard fails when sender cannot cover amount. It runs with the sender's branch locked,
// which is the only place the sender's balance can decrease.
func (p *Processor) fundsGuard(sender string, amount uint64) error {
	balance, err := p.wallets.Balance(sender)
	if err != nil {
		return err
	}
	if balance < amount {
		return model.Errorf(model.KindInsufficientFunds, "%s has %d, needs %d", sender, balance, amount)
	}
	return nil
}

func (p *Processor) commit(tx model.Transaction, primary model.ChainID, chains []model.ChainID, guard func() error) (model.Receipt, error) {
	written, err := p.store.Append(ledger.Commit{
		Chains:       chains,
		Transactions: []model.Transaction{tx},
		Guard:        guard,
		Apply: func() {
			// Cannot fail: the guard checked the balance under the same locks.
			if err := p.wallets.Transfer(tx.Sender, tx.Receiver, tx.Amount); err != nil {
				log.Printf("balance update for transaction %s failed: %v", tx.ID, err)
			}
		},
	})
	if err != nil {
		return model.Receipt{}, err
	}
	log.Printf("transaction %s committed: %s -> %s %d", tx.ID, tx.Sender, tx.Receiver, tx.Amount)
	return newReceipt(tx, primary, written), nil
}

// Submit transfers amount between two departments. The transaction is written to the main
// chain and to the branches of both parties, or nowhere.
func (p *Processor) Submit(sender, receiver string, amount uint64) (model.Receipt, error) {
	if err := p.precheck(sender, receiver, amount); err != nil {
		return model.Receipt{}, err
	}
	tx := utils.NewTransaction(sender, receiver, amount, p.clock())
	chains := []model.ChainID{model.MainChain, model.BranchOf(sender), model.BranchOf(receiver)}
	return p.commit(tx, model.MainChain, chains, func() error {
		return p.fundsGuard(sender, amount)
	})
}

// SubmitBranch pays a vendor out of a department's branch. It is recorded on the branches of
// the owner and the vendor only.
func (p *Processor) SubmitBranch(branch, vendor string, amount uint64) (model.Receipt, error) {
	if err := p.precheck(branch, vendor, amount); err != nil {
		return model.Receipt{}, err
	}
	tx := utils.NewTransaction(branch, vendor, amount, p.clock())
	chains := []model.ChainID{model.BranchOf(branch), model.BranchOf(vendor)}
	return p.commit(tx, model.BranchOf(branch), chains, func() error {
		if p.requireValidator && !p.validators.IsValidator(branch) {
			return model.Errorf(model.KindNotValidator, "%s must be a validator to pay from its branch", branch)
		}
		return p.fundsGuard(branch, amount)
	})
}

func newReceipt(tx model.Transaction, primary model.ChainID, written map[model.ChainID]model.Block) model.Receipt {
	head := written[primary]
	receipt := model.Receipt{
		TransactionID: tx.ID,
		BlockIndex:    head.Index,
		Hash:          head.Hash,
		Chain:         primary,
		Amount:        tx.Amount,
	}
	for id, block := range written {
		receipt.Blocks = append(receipt.Blocks, model.BlockRef{Chain: id, Index: block.Index, Hash: block.Hash})
	}
	sort.Slice(receipt.Blocks, func(i, j int) bool {
		a, b := receipt.Blocks[i].Chain, receipt.Blocks[j].Chain
		if a.IsMain() != b.IsMain() {
			return a.IsMain()
		}
		return a < b
	})
	return receipt
}
