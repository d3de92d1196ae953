package full_node

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Luismorlan/dept_ledger/config"
	"github.com/Luismorlan/dept_ledger/consensus"
	"github.com/Luismorlan/dept_ledger/journal"
	"github.com/Luismorlan/dept_ledger/ledger"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/processor"
	"github.com/Luismorlan/dept_ledger/registry"
	"github.com/Luismorlan/dept_ledger/utils"
	uuid "github.com/satori/go.uuid"
)

// A full node owns the ledger, the wallets and the validator set of the departments.
type FullNode struct {
	config  config.AppConfig
	journal journal.Journal

	store     *ledger.Store
	wallets   *registry.Registry
	processor *processor.Processor
	consensus *consensus.Consensus

	// A unique identifier of this node, only used to name rendered files.
	uuid string
}

// Account is a wallet together with what it currently holds.
type Account struct {
	Wallet      model.WalletAccount
	Balance     uint64
	IsValidator bool
}

// ChainHealth is the verification status of one chain.
type ChainHealth struct {
	Height int
	Err    error
}

// eligibility reads validator stats from the registry and the ledger.
type eligibility struct {
	*registry.Registry
	store *ledger.Store
}

func (e eligibility) TransactionCount(address string) int {
	return e.store.TransactionCount(address)
}

// Create a full node on top of a journal, replaying whatever it holds. A fresh journal gets the
// genesis account and the genesis validators.
func NewFullNode(c config.AppConfig, j journal.Journal) (*FullNode, error) {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if j == nil {
		j = journal.Discard{}
	}
	f := &FullNode{
		config:  c,
		journal: j,
		store:   ledger.NewStore(j),
		wallets: registry.NewRegistry(*c.StartingBalance, j),
		uuid:    uuid.NewV4().String(),
	}
	rules := consensus.Rules{
		MinBalance: *c.MinBalance,
		MinTxCount: *c.MinTxCount,
		MinAge:     c.MinAge(),
		Threshold:  *c.VoteThreshold,
	}
	f.consensus = consensus.NewConsensus(rules, eligibility{Registry: f.wallets, store: f.store}, j)
	f.processor = processor.NewProcessor(f.store, f.wallets, f.consensus, c.BranchNeedsValidator())

	snapshot, err := j.Load()
	if err != nil {
		return nil, err
	}
	if err := f.restore(snapshot); err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		if err := f.seed(); err != nil {
			return nil, err
		}
	}
	log.Printf("full node %s ready: %d wallets, %d validators", f.uuid, len(f.wallets.List()), len(f.consensus.ListActive()))
	return f, nil
}

func (f *FullNode) restore(snapshot *journal.Snapshot) error {
	for id, err := range f.store.Restore(snapshot.Chains) {
		log.Printf("chain %s needs operator attention: %v", id, err)
	}
	err := f.wallets.Restore(snapshot.Wallets, func(w model.WalletAccount) (uint64, error) {
		balance, ok := utils.ApplyNetFlow(w.OpeningBalance, f.store.NetFlow(w.Address))
		if !ok {
			return 0, model.Errorf(model.KindChainIntegrityViolation, "ledger drives %s below zero", w.Address)
		}
		return balance, nil
	})
	if err != nil {
		return err
	}
	f.consensus.Restore(snapshot.Candidacies, snapshot.Validators)
	return f.store.EnsureGenesis()
}

func (f *FullNode) seed() error {
	if _, err := f.wallets.SeedAccount(f.config.GenesisAccount, f.config.GenesisPassword, *f.config.GenesisBalance); err != nil {
		return fmt.Errorf("seed genesis account: %w", err)
	}
	return f.consensus.Seed(f.config.GenesisValidators)
}

// SetClock replaces the time source of every component.
func (f *FullNode) SetClock(clock func() time.Time) {
	f.store.SetClock(clock)
	f.wallets.SetClock(clock)
	f.processor.SetClock(clock)
	f.consensus.SetClock(clock)
}

func (f *FullNode) ID() string {
	return f.uuid
}

func (f *FullNode) Config() config.AppConfig {
	return f.config
}

func (f *FullNode) Close() error {
	return f.journal.Close()
}

func (f *FullNode) account(w model.WalletAccount) (Account, error) {
	balance, err := f.wallets.Balance(w.Address)
	if err != nil {
		return Account{}, err
	}
	return Account{Wallet: w, Balance: balance, IsValidator: f.consensus.IsValidator(w.Address)}, nil
}

func (f *FullNode) CreateWallet(name, password string) (Account, error) {
	w, err := f.wallets.CreateWallet(name, password)
	if err != nil {
		return Account{}, err
	}
	return f.account(w)
}

// Login authenticates a department and returns its account.
func (f *FullNode) Login(address, password string) (Account, error) {
	w, err := f.wallets.Authenticate(address, password)
	if err != nil {
		return Account{}, err
	}
	return f.account(w)
}

func (f *FullNode) Transfer(sender, receiver string, amount uint64) (model.Receipt, error) {
	return f.processor.Submit(sender, receiver, amount)
}

func (f *FullNode) BranchTransfer(branch, vendor string, amount uint64) (model.Receipt, error) {
	return f.processor.SubmitBranch(branch, vendor, amount)
}

func (f *FullNode) RequestValidator(address string) (model.CandidacyStatus, error) {
	return f.consensus.RequestCandidacy(address)
}

func (f *FullNode) Vote(voter, candidate string) (model.CandidacyStatus, error) {
	return f.consensus.Vote(voter, candidate)
}

// Resign drops address from the validator set. The operator console passes no credential.
func (f *FullNode) Resign(address string) error {
	return f.consensus.Resign(address)
}

// Validators returns the active validators and the voters of every pending candidate.
func (f *FullNode) Validators() ([]string, map[string][]string) {
	return f.consensus.ListActive(), f.consensus.ListPending()
}

func (f *FullNode) Chains() (model.ChainView, error) {
	return f.store.Snapshot()
}

func (f *FullNode) Heights() map[model.ChainID]int {
	return f.store.Heights()
}

// Verify checks every chain and reports each one's height and verification error.
func (f *FullNode) Verify() map[model.ChainID]ChainHealth {
	violations := f.store.VerifyAll()
	health := make(map[model.ChainID]ChainHealth)
	for id, height := range f.store.Heights() {
		err := violations[id]
		if err == nil {
			// Verifies again but stays halted until resumed.
			err = f.store.Halted(id)
		}
		health[id] = ChainHealth{Height: height, Err: err}
	}
	return health
}

func (f *FullNode) Resume(chain model.ChainID) error {
	return f.store.Resume(chain)
}

// Accounts lists every wallet with its balance and validator flag.
func (f *FullNode) Accounts() []Account {
	entries := f.wallets.List()
	accounts := make([]Account, 0, len(entries))
	for _, e := range entries {
		accounts = append(accounts, Account{Wallet: e.Wallet, Balance: e.Balance, IsValidator: f.consensus.IsValidator(e.Wallet.Address)})
	}
	return accounts
}

// Deactivate stops a department from logging in or taking part in transfers. A validator
// also leaves the validator set and a pending candidacy is withdrawn.
func (f *FullNode) Deactivate(address string) error {
	if err := f.wallets.Deactivate(address); err != nil {
		return err
	}
	if err := f.consensus.Withdraw(address); err != nil && !errors.Is(err, model.ErrUnknownCandidate) {
		return err
	}
	if err := f.consensus.Resign(address); err != nil && !errors.Is(err, model.ErrNotValidator) {
		return err
	}
	return nil
}

// Audit recomputes every balance from the ledger and reports the wallets whose balance of
// record differs. Only meaningful while no transfer is in flight.
func (f *FullNode) Audit() (map[string]error, error) {
	flows, err := f.store.NetFlows()
	if err != nil {
		return nil, err
	}
	problems := make(map[string]error)
	for _, e := range f.wallets.List() {
		expected, ok := utils.ApplyNetFlow(e.Wallet.OpeningBalance, flows[e.Wallet.Address])
		switch {
		case !ok:
			problems[e.Wallet.Address] = fmt.Errorf("ledger drives %s below zero", e.Wallet.Address)
		case expected != e.Balance:
			problems[e.Wallet.Address] = fmt.Errorf("%s holds %d, ledger says %d", e.Wallet.Address, e.Balance, expected)
		}
	}
	return problems, nil
}
