// Package registry owns department wallets: their credentials and their balance of record.
package registry

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Luismorlan/dept_ledger/journal"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/utils"
)

type account struct {
	wallet  model.WalletAccount
	balance uint64
}

// Registry creates and authenticates wallets and tracks their balances. Balances only move
// through Transfer, which the ledger calls inside the critical section of a commit.
type Registry struct {
	// Balance credited to new wallets.
	startingBalance uint64
	journal         journal.Journal
	clock           func() time.Time
	// Used to spend the same work on unknown addresses as on known ones.
	dummy model.Credential

	m        sync.RWMutex
	accounts map[string]*account
}

func NewRegistry(startingBalance uint64, j journal.Journal) *Registry {
	if j == nil {
		j = journal.Discard{}
	}
	dummy, err := utils.HashCredential("unknown-address")
	if err != nil {
		log.Println("failed to prepare dummy credential:", err)
	}
	return &Registry{
		startingBalance: startingBalance,
		journal:         j,
		clock:           time.Now,
		dummy:           dummy,
		accounts:        make(map[string]*account),
	}
}

// SetClock replaces the time source used to stamp new wallets and compute ages.
func (r *Registry) SetClock(clock func() time.Time) {
	r.clock = clock
}

// Address derives the wallet address of a department name.
func Address(name string) (string, error) {
	address := strings.TrimSpace(name)
	switch {
	case address == "":
		return "", model.Errorf(model.KindInvalidInput, "department name must not be empty")
	case strings.ContainsAny(address, "/ \t\n"):
		return "", model.Errorf(model.KindInvalidInput, "department name %q must not contain slashes or spaces", name)
	case model.ChainID(address).IsMain():
		return "", model.Errorf(model.KindInvalidInput, "department name %q is reserved", name)
	}
	return address, nil
}

func (r *Registry) CreateWallet(name, credential string) (model.WalletAccount, error) {
	return r.create(name, credential, r.startingBalance)
}

// SeedAccount creates a wallet with a custom opening balance unless it already exists.
func (r *Registry) SeedAccount(name, credential string, balance uint64) (model.WalletAccount, error) {
	w, err := r.create(name, credential, balance)
	if model.KindOf(err) == model.KindDuplicateWalletName {
		return r.Lookup(name)
	}
	return w, err
}

func (r *Registry) create(name, credential string, opening uint64) (model.WalletAccount, error) {
	address, err := Address(name)
	if err != nil {
		return model.WalletAccount{}, err
	}
	if credential == "" {
		return model.WalletAccount{}, model.Errorf(model.KindInvalidInput, "password must not be empty")
	}
	// Hash outside the lock, argon2 is slow on purpose.
	c, err := utils.HashCredential(credential)
	if err != nil {
		return model.WalletAccount{}, fmt.Errorf("hash credential: %w", err)
	}

	r.m.Lock()
	defer r.m.Unlock()
	if _, exist := r.accounts[address]; exist {
		return model.WalletAccount{}, model.Errorf(model.KindDuplicateWalletName, "a wallet named %s already exists", address)
	}
	w := model.WalletAccount{
		Address:        address,
		DisplayName:    strings.TrimSpace(name),
		Credential:     c,
		OpeningBalance: opening,
		CreatedAt:      r.clock().UTC(),
		Active:         true,
	}
	if err := r.journal.PutWallet(w); err != nil {
		return model.WalletAccount{}, fmt.Errorf("journal wallet %s: %w", address, err)
	}
	r.accounts[address] = &account{wallet: w, balance: opening}
	log.Printf("wallet %s created with opening balance %d", address, opening)
	return w, nil
}

// Authenticate checks a credential. Unknown addresses and wrong credentials are the same
// failure and cost the same work.
func (r *Registry) Authenticate(address, credential string) (model.WalletAccount, error) {
	r.m.RLock()
	a, ok := r.accounts[address]
	var w model.WalletAccount
	if ok {
		w = a.wallet
	}
	r.m.RUnlock()

	stored := r.dummy
	if ok {
		stored = w.Credential
	}
	valid := utils.VerifyCredential(stored, credential)
	if !ok || !valid || !w.Active {
		return model.WalletAccount{}, model.Errorf(model.KindInvalidCredential, "invalid address or password")
	}
	return w, nil
}

func (r *Registry) Lookup(address string) (model.WalletAccount, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	a, ok := r.accounts[address]
	if !ok {
		return model.WalletAccount{}, model.Errorf(model.KindUnknownAddress, "unknown address %s", address)
	}
	return a.wallet, nil
}

func (r *Registry) Exists(address string) bool {
	r.m.RLock()
	defer r.m.RUnlock()
	a, ok := r.accounts[address]
	return ok && a.wallet.Active
}

func (r *Registry) Balance(address string) (uint64, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	a, ok := r.accounts[address]
	if !ok {
		return 0, model.Errorf(model.KindUnknownAddress, "unknown address %s", address)
	}
	return a.balance, nil
}

// Age is how long ago the wallet was registered.
func (r *Registry) Age(address string) (time.Duration, error) {
	w, err := r.Lookup(address)
	if err != nil {
		return 0, err
	}
	return r.clock().Sub(w.CreatedAt), nil
}

// Transfer moves amount between two balances. It is the balance half of a ledger commit and
// must only run inside the commit's critical section.
func (r *Registry) Transfer(sender, receiver string, amount uint64) error {
	r.m.Lock()
	defer r.m.Unlock()
	from, ok := r.accounts[sender]
	if !ok {
		return model.Errorf(model.KindUnknownAddress, "unknown address %s", sender)
	}
	to, ok := r.accounts[receiver]
	if !ok {
		return model.Errorf(model.KindUnknownAddress, "unknown address %s", receiver)
	}
	if from.balance < amount {
		return model.Errorf(model.KindInsufficientFunds, "%s has %d, needs %d", sender, from.balance, amount)
	}
	from.balance -= amount
	to.balance += amount
	return nil
}

// Deactivate stops a wallet from authenticating or taking part in new transactions.
func (r *Registry) Deactivate(address string) error {
	r.m.Lock()
	defer r.m.Unlock()
	a, ok := r.accounts[address]
	if !ok {
		return model.Errorf(model.KindUnknownAddress, "unknown address %s", address)
	}
	w := a.wallet
	w.Active = false
	if err := r.journal.PutWallet(w); err != nil {
		return fmt.Errorf("journal wallet %s: %w", address, err)
	}
	a.wallet = w
	return nil
}

// List returns every wallet with its balance, ordered by address.
func (r *Registry) List() []Entry {
	r.m.RLock()
	defer r.m.RUnlock()
	entries := make([]Entry, 0, len(r.accounts))
	for _, a := range r.accounts {
		entries = append(entries, Entry{Wallet: a.wallet, Balance: a.balance})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Wallet.Address < entries[j].Wallet.Address
	})
	return entries
}

type Entry struct {
	Wallet  model.WalletAccount
	Balance uint64
}

// Restore loads journaled wallets. balanceOf yields each wallet's current balance.
func (r *Registry) Restore(wallets []model.WalletAccount, balanceOf func(w model.WalletAccount) (uint64, error)) error {
	r.m.Lock()
	defer r.m.Unlock()
	for _, w := range wallets {
		balance, err := balanceOf(w)
		if err != nil {
			return fmt.Errorf("restore %s: %w", w.Address, err)
		}
		r.accounts[w.Address] = &account{wallet: w, balance: balance}
	}
	return nil
}
