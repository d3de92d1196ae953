package processor

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Luismorlan/dept_ledger/ledger"
	"github.com/Luismorlan/dept_ledger/model"
	"github.com/Luismorlan/dept_ledger/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedValidators map[string]bool

func (v fixedValidators) IsValidator(address string) bool {
	return v[address]
}

type fixture struct {
	store   *ledger.Store
	wallets *registry.Registry
	proc    *Processor
}

func newFixture(t *testing.T, validators fixedValidators, departments ...string) *fixture {
	store := ledger.NewStore(nil)
	require.Nil(t, store.EnsureGenesis())
	wallets := registry.NewRegistry(10000, nil)
	for _, d := range departments {
		_, err := wallets.CreateWallet(d, "pw")
		require.Nil(t, err)
	}
	return &fixture{store: store, wallets: wallets, proc: NewProcessor(store, wallets, validators, true)}
}

func (f *fixture) balance(t *testing.T, address string) uint64 {
	b, err := f.wallets.Balance(address)
	require.Nil(t, err)
	return b
}

func TestSubmitMovesFunds(t *testing.T) {
	f := newFixture(t, nil, "Finance", "Health")

	receipt, err := f.proc.Submit("Finance", "Health", 2500)
	require.Nil(t, err)
	assert.Equal(t, model.MainChain, receipt.Chain)
	assert.Equal(t, int64(1), receipt.BlockIndex)
	assert.Equal(t, uint64(2500), receipt.Amount)
	require.Len(t, receipt.Blocks, 3)
	assert.Equal(t, model.MainChain, receipt.Blocks[0].Chain)
	assert.Equal(t, model.BranchOf("Finance"), receipt.Blocks[1].Chain)
	assert.Equal(t, model.BranchOf("Health"), receipt.Blocks[2].Chain)

	assert.Equal(t, uint64(7500), f.balance(t, "Finance"))
	assert.Equal(t, uint64(12500), f.balance(t, "Health"))

	_, err = f.proc.Submit("Finance", "Health", 10000)
	assert.True(t, errors.Is(err, model.ErrInsufficientFunds))
	assert.Equal(t, uint64(7500), f.balance(t, "Finance"))
	assert.Equal(t, uint64(12500), f.balance(t, "Health"))
	assert.Equal(t, 2, f.store.Heights()[model.MainChain])
}

func TestSubmitRejectsBadInput(t *testing.T) {
	f := newFixture(t, nil, "Finance", "Health")

	_, err := f.proc.Submit("Finance", "Finance", 10)
	assert.True(t, errors.Is(err, model.ErrSelfTransfer))
	_, err = f.proc.Submit("Finance", "Health", 0)
	assert.True(t, errors.Is(err, model.ErrInvalidAmount))
	_, err = f.proc.Submit("Nobody", "Health", 10)
	assert.True(t, errors.Is(err, model.ErrUnknownAddress))
	_, err = f.proc.Submit("Finance", "Nobody", 10)
	assert.True(t, errors.Is(err, model.ErrUnknownAddress))

	view, err := f.store.Snapshot()
	require.Nil(t, err)
	assert.Len(t, view.MainChain, 1)
	assert.Empty(t, view.Branches)
}

func TestBalanceMatchesLedger(t *testing.T) {
	f := newFixture(t, nil, "Finance", "Health", "Transport")
	_, err := f.proc.Submit("Finance", "Health", 2500)
	require.Nil(t, err)
	_, err = f.proc.Submit("Health", "Transport", 700)
	require.Nil(t, err)
	_, err = f.proc.Submit("Transport", "Finance", 300)
	require.Nil(t, err)

	for _, d := range []string{"Finance", "Health", "Transport"} {
		assert.Equal(t, uint64(int64(10000)+f.store.NetFlow(d)), f.balance(t, d), d)
	}
}

func TestConcurrentSubmitsNeverOverdraw(t *testing.T) {
	departments := []string{"Finance", "Health", "Transport", "Energy", "Education"}
	f := newFixture(t, nil, departments...)

	var wg sync.WaitGroup
	var m sync.Mutex
	committed := 0
	for i := 0; i < 40; i++ {
		for j, sender := range departments {
			wg.Add(1)
			go func(sender, receiver string) {
				defer wg.Done()
				_, err := f.proc.Submit(sender, receiver, 900)
				if err == nil {
					m.Lock()
					committed++
					m.Unlock()
					return
				}
				assert.True(t, errors.Is(err, model.ErrInsufficientFunds), fmt.Sprint(err))
			}(sender, departments[(j+1+i%3)%len(departments)])
		}
	}
	wg.Wait()

	assert.Empty(t, f.store.VerifyAll())
	assert.Equal(t, committed+1, f.store.Heights()[model.MainChain])
	var total uint64
	for _, d := range departments {
		b := f.balance(t, d)
		assert.Equal(t, uint64(int64(10000)+f.store.NetFlow(d)), b)
		total += b
	}
	assert.Equal(t, uint64(10000*len(departments)), total)
}

func TestSubmitBranchRequiresValidator(t *testing.T) {
	f := newFixture(t, fixedValidators{"CentralGov": true}, "CentralGov", "Finance", "Vendor")

	_, err := f.proc.SubmitBranch("Finance", "Vendor", 100)
	assert.True(t, errors.Is(err, model.ErrNotValidator))
	assert.Equal(t, uint64(10000), f.balance(t, "Finance"))

	receipt, err := f.proc.SubmitBranch("CentralGov", "Vendor", 100)
	require.Nil(t, err)
	assert.Equal(t, model.BranchOf("CentralGov"), receipt.Chain)
	assert.Equal(t, int64(1), receipt.BlockIndex)
	require.Len(t, receipt.Blocks, 2)

	assert.Equal(t, uint64(9900), f.balance(t, "CentralGov"))
	assert.Equal(t, uint64(10100), f.balance(t, "Vendor"))
	// Branch transfers stay off the main chain.
	assert.Equal(t, 1, f.store.Heights()[model.MainChain])

	_, err = f.proc.SubmitBranch("CentralGov", "Vendor", 20000)
	assert.True(t, errors.Is(err, model.ErrInsufficientFunds))
}

func TestSubmitBranchWithoutValidatorRule(t *testing.T) {
	f := newFixture(t, nil, "Finance", "Vendor")
	f.proc = NewProcessor(f.store, f.wallets, fixedValidators{}, false)
	_, err := f.proc.SubmitBranch("Finance", "Vendor", 100)
	assert.Nil(t, err)
}
